package qlab

import (
	"math"

	"github.com/theapemachine/errnie"
)

const (
	// PerGateNoiseFactor scales the circuit noise probability per applied gate.
	PerGateNoiseFactor = 0.25
	// MaxNoiseProbability caps the combined temperature and slider noise.
	MaxNoiseProbability = 0.95
	// ExtraNoiseWeight is the share of the user noise slider added to the
	// temperature infidelity.
	ExtraNoiseWeight = 0.5
)

/*
DiscreteDepolarizingNoise is the per-gate blend used by the circuit simulator.
It acts on amplitudes: every amplitude decays by d = sqrt(1 − P) and the real
part of the |0...0⟩ amplitude is pulled toward 0.5, after which the vector is
renormalized.
*/
type DiscreteDepolarizingNoise struct {
	P float64
}

/*
NoiseProbability combines the temperature infidelity with the extra noise
slider into the circuit noise probability, capped at MaxNoiseProbability.
*/
func NoiseProbability(temperature, extra float64) float64 {
	return NoiseProbabilityWithCap(temperature, extra, MaxNoiseProbability)
}

// NoiseProbabilityWithCap is NoiseProbability with a configurable cap.
func NoiseProbabilityWithCap(temperature, extra, limit float64) float64 {
	if math.IsNaN(extra) || extra < 0 {
		extra = 0
	}

	p := (1 - TemperatureFidelity(temperature)) + extra*ExtraNoiseWeight
	return math.Max(0, math.Min(limit, p))
}

// PerGate derives the per-gate noise from a circuit noise probability.
func PerGate(noiseP float64) DiscreteDepolarizingNoise {
	return DiscreteDepolarizingNoise{P: noiseP * PerGateNoiseFactor}
}

// Apply returns the noisy successor of state. P ≤ 0 is a plain copy.
func (noise DiscreteDepolarizingNoise) Apply(state *StateVector) *StateVector {
	if state == nil {
		return nil
	}

	if !(noise.P > 0) {
		return state.Clone()
	}

	if noise.P >= 1 {
		errnie.Info("DiscreteDepolarizingNoise - probability %v saturates the blend", noise.P)
	}

	d := math.Sqrt(math.Max(0, 1-noise.P))

	out := state.Clone()
	for i, amplitude := range state.Vector {
		re := d * real(amplitude)
		if i == 0 {
			re += (1 - d) * 0.5
		}
		out.Vector[i] = complex(re, d*imag(amplitude))
	}

	return out.Normalized()
}
