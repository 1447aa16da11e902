package qlab

import (
	"fmt"
	"math"
)

// BoundTolerance is how far past the unit sphere a Bloch vector may drift
// before it is pulled back onto the surface.
const BoundTolerance = 1e-10

/*
Rates holds the characteristic decay rates of each channel, per second.
*/
type Rates struct {
	AmplitudeDamping float64
	PhaseDamping     float64
	Depolarizing     float64
}

// DefaultRates correspond to T1 ≈ 1 µs, T2 ≈ 0.5 µs and a 0.67 µs depolarizing time.
var DefaultRates = Rates{
	AmplitudeDamping: 1e6,
	PhaseDamping:     2e6,
	Depolarizing:     1.5e6,
}

/*
Intensities are the user controls of the three channels, each in [0, 1].
*/
type Intensities struct {
	Amplitude    float64
	Phase        float64
	Depolarizing float64
}

// Clamped limits every intensity to [0, 1]; NaN becomes 0.
func (in Intensities) Clamped() Intensities {
	return Intensities{
		Amplitude:    clampIntensity(in.Amplitude),
		Phase:        clampIntensity(in.Phase),
		Depolarizing: clampIntensity(in.Depolarizing),
	}
}

// Validate reports intensities outside [0, 1] or not finite.
func (in Intensities) Validate() error {
	for name, v := range map[string]float64{
		"amplitude":    in.Amplitude,
		"phase":        in.Phase,
		"depolarizing": in.Depolarizing,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s intensity %v", ErrInvalidInput, name, v)
		}
	}
	return nil
}

func clampIntensity(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}

/*
ContinuousPhysicalNoise evolves a Bloch vector over elapsed real time through
amplitude damping, phase damping and depolarizing noise. Each channel decays
its components by exp(−rate·intensity·Δt).

It is independent of DiscreteDepolarizingNoise: this model works on Bloch
vectors and time, the other on amplitudes and gate count.
*/
type ContinuousPhysicalNoise struct {
	Rates Rates
}

// NewContinuousPhysicalNoise uses DefaultRates.
func NewContinuousPhysicalNoise() ContinuousPhysicalNoise {
	return ContinuousPhysicalNoise{Rates: DefaultRates}
}

func decayFactor(rate, intensity, dt float64) (float64, bool) {
	if !(intensity > 0) || !(dt > 0) {
		return 1, false
	}
	return math.Exp(-rate * intensity * dt), true
}

// AmplitudeDamping shrinks x and y and relaxes z toward +1, the ground state.
func (noise ContinuousPhysicalNoise) AmplitudeDamping(v BlochVector, dt, intensity float64) BlochVector {
	decay, ok := decayFactor(noise.Rates.AmplitudeDamping, intensity, dt)
	if !ok || !v.Finite() {
		return v
	}

	return BlochVector{
		X: v.X * decay,
		Y: v.Y * decay,
		Z: v.Z*decay + (1 - decay),
	}
}

// PhaseDamping shrinks x and y and leaves z untouched.
func (noise ContinuousPhysicalNoise) PhaseDamping(v BlochVector, dt, intensity float64) BlochVector {
	decay, ok := decayFactor(noise.Rates.PhaseDamping, intensity, dt)
	if !ok || !v.Finite() {
		return v
	}

	return BlochVector{X: v.X * decay, Y: v.Y * decay, Z: v.Z}
}

// Depolarizing shrinks the whole vector toward the origin.
func (noise ContinuousPhysicalNoise) Depolarizing(v BlochVector, dt, intensity float64) BlochVector {
	decay, ok := decayFactor(noise.Rates.Depolarizing, intensity, dt)
	if !ok || !v.Finite() {
		return v
	}

	return v.Scale(decay)
}

/*
Update applies the active channels in the fixed order amplitude, phase,
depolarizing and bounds the result to the unit sphere. Δt ≤ 0 and non-finite
vectors come back unchanged.
*/
func (noise ContinuousPhysicalNoise) Update(v BlochVector, dt float64, in Intensities) BlochVector {
	if !(dt > 0) || !v.Finite() {
		return v
	}

	noisy := v
	noisy = noise.AmplitudeDamping(noisy, dt, in.Amplitude)
	noisy = noise.PhaseDamping(noisy, dt, in.Phase)
	noisy = noise.Depolarizing(noisy, dt, in.Depolarizing)

	return BoundBloch(noisy)
}

// BoundBloch projects vectors longer than 1 (beyond BoundTolerance) onto the sphere.
func BoundBloch(v BlochVector) BlochVector {
	r := v.Magnitude()
	if r <= 1+BoundTolerance || math.IsNaN(r) {
		return v
	}
	return v.Scale(1 / r)
}
