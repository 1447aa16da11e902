package qlab

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

// Circuit is an ordered list of gates applied to a fresh register.
type Circuit []Gate

/*
Run applies the circuit gate by gate, blending in the given per-gate noise
after each gate. It returns len(circuit)+1 snapshots: the initial |00⟩ state
followed by the state after every gate.
*/
func (circuit Circuit) Run(numQubits int, noise DiscreteDepolarizingNoise) ([]*StateVector, error) {
	state, err := NewStateVector(numQubits)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*StateVector, 0, len(circuit)+1)
	snapshots = append(snapshots, state)

	for i, gate := range circuit {
		next, err := ApplyGate(state, gate)
		if err != nil {
			return snapshots, fmt.Errorf("step %d (%v): %w", i, gate, err)
		}

		state = noise.Apply(next)
		snapshots = append(snapshots, state)
	}

	return snapshots, nil
}

// Validate checks every gate of the circuit.
func (circuit Circuit) Validate() error {
	for i, gate := range circuit {
		if err := gate.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

/*
Settings are the environment a circuit is simulated in.
*/
type Settings struct {
	NumQubits   int
	Temperature float64
	ExtraNoise  float64
	NoiseCap    float64
	GateFactor  float64
}

// DefaultSettings is a two-qubit register at 15 mK with no extra noise.
func DefaultSettings() Settings {
	return Settings{
		NumQubits:   2,
		Temperature: MinTemperature,
		NoiseCap:    MaxNoiseProbability,
		GateFactor:  PerGateNoiseFactor,
	}
}

// NoiseP is the circuit noise probability of these settings.
func (settings Settings) NoiseP() float64 {
	limit := settings.NoiseCap
	if !(limit > 0) {
		limit = MaxNoiseProbability
	}
	return NoiseProbabilityWithCap(settings.Temperature, settings.ExtraNoise, limit)
}

// GateNoise is the per-gate blend derived from NoiseP.
func (settings Settings) GateNoise() DiscreteDepolarizingNoise {
	factor := settings.GateFactor
	if !(factor > 0) {
		factor = PerGateNoiseFactor
	}
	return DiscreteDepolarizingNoise{P: settings.NoiseP() * factor}
}

/*
Step is everything the views need about one snapshot of a run.
*/
type Step struct {
	Index         int
	Gate          *Gate
	State         *StateVector
	Probabilities []float64
	Reduced       []DensityMatrix
	Bloch         []BlochVector
	Purity        []float64
}

/*
Result is a full simulation: Steps[0] is the initial state, Steps[i] the
state after gate i-1.
*/
type Result struct {
	Settings    Settings
	Fidelity    float64
	NoiseP      float64
	Steps       []Step
	Temperature string
}

// Final is the last step of the run.
func (result *Result) Final() Step {
	return result.Steps[len(result.Steps)-1]
}

/*
At returns the step shown when stepping through a circuit: active is the
index of the last applied gate, and a negative value selects the final state.
*/
func (result *Result) At(active int) Step {
	if active < 0 || active+1 >= len(result.Steps) {
		return result.Final()
	}
	return result.Steps[active+1]
}

/*
Simulate runs the circuit under the given settings and derives probabilities,
reduced states, Bloch vectors and purities for every snapshot.
*/
func Simulate(circuit Circuit, settings Settings) (*Result, error) {
	if settings.NumQubits == 0 {
		settings.NumQubits = 2
	}

	noise := settings.GateNoise()
	snapshots, err := circuit.Run(settings.NumQubits, noise)
	if err != nil {
		errnie.Info("Simulate - circuit rejected: %v", err)
		return nil, err
	}

	result := &Result{
		Settings:    settings,
		Fidelity:    TemperatureFidelity(settings.Temperature),
		NoiseP:      settings.NoiseP(),
		Steps:       make([]Step, len(snapshots)),
		Temperature: FormatTemperature(settings.Temperature),
	}

	for i, snapshot := range snapshots {
		step, err := describe(snapshot)
		if err != nil {
			return nil, err
		}

		step.Index = i
		if i > 0 {
			gate := circuit[i-1]
			step.Gate = &gate
		}

		result.Steps[i] = step
	}

	return result, nil
}

func describe(state *StateVector) (Step, error) {
	step := Step{
		State:         state,
		Probabilities: state.Probabilities(),
		Reduced:       make([]DensityMatrix, state.NumQubits),
		Bloch:         make([]BlochVector, state.NumQubits),
		Purity:        make([]float64, state.NumQubits),
	}

	for qubit := 0; qubit < state.NumQubits; qubit++ {
		dm, err := ReducedDensityMatrix(state, qubit)
		if err != nil {
			return Step{}, err
		}

		step.Reduced[qubit] = dm
		step.Bloch[qubit] = dm.Bloch()
		step.Purity[qubit] = Purity(step.Bloch[qubit])
	}

	return step, nil
}

/*
Preset is a named starter circuit.
*/
type Preset struct {
	Label   string
	Circuit Circuit
}

// Presets are the starter circuits offered next to the gate palette.
var Presets = []Preset{
	{
		Label:   "Bell |Φ⁺⟩",
		Circuit: Circuit{MustGate(GateH, 0), MustGate(GateCNOT, 0, 1)},
	},
	{
		Label:   "Bell |Ψ⁺⟩",
		Circuit: Circuit{MustGate(GateX, 1), MustGate(GateH, 0), MustGate(GateCNOT, 0, 1)},
	},
	{
		Label:   "|++⟩",
		Circuit: Circuit{MustGate(GateH, 0), MustGate(GateH, 1)},
	},
	{
		Label:   "Teleport",
		Circuit: Circuit{MustGate(GateH, 0), MustGate(GateCNOT, 0, 1), MustGate(GateH, 0)},
	},
}

// PresetByLabel looks up a preset circuit.
func PresetByLabel(label string) (Circuit, bool) {
	for _, preset := range Presets {
		if preset.Label == label {
			return append(Circuit(nil), preset.Circuit...), true
		}
	}
	return nil, false
}
