package qlab

import (
	"errors"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitRun(t *testing.T) {
	Convey("Given a circuit", t, func() {
		bell := Circuit{MustGate(GateH, 0), MustGate(GateCNOT, 0, 1)}

		Convey("Run yields one snapshot per gate plus the initial state", func() {
			snapshots, err := bell.Run(2, DiscreteDepolarizingNoise{})
			So(err, ShouldBeNil)
			So(snapshots, ShouldHaveLength, len(bell)+1)
			So(snapshots[0].ApproxEqual(mustState(1, 0, 0, 0), 0), ShouldBeTrue)
		})

		Convey("Without noise the snapshots are the ideal states", func() {
			snapshots, err := bell.Run(2, DiscreteDepolarizingNoise{})
			So(err, ShouldBeNil)
			So(snapshots[2].ApproxEqual(mustApply(mustState(1, 0, 0, 0), bell...), tolerance), ShouldBeTrue)
		})

		Convey("An empty circuit is just the initial state", func() {
			snapshots, err := Circuit{}.Run(2, PerGate(0.5))
			So(err, ShouldBeNil)
			So(snapshots, ShouldHaveLength, 1)
		})

		Convey("A bad gate aborts the run and names the step", func() {
			broken := Circuit{MustGate(GateH, 0), {Kind: GateKind(99), Qubits: []int{0}}}
			snapshots, err := broken.Run(2, DiscreteDepolarizingNoise{})
			So(errors.Is(err, ErrUnknownGate), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "step 1")
			So(snapshots, ShouldHaveLength, 2)
			So(broken.Validate(), ShouldNotBeNil)
		})

		Convey("Two-qubit gates need two qubits", func() {
			_, err := bell.Run(1, DiscreteDepolarizingNoise{})
			So(errors.Is(err, ErrQubitCount), ShouldBeTrue)
		})

		Convey("Every snapshot stays normalized under noise", func() {
			snapshots, err := append(bell, MustGate(GateT, 1), MustGate(GateSWAP, 0, 1)).Run(2, PerGate(0.8))
			So(err, ShouldBeNil)
			for _, snapshot := range snapshots {
				So(snapshot.Norm(), ShouldAlmostEqual, 1, tolerance)
			}
		})
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given a Bell circuit at 15 mK", t, func() {
		circuit, ok := PresetByLabel("Bell |Φ⁺⟩")
		So(ok, ShouldBeTrue)

		result, err := Simulate(circuit, DefaultSettings())
		So(err, ShouldBeNil)

		Convey("It reports the environment", func() {
			So(result.Fidelity, ShouldAlmostEqual, 0.97, 1e-9)
			So(result.NoiseP, ShouldAlmostEqual, 0.03, 1e-9)
			So(result.Temperature, ShouldEqual, "15 mK")
		})

		Convey("The final state is close to the ideal Bell pair", func() {
			probs := result.Final().Probabilities
			So(probs[0], ShouldAlmostEqual, 0.5, 0.01)
			So(probs[1], ShouldAlmostEqual, 0, 1e-12)
			So(probs[2], ShouldAlmostEqual, 0, 1e-12)
			So(probs[3], ShouldAlmostEqual, 0.5, 0.01)
		})

		Convey("Both qubits look maximally mixed", func() {
			final := result.Final()
			for qubit := 0; qubit < 2; qubit++ {
				So(final.Bloch[qubit].Magnitude(), ShouldBeLessThan, 0.02)
				So(final.Purity[qubit], ShouldAlmostEqual, 0.5, 0.01)
			}
		})

		Convey("Shots almost never land on 01 or 10", func() {
			counts := SampleShots(result.Final().Probabilities, 1000, rand.New(rand.NewPCG(3, 5)))
			So(counts.Total(), ShouldEqual, 1000)
			So(counts[1]+counts[2], ShouldBeLessThan, 10)
		})

		Convey("Steps carry their gate", func() {
			So(result.Steps, ShouldHaveLength, 3)
			So(result.Steps[0].Gate, ShouldBeNil)
			So(result.Steps[1].Gate.Kind, ShouldEqual, GateH)
			So(result.Steps[2].Index, ShouldEqual, 2)
		})

		Convey("At selects the step after the active gate", func() {
			So(result.At(0).Index, ShouldEqual, 1)
			So(result.At(-1).Index, ShouldEqual, 2)
			So(result.At(10).Index, ShouldEqual, 2)
		})
	})

	Convey("Given hotter settings", t, func() {
		settings := DefaultSettings()
		settings.Temperature = 300
		settings.ExtraNoise = 1

		result, err := Simulate(Circuit{MustGate(GateX, 0)}, settings)
		So(err, ShouldBeNil)

		Convey("Noise is capped and pulls toward |00⟩", func() {
			So(result.NoiseP, ShouldEqual, MaxNoiseProbability)
			So(result.Final().Probabilities[0], ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a circuit that cannot run", t, func() {
		_, err := Simulate(Circuit{{Kind: GateCNOT, Qubits: []int{0, 0}}}, DefaultSettings())
		So(errors.Is(err, ErrInvalidQubit), ShouldBeTrue)
	})
}

func TestPresets(t *testing.T) {
	Convey("Given the starter circuits", t, func() {
		expect := map[string][]float64{
			"Bell |Φ⁺⟩": {0.5, 0, 0, 0.5},
			"Bell |Ψ⁺⟩": {0, 0.5, 0.5, 0},
			"|++⟩":      {0.25, 0.25, 0.25, 0.25},
			"Teleport":  {0.25, 0.25, 0.25, 0.25},
		}

		Convey("Each reaches its ideal distribution without noise", func() {
			for _, preset := range Presets {
				snapshots, err := preset.Circuit.Run(2, DiscreteDepolarizingNoise{})
				So(err, ShouldBeNil)

				probs := snapshots[len(snapshots)-1].Probabilities()
				for i, p := range expect[preset.Label] {
					So(probs[i], ShouldAlmostEqual, p, tolerance)
				}
			}
		})

		Convey("Lookups return a copy", func() {
			circuit, ok := PresetByLabel("|++⟩")
			So(ok, ShouldBeTrue)
			circuit[0] = MustGate(GateX, 0)
			So(Presets[2].Circuit[0].Kind, ShouldEqual, GateH)

			_, ok = PresetByLabel("GHZ")
			So(ok, ShouldBeFalse)
		})
	})
}
