package qlab

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseGateKind(t *testing.T) {
	Convey("Given gate names from the palette", t, func() {
		Convey("Canonical names resolve case-insensitively", func() {
			for kind := GateKind(0); kind < gateKindCount; kind++ {
				parsed, err := ParseGateKind(kind.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, kind)
			}

			parsed, err := ParseGateKind(" cnot ")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, GateCNOT)
		})

		Convey("Display labels resolve to their gates", func() {
			for label, want := range map[string]GateKind{"S†": GateSDG, "T†": GateTDG, "√X": GateSX, "Rx": GateRX} {
				parsed, err := ParseGateKind(label)
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, want)
			}
		})

		Convey("Unknown names are reported, not swallowed", func() {
			_, err := ParseGateKind("TOFFOLI")
			So(errors.Is(err, ErrUnknownGate), ShouldBeTrue)
		})
	})
}

func TestNewGate(t *testing.T) {
	Convey("Given gate placement", t, func() {
		Convey("A one-qubit gate takes exactly one qubit", func() {
			_, err := NewGate(GateH, 0)
			So(err, ShouldBeNil)

			_, err = NewGate(GateH, 0, 1)
			So(errors.Is(err, ErrInvalidQubit), ShouldBeTrue)
		})

		Convey("A two-qubit gate needs distinct qubits", func() {
			_, err := NewGate(GateCNOT, 1, 1)
			So(errors.Is(err, ErrInvalidQubit), ShouldBeTrue)

			gate, err := NewGate(GateCNOT, 1, 0)
			So(err, ShouldBeNil)
			So(gate.Qubits, ShouldResemble, []int{1, 0})
		})

		Convey("Qubit indices outside the register are rejected", func() {
			_, err := NewGate(GateX, 2)
			So(errors.Is(err, ErrInvalidQubit), ShouldBeTrue)
		})

		Convey("Rotations default to a quarter turn", func() {
			gate, err := NewGate(GateRY, 0)
			So(err, ShouldBeNil)
			So(gate.Angle, ShouldEqual, DefaultAngle)
		})

		Convey("Only rotations accept an angle", func() {
			_, err := NewRotation(GateH, 1, 0)
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

			_, err = NewRotation(GateRZ, math.NaN(), 0)
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Kinds outside the catalog fail validation", func() {
			err := Gate{Kind: GateKind(99), Qubits: []int{0}}.Validate()
			So(errors.Is(err, ErrUnknownGate), ShouldBeTrue)
		})
	})
}

func TestMatrixCatalog(t *testing.T) {
	Convey("Given every single-qubit gate in the catalog", t, func() {
		angles := []float64{0, math.Pi / 7, math.Pi / 2, math.Pi, 3 * math.Pi / 2, 2 * math.Pi, -1.3}

		Convey("Each matrix is unitary", func() {
			for kind := GateKind(0); kind < gateKindCount; kind++ {
				if kind.Arity() != 1 {
					_, ok := MatrixFor(kind, 0)
					So(ok, ShouldBeFalse)
					continue
				}

				for _, angle := range angles {
					u, ok := MatrixFor(kind, angle)
					So(ok, ShouldBeTrue)
					So(u.IsUnitary(1e-9), ShouldBeTrue)
				}
			}
		})

		Convey("Unknown kinds have no matrix", func() {
			_, ok := MatrixFor(GateKind(-1), 0)
			So(ok, ShouldBeFalse)
		})

		Convey("Daggers invert their gates", func() {
			identity, _ := MatrixFor(GateI, 0)
			s, _ := MatrixFor(GateS, 0)
			sdg, _ := MatrixFor(GateSDG, 0)
			tg, _ := MatrixFor(GateT, 0)
			tdg, _ := MatrixFor(GateTDG, 0)

			So(s.Mul(sdg).ApproxEqual(identity, 1e-12), ShouldBeTrue)
			So(tg.Mul(tdg).ApproxEqual(identity, 1e-12), ShouldBeTrue)
			So(s.Dagger().ApproxEqual(sdg, 1e-12), ShouldBeTrue)
		})

		Convey("√X squares to X and T squares to S", func() {
			sx, _ := MatrixFor(GateSX, 0)
			x, _ := MatrixFor(GateX, 0)
			tg, _ := MatrixFor(GateT, 0)
			s, _ := MatrixFor(GateS, 0)

			So(sx.Mul(sx).ApproxEqual(x, 1e-12), ShouldBeTrue)
			So(tg.Mul(tg).ApproxEqual(s, 1e-12), ShouldBeTrue)
		})

		Convey("RX(π) is X up to the global phase −i", func() {
			rx, _ := MatrixFor(GateRX, math.Pi)
			So(rx.ApproxEqual(Unitary{0, -1i, -1i, 0}, 1e-12), ShouldBeTrue)
		})

		Convey("The 8-real layout is row-major (re, im)", func() {
			y, _ := MatrixFor(GateY, 0)
			So(y.Floats(), ShouldResemble, [8]float64{0, 0, 0, -1, 0, 1, 0, 0})
		})
	})
}
