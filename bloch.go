package qlab

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

/*
BlochVector is the (x, y, z) representation of a single-qubit state. Pure
states sit on the unit sphere, mixed states inside it. Bloch vectors are
always derived from a state or a noise model, never stored as ground truth.
*/
type BlochVector struct {
	X, Y, Z float64
}

var (
	// BlochGround is |0⟩, the fixed point of amplitude damping.
	BlochGround = BlochVector{Z: 1}
	// BlochOrigin is the maximally mixed state.
	BlochOrigin = BlochVector{}
)

func (v BlochVector) slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Dot is the Euclidean inner product.
func (v BlochVector) Dot(w BlochVector) float64 {
	return floats.Dot(v.slice(), w.slice())
}

// Magnitude is the length of the vector, 1 for pure states.
func (v BlochVector) Magnitude() float64 {
	return floats.Norm(v.slice(), 2)
}

// Scale multiplies all components by s.
func (v BlochVector) Scale(s float64) BlochVector {
	return BlochVector{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Distance is the Euclidean distance between two Bloch vectors.
func (v BlochVector) Distance(w BlochVector) float64 {
	return floats.Distance(v.slice(), w.slice(), 2)
}

// Finite reports whether every component is a real number.
func (v BlochVector) Finite() bool {
	for _, c := range v.slice() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Array returns [x, y, z].
func (v BlochVector) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func (v BlochVector) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

/*
DensityMatrix is a reduced single-qubit density matrix. It is Hermitian with
unit trace, so r00, r11 and the complex r01 fully describe it.
*/
type DensityMatrix struct {
	R00   float64
	R01Re float64
	R01Im float64
	R11   float64
}

// Trace is r00 + r11.
func (dm DensityMatrix) Trace() float64 {
	return dm.R00 + dm.R11
}

// Bloch extracts the Pauli expectations x = 2·Re r01, y = −2·Im r01, z = r00 − r11.
func (dm DensityMatrix) Bloch() BlochVector {
	return BlochVector{
		X: 2 * dm.R01Re,
		Y: -2 * dm.R01Im,
		Z: dm.R00 - dm.R11,
	}
}

/*
ReducedDensityMatrix traces out every qubit except the given one. Each pair
of basis indices that agree on the traced-out bits contributes ⟨i|ψ⟩⟨ψ|j⟩ to
the bucket selected by the kept qubit's bit in i and j. On a one-qubit
register nothing is traced out and the full density matrix is returned.
*/
func ReducedDensityMatrix(state *StateVector, qubit int) (DensityMatrix, error) {
	if err := state.validate(); err != nil {
		return DensityMatrix{}, err
	}

	bit, err := state.bitFor(qubit)
	if err != nil {
		return DensityMatrix{}, err
	}

	var dm DensityMatrix
	for i, ai := range state.Vector {
		for j, aj := range state.Vector {
			if i&^bit != j&^bit {
				continue
			}

			contribution := ai * cmplx.Conj(aj)
			qi, qj := i&bit != 0, j&bit != 0

			switch {
			case !qi && !qj:
				dm.R00 += real(contribution)
			case !qi && qj:
				dm.R01Re += real(contribution)
				dm.R01Im += imag(contribution)
			case qi && qj:
				dm.R11 += real(contribution)
			}
		}
	}

	return dm, nil
}

// Bloch is the Bloch vector of one qubit of the register.
func (sv *StateVector) Bloch(qubit int) (BlochVector, error) {
	dm, err := ReducedDensityMatrix(sv, qubit)
	if err != nil {
		return BlochVector{}, err
	}
	return dm.Bloch(), nil
}

/*
Fidelity compares an ideal and a noisy Bloch vector as (1 + a·b)/2, clamped to
[0, 1].
*/
func Fidelity(ideal, noisy BlochVector) float64 {
	return clamp((1+ideal.Dot(noisy))/2, 0, 1)
}

// Purity is (1 + |v|²)/2, clamped to [0.5, 1].
func Purity(v BlochVector) float64 {
	r := v.Magnitude()
	return clamp((1+r*r)/2, 0.5, 1)
}

// InterpolateBloch blends linearly from a to b; t is clamped to [0, 1].
func InterpolateBloch(a, b BlochVector, t float64) BlochVector {
	t = clamp(t, 0, 1)
	return BlochVector{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
