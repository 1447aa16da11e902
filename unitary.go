package qlab

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

/*
Unitary is a 2x2 complex matrix in row-major order: a, b on the first row and
c, d on the second.
*/
type Unitary [4]complex128

const invSqrt2 = math.Sqrt2 / 2

var fixedMatrices = map[GateKind]Unitary{
	GateI:   {1, 0, 0, 1},
	GateX:   {0, 1, 1, 0},
	GateY:   {0, -1i, 1i, 0},
	GateZ:   {1, 0, 0, -1},
	GateH:   {invSqrt2, invSqrt2, invSqrt2, -invSqrt2},
	GateS:   {1, 0, 0, 1i},
	GateSDG: {1, 0, 0, -1i},
	GateT:   {1, 0, 0, complex(invSqrt2, invSqrt2)},
	GateTDG: {1, 0, 0, complex(invSqrt2, -invSqrt2)},
	GateSX:  {0.5 + 0.5i, 0.5 - 0.5i, 0.5 - 0.5i, 0.5 + 0.5i},
}

/*
MatrixFor returns the single-qubit matrix of a catalog gate. The angle is only
read by RX, RY and RZ, which use the half-angle rotation family
R(θ) = cos(θ/2)·I − i·sin(θ/2)·P. Two-qubit gates and kinds outside the
catalog have no 2x2 matrix and report false.
*/
func MatrixFor(kind GateKind, angle float64) (Unitary, bool) {
	if u, ok := fixedMatrices[kind]; ok {
		return u, true
	}

	c, s := math.Cos(angle/2), math.Sin(angle/2)

	switch kind {
	case GateRX:
		return Unitary{complex(c, 0), complex(0, -s), complex(0, -s), complex(c, 0)}, true
	case GateRY:
		return Unitary{complex(c, 0), complex(-s, 0), complex(s, 0), complex(c, 0)}, true
	case GateRZ:
		return Unitary{complex(c, -s), 0, 0, complex(c, s)}, true
	}

	return Unitary{}, false
}

// Floats is the 8-real (re, im) row-major form of the matrix.
func (u Unitary) Floats() [8]float64 {
	return [8]float64{
		real(u[0]), imag(u[0]), real(u[1]), imag(u[1]),
		real(u[2]), imag(u[2]), real(u[3]), imag(u[3]),
	}
}

// Dense exposes the matrix to gonum.
func (u Unitary) Dense() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{u[0], u[1], u[2], u[3]})
}

// Dagger is the conjugate transpose.
func (u Unitary) Dagger() Unitary {
	return Unitary{cmplx.Conj(u[0]), cmplx.Conj(u[2]), cmplx.Conj(u[1]), cmplx.Conj(u[3])}
}

// Mul returns u·v.
func (u Unitary) Mul(v Unitary) Unitary {
	return Unitary{
		u[0]*v[0] + u[1]*v[2], u[0]*v[1] + u[1]*v[3],
		u[2]*v[0] + u[3]*v[2], u[2]*v[1] + u[3]*v[3],
	}
}

// ApproxEqual compares entries within tolerance.
func (u Unitary) ApproxEqual(v Unitary, tolerance float64) bool {
	for i := range u {
		if cmplx.Abs(u[i]-v[i]) > tolerance {
			return false
		}
	}
	return true
}

// IsUnitary checks U†U = I within tolerance.
func (u Unitary) IsUnitary(tolerance float64) bool {
	dense := u.Dense()
	adjoint := dense.H()

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var sum complex128
			for k := 0; k < 2; k++ {
				sum += adjoint.At(i, k) * dense.At(k, j)
			}

			var want complex128
			if i == j {
				want = 1
			}

			if cmplx.Abs(sum-want) > tolerance {
				return false
			}
		}
	}

	return true
}
