package qlab

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

/*
StateVector is the pure state of a one or two qubit register, stored as the
complex amplitudes of the computational basis states.

Basis indices are binary encodings of the register with qubit 0 as the most
significant bit, so for two qubits index 1 is |01⟩ (qubit 1 set) and index 2
is |10⟩ (qubit 0 set).

Every operation in this package returns a fresh StateVector. A vector handed
to a caller is never written to again, which makes step snapshots safe to keep.
*/
type StateVector struct {
	Vector    []complex128
	NumQubits int
}

// NewStateVector returns the |0...0⟩ state for a register of numQubits qubits.
func NewStateVector(numQubits int) (*StateVector, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d", ErrQubitCount, numQubits)
	}

	vector := make([]complex128, 1<<numQubits)
	vector[0] = 1

	return &StateVector{Vector: vector, NumQubits: numQubits}, nil
}

/*
FromAmplitudes builds a state from explicit amplitudes. The length decides the
register size and must be 2 or 4. The amplitudes are copied and used as given;
call Normalized when they do not already have unit norm.
*/
func FromAmplitudes(amplitudes ...complex128) (*StateVector, error) {
	var numQubits int

	switch len(amplitudes) {
	case 2:
		numQubits = 1
	case 4:
		numQubits = 2
	default:
		return nil, fmt.Errorf("%w: %d amplitudes", ErrInvalidState, len(amplitudes))
	}

	vector := make([]complex128, len(amplitudes))
	copy(vector, amplitudes)

	return &StateVector{Vector: vector, NumQubits: numQubits}, nil
}

// Clone returns an independent copy of the state.
func (sv *StateVector) Clone() *StateVector {
	if sv == nil {
		return nil
	}

	vector := make([]complex128, len(sv.Vector))
	copy(vector, sv.Vector)

	return &StateVector{Vector: vector, NumQubits: sv.NumQubits}
}

// Dim is the number of basis states, 2^NumQubits.
func (sv *StateVector) Dim() int {
	return len(sv.Vector)
}

// Norm is the L2 norm of the amplitude vector.
func (sv *StateVector) Norm() float64 {
	return math.Sqrt(floats.Sum(sv.Probabilities()))
}

/*
Normalized returns a copy divided by its L2 norm. A zero vector is returned
unchanged rather than producing NaNs.
*/
func (sv *StateVector) Normalized() *StateVector {
	out := sv.Clone()

	norm := sv.Norm()
	if norm == 0 || math.IsNaN(norm) {
		return out
	}

	scale := complex(1/norm, 0)
	for i := range out.Vector {
		out.Vector[i] *= scale
	}

	return out
}

/*
Floats flattens the amplitudes into interleaved (re, im) pairs, the layout the
rendering layer consumes.
*/
func (sv *StateVector) Floats() []float64 {
	out := make([]float64, 0, 2*len(sv.Vector))
	for _, amplitude := range sv.Vector {
		out = append(out, real(amplitude), imag(amplitude))
	}
	return out
}

// ApproxEqual compares two states amplitude by amplitude.
func (sv *StateVector) ApproxEqual(other *StateVector, tolerance float64) bool {
	if sv == nil || other == nil || len(sv.Vector) != len(other.Vector) {
		return false
	}

	for i := range sv.Vector {
		if cmplx.Abs(sv.Vector[i]-other.Vector[i]) > tolerance {
			return false
		}
	}

	return true
}

// validate reports a register whose amplitude count is not 2^NumQubits.
func (sv *StateVector) validate() error {
	if sv == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidState)
	}

	if sv.NumQubits < 1 || sv.NumQubits > MaxQubits || len(sv.Vector) != 1<<sv.NumQubits {
		return fmt.Errorf(
			"%w: %d amplitudes for %d qubit(s)", ErrInvalidState, len(sv.Vector), sv.NumQubits,
		)
	}

	return nil
}

/*
bitFor maps a qubit index onto its bit flag in a basis index. Qubit 0 is the
most significant bit.
*/
func (sv *StateVector) bitFor(qubit int) (int, error) {
	if qubit < 0 || qubit >= sv.NumQubits {
		return 0, fmt.Errorf("%w: qubit %d on a %d-qubit register", ErrInvalidQubit, qubit, sv.NumQubits)
	}
	return 1 << (sv.NumQubits - 1 - qubit), nil
}
