package qlab

import "math"

// MatchThreshold is the Bloch distance under which two states count as the same.
const MatchThreshold = 0.15

/*
Qubit is a lone pure qubit α|0⟩ + β|1⟩, the state of single-qubit exercises
where no register or noise is involved.
*/
type Qubit struct {
	alpha complex128 // |0⟩ amplitude
	beta  complex128 // |1⟩ amplitude
}

func NewQubit(alpha, beta complex128) Qubit {
	return Qubit{alpha: alpha, beta: beta}
}

// Amplitudes returns (α, β).
func (q Qubit) Amplitudes() (complex128, complex128) {
	return q.alpha, q.beta
}

// Apply returns U·q.
func (q Qubit) Apply(u Unitary) Qubit {
	return Qubit{
		alpha: u[0]*q.alpha + u[1]*q.beta,
		beta:  u[2]*q.alpha + u[3]*q.beta,
	}
}

// ApplyGate applies a single-qubit catalog gate, ignoring anything else.
func (q Qubit) ApplyGate(kind GateKind, angle float64) Qubit {
	if kind.Arity() != 1 {
		return q
	}

	u, ok := MatrixFor(kind, angle)
	if !ok {
		return q
	}

	return q.Apply(u)
}

/*
Bloch reads the Bloch vector straight from the amplitudes:
x = 2·Re(α*β), y = 2·Im(α*β), z = |α|² − |β|².
*/
func (q Qubit) Bloch() BlochVector {
	r0, i0 := real(q.alpha), imag(q.alpha)
	r1, i1 := real(q.beta), imag(q.beta)

	return BlochVector{
		X: 2 * (r0*r1 + i0*i1),
		Y: 2 * (r0*i1 - i0*r1),
		Z: r0*r0 + i0*i0 - r1*r1 - i1*i1,
	}
}

// State lifts the qubit into a one-qubit StateVector.
func (q Qubit) State() *StateVector {
	return &StateVector{Vector: []complex128{q.alpha, q.beta}, NumQubits: 1}
}

// Matches reports whether q is within MatchThreshold of target on the sphere.
func (q Qubit) Matches(target Qubit) bool {
	return q.Bloch().Distance(target.Bloch()) < MatchThreshold
}

// MatchPercent turns Bloch distance (0..2) into a 0..100 closeness score.
func (q Qubit) MatchPercent(target Qubit) int {
	dist := q.Bloch().Distance(target.Bloch())
	return int(math.Max(0, math.Round((1-dist/2)*100)))
}
