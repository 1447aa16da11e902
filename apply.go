package qlab

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

/*
Apply1Q applies a 2x2 unitary to one qubit of the register. Every basis index
with the target bit clear is paired with its partner that has the bit set, and
the two amplitudes are replaced by the matrix product. No normalization is
done here; unitaries keep the norm.
*/
func Apply1Q(state *StateVector, u Unitary, qubit int) (*StateVector, error) {
	if err := state.validate(); err != nil {
		return state.Clone(), err
	}

	bit, err := state.bitFor(qubit)
	if err != nil {
		return state.Clone(), err
	}

	out := state.Clone()
	for i := range state.Vector {
		if i&bit != 0 {
			continue
		}

		j := i | bit
		a0, a1 := state.Vector[i], state.Vector[j]
		out.Vector[i] = u[0]*a0 + u[1]*a1
		out.Vector[j] = u[2]*a0 + u[3]*a1
	}

	return out, nil
}

/*
ApplyGate runs one gate against the state and returns the successor state.

CNOT, CZ and SWAP are index permutations and sign flips. CY and CH are
composed from CNOT and single-qubit gates on the target so that no 4x4
matrices are kept:

	CY = S(t) → CNOT(c,t) → S†(t), which acts as −Y on the target when the
	     control is set.
	CH = S†(t) → H(t) → T(t) → CNOT(c,t) → T(t) → H(t) → S(t). This is not
	     the textbook controlled-Hadamard: the target is rotated for both
	     control values.

A gate outside the catalog returns ErrUnknownGate together with an unchanged
copy of the input, so callers that ignore the error still get pass-through.
*/
func ApplyGate(state *StateVector, gate Gate) (*StateVector, error) {
	if err := state.validate(); err != nil {
		return state.Clone(), err
	}

	if err := gate.Validate(); err != nil {
		errnie.Info("ApplyGate - rejected %v: %v", gate, err)
		return state.Clone(), err
	}

	if gate.Kind.Arity() == 2 {
		if state.NumQubits != 2 {
			return state.Clone(), fmt.Errorf(
				"%w: %s needs 2 qubits, register has %d", ErrQubitCount, gate.Kind, state.NumQubits,
			)
		}
		return applyTwoQubit(state, gate)
	}

	u, _ := MatrixFor(gate.Kind, gate.Angle)
	return Apply1Q(state, u, gate.Qubits[0])
}

func applyTwoQubit(state *StateVector, gate Gate) (*StateVector, error) {
	ctrl, tgt := gate.Qubits[0], gate.Qubits[1]

	switch gate.Kind {
	case GateCNOT:
		return applyCNOT(state, ctrl, tgt)
	case GateCZ:
		return applyCZ(state, ctrl, tgt)
	case GateSWAP:
		return applySWAP(state), nil
	case GateCY:
		return sequence(state,
			step1Q(GateS, tgt),
			stepCNOT(ctrl, tgt),
			step1Q(GateSDG, tgt),
		)
	case GateCH:
		return sequence(state,
			step1Q(GateSDG, tgt),
			step1Q(GateH, tgt),
			step1Q(GateT, tgt),
			stepCNOT(ctrl, tgt),
			step1Q(GateT, tgt),
			step1Q(GateH, tgt),
			step1Q(GateS, tgt),
		)
	}

	return state.Clone(), fmt.Errorf("%w: %s", ErrUnknownGate, gate.Kind)
}

// applyCNOT swaps every control-set amplitude with its target-flipped partner.
func applyCNOT(state *StateVector, ctrl, tgt int) (*StateVector, error) {
	cBit, tBit, err := controlBits(state, ctrl, tgt)
	if err != nil {
		return state.Clone(), err
	}

	out := state.Clone()
	for i := range state.Vector {
		if i&cBit == 0 || i&tBit != 0 {
			continue
		}

		j := i | tBit
		out.Vector[i], out.Vector[j] = state.Vector[j], state.Vector[i]
	}

	return out, nil
}

// applyCZ negates the amplitude of every index with both bits set.
func applyCZ(state *StateVector, ctrl, tgt int) (*StateVector, error) {
	cBit, tBit, err := controlBits(state, ctrl, tgt)
	if err != nil {
		return state.Clone(), err
	}

	out := state.Clone()
	for i := range out.Vector {
		if i&cBit != 0 && i&tBit != 0 {
			out.Vector[i] = -out.Vector[i]
		}
	}

	return out, nil
}

// applySWAP exchanges |01⟩ and |10⟩; |00⟩ and |11⟩ are symmetric.
func applySWAP(state *StateVector) *StateVector {
	out := state.Clone()
	out.Vector[1], out.Vector[2] = state.Vector[2], state.Vector[1]
	return out
}

func controlBits(state *StateVector, ctrl, tgt int) (int, int, error) {
	cBit, err := state.bitFor(ctrl)
	if err != nil {
		return 0, 0, err
	}

	tBit, err := state.bitFor(tgt)
	if err != nil {
		return 0, 0, err
	}

	return cBit, tBit, nil
}

type stateStep func(*StateVector) (*StateVector, error)

func step1Q(kind GateKind, qubit int) stateStep {
	u, _ := MatrixFor(kind, 0)
	return func(state *StateVector) (*StateVector, error) {
		return Apply1Q(state, u, qubit)
	}
}

func stepCNOT(ctrl, tgt int) stateStep {
	return func(state *StateVector) (*StateVector, error) {
		return applyCNOT(state, ctrl, tgt)
	}
}

func sequence(state *StateVector, steps ...stateStep) (*StateVector, error) {
	var err error
	for _, step := range steps {
		if state, err = step(state); err != nil {
			return state, err
		}
	}
	return state, nil
}
