package qlab

import (
	"fmt"
	"math"
	"strings"
)

// GateKind identifies one entry of the fixed gate catalog.
type GateKind int

const (
	GateI GateKind = iota
	GateX
	GateY
	GateZ
	GateH
	GateS
	GateSDG
	GateT
	GateTDG
	GateSX
	GateRX
	GateRY
	GateRZ
	GateCNOT
	GateCZ
	GateCY
	GateCH
	GateSWAP

	gateKindCount
)

// DefaultAngle is used by rotation gates placed without an explicit angle.
const DefaultAngle = math.Pi / 2

var gateNames = [gateKindCount]string{
	GateI:    "I",
	GateX:    "X",
	GateY:    "Y",
	GateZ:    "Z",
	GateH:    "H",
	GateS:    "S",
	GateSDG:  "SDG",
	GateT:    "T",
	GateTDG:  "TDG",
	GateSX:   "SX",
	GateRX:   "RX",
	GateRY:   "RY",
	GateRZ:   "RZ",
	GateCNOT: "CNOT",
	GateCZ:   "CZ",
	GateCY:   "CY",
	GateCH:   "CH",
	GateSWAP: "SWAP",
}

// Display labels as they appear on the gate palette.
var gateAliases = map[string]GateKind{
	"S†":   GateSDG,
	"SDAG": GateSDG,
	"T†":   GateTDG,
	"TDAG": GateTDG,
	"√X":   GateSX,
	"CX":   GateCNOT,
}

func (kind GateKind) String() string {
	if !kind.Valid() {
		return fmt.Sprintf("GateKind(%d)", int(kind))
	}
	return gateNames[kind]
}

// Valid reports whether kind belongs to the catalog.
func (kind GateKind) Valid() bool {
	return kind >= 0 && kind < gateKindCount
}

// Arity is the number of qubits the gate acts on.
func (kind GateKind) Arity() int {
	switch kind {
	case GateCNOT, GateCZ, GateCY, GateCH, GateSWAP:
		return 2
	default:
		return 1
	}
}

// Parametrized reports whether the gate takes a rotation angle.
func (kind GateKind) Parametrized() bool {
	return kind == GateRX || kind == GateRY || kind == GateRZ
}

// Controlled reports whether the first qubit of the gate is a control.
func (kind GateKind) Controlled() bool {
	return kind.Arity() == 2 && kind != GateSWAP
}

/*
ParseGateKind resolves a gate name, case-insensitively, including the palette
labels (S†, T†, √X). Names outside the catalog return ErrUnknownGate.
*/
func ParseGateKind(name string) (GateKind, error) {
	key := strings.ToUpper(strings.TrimSpace(name))

	for kind, candidate := range gateNames {
		if candidate == key {
			return GateKind(kind), nil
		}
	}

	if kind, ok := gateAliases[key]; ok {
		return kind, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownGate, name)
}

/*
Gate is one placed operation of a circuit. Qubits lists the control first for
controlled gates. Angle is only read for rotation gates.
*/
type Gate struct {
	Kind   GateKind
	Qubits []int
	Angle  float64
}

// NewGate validates and places a non-parametrized gate.
func NewGate(kind GateKind, qubits ...int) (Gate, error) {
	if kind.Parametrized() {
		return NewRotation(kind, DefaultAngle, qubits...)
	}

	gate := Gate{Kind: kind, Qubits: append([]int(nil), qubits...)}
	return gate, gate.Validate()
}

// NewRotation places a rotation gate with an explicit angle in radians.
func NewRotation(kind GateKind, angle float64, qubits ...int) (Gate, error) {
	if !kind.Parametrized() {
		return Gate{}, fmt.Errorf("%w: %s takes no angle", ErrInvalidInput, kind)
	}

	gate := Gate{Kind: kind, Qubits: append([]int(nil), qubits...), Angle: angle}
	return gate, gate.Validate()
}

// MustGate is NewGate for statically known gates such as presets.
func MustGate(kind GateKind, qubits ...int) Gate {
	gate, err := NewGate(kind, qubits...)
	if err != nil {
		panic(err)
	}
	return gate
}

// Validate checks the catalog entry, arity and qubit indices of the gate.
func (gate Gate) Validate() error {
	if !gate.Kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownGate, gate.Kind)
	}

	if len(gate.Qubits) != gate.Kind.Arity() {
		return fmt.Errorf(
			"%w: %s needs %d qubit(s), got %d",
			ErrInvalidQubit, gate.Kind, gate.Kind.Arity(), len(gate.Qubits),
		)
	}

	for _, qubit := range gate.Qubits {
		if qubit < 0 || qubit >= MaxQubits {
			return fmt.Errorf("%w: %d", ErrInvalidQubit, qubit)
		}
	}

	if len(gate.Qubits) == 2 && gate.Qubits[0] == gate.Qubits[1] {
		return fmt.Errorf("%w: %s on the same qubit twice", ErrInvalidQubit, gate.Kind)
	}

	if gate.Kind.Parametrized() && (math.IsNaN(gate.Angle) || math.IsInf(gate.Angle, 0)) {
		return fmt.Errorf("%w: angle %v", ErrInvalidInput, gate.Angle)
	}

	return nil
}

func (gate Gate) String() string {
	if gate.Kind.Parametrized() {
		return fmt.Sprintf("%s(%.4f)%v", gate.Kind, gate.Angle, gate.Qubits)
	}
	return fmt.Sprintf("%s%v", gate.Kind, gate.Qubits)
}
