package qlab

import "errors"

var (
	ErrUnknownGate  = errors.New("unknown gate")
	ErrInvalidQubit = errors.New("invalid qubit")
	ErrQubitCount   = errors.New("unsupported qubit count")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
	ErrPoolClosed   = errors.New("pool closed")
)

// MaxQubits is the largest register the engine simulates.
const MaxQubits = 2
