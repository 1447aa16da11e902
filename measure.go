package qlab

import (
	"fmt"
	"math/cmplx"
	"math/rand/v2"
	"strconv"
	"strings"
)

/*
Probabilities returns |amplitude|² for every basis state, in basis order
(00, 01, 10, 11 for two qubits).
*/
func (sv *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(sv.Vector))
	for i, amplitude := range sv.Vector {
		probs[i] = real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)
	}
	return probs
}

/*
Counts is a shot histogram indexed by basis state.
*/
type Counts []int

// Total is the number of recorded shots.
func (counts Counts) Total() int {
	var total int
	for _, c := range counts {
		total += c
	}
	return total
}

// Add sums another histogram of the same size into a new one.
func (counts Counts) Add(other Counts) Counts {
	out := make(Counts, max(len(counts), len(other)))
	copy(out, counts)
	for i, c := range other {
		out[i] += c
	}
	return out
}

// Labels maps each outcome's bitstring (e.g. "01") to its count.
func (counts Counts) Labels() map[string]int {
	width := bitWidth(len(counts))
	out := make(map[string]int, len(counts))
	for i, c := range counts {
		out[BasisLabel(i, width)] = c
	}
	return out
}

func (counts Counts) String() string {
	width := bitWidth(len(counts))
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s:%d", BasisLabel(i, width), c)
	}
	return strings.Join(parts, " ")
}

// BasisLabel renders a basis index as a bitstring, qubit 0 first.
func BasisLabel(index, width int) string {
	label := strconv.FormatInt(int64(index), 2)
	if pad := width - len(label); pad > 0 {
		label = strings.Repeat("0", pad) + label
	}
	return label
}

func bitWidth(dim int) int {
	width := 0
	for 1<<width < dim {
		width++
	}
	return max(width, 1)
}

/*
SampleShots draws shotCount independent measurement outcomes. For each shot a
uniform value in [0, 1) has the probabilities subtracted from it in basis
order until it drops to zero or below, which selects that bucket. If floating
point error leaves a residual after the last bucket the shot goes to the last
bucket, so the histogram always totals shotCount.

Buckets with zero probability are never selected by the subtraction pass.
This departs from a plain "first bucket where r ≤ 0" walk only when r is
exactly 0 and leading buckets are empty: for [0, .5, .5, 0] and r = 0 the
plain walk returns bucket 0, this one bucket 1.

A nil rng uses the shared math/rand/v2 source.
*/
func SampleShots(probs []float64, shotCount int, rng *rand.Rand) Counts {
	counts := make(Counts, len(probs))
	if len(probs) == 0 || shotCount <= 0 {
		return counts
	}

	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}

	for shot := 0; shot < shotCount; shot++ {
		counts[pickOutcome(probs, draw())]++
	}

	return counts
}

func pickOutcome(probs []float64, r float64) int {
	for k, p := range probs {
		r -= p
		if r <= 0 && p > 0 {
			return k
		}
	}

	// Fallback: floating residual past the final bucket.
	return len(probs) - 1
}

/*
Measure performs a single projective measurement of the whole register. It
returns the observed basis index and the collapsed state, leaving the input
untouched.
*/
func Measure(state *StateVector, rng *rand.Rand) (int, *StateVector, error) {
	if state == nil || len(state.Vector) == 0 {
		return 0, nil, fmt.Errorf("%w: nothing to measure", ErrInvalidState)
	}

	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}

	probs := state.Normalized().Probabilities()
	outcome := pickOutcome(probs, draw())

	collapsed := &StateVector{
		Vector:    make([]complex128, len(state.Vector)),
		NumQubits: state.NumQubits,
	}

	// Keep the phase of the surviving amplitude.
	if a := state.Vector[outcome]; a != 0 {
		collapsed.Vector[outcome] = a / complex(cmplx.Abs(a), 0)
	} else {
		collapsed.Vector[outcome] = 1
	}

	return outcome, collapsed, nil
}
