package course

import (
	"strconv"
	"unicode"

	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// seqPlacement is one stitch emitted while scanning a Sequence grammar
// string, before stitches are allocated.
type seqPlacement struct {
	index int
	side  diag.Side
}

// seqState carries the mutable cursor used while scanning.
type seqState struct {
	side      diag.Side
	direction diag.Direction
	step      int
	index     int
	circular  bool
}

// Sequence parses the course sequence grammar and builds a Course from it.
// The grammar must match bit-for-bit:
//
//	Side:      F/v front, B/^ back, S toggle, | both, C circular.
//	Direction: R/> right, L/< left, I invert.
//	Step:      A/E = 1, H = 2, / increment, \ decrement (floor 1).
//	Moves:     ',' one step, '.' two steps (advance index without a stitch).
//	Stitches:  a positive integer n places n stitches at successive
//	           positions using the current step/direction; a leading '-'
//	           temporarily inverts direction for that run only. A run
//	           starts at the cursor and leaves it on its last stitch.
//	Whitespace is ignored; any other rune is ErrInvalidSequenceChar.
//
// Complexity: O(len(spec)).
func Sequence(g *stitch.Graph, spec string, gauge int, circular bool) (*Course, error) {
	if gauge < 1 {
		gauge = 1
	}
	st := &seqState{side: diag.Front, direction: diag.CW, step: 1, circular: circular}
	placements, err := scanSequence(spec, st)
	if err != nil {
		return nil, err
	}

	c := newCourse()
	for _, p := range placements {
		c.place(g.New(), p.index*gauge, p.side)
	}
	c.circular = st.circular
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(st.circular, true)

	return c, nil
}

// scanSequence runs the grammar state machine over spec, returning one
// seqPlacement per emitted stitch. It never allocates stitches itself, so
// it can be unit-tested without a stitch.Graph.
func scanSequence(spec string, st *seqState) ([]seqPlacement, error) {
	var out []seqPlacement
	runes := []rune(spec)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			continue
		case r == 'F' || r == 'v':
			st.side = diag.Front
		case r == 'B' || r == '^':
			st.side = diag.Back
		case r == 'S':
			st.side = st.side.Other()
		case r == '|':
			st.side = diag.Both
		case r == 'C':
			st.circular = true
		case r == 'R' || r == '>':
			st.direction = diag.CW
		case r == 'L' || r == '<':
			st.direction = diag.CCW
		case r == 'I':
			st.direction = -st.direction
		case r == 'A' || r == 'E':
			st.step = 1
		case r == 'H':
			st.step = 2
		case r == '/':
			st.step++
		case r == '\\':
			if st.step > 1 {
				st.step--
			}
		case r == ',':
			st.index += int(st.direction) * st.step
		case r == '.':
			st.index += int(st.direction) * st.step * 2
		case r == '-' || unicode.IsDigit(r):
			invert := false
			if r == '-' {
				invert = true
				i++
				if i >= len(runes) || !unicode.IsDigit(runes[i]) {
					return nil, ErrInvalidSequenceChar
				}
			}
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			n, _ := strconv.Atoi(string(runes[start:i]))
			i-- // compensate for outer loop's i++
			dir := st.direction
			if invert {
				dir = -dir
			}
			for k := 0; k < n; k++ {
				if k > 0 {
					st.index += int(dir) * st.step
				}
				out = append(out, seqPlacement{index: st.index, side: st.side})
			}
		default:
			return nil, ErrInvalidSequenceChar
		}
	}

	return out, nil
}
