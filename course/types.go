package course

import (
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// needlePos is a stored (index, side) pair before offset/flip composition.
type needlePos struct {
	Index int
	Side  diag.Side
}

// pendingOp is one deferred link_later operation, resolved by ApplyPending
// in order of increasing degree-of-freedom.
type pendingOp struct {
	target       *Course
	freedom      int // lower = more constrained, resolved first
	do           func() error
}

// Course is an ordered sequence of stitches placed at integer needle
// positions on one or both bed sides. It is immutable
// after tracing: reset() is the only place width/side/circular/offset are
// recomputed.
type Course struct {
	stitches  []*stitch.Stitch
	needleOf  map[stitch.ID]needlePos // stored positions, pre-offset/flip
	width     int
	side      diag.Side
	circular  bool
	offset    int
	pending   []pendingOp
}

// Stitches returns the ordered stitch sequence. Callers must not mutate
// the returned slice.
func (c *Course) Stitches() []*stitch.Stitch { return c.stitches }

// Width returns the course's needle extent").
func (c *Course) Width() int { return c.width }

// Side returns the course's overall side: Front/Back if every stitch sits
// on one side, Both if it spans both.
func (c *Course) Side() diag.Side { return c.side }

// Circular reports whether the course's first and last stitches are
// course-connected to each other, forming a closed loop.
func (c *Course) Circular() bool { return c.circular }

// Offset returns the course's needle-index offset, added to every stored
// index by NeedleOf.
func (c *Course) Offset() int { return c.offset }

// Len is the number of stitches in the course.
func (c *Course) Len() int { return len(c.stitches) }

// First returns the course's first stitch, or nil if empty.
func (c *Course) First() *stitch.Stitch {
	if len(c.stitches) == 0 {
		return nil
	}

	return c.stitches[0]
}

// Last returns the course's last stitch, or nil if empty.
func (c *Course) Last() *stitch.Stitch {
	if len(c.stitches) == 0 {
		return nil
	}

	return c.stitches[len(c.stitches)-1]
}

// new constructs an empty Course scaffold shared by every constructor.
func newCourse() *Course {
	return &Course{needleOf: make(map[stitch.ID]needlePos)}
}

// place appends s to the sequence at (index, side), recording its needle
// position. Constructors call this in emission order, then chain course
// adjacency separately so callers can see partial failures cleanly.
func (c *Course) place(s *stitch.Stitch, index int, side diag.Side) {
	c.stitches = append(c.stitches, s)
	c.needleOf[s.ID] = needlePos{Index: index, Side: side}
}

// chain connects every consecutive pair in the sequence via stitch.Course
// adjacency, and — if circular — connects the last stitch back to the
// first.
func (c *Course) chain() error {
	for i := 1; i < len(c.stitches); i++ {
		if err := c.stitches[i-1].Connect(c.stitches[i], stitch.Course); err != nil {
			return err
		}
	}
	if c.circular && len(c.stitches) > 1 {
		if err := c.stitches[len(c.stitches)-1].Connect(c.stitches[0], stitch.Course); err != nil {
			return err
		}
	}

	return nil
}

// Reset recomputes Width, Side, and normalizes stored indices so the
// minimum index is zero. If zeroOffset is false, the
// minimum-index normalization is skipped and only width/side/circular are
// recomputed (used after operations that already chose an absolute
// placement, e.g. continuity_bind).
// Complexity: O(n) in the stitch count.
func (c *Course) Reset(circular bool, zeroOffset bool) {
	c.circular = circular
	if len(c.needleOf) == 0 {
		c.width = 0
		c.side = diag.Front

		return
	}
	minIdx, maxIdx := int(^uint(0)>>1), -(int(^uint(0)>>1)) - 1
	mask := 0 // bit0 = front seen, bit1 = back seen
	for _, p := range c.needleOf {
		if p.Index < minIdx {
			minIdx = p.Index
		}
		if p.Index > maxIdx {
			maxIdx = p.Index
		}
		switch p.Side {
		case diag.Front:
			mask |= 1
		case diag.Back:
			mask |= 2
		case diag.Both:
			mask |= 3
		}
	}
	if zeroOffset && minIdx != 0 {
		shift := -minIdx
		for id, p := range c.needleOf {
			p.Index += shift
			c.needleOf[id] = p
		}
		maxIdx += shift
		minIdx = 0
	}
	c.width = maxIdx - minIdx + 1
	switch mask {
	case 1:
		c.side = diag.Front
	case 2:
		c.side = diag.Back
	default:
		c.side = diag.Both
	}
}

// NeedleOf composes the stored position for s with the course's own
// offset/extraOffset and an optional flip:
// index = stored_index + offset + extra_offset; side = flip ? other(side) : side.
func (c *Course) NeedleOf(s *stitch.Stitch, extraOffset int, flip bool) (index int, side diag.Side, ok bool) {
	p, found := c.needleOf[s.ID]
	if !found {
		return 0, diag.Front, false
	}
	index = p.Index + c.offset + extraOffset
	side = p.Side
	if flip {
		side = side.Other()
	}

	return index, side, true
}

// SetOffset sets the course's offset (used by the layout/optimizer layer).
func (c *Course) SetOffset(offset int) { c.offset = offset }

// FlipSides swaps every stored stitch's side (Front<->Back, Both unchanged)
// and recomputes the course's overall Side, used when a layout flip is
// baked down into a leaf (bed/layout.Leaf.ApplyFlip).
func (c *Course) FlipSides() {
	for id, p := range c.needleOf {
		p.Side = p.Side.Other()
		c.needleOf[id] = p
	}
	c.Reset(c.circular, false)
}

// IsWithin reports whether (idx, side) lies within this course's placed
// extent.
func (c *Course) IsWithin(idx int, side diag.Side) bool {
	lo, hi := c.offset, c.offset+c.width
	if idx < lo || idx >= hi {
		return false
	}
	if c.side == diag.Both || side == diag.Both {
		return true
	}

	return c.side == side
}
