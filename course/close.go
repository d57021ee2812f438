package course

import (
	"sort"

	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// CloseType selects how Close folds a two-sided circular course into
// non-circular form.
type CloseType int

const (
	// Collapse merges each back stitch into its matching front stitch,
	// giving the front stitch the back stitch's wales (a doubled wale
	// column) and dropping the back row entirely.
	Collapse CloseType = iota
	// ZigZag reorders traversal to front,back,front,back,… without merging.
	ZigZag
	// ZigZagReturn swaps every other front/back pair while keeping the
	// course circular.
	ZigZagReturn
)

// frontBackPairs returns, for every index 0..width-1, the front and back
// stitch sitting at that index. Close's modes require exactly one of each
// per index (the shape Tube produces); a missing pair is a caller error.
func (c *Course) frontBackPairs() (indices []int, front, back []*stitch.Stitch) {
	byIdx := make(map[int][2]*stitch.Stitch)
	for _, s := range c.stitches {
		p := c.needleOf[s.ID]
		pair := byIdx[p.Index]
		if p.Side == diag.Front {
			pair[0] = s
		} else {
			pair[1] = s
		}
		byIdx[p.Index] = pair
	}
	for idx := range byIdx {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		front = append(front, byIdx[idx][0])
		back = append(back, byIdx[idx][1])
	}

	return indices, front, back
}

// markClosed tags s with metadata closed=true.
func markClosed(s *stitch.Stitch) {
	s.SetMeta("closed", stitch.NoContext, true)
}

// clearInternalCourseLinks disconnects every course adjacency among c's
// own stitches, so Close can rebuild them in a new order.
func clearInternalCourseLinks(stitches []*stitch.Stitch) {
	members := make(map[stitch.ID]struct{}, len(stitches))
	for _, s := range stitches {
		members[s.ID] = struct{}{}
	}
	for _, s := range stitches {
		for _, n := range s.Neighbors(stitch.Course) {
			if _, ok := members[n.ID]; ok {
				s.Disconnect(n, stitch.Course)
			}
		}
	}
}

// Close folds a two-sided circular course of even length into
// non-circular (or, for ZigZagReturn, still-circular) form per
// CloseType. Requires every needle index 0..Width()-1 to
// carry exactly one front and one back stitch (the shape Tube produces).
// Complexity: O(width · log(width)).
func (c *Course) Close(ct CloseType) error {
	_, front, back := c.frontBackPairs()
	if len(front) == 0 {
		return ErrTooFewStitches
	}

	switch ct {
	case Collapse:
		for i := range front {
			front[i].Merge(back[i])
			markClosed(front[i])
		}
		newCourseFrom(c, front, false)

		return c.chain()

	case ZigZag:
		clearInternalCourseLinks(c.stitches)
		order := make([]*stitch.Stitch, 0, len(front)+len(back))
		for i := range front {
			order = append(order, front[i], back[i])
			markClosed(front[i])
			markClosed(back[i])
		}
		newCourseFrom(c, order, false)

		return c.chain()

	case ZigZagReturn:
		clearInternalCourseLinks(c.stitches)
		order := make([]*stitch.Stitch, 0, len(front)+len(back))
		for i := range front {
			markClosed(front[i])
			markClosed(back[i])
			if i%2 == 0 {
				order = append(order, front[i], back[i])
			} else {
				order = append(order, back[i], front[i])
			}
		}
		newCourseFrom(c, order, true)

		return c.chain()
	}

	return nil
}

// newCourseFrom rebuilds c's sequence/needle map in place from stitches,
// preserving each stitch's existing needle position and reusing the
// pre-close course's offset.
func newCourseFrom(c *Course, stitches []*stitch.Stitch, circular bool) {
	oldNeedle := c.needleOf
	c.stitches = stitches
	c.needleOf = make(map[stitch.ID]needlePos, len(stitches))
	for _, s := range stitches {
		c.needleOf[s.ID] = oldNeedle[s.ID]
	}
	c.Reset(circular, false)
}
