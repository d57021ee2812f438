package layout

import (
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// SuspPos is a suspended stitch's stored (index, side), analogous to
// course's internal needlePos but tracked on the Leaf since suspended
// stitches are not part of the wrapped course's own sequence.
type SuspPos struct {
	Index int
	Side  diag.Side
}

// Leaf wraps one course plus any stitches suspended across time:
// stitches whose wales extend beyond their home course and so must stay
// addressable on a needle until a later bed produces them.
// Course is nil for a pure placeholder leaf spawned by bed/builder's
// repeat step, which carries only suspended stitches
// forward through a block's duration with no new course content.
//
// Optional shape/course-id bookkeeping is carried in Meta instead of
// dedicated struct fields, since shape assembly is an external
// collaborator and Course is already constructed by the time a real
// (non-placeholder) Leaf is built.
type Leaf struct {
	base
	Course    *course.Course
	Suspended []*stitch.Stitch
	SuspMap   map[stitch.ID]SuspPos
	Meta      map[string]any

	links map[*Leaf]struct{}

	// susMinIdx/susMaxIdx/susSides cache extents over Suspended: min/max
	// index and per-side presence.
	susCacheValid bool
	susMinIdx     int
	susMaxIdx     int
	susSides      diag.Side
}

// NewLeaf wraps c in a fresh top-level Leaf. c may be nil to build a
// placeholder leaf meant only to carry suspended stitches.
func NewLeaf(c *course.Course) *Leaf {
	return &Leaf{
		base:    base{id: nextGroupID("leaf")},
		Course:  c,
		SuspMap: make(map[stitch.ID]SuspPos),
		Meta:    make(map[string]any),
		links:   make(map[*Leaf]struct{}),
	}
}

// Suspend records stitches as suspended in l, at the given local
// positions.
func (l *Leaf) Suspend(stitches []*stitch.Stitch, positions map[stitch.ID]SuspPos) {
	l.Suspended = append(l.Suspended, stitches...)
	for id, p := range positions {
		l.SuspMap[id] = p
	}
	l.susCacheValid = false
}

// recomputeSusCache lazily rebuilds the min/max/side cache over Suspended.
func (l *Leaf) recomputeSusCache() {
	if l.susCacheValid {
		return
	}
	if len(l.Suspended) == 0 {
		l.susMinIdx, l.susMaxIdx, l.susSides = 0, -1, 0
		l.susCacheValid = true

		return
	}
	minIdx, maxIdx := int(^uint(0)>>1), -(int(^uint(0)>>1)) - 1
	mask := 0
	for _, s := range l.Suspended {
		p := l.SuspMap[s.ID]
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
	l.susMinIdx, l.susMaxIdx = minIdx, maxIdx
	switch mask {
	case 1:
		l.susSides = diag.Front
	case 2:
		l.susSides = diag.Back
	default:
		l.susSides = diag.Both
	}
	l.susCacheValid = true
}

// Stitches returns every stitch this leaf carries: its course's sequence
// plus any suspended stitches.
func (l *Leaf) Stitches() []*stitch.Stitch {
	out := make([]*stitch.Stitch, 0, len(l.courseStitches())+len(l.Suspended))
	out = append(out, l.courseStitches()...)
	out = append(out, l.Suspended...)

	return out
}

func (l *Leaf) courseStitches() []*stitch.Stitch {
	if l.Course == nil {
		return nil
	}

	return l.Course.Stitches()
}

// NeedleOf returns s's position local to this leaf (course offset/flip
// composed, or the suspended position), not yet composed with l's own or
// its ancestors' offset/flip. Callers wanting the absolute bed position
// should apply l.FullOffset()/l.FullFlip(), or use AbsoluteNeedleOf.
func (l *Leaf) NeedleOf(s *stitch.Stitch) (index int, side diag.Side, ok bool) {
	if l.Course != nil {
		if idx, sd, found := l.Course.NeedleOf(s, 0, false); found {
			return idx, sd, true
		}
	}
	if p, found := l.SuspMap[s.ID]; found {
		return p.Index, p.Side, true
	}

	return 0, diag.Front, false
}

// AbsoluteNeedleOf composes l's own (offset, flip) and l's ancestors' with
// s's local position, yielding the final bed-ready (index, side).
// Complexity: O(depth) for the ancestor walk.
func (l *Leaf) AbsoluteNeedleOf(s *stitch.Stitch) (index int, side diag.Side, ok bool) {
	idx, sd, found := l.NeedleOf(s)
	if !found {
		return 0, diag.Front, false
	}
	idx += l.FullOffset()
	if l.FullFlip() {
		sd = sd.Other()
	}

	return idx, sd, true
}

// Side reports front/back/both over the union of course and suspended
// stitches.
func (l *Leaf) Side() diag.Side {
	l.recomputeSusCache()
	side := diag.Front
	mask := 0
	if l.Course != nil {
		switch l.Course.Side() {
		case diag.Front:
			mask |= 1
		case diag.Back:
			mask |= 2
		case diag.Both:
			mask |= 3
		}
	}
	if len(l.Suspended) > 0 {
		switch l.susSides {
		case diag.Front:
			mask |= 1
		case diag.Back:
			mask |= 2
		case diag.Both:
			mask |= 3
		}
	}
	switch mask {
	case 1:
		side = diag.Front
	case 2:
		side = diag.Back
	case 0:
		side = diag.Front
	default:
		side = diag.Both
	}

	return side
}

// Extents returns the local (pre-offset) minimum/maximum needle index
// across course and suspended stitches.
func (l *Leaf) Extents() (lo, hi int) {
	l.recomputeSusCache()
	haveCourse := l.Course != nil && l.Course.Width() > 0
	haveSus := len(l.Suspended) > 0
	switch {
	case haveCourse && haveSus:
		lo = min(0, l.susMinIdx)
		hi = max(l.Course.Width()-1, l.susMaxIdx)
	case haveCourse:
		lo, hi = 0, l.Course.Width()-1
	case haveSus:
		lo, hi = l.susMinIdx, l.susMaxIdx
	}

	return lo, hi
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// Leaves returns l itself (a Leaf has no children).
func (l *Leaf) Leaves() []*Leaf { return []*Leaf{l} }

// ApplyTime is a no-op for a Leaf: time has nowhere further to descend.
func (l *Leaf) ApplyTime() {}

// ApplyOffset bakes l's local offset into its wrapped course (and
// suspended positions) so the leaf's own offset can be reset to zero,
// leaving zeroed local transforms and absolute needle indices.
func (l *Leaf) ApplyOffset() {
	if l.offset == 0 {
		return
	}
	if l.Course != nil {
		l.Course.SetOffset(l.Course.Offset() + l.offset)
	}
	for id, p := range l.SuspMap {
		p.Index += l.offset
		l.SuspMap[id] = p
	}
	l.offset = 0
	l.susCacheValid = false
}

// ApplyFlip bakes l's local flip into its wrapped course's stored sides
// (and suspended positions), then clears it.
func (l *Leaf) ApplyFlip() {
	if !l.flip {
		return
	}
	if l.Course != nil {
		l.Course.FlipSides()
	}
	for id, p := range l.SuspMap {
		p.Side = p.Side.Other()
		l.SuspMap[id] = p
	}
	l.flip = false
	l.susCacheValid = false
}
