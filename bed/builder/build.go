package builder

import (
	"fmt"

	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// Build runs the layout-builder algorithm of spec.md §4.D over an ordered
// block schedule, threading suspended-stitch groups between blocks and
// returning the assembled root Internal. Diagnostics recorded along the
// way (currently none are non-fatal for this stage) are appended to reg
// if reg is non-nil.
//
// A stitch is "unfinished" when it has at least one wale neighbor not yet
// produced by any processed block, tracked via a boolean history keyed by
// stitch id.
func Build(blocks []Block, reg *diag.Registry) (*layout.Internal, error) {
	produced := make(map[stitch.ID]bool)
	var groups []layout.Group
	var suspended []layout.Group
	var last *layout.Internal
	time := 0

	for _, b := range blocks {
		if len(b.Leaves) == 0 {
			continue
		}

		grp := layout.NewInternal(toGroups(b.Leaves)...)
		grp.SetTime(time)
		duration := len(b.Leaves)
		grpSet := stitchSet(grp.Stitches())

		// grp's own stitches count as produced as of this time step, so the
		// checks below correctly treat a wale neighbor inside grp itself as
		// finished rather than still-pending.
		for id := range grpSet {
			produced[id] = true
		}

		for i := 1; i < len(b.Leaves); i++ {
			suspendForwardStitches(b.Leaves[i-1], b.Leaves[i], produced)
		}

		if last != nil {
			layout.Last(last).LinkTo(layout.First(grp))
		}
		for _, s := range suspended {
			layout.First(grp).LinkTo(layout.Last(s))
		}

		var stillActive []layout.Group
		for _, s := range suspended {
			tail := layout.Last(s)
			unfin := unfinishedIn(tail.Stitches(), produced, grpSet)
			if len(unfin) == 0 {
				continue // drop: this suspended group's work is done
			}
			sg := repeatGroup(unfin, duration, tail)
			sg.SetTime(time)
			groups = append(groups, sg)
			layout.First(sg).LinkTo(tail)
			stillActive = append(stillActive, sg)
		}
		suspended = stillActive

		if last != nil {
			tail := layout.Last(last)
			unfin := unfinishedIn(tail.Stitches(), produced, grpSet)
			if len(unfin) > 0 {
				sg := repeatGroup(unfin, duration, tail)
				sg.SetTime(time)
				groups = append(groups, sg)
				suspended = append(suspended, sg)
			}
		}

		groups = append(groups, grp)
		for id := range grpSet {
			produced[id] = true
		}

		last = grp
		time += duration
	}

	if len(suspended) > 0 {
		if reg != nil {
			reg.Record(diag.New(diag.KindSuspendedAtEnd, time, 0, diag.Front,
				fmt.Sprintf("%d suspended group(s) remained unfinished at end of schedule", len(suspended))))
		}

		return nil, diag.Fatal(diag.KindSuspendedAtEnd, "builder.Build")
	}

	return layout.NewInternal(groups...), nil
}

// toGroups adopts leaves into a Group slice, staggering each leaf's local
// time by its position within the block so FullTime() composes to the
// block's base time plus i (spec.md §4.D: "grp.time = time" is the
// block's base; each interior course is a distinct time step within it).
func toGroups(leaves []*layout.Leaf) []layout.Group {
	out := make([]layout.Group, len(leaves))
	for i, l := range leaves {
		l.SetTime(i)
		out[i] = l
	}

	return out
}

func stitchSet(stitches []*stitch.Stitch) map[stitch.ID]struct{} {
	set := make(map[stitch.ID]struct{}, len(stitches))
	for _, s := range stitches {
		set[s.ID] = struct{}{}
	}

	return set
}

// unfinished reports whether s has a wale neighbor not yet in produced.
func unfinished(s *stitch.Stitch, produced map[stitch.ID]bool) bool {
	for _, w := range s.Neighbors(stitch.Wale) {
		if !produced[w.ID] {
			return true
		}
	}

	return false
}

// unfinishedIn filters stitches to those that are unfinished and not
// already present in exclude.
func unfinishedIn(stitches []*stitch.Stitch, produced map[stitch.ID]bool, exclude map[stitch.ID]struct{}) []*stitch.Stitch {
	var out []*stitch.Stitch
	for _, s := range stitches {
		if _, in := exclude[s.ID]; in {
			continue
		}
		if unfinished(s, produced) {
			out = append(out, s)
		}
	}

	return out
}

// suspendForwardStitches moves stitches from prev that still have an
// ungenerated wale and are absent from cur into cur's suspended set,
// preserving their last known needle position.
func suspendForwardStitches(prev, cur *layout.Leaf, produced map[stitch.ID]bool) {
	curSet := stitchSet(cur.Stitches())

	var toSuspend []*stitch.Stitch
	positions := make(map[stitch.ID]layout.SuspPos)
	for _, s := range prev.Stitches() {
		if _, in := curSet[s.ID]; in {
			continue
		}
		if !unfinished(s, produced) {
			continue
		}
		idx, side, ok := prev.NeedleOf(s)
		if !ok {
			continue
		}
		toSuspend = append(toSuspend, s)
		positions[s.ID] = layout.SuspPos{Index: idx, Side: side}
	}
	if len(toSuspend) > 0 {
		cur.Suspend(toSuspend, positions)
	}
}

// repeatGroup builds a chain of duration placeholder leaves, each
// carrying stitches forward at their position on tail.
func repeatGroup(stitches []*stitch.Stitch, duration int, tail *layout.Leaf) *layout.Internal {
	positions := make(map[stitch.ID]layout.SuspPos)
	for _, s := range stitches {
		idx, side, ok := tail.NeedleOf(s)
		if !ok {
			idx, side = 0, diag.Front
		}
		positions[s.ID] = layout.SuspPos{Index: idx, Side: side}
	}

	leaves := make([]layout.Group, duration)
	for i := 0; i < duration; i++ {
		lf := layout.NewLeaf(nil)
		lf.Suspend(stitches, positions)
		lf.SetTime(i)
		leaves[i] = lf
	}

	return layout.NewInternal(leaves...)
}
