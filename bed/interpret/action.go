package interpret

import (
	"sort"

	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/config"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// actionPass resolves casting, targets, and regular/irregular classification
// for every stitch in seq, emitting the bed's (at most one) CAST_ON pass
// and its (at most one) ACTION pass.
func actionPass(nb *timeneedlebed.NeedleBed, seq []*stitch.Stitch, reg *diag.Registry) error {
	prev := prevBed(nb)
	next := nextBed(nb)

	action := &timeneedlebed.Pass{Type: timeneedlebed.PassAction, Sequence: append([]*stitch.Stitch{}, seq...), ActionMap: make(map[stitch.ID]*timeneedlebed.Action)}
	var castOnSeq []*stitch.Stitch

	for _, s := range seq {
		lower := walesPresentIn(s, prev)
		upper := walesPresentIn(s, next)
		casting := len(lower) == 0

		if len(upper) > 2 {
			reg.Record(diag.New(diag.KindTooManyUpperWales, nb.Time, 0, diag.Front,
				"stitch has more than two upper wale stitches"))
			sort.Slice(upper, func(i, j int) bool { return upper[i].ID < upper[j].ID })
			upper = upper[:2]
		}

		act := classify(nb, s, upper, casting, next, reg)
		action.ActionMap[s.ID] = act
		if casting {
			castOnSeq = append(castOnSeq, s)
		}
	}
	nb.Passes = append(nb.Passes, action)

	if len(castOnSeq) > 0 {
		ordered := orderCastOn(castOnSeq)
		castOn := &timeneedlebed.Pass{Type: timeneedlebed.PassCastOn, Sequence: ordered, ActionMap: make(map[stitch.ID]*timeneedlebed.Action)}
		for _, s := range ordered {
			castOn.ActionMap[s.ID] = action.ActionMap[s.ID]
		}
		// The cast-on pass is emitted first in the fixed ordering even
		// though it is computed alongside the action pass; reorder.
		nb.Passes = insertBefore(nb.Passes, castOn, action)
	}

	return nil
}

// castOnMode resolves seq[0]'s "castOnMode" metadata,
// falling back to config.DefaultCastOnMode when absent or of the wrong
// type.
func castOnMode(seq []*stitch.Stitch) config.CastOnMode {
	if len(seq) == 0 {
		return config.DefaultCastOnMode
	}
	if v, ok := seq[0].First("castOnMode", stitch.NoContext); ok {
		if m, ok := v.(config.CastOnMode); ok {
			return m
		}
	}

	return config.DefaultCastOnMode
}

// orderCastOn reorders seq per its resolved mode: Sequential keeps course
// order; Alternate casts on every other stitch first (evens, then odds),
// the standard technique for even starting tension.
func orderCastOn(seq []*stitch.Stitch) []*stitch.Stitch {
	if castOnMode(seq) != config.CastOnAlternate {
		return seq
	}

	out := make([]*stitch.Stitch, 0, len(seq))
	for i := 0; i < len(seq); i += 2 {
		out = append(out, seq[i])
	}
	for i := 1; i < len(seq); i += 2 {
		out = append(out, seq[i])
	}

	return out
}

// insertBefore returns passes with newPass spliced in immediately before
// marker.
func insertBefore(passes []*timeneedlebed.Pass, newPass, marker *timeneedlebed.Pass) []*timeneedlebed.Pass {
	out := make([]*timeneedlebed.Pass, 0, len(passes)+1)
	for _, p := range passes {
		if p == marker {
			out = append(out, newPass)
		}
		out = append(out, p)
	}

	return out
}

// walesPresentIn returns s's wale neighbors that are occupants of bed (nil
// bed yields no neighbors).
func walesPresentIn(s *stitch.Stitch, bed *timeneedlebed.NeedleBed) []*stitch.Stitch {
	if bed == nil {
		return nil
	}
	var out []*stitch.Stitch
	for _, w := range s.Neighbors(stitch.Wale) {
		if _, ok := bed.StitchPtr[w.ID]; ok {
			out = append(out, w)
		}
	}

	return out
}

// isCourseNeighbor reports whether candidate is one of s's course neighbors.
func isCourseNeighbor(s, candidate *stitch.Stitch) bool {
	for _, c := range s.Neighbors(stitch.Course) {
		if c.ID == candidate.ID {
			return true
		}
	}

	return false
}

// classify resolves one stitch's Action per spec.md §4.G's regular/
// irregular/increase decision tree.
func classify(nb *timeneedlebed.NeedleBed, s *stitch.Stitch, upper []*stitch.Stitch, casting bool, next *timeneedlebed.NeedleBed, reg *diag.Registry) *timeneedlebed.Action {
	pos, _ := nb.PositionOf(s)
	act := &timeneedlebed.Action{Source: pos, Casting: casting}

	targets := make([]timeneedlebed.NeedlePos, 0, len(upper))
	for _, u := range upper {
		if p, ok := next.PositionOf(u); ok {
			targets = append(targets, p)
		}
	}

	pattern := s.Pattern
	hasKickback := nb.HasKickback[s.ID]
	hasSplit := nb.HasSplit[s.ID]
	hasSplitted := nb.HasSplitted[s.ID]

	switch {
	case len(targets) == 2:
		resolveIncrease(nb, s, act, targets, next, reg)

	case len(targets) <= 1:
		act.Targets = targets
		regular := len(targets) == 1 && !isCourseNeighbor(s, upper[0]) && !hasKickback && !hasSplit && !hasSplitted
		switch {
		case regular:
			act.Regular = true
			act.Reverse = stitch.IsReverse(pattern)
			act.Restack = stitch.IsStack(pattern)
			switch {
			case stitch.IsTuck(pattern):
				act.Kind = timeneedlebed.ActTuck
			case stitch.IsMiss(pattern):
				act.Kind = timeneedlebed.ActMiss
			default:
				act.Kind = timeneedlebed.ActKnit
			}
		case hasSplitted:
			act.Kind = timeneedlebed.ActSplitMiss
		case hasKickback:
			act.Kind = timeneedlebed.ActKickback
		case hasSplit:
			act.Kind = timeneedlebed.ActSplit
		case stitch.IsTuck(pattern) && wasSuspendedHere(nb, s):
			act.Kind = timeneedlebed.ActTuck
			act.ShortRow = true
		default:
			act.Kind = timeneedlebed.ActKnit
		}
	}

	return act
}

// wasSuspendedHere reports whether s sits in some non-active leaf's
// Suspended list for this bed, the signal used to recognize a short-row
// rejoin tuck.
func wasSuspendedHere(nb *timeneedlebed.NeedleBed, s *stitch.Stitch) bool {
	for l := range nb.Groups {
		if l == nb.ActiveGroup {
			continue
		}
		for _, sus := range l.Suspended {
			if sus.ID == s.ID {
				return true
			}
		}
	}

	return false
}

// resolveIncrease handles the two-upper-wale case:
// FB-knit when both targets share an index on opposite sides of a bounded
// course; otherwise split if the near target equals source and the far
// target is within two needles, else kickback.
func resolveIncrease(nb *timeneedlebed.NeedleBed, s *stitch.Stitch, act *timeneedlebed.Action, targets []timeneedlebed.NeedlePos, next *timeneedlebed.NeedleBed, reg *diag.Registry) {
	act.Targets = targets
	t0, t1 := targets[0], targets[1]
	bounded := nb.ActiveGroup.Course != nil && !nb.ActiveGroup.Course.Circular()

	if t0.Index == t1.Index && t0.Side != t1.Side && bounded {
		act.Kind = timeneedlebed.ActFBKnit
		act.IncreaseType = timeneedlebed.IncreaseFBKnit

		return
	}

	near, far := t0, t1
	if l1(far, act.Source) < l1(near, act.Source) {
		near, far = far, near
	}

	if near == act.Source && l1(far, act.Source) <= 2 {
		act.Kind = timeneedlebed.ActSplit
		act.IncreaseType = timeneedlebed.IncreaseSplit
		farCopy := far
		act.IncreaseTarget = &farCopy
		setFlag(next, &next.HasSplitted, targetStitchAt(nb, far))

		return
	}

	act.Kind = timeneedlebed.ActKickback
	act.IncreaseType = timeneedlebed.IncreaseKickback
	setFlag(next, &next.HasKickback, targetStitchAt(nb, near))
	setFlag(next, &next.HasKickback, targetStitchAt(nb, far))
}

func l1(a, b timeneedlebed.NeedlePos) int {
	d := a.Index - b.Index
	if d < 0 {
		d = -d
	}
	if a.Side != b.Side {
		d++
	}

	return d
}

// targetStitchAt resolves which stitch (if any) occupies pos in the next
// bed, used to seed that stitch's carry-over flag.
func targetStitchAt(nb *timeneedlebed.NeedleBed, pos timeneedlebed.NeedlePos) stitch.ID {
	next := nextBed(nb)
	if next == nil {
		return 0
	}
	cells := next.Front
	if pos.Side == diag.Back {
		cells = next.Back
	}
	if pos.Index < 0 || pos.Index >= len(cells) {
		return 0
	}
	if s := cells[pos.Index].First(); s != nil {
		return s.ID
	}

	return 0
}

func setFlag(nb *timeneedlebed.NeedleBed, m *map[stitch.ID]bool, id stitch.ID) {
	if nb == nil || id == 0 {
		return
	}
	if *m == nil {
		*m = make(map[stitch.ID]bool)
	}
	(*m)[id] = true
}
