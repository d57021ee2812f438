package interpret

import (
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// rewritePatterns is the second sweep over the action pass: cross patterns
// swap targets between paired runs, then move patterns on regular stitches
// retarget to a course-order neighbor's target, and finally MISS patterns
// have their targets emptied. Cross recognition does not check
// Action.Regular; it considers every stitch in seq.
func rewritePatterns(nb *timeneedlebed.NeedleBed, seq []*stitch.Stitch, reg *diag.Registry) {
	action := nb.Pass(timeneedlebed.PassAction)
	if action == nil {
		return
	}

	rewriteCrosses(action, seq, reg, nb.Time)
	rewriteMoves(action, seq)

	for _, s := range seq {
		if a := action.ActionMap[s.ID]; a != nil && a.Kind == timeneedlebed.ActMiss {
			a.Targets = nil
		}
	}
}

func rewriteMoves(action *timeneedlebed.Pass, seq []*stitch.Stitch) {
	for i, s := range seq {
		a := action.ActionMap[s.ID]
		if a == nil || !a.Regular {
			continue
		}
		dir, steps, ok := stitch.IsMove(s.Pattern)
		if !ok {
			continue
		}
		j := i + int(dir)*steps
		if j < 0 || j >= len(seq) {
			continue
		}
		neighbor := action.ActionMap[seq[j].ID]
		if neighbor == nil || len(neighbor.Targets) == 0 {
			continue
		}
		a.Targets = append([]timeneedlebed.NeedlePos{}, neighbor.Targets...)
	}
}

// rewriteCrosses recognizes first/relief/second runs of complementary
// cross-pattern stitches along seq and swaps their targets. Falls back to MISS with a recorded
// diag.KindInvalidCrossPair warning when a run's sides don't line up.
func rewriteCrosses(action *timeneedlebed.Pass, seq []*stitch.Stitch, reg *diag.Registry, time int) {
	i := 0
	for i < len(seq) {
		first := seq[i]
		complement, isCrossStart := stitch.IsCross(first.Pattern)
		if !isCrossStart {
			i++

			continue
		}
		firstType := first.Pattern
		firstRun, j := consumeRun(seq, i, func(p int) bool { return p == firstType })
		reliefRun, k := consumeRun(seq, j, func(p int) bool { _, cross := stitch.IsCross(p); return !cross })
		secondRun, end := consumeRun(seq, k, func(p int) bool { return p == complement })

		if len(secondRun) == 0 || len(secondRun) != len(firstRun) || !sameSide(action, firstRun) || !sameSide(action, secondRun) {
			if len(firstRun) > 0 {
				invalidateCross(action, firstRun, reg, time)
			}
			if len(secondRun) > 0 {
				invalidateCross(action, secondRun, reg, time)
			}
			i = max(i+1, end)

			continue
		}

		for idx := range firstRun {
			fa := action.ActionMap[firstRun[idx].ID]
			sa := action.ActionMap[secondRun[idx].ID]
			if fa == nil || sa == nil {
				continue
			}
			fTargets, sTargets := fa.Targets, sa.Targets
			fa.Targets, sa.Targets = sTargets, fTargets
			fa.Pairing = &timeneedlebed.Pairing{Reverse: true, Steps: len(firstRun), Side: sa.Source.Side}
			sa.Pairing = &timeneedlebed.Pairing{Reverse: true, Steps: len(secondRun), Side: fa.Source.Side}
		}
		_ = reliefRun
		i = end
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// consumeRun consumes the maximal run of seq[start:] whose stitches'
// Pattern satisfies pred, returning the run and the index just past it.
func consumeRun(seq []*stitch.Stitch, start int, pred func(pattern int) bool) ([]*stitch.Stitch, int) {
	i := start
	for i < len(seq) && pred(seq[i].Pattern) {
		i++
	}

	return seq[start:i], i
}

// sameSide reports whether every stitch in run resolved to the same
// action source side.
func sameSide(action *timeneedlebed.Pass, run []*stitch.Stitch) bool {
	if len(run) == 0 {
		return false
	}
	side := action.ActionMap[run[0].ID]
	if side == nil {
		return false
	}
	want := side.Source.Side
	for _, s := range run[1:] {
		a := action.ActionMap[s.ID]
		if a == nil || a.Source.Side != want {
			return false
		}
	}

	return true
}

func invalidateCross(action *timeneedlebed.Pass, run []*stitch.Stitch, reg *diag.Registry, time int) {
	for _, s := range run {
		a := action.ActionMap[s.ID]
		if a == nil {
			continue
		}
		a.Kind = timeneedlebed.ActMiss
		a.Regular = false
		if reg != nil {
			reg.Record(diag.New(diag.KindInvalidCrossPair, time, a.Source.Index, a.Source.Side,
				"cross recognition fell back to MISS"))
		}
	}
}
