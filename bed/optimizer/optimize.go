package optimizer

import (
	"math"

	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/config"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
)

var log = xlog.For("optimizer")

// Optimize runs iterative, stress-weighted relaxation over root in place:
// alternating forward/backward sweeps, coarsest level to finest within a
// sweep, adjusting each group's offset toward its real linked neighbor's
// stress-weighted target and flipping one-sided groups when doing so
// strictly reduces bed-side conflicts. Stops once two successive
// sweeps make zero changes, or at maxSweeps (<=0 selects
// config.MaxOptimizerSweeps), recording diag.KindOptimizerNonconvergence
// as a notice in the latter case.
//
// Passing maxSweeps == optimizer.LevelNone skips relaxation entirely,
// returning root unchanged.
func Optimize(root layout.Group, reg *diag.Registry, maxSweeps int) {
	if maxSweeps == LevelNone {
		return
	}
	if maxSweeps <= 0 {
		maxSweeps = config.MaxOptimizerSweeps
	}
	levels := buildLevels(root)

	zeroStreak := 0
	sweep := 0
	for ; sweep < maxSweeps; sweep++ {
		forward := sweep%2 == 0
		changed := 0
		for li := range levels {
			idx := li
			if !forward {
				idx = len(levels) - 1 - li
			}
			changed += relaxLevel(levels[idx], forward)
		}
		log.Debug().Int("sweep", sweep).Int("changed_groups", changed).Bool("forward", forward).Msg("optimizer sweep")
		if changed == 0 {
			zeroStreak++
			if zeroStreak >= 2 {
				return
			}

			continue
		}
		zeroStreak = 0
	}

	if reg != nil {
		reg.Record(diag.New(diag.KindOptimizerNonconvergence, 0, 0, diag.Front,
			"optimizer ran the maximum sweep budget without two stable sweeps"))
	}
}

// LevelNone is the sentinel maxSweeps value meaning "do not optimize at
// all".
const LevelNone = -1

// relaxLevel adjusts every group in lv against its real linked neighbor
// (the predecessor in the given iteration direction whose boundary leaves
// actually link into it — see bed/layout.BoundaryLeaves), falling back to
// plain list adjacency when no such link was recorded, returning the
// number of groups changed (offset or flip).
func relaxLevel(lv []layout.Group, forward bool) int {
	order := append([]layout.Group{}, lv...)
	if !forward {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	changed := 0
	for i, g := range order {
		if i == 0 {
			continue
		}
		neighbor := linkedPredecessor(g, order[:i])
		if neighbor == nil {
			neighbor = order[i-1]
		}
		pairs := stressPairsBetween(g, neighbor)
		if len(pairs) == 0 {
			continue
		}

		// pairs hold absolute needle positions, which already include both
		// groups' current offsets, so their mean difference is the offset
		// change itself.
		delta := int(math.Round(bestOffset(pairs)))
		if delta != 0 {
			g.SetOffset(g.Offset() + delta)
			changed++
		}

		if g.Side() != diag.Both {
			good, bad := sideConflicts(pairs)
			if good < bad {
				g.SetFlip(!g.Flip())
				changed++
			}
		}
	}

	return changed
}

// linkedPredecessor returns whichever of candidates owns a leaf that g's
// boundary leaves actually link to (see bed/layout.BoundaryLeaves),
// preferring the candidate closest to the end of the slice when more than
// one matches. Returns nil if g has no boundary link into any candidate,
// in which case the caller falls back to plain list adjacency.
func linkedPredecessor(g layout.Group, candidates []layout.Group) layout.Group {
	linkMap := make(map[*layout.Leaf][]*layout.Leaf)
	layout.BoundaryLeaves(g, linkMap)
	if len(linkMap) == 0 {
		return nil
	}

	linked := make(map[*layout.Leaf]struct{})
	for _, outs := range linkMap {
		for _, o := range outs {
			linked[o] = struct{}{}
		}
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		for _, l := range candidates[i].Leaves() {
			if _, ok := linked[l]; ok {
				return candidates[i]
			}
		}
	}

	return nil
}
