package compact

import (
	"github.com/knitgraph/compiler/bed/simulate"
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
)

var log = xlog.For("compact")

// Run produces a new *timeneedlebed.Bed from b that preserves knitting
// semantics while dropping beds that carry no information: a fully empty
// bed (no stitch occupies it, the packer's own inter-component padding)
// or a bed flagged Duplicate by the packer (same occupancy and needle
// positions as the bed immediately before it). Every remaining bed is
// rebased to a contiguous zero-based Time, and the group/node maps, the
// stitch map, and (when transferFlow is true) simulator state are
// remapped through the same old-time → new-time table. Diagnostics are
// not remapped: entries already recorded in b.Reg keep their
// pre-compaction Time values, and the table itself is not returned.
//
// Run(Run(b, tf)) == Run(b, tf) up to the returned Bed's contents: a
// second pass finds no empty or duplicate beds left to drop, since the
// first pass already removed every one, so it is a structural no-op.
func Run(b *timeneedlebed.Bed, transferFlow bool) *timeneedlebed.Bed {
	keep := make([]bool, len(b.Timeline))
	for i, nb := range b.Timeline {
		keep[i] = !isEmpty(nb) && !nb.Duplicate
	}
	if len(keep) > 0 {
		keep[0] = keep[0] || (!isEmpty(b.Timeline[0]))
	}

	oldToNew := make([]int, len(b.Timeline))
	newTimeline := make([]*timeneedlebed.NeedleBed, 0, len(b.Timeline))
	for i, nb := range b.Timeline {
		if !keep[i] {
			if len(newTimeline) == 0 {
				oldToNew[i] = 0
			} else {
				oldToNew[i] = len(newTimeline) - 1
			}

			continue
		}
		nb.Time = len(newTimeline)
		nb.Parent = b
		newTimeline = append(newTimeline, nb)
		oldToNew[i] = nb.Time
	}

	out := timeneedlebed.New(b.Reg)
	out.Width = b.Width
	out.KeepDuplicates = b.KeepDuplicates
	out.Timeline = newTimeline

	for id, nb := range b.StitchMap {
		newIdx := oldToNew[indexOf(b, nb)]
		if newIdx >= 0 && newIdx < len(newTimeline) {
			out.StitchMap[id] = newTimeline[newIdx]
		}
	}
	for k, info := range b.GroupMap {
		out.GroupMap[k] = remapGroupInfo(info, oldToNew)
	}
	for k, info := range b.NodeMap {
		out.NodeMap[k] = remapGroupInfo(info, oldToNew)
	}

	if !transferFlow {
		for _, nb := range out.Timeline {
			nb.State[diag.Front] = make([]any, len(nb.Front))
			nb.State[diag.Back] = make([]any, len(nb.Back))
		}
	} else {
		for _, nb := range out.Timeline {
			remapFlowSide(nb.State[diag.Front], oldToNew)
			remapFlowSide(nb.State[diag.Back], oldToNew)
		}
	}

	log.Debug().Int("beds_in", len(b.Timeline)).Int("beds_out", len(newTimeline)).Bool("transfer_flow", transferFlow).Msg("compacted")

	return out
}

// isEmpty reports whether nb holds no stitches at all.
func isEmpty(nb *timeneedlebed.NeedleBed) bool {
	return len(nb.StitchPtr) == 0
}

// indexOf finds nb's position within b's original timeline. Bed packing
// never produces more than a few hundred beds in realistic garments, so a
// linear scan per distinct stitch is acceptable; callers needing this at
// scale should keep their own index.
func indexOf(b *timeneedlebed.Bed, nb *timeneedlebed.NeedleBed) int {
	for i, cand := range b.Timeline {
		if cand == nb {
			return i
		}
	}

	return 0
}

func remapGroupInfo(info timeneedlebed.GroupInfo, oldToNew []int) timeneedlebed.GroupInfo {
	out := info
	out.Times = make([]int, len(info.Times))
	for i, t := range info.Times {
		out.Times[i] = remapTime(t, oldToNew)
	}
	out.StartTime = remapTime(info.StartTime, oldToNew)

	return out
}

func remapTime(t int, oldToNew []int) int {
	if t < 0 || t >= len(oldToNew) {
		return t
	}

	return oldToNew[t]
}

func remapFlowSide(cells []any, oldToNew []int) {
	for i, v := range cells {
		f, ok := v.(*simulate.Flow)
		if !ok || f == nil {
			continue
		}
		pointers := make([]simulate.Pointer, len(f.Pointers))
		for j, p := range f.Pointers {
			pointers[j] = simulate.Pointer{Stitch: p.Stitch, Time: remapTime(p.Time, oldToNew)}
		}
		cells[i] = &simulate.Flow{Pointers: pointers, Misses: f.Misses}
	}
}

// RemapRegistry rebuilds a diag.Registry whose entries' Time fields are
// remapped through oldToNew, used after Run to keep reported diagnostics
// pointing at the compacted bed's indices. Called by callers that hold
// onto b.Reg across a Run; Run itself does not mutate b.Reg since
// multiple compactions (e.g. simulate-then-compact, then compact again)
// may share one registry.
func RemapRegistry(reg *diag.Registry, oldToNew []int) *diag.Registry {
	fresh := diag.NewRoot(reg.Name())
	for _, e := range reg.List() {
		e.Time = remapTime(e.Time, oldToNew)
		fresh.Record(e)
	}

	return fresh
}
