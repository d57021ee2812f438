package interpret

import (
	"sort"

	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// suspendedTransferPass emits the transfer pass for suspended groups
//: when the bed has multiple groups or no active group,
// every suspended stitch whose (index,side) differs from its needle on
// the previous bed gets a transfer action, source=prev, target=current,
// ordered by source side.
func suspendedTransferPass(nb *timeneedlebed.NeedleBed, reg *diag.Registry) {
	if len(nb.Groups) <= 1 && nb.ActiveGroup != nil {
		return
	}
	prev := prevBed(nb)
	if prev == nil {
		return
	}

	type entry struct {
		s    *stitch.Stitch
		from timeneedlebed.NeedlePos
		to   timeneedlebed.NeedlePos
	}
	var entries []entry
	for l := range nb.Groups {
		for _, s := range l.Suspended {
			cur, ok := nb.PositionOf(s)
			if !ok {
				continue
			}
			prior, ok := prev.PositionOf(s)
			if !ok || prior == cur {
				continue
			}
			entries = append(entries, entry{s: s, from: prior, to: cur})
		}
	}
	if len(entries) == 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].from.Side != entries[j].from.Side {
			return entries[i].from.Side < entries[j].from.Side
		}

		return entries[i].from.Index < entries[j].from.Index
	})

	pass := &timeneedlebed.Pass{Type: timeneedlebed.PassTransfer, ActionMap: make(map[stitch.ID]*timeneedlebed.Action)}
	for _, e := range entries {
		pass.Sequence = append(pass.Sequence, e.s)
		pass.ActionMap[e.s.ID] = &timeneedlebed.Action{
			Kind:    timeneedlebed.ActTransferOnly,
			Source:  e.from,
			Targets: []timeneedlebed.NeedlePos{e.to},
		}
	}
	nb.Passes = append(nb.Passes, pass)
}

// prevBed returns the actually-stored previous bed, or nil at a timeline
// boundary (unlike Bed.At, which fabricates a synthetic empty bed).
func prevBed(nb *timeneedlebed.NeedleBed) *timeneedlebed.NeedleBed {
	if nb.Parent == nil || nb.Time <= 0 || nb.Time-1 >= len(nb.Parent.Timeline) {
		return nil
	}

	return nb.Parent.Timeline[nb.Time-1]
}

// nextBed mirrors prevBed for the following time step.
func nextBed(nb *timeneedlebed.NeedleBed) *timeneedlebed.NeedleBed {
	if nb.Parent == nil || nb.Time+1 >= len(nb.Parent.Timeline) {
		return nil
	}

	return nb.Parent.Timeline[nb.Time+1]
}
