package interpret

import (
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/stitch"
)

// postActionTransferPass emits a transfer for every action whose first
// target differs from its source, excluding FB_KNIT (whose
// targets are part of the action itself, not a separate transfer).
func postActionTransferPass(nb *timeneedlebed.NeedleBed, seq []*stitch.Stitch) {
	action := nb.Pass(timeneedlebed.PassAction)
	if action == nil {
		return
	}
	pass := &timeneedlebed.Pass{Type: timeneedlebed.PassTransfer, ActionMap: make(map[stitch.ID]*timeneedlebed.Action)}
	for _, s := range seq {
		a := action.ActionMap[s.ID]
		if a == nil || a.Kind == timeneedlebed.ActFBKnit || len(a.Targets) == 0 {
			continue
		}
		t := a.Targets[0]
		if t == a.Source {
			continue
		}
		pass.Sequence = append(pass.Sequence, s)
		pass.ActionMap[s.ID] = &timeneedlebed.Action{
			Kind:    timeneedlebed.ActTransferOnly,
			Source:  a.Source,
			Targets: []timeneedlebed.NeedlePos{t},
		}
	}
	if len(pass.Sequence) > 0 {
		nb.Passes = append(nb.Passes, pass)
	}
}
