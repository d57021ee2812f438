package interpret

import (
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/config"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// castOffMode resolves tail's "castOffMode" metadata, falling back to config.DefaultCastOffMode
// when absent or of the wrong type.
func castOffMode(tail *stitch.Stitch) config.CastOffMode {
	if v, ok := tail.First("castOffMode", stitch.NoContext); ok {
		if m, ok := v.(config.CastOffMode); ok {
			return m
		}
	}

	return config.DefaultCastOffMode
}

// castOffPass resolves spec.md §4.G's cast-off/clear step: find the first
// course neighbor of the sequence tail not present in the next bed; if
// none, the yarn ends here and a cast-off pass closes every
// still-present stitch, in reversed sequence order under CastOffChain
// (the default) and in sequence order under CastOffBindOff. If one exists, the
// yarn continues and only a bookkeeping clear entry is emitted for
// stitches left with no target that won't reappear.
func castOffPass(nb *timeneedlebed.NeedleBed, seq []*stitch.Stitch, reg *diag.Registry) {
	if len(seq) == 0 {
		return
	}
	tail := seq[len(seq)-1]
	next := nextBed(nb)

	var continuation *stitch.Stitch
	for _, n := range tail.Neighbors(stitch.Course) {
		if next == nil {
			continuation = n

			break
		}
		if _, present := next.StitchPtr[n.ID]; !present {
			continuation = n

			break
		}
	}

	action := nb.Pass(timeneedlebed.PassAction)
	if action == nil {
		return
	}

	if continuation == nil {
		pass := &timeneedlebed.Pass{Type: timeneedlebed.PassCastOff, ActionMap: make(map[stitch.ID]*timeneedlebed.Action)}

		indices := make([]int, len(seq))
		for i := range seq {
			indices[i] = i
		}
		if castOffMode(tail) == config.CastOffChain {
			// Chain cast-off closes stitches in reverse (tail-to-head), each
			// latching into the next.
			for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
				indices[i], indices[j] = indices[j], indices[i]
			}
		}

		for _, i := range indices {
			s := seq[i]
			if next != nil {
				if _, present := next.StitchPtr[s.ID]; present {
					continue
				}
			}
			pass.Sequence = append(pass.Sequence, s)
			pos, _ := nb.PositionOf(s)
			pass.ActionMap[s.ID] = &timeneedlebed.Action{Kind: timeneedlebed.ActCastOff, Source: pos}
		}
		if len(pass.Sequence) > 0 {
			nb.Passes = append(nb.Passes, pass)
		}

		return
	}

	pass := &timeneedlebed.Pass{Type: timeneedlebed.PassCastOff, ActionMap: make(map[stitch.ID]*timeneedlebed.Action)}
	for _, s := range seq {
		a := action.ActionMap[s.ID]
		if a == nil || len(a.Targets) != 0 {
			continue
		}
		if next != nil {
			if _, present := next.StitchPtr[s.ID]; present {
				continue
			}
		}
		pos, _ := nb.PositionOf(s)
		pass.Sequence = append(pass.Sequence, s)
		pass.ActionMap[s.ID] = &timeneedlebed.Action{Kind: timeneedlebed.ActClear, Source: pos}
	}
	if len(pass.Sequence) > 0 {
		nb.Passes = append(nb.Passes, pass)
	}
}

// carryOverIncreases is a documentation-only step: resolveIncrease (see
// action.go) already writes split/kickback/splitted flags straight into
// nextBed(nb)'s Has* maps as it resolves each stitch, so by the time Run
// reaches this point the next bed's "has" maps already hold this bed's
// carried-over "set" maps.
func carryOverIncreases(nb *timeneedlebed.NeedleBed) {}
