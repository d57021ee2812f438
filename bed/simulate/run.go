package simulate

import (
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
	"github.com/knitgraph/compiler/stitch"
)

var log = xlog.For("simulate")

// Run replays every bed in b's timeline in order, maintaining the
// per-needle Flow state. reg receives
// ExcessiveStackedLoops/KnitOverMisses warnings; a TimeTravel violation
// aborts with a fatal error since it signals a corrupt timeline, not a
// recoverable knitting defect.
func Run(b *timeneedlebed.Bed, reg *diag.Registry) error {
	sub := reg
	if reg != nil {
		sub = reg.Sub("simulate")
	}

	for _, nb := range b.Timeline {
		if err := simulateBed(nb, sub); err != nil {
			return err
		}
	}

	return nil
}

// simulateBed seeds nb's state from the previous bed, then replays each
// of nb's passes in their stored (already spec-ordered) sequence.
func simulateBed(nb *timeneedlebed.NeedleBed, reg *diag.Registry) error {
	seedState(nb)

	for _, p := range nb.Passes {
		switch p.Type {
		case timeneedlebed.PassTransfer:
			if err := simulateTransfer(nb, p); err != nil {
				return err
			}
		default:
			if err := simulateActionLike(nb, p, reg); err != nil {
				return err
			}
		}
	}

	return nil
}

// seedState copies the previous bed's per-needle flow pointers into nb;
// a bed at the start of the timeline begins with all-nil state.
func seedState(nb *timeneedlebed.NeedleBed) {
	nb.State[diag.Front] = make([]any, len(nb.Front))
	nb.State[diag.Back] = make([]any, len(nb.Back))

	prev := previous(nb)
	if prev == nil {
		return
	}
	copySide := func(side diag.Side) {
		src := prev.State[side]
		dst := nb.State[side]
		n := len(src)
		if len(dst) < n {
			n = len(dst)
		}
		copy(dst[:n], src[:n])
	}
	copySide(diag.Front)
	copySide(diag.Back)
}

func previous(nb *timeneedlebed.NeedleBed) *timeneedlebed.NeedleBed {
	if nb.Parent == nil || nb.Time <= 0 || nb.Time > len(nb.Parent.Timeline) {
		return nil
	}

	return nb.Parent.Timeline[nb.Time-1]
}

func getFlow(nb *timeneedlebed.NeedleBed, pos timeneedlebed.NeedlePos) *Flow {
	s := nb.State[pos.Side]
	if pos.Index < 0 || pos.Index >= len(s) || s[pos.Index] == nil {
		return nil
	}
	f, _ := s[pos.Index].(*Flow)

	return f
}

func setFlow(nb *timeneedlebed.NeedleBed, pos timeneedlebed.NeedlePos, f *Flow) {
	s := nb.State[pos.Side]
	if pos.Index < 0 || pos.Index >= len(s) {
		return
	}
	if f == nil {
		s[pos.Index] = nil

		return
	}
	s[pos.Index] = f
}

// checkTimeTravel reports a fatal error if f carries a pointer whose time
// exceeds t.
func checkTimeTravel(f *Flow, t int, pos timeneedlebed.NeedlePos, reg *diag.Registry) error {
	if f == nil {
		return nil
	}
	for _, p := range f.Pointers {
		if p.Time > t {
			if reg != nil {
				reg.Record(diag.New(diag.KindTimeTravel, t, pos.Index, pos.Side,
					"flow pointer time exceeds current bed time"))
			}

			return diag.Fatal(diag.KindTimeTravel, "simulate: time travel detected")
		}
	}

	return nil
}

// simulateActionLike replays a CAST_ON, ACTION, or CAST_OFF pass's
// per-stitch effects. The cast-on pass shares the ACTION pass's ActionMap
// entries (see bed/interpret), so the same rules apply to it; cast-off
// passes carry their own Clear/CastOff entries, which fall through to the default
// knit-like seeding since they represent the loop leaving the bed, which
// this simulator does not need to special-case beyond recording the flow
// at its last position.
func simulateActionLike(nb *timeneedlebed.NeedleBed, p *timeneedlebed.Pass, reg *diag.Registry) error {
	for _, s := range p.Sequence {
		act, ok := p.ActionMap[s.ID]
		if !ok {
			continue
		}

		switch act.Kind {
		case timeneedlebed.ActMiss:
			existing := getFlow(nb, act.Source)
			if err := checkTimeTravel(existing, nb.Time, act.Source, reg); err != nil {
				return err
			}
			setFlow(nb, act.Source, withMiss(existing))

		case timeneedlebed.ActTuck:
			existing := getFlow(nb, act.Source)
			if err := checkTimeTravel(existing, nb.Time, act.Source, reg); err != nil {
				return err
			}
			setFlow(nb, act.Source, withTuck(existing, s, nb.Time))

		default:
			if err := simulateKnitLike(nb, s, act, reg); err != nil {
				return err
			}
		}
	}

	return nil
}

// simulateKnitLike handles every action kind besides miss/tuck: knit,
// purl, split, kickback, fb-knit, split-miss, cast-off, and clear all
// form (or re-form) a loop at the source needle.
func simulateKnitLike(nb *timeneedlebed.NeedleBed, s *stitch.Stitch, act *timeneedlebed.Action, reg *diag.Registry) error {
	existing := getFlow(nb, act.Source)
	if err := checkTimeTravel(existing, nb.Time, act.Source, reg); err != nil {
		return err
	}
	if existing != nil && reg != nil {
		if len(existing.Pointers) > 3 {
			reg.Record(diag.New(diag.KindExcessiveStackedLoops, nb.Time, act.Source.Index, act.Source.Side,
				"needle holds more than three stacked loops"))
		}
		if existing.Misses > 2 {
			reg.Record(diag.New(diag.KindKnitOverMisses, nb.Time, act.Source.Index, act.Source.Side,
				"knitting over more than two missed rows"))
		}
	}

	setFlow(nb, act.Source, single(s, nb.Time))

	for i, tgt := range act.Targets {
		if i == 0 {
			continue
		}
		if tgt == act.Source {
			// Kickback's fake self-secondary: not a real second needle.
			continue
		}
		secondary := getFlow(nb, tgt)
		if err := checkTimeTravel(secondary, nb.Time, tgt, reg); err != nil {
			return err
		}
		setFlow(nb, tgt, single(s, nb.Time))
	}

	return nil
}

// simulateTransfer replays a TRANSFER pass: every source flow is
// collected and cleared first, then merged into its target in a second
// pass, so that several transfers landing on the same needle combine
//.
func simulateTransfer(nb *timeneedlebed.NeedleBed, p *timeneedlebed.Pass) error {
	type move struct {
		target timeneedlebed.NeedlePos
		flow   *Flow
	}
	var moves []move

	for _, s := range p.Sequence {
		act, ok := p.ActionMap[s.ID]
		if !ok || len(act.Targets) == 0 {
			continue
		}
		f := getFlow(nb, act.Source)
		if err := checkTimeTravel(f, nb.Time, act.Source, nil); err != nil {
			return err
		}
		setFlow(nb, act.Source, nil)
		moves = append(moves, move{target: act.Targets[0], flow: f})
	}

	for _, m := range moves {
		setFlow(nb, m.target, merge(getFlow(nb, m.target), m.flow))
	}

	return nil
}
