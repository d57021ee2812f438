// Package interpret implements spec.md §4.G: per-bed emission of the IR
// passes (cast-on, action, transfer, cast-off), classification of regular
// vs irregular stitches, increase resolution (split vs kickback vs
// FB-knit), and move/cross pattern-target rewriting.
//
// Run is registered onto bed/timeneedlebed.Interpreter at init time so
// bed/timeneedlebed.Bed.AppendLayout can invoke it internally without that package importing this one — see
// timeneedlebed's doc.go for why.
package interpret

import (
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
)

var log = xlog.For("interpret")

func init() {
	timeneedlebed.RegisterInterpreter(Run)
}

// Run executes the fixed pass order for one bed: suspended-transfer, cast-on, action, post-action
// transfer, cast-off/clear.
func Run(nb *timeneedlebed.NeedleBed, reg *diag.Registry) error {
	sub := reg
	if sub != nil {
		sub = reg.Sub("interpret")
	}

	suspendedTransferPass(nb, sub)

	if nb.ActiveGroup == nil || nb.ActiveGroup.Course == nil || nb.ActiveGroup.Course.Len() == 0 {
		return nil
	}

	seq := nb.ActiveGroup.Course.Stitches()

	if err := actionPass(nb, seq, sub); err != nil {
		return err
	}
	rewritePatterns(nb, seq, sub)
	postActionTransferPass(nb, seq)
	castOffPass(nb, seq, sub)
	carryOverIncreases(nb)

	log.Debug().Int("time", nb.Time).Int("seq_len", len(seq)).Msg("interpreted bed")

	return nil
}
