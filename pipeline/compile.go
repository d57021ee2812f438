// Package pipeline wires the leaf components (stitch, course, bed/layout,
// bed/builder, bed/optimizer, bed/timeneedlebed, bed/simulate, bed/compact)
// into the end-to-end compilation flow: shape-assembly output builds
// layout groups, the optimizer relaxes offsets/flips, the packer packs
// into a time-needle bed (invoking the interpreter internally per bed),
// then simulation and compaction run as optional final steps.
//
// This package is deliberately thin: it owns no knitting semantics of its
// own, only the ordering. Independent shape groups build their layout
// trees and run their optimizer passes concurrently, since neither stage
// touches another group's data; packing them into the shared bed is
// still strictly sequential (AppendLayout is called once per group, in
// group order, under a mutex), so concurrency here buys parallel layout
// construction and relaxation, not a shorter packed timeline. This entry
// point is hosted here, rather than on the stitch package, because it
// calls bed/builder, bed/optimizer, and bed/timeneedlebed, and an entry
// point depending on all of those cannot also live underneath them
// without an import cycle.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/compact"
	_ "github.com/knitgraph/compiler/bed/interpret" // registers itself onto timeneedlebed at init (see timeneedlebed/doc.go)
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/bed/optimizer"
	"github.com/knitgraph/compiler/bed/simulate"
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
)

var log = xlog.For("pipeline")

// ShapeGroup is one independent top-level unit of the input: a shape
// supplies courses, each already populated with stitches and a needle
// map. Resolving shapes into layout.Leaf values and scheduling them into
// blocks is the shape assembly collaborator's job; a ShapeGroup only
// carries the already-built block schedule for one such independent
// unit.
type ShapeGroup struct {
	// Name labels the group in diagnostics and the returned GroupMap; may
	// be empty.
	Name   string
	Blocks []builder.Block
}

// Options configures one CompileGroups invocation.
type Options struct {
	// MaxSweeps bounds bed/optimizer's relaxation (optimizer.LevelNone
	// skips optimization entirely; <=0 other than LevelNone selects
	// config.MaxOptimizerSweeps).
	MaxSweeps int
	// KeepDuplicates disables bed/timeneedlebed's duplicate-bed filtering.
	KeepDuplicates bool
	// Simulate runs bed/simulate.Run over the packed bed before compaction.
	Simulate bool
	// Compact runs bed/compact.Run after packing (and simulation, if
	// requested), producing the final returned *timeneedlebed.Bed.
	Compact bool
	// CompactTransferFlow is passed through to bed/compact.Run; only
	// meaningful when both Simulate and Compact are set.
	CompactTransferFlow bool
}

// CompileGroups runs the full pipeline over an ordered list of
// independent shape groups, returning the packed (and optionally
// simulated/compacted) time-needle bed.
//
// Groups are independent: each gets its own layout tree and its own
// optimizer pass, run concurrently via errgroup when there is more than
// one. The only shared mutable state is the destination Bed, which every
// group appends into, in group order, under a single mutex — packing one
// group's layout tree never observes another group's in-flight state. A
// single-group input takes a sequential fast path with no goroutines.
func CompileGroups(ctx context.Context, groups []ShapeGroup, reg *diag.Registry, opts Options) (*timeneedlebed.Bed, error) {
	roots := make([]layout.Group, len(groups))

	build := func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		g := groups[i]
		var sub *diag.Registry
		if reg != nil {
			sub = reg.Sub("builder")
			if g.Name != "" {
				sub = sub.Sub(g.Name)
			}
		}

		root, err := builder.Build(g.Blocks, sub)
		if err != nil {
			return err
		}

		optimizer.Optimize(root, sub, opts.MaxSweeps)
		roots[i] = root

		return nil
	}

	if len(groups) <= 1 {
		if len(groups) == 1 {
			if err := build(0); err != nil {
				return nil, err
			}
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		ctx = egCtx
		for i := range groups {
			i := i
			eg.Go(func() error { return build(i) })
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	bed := timeneedlebed.New(reg)
	bed.KeepDuplicates = opts.KeepDuplicates

	var mu sync.Mutex
	for i, root := range roots {
		if root == nil {
			continue
		}
		mu.Lock()
		err := bed.AppendLayout(root)
		mu.Unlock()
		if err != nil {
			return nil, err
		}
		log.Debug().Int("group", i).Str("name", groups[i].Name).Msg("appended group layout")
	}

	if opts.Simulate {
		if err := simulate.Run(bed, reg); err != nil {
			return nil, err
		}
	}

	if opts.Compact {
		return compact.Run(bed, opts.CompactTransferFlow), nil
	}

	return bed, nil
}
