package simulate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/bed/simulate"
	"github.com/knitgraph/compiler/bed/timeneedlebed"

	_ "github.com/knitgraph/compiler/bed/interpret"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// TestCleanFlatSheetProducesNoWarnings verifies the clean-run case: a
// plain flat sheet, one knit stitch per needle per row, never stacks more
// than one pointer and never misses, so the simulator should record
// nothing.
func TestCleanFlatSheetProducesNoWarnings(t *testing.T) {
	g := stitch.NewGraph()
	var leaves []*layout.Leaf
	var prev *course.Course
	for i := 0; i < 3; i++ {
		c, err := course.Flat(g, diag.Front, 3, 1)
		require.NoError(t, err)
		if prev != nil {
			require.NoError(t, prev.Link(c))
			for j, s := range prev.Stitches() {
				require.NoError(t, s.Connect(c.Stitches()[j], stitch.Wale))
			}
		}
		leaves = append(leaves, layout.NewLeaf(c))
		prev = c
	}

	blocks := make([]builder.Block, len(leaves))
	for i, l := range leaves {
		blocks[i] = builder.Block{Leaves: []*layout.Leaf{l}}
	}
	root, err := builder.Build(blocks, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	require.NoError(t, simulate.Run(bed, reg))
	assert.Empty(t, reg.ListAll())
}

// chainBed builds n width-1 beds linked into one Bed so tests can drive
// the per-needle flow-accumulation scenarios directly, without needing a
// full course/builder/optimizer pipeline.
func chainBed(n int) *timeneedlebed.Bed {
	b := &timeneedlebed.Bed{Width: 1}
	for i := 0; i < n; i++ {
		b.Timeline = append(b.Timeline, &timeneedlebed.NeedleBed{
			Parent: b,
			Time:   i,
			Front:  make([]timeneedlebed.Cell, 1),
			Back:   make([]timeneedlebed.Cell, 1),
		})
	}

	return b
}

func setSingleAction(nb *timeneedlebed.NeedleBed, s *stitch.Stitch, kind timeneedlebed.ActionKind) {
	pos := timeneedlebed.NeedlePos{Index: 0, Side: diag.Front}
	nb.Passes = []*timeneedlebed.Pass{{
		Type:     timeneedlebed.PassAction,
		Sequence: []*stitch.Stitch{s},
		ActionMap: map[stitch.ID]*timeneedlebed.Action{
			s.ID: {Kind: kind, Source: pos},
		},
	}}
}

// TestExcessiveStackedLoopsWarning verifies that four consecutive tucks
// at the same needle accumulate four flow pointers; a knit landing on
// top of that stack records KindExcessiveStackedLoops.
func TestExcessiveStackedLoopsWarning(t *testing.T) {
	g := stitch.NewGraph()
	b := chainBed(5)
	for i := 0; i < 4; i++ {
		setSingleAction(b.Timeline[i], g.New(), timeneedlebed.ActTuck)
	}
	setSingleAction(b.Timeline[4], g.New(), timeneedlebed.ActKnit)

	reg := diag.NewRoot("test")
	require.NoError(t, simulate.Run(b, reg))

	var found bool
	for _, e := range reg.ListAll() {
		if e.Kind == diag.KindExcessiveStackedLoops {
			found = true
		}
	}
	assert.True(t, found)
}

// TestKnitOverMissesWarning verifies that three consecutive misses at
// the same needle push its miss count past two; a subsequent knit
// records KindKnitOverMisses.
func TestKnitOverMissesWarning(t *testing.T) {
	g := stitch.NewGraph()
	b := chainBed(4)
	for i := 0; i < 3; i++ {
		setSingleAction(b.Timeline[i], g.New(), timeneedlebed.ActMiss)
	}
	setSingleAction(b.Timeline[3], g.New(), timeneedlebed.ActKnit)

	reg := diag.NewRoot("test")
	require.NoError(t, simulate.Run(b, reg))

	var found bool
	for _, e := range reg.ListAll() {
		if e.Kind == diag.KindKnitOverMisses {
			found = true
		}
	}
	assert.True(t, found)
}
