package compact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/compact"
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/bed/timeneedlebed"

	_ "github.com/knitgraph/compiler/bed/interpret"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// manualBed builds n width-1 beds with Duplicate/StitchPtr set directly,
// exercising compact.Run's drop/remap logic without needing a full
// course/builder/optimizer/simulate pipeline.
func manualBed(dup, empty map[int]bool, n int) *timeneedlebed.Bed {
	b := timeneedlebed.New(diag.NewRoot("test"))
	b.Width = 1
	for i := 0; i < n; i++ {
		nb := &timeneedlebed.NeedleBed{
			Parent:    b,
			Time:      i,
			Front:     make([]timeneedlebed.Cell, 1),
			Back:      make([]timeneedlebed.Cell, 1),
			StitchPtr: make(map[stitch.ID]*layout.Leaf),
			Duplicate: dup[i],
		}
		if !empty[i] {
			nb.StitchPtr[stitch.ID(i+1)] = nil
		}
		nb.State[diag.Front] = make([]any, 1)
		nb.State[diag.Back] = make([]any, 1)
		b.Timeline = append(b.Timeline, nb)
	}
	b.GroupMap["g"] = timeneedlebed.GroupInfo{Shape: "g", Times: []int{0, 1, 2, 3}, StartTime: 0}

	return b
}

// TestRunDropsEmptyAndDuplicateBeds verifies that a bed flagged
// Duplicate, and a fully empty bed, are both removed, and the survivors
// are rebased to a contiguous zero-based timeline.
func TestRunDropsEmptyAndDuplicateBeds(t *testing.T) {
	b := manualBed(map[int]bool{2: true}, map[int]bool{3: true}, 5)

	out := compact.Run(b, false)

	require.Equal(t, 3, len(out.Timeline)) // beds 0,1,4 survive
	for i, nb := range out.Timeline {
		assert.Equal(t, i, nb.Time)
	}

	info := out.GroupMap["g"]
	// old times 0,1,2,3 map through oldToNew: 0->0, 1->1, 2(dropped, dup)->1, 3(dropped, empty)->1
	assert.Equal(t, []int{0, 1, 1, 1}, info.Times)
	assert.Equal(t, 0, info.StartTime)
}

// TestRunIsIdempotent verifies Run(Run(b, tf)) == Run(b, tf): compacting
// an already-compact bed drops nothing further.
func TestRunIsIdempotent(t *testing.T) {
	b := manualBed(map[int]bool{2: true}, map[int]bool{3: true}, 5)

	once := compact.Run(b, false)
	twice := compact.Run(once, false)

	require.Equal(t, len(once.Timeline), len(twice.Timeline))
	for i := range once.Timeline {
		assert.Equal(t, once.Timeline[i].Time, twice.Timeline[i].Time)
		assert.Equal(t, len(once.Timeline[i].StitchPtr), len(twice.Timeline[i].StitchPtr))
	}
}

// TestRunOnCleanPipelineOutputIsNoOp covers the common case: a flat
// sheet's packed output carries no empty or duplicate beds, so compaction
// must preserve every bed.
func TestRunOnCleanPipelineOutputIsNoOp(t *testing.T) {
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

	out := compact.Run(bed, false)
	assert.Equal(t, bed.Length(), out.Length())
}
