package timeneedlebed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/bed/timeneedlebed"

	// Run is registered onto timeneedlebed.Interpreter at init time; it
	// must be imported for side effects wherever AppendLayout is expected
	// to interpret beds (see bed/timeneedlebed/doc.go).
	_ "github.com/knitgraph/compiler/bed/interpret"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// wireWales connects a's and b's stitches index-for-index by wale,
// assuming both courses were built identically (same constructor, same
// parameters), so their Stitches() slices are in corresponding order.
func wireWales(t *testing.T, a, b *course.Course) {
	t.Helper()
	as, bs := a.Stitches(), b.Stitches()
	require.Equal(t, len(as), len(bs))
	for i := range as {
		require.NoError(t, as[i].Connect(bs[i], stitch.Wale))
	}
}

// buildChain links n courses built by build() consecutively (wale
// adjacency always, course adjacency only between non-circular courses,
// since a tube has no free endpoint) and returns one single-leaf Block per
// course, ready for builder.Build — each course is its own scheduled time
// step.
func buildChain(t *testing.T, n int, build func() *course.Course) []builder.Block {
	t.Helper()
	blocks := make([]builder.Block, n)
	var prev *course.Course
	for i := 0; i < n; i++ {
		c := build()
		if prev != nil {
			if !prev.Circular() && !c.Circular() {
				require.NoError(t, prev.Link(c))
			}
			wireWales(t, prev, c)
		}
		blocks[i] = builder.Block{Leaves: []*layout.Leaf{layout.NewLeaf(c)}}
		prev = c
	}

	return blocks
}

// TestFlatSheetScenario packs a single flat sheet 4x3: four courses of
// width 3 on the front bed, linked consecutively, scheduled in order.
// Since each course is its own time step here (one leaf per top-level
// group, no suspension), packing yields one bed per leaf: length=4,
// width=3, all actions KNIT with matching source/target on the front, no
// transfers.
func TestFlatSheetScenario(t *testing.T) {
	g := stitch.NewGraph()
	blocks := buildChain(t, 4, func() *course.Course {
		c, err := course.Flat(g, diag.Front, 3, 1)
		require.NoError(t, err)

		return c
	})

	reg := diag.NewRoot("test")
	root, err := builder.Build(blocks, reg)
	require.NoError(t, err)

	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	assert.Equal(t, 4, bed.Length())
	assert.Equal(t, 3, bed.Width)

	for i, nb := range bed.Timeline {
		assert.Equal(t, i, nb.Time, "timeline[%d].Time invariant", i)

		action := nb.Pass(timeneedlebed.PassAction)
		if i == len(bed.Timeline)-1 {
			continue // last course has no upper wale: cast-off, not knit
		}
		require.NotNil(t, action, "bed %d should carry an action pass", i)
		for _, act := range action.ActionMap {
			assert.Equal(t, diag.Front, act.Source.Side)
			if len(act.Targets) > 0 {
				assert.Equal(t, act.Source.Index, act.Targets[0].Index)
				assert.Equal(t, diag.Front, act.Targets[0].Side)
			}
		}
		assert.Nil(t, nb.Pass(timeneedlebed.PassTransfer), "flat sheet should need no transfers on inner beds")
	}
}

// TestTubeScenario packs a tube 3x2: Course.Tube(3,1) four times linked
// consecutively. Expected: length=4, width=3, course connections form a
// closed loop on each bed (front and back both occupied), no transfers
// on inner beds.
func TestTubeScenario(t *testing.T) {
	g := stitch.NewGraph()
	blocks := buildChain(t, 4, func() *course.Course {
		c, err := course.Tube(g, 3, 1)
		require.NoError(t, err)

		return c
	})

	reg := diag.NewRoot("test")
	root, err := builder.Build(blocks, reg)
	require.NoError(t, err)

	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	assert.Equal(t, 4, bed.Length())
	assert.Equal(t, 3, bed.Width)

	for i, nb := range bed.Timeline {
		assert.Equal(t, i, nb.Time)
		for idx := range nb.Front {
			assert.False(t, nb.Front[idx].Empty(), "tube bed %d front needle %d should be occupied", i, idx)
			assert.False(t, nb.Back[idx].Empty(), "tube bed %d back needle %d should be occupied", i, idx)
		}
		assert.Nil(t, nb.Pass(timeneedlebed.PassTransfer), "tube should need no transfers on bed %d", i)
	}
}

// TestAppendLayoutSkipsEmptyRoot exercises the degenerate "no leaves"
// early return.
func TestAppendLayoutSkipsEmptyRoot(t *testing.T) {
	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	root := layout.NewInternal()

	require.NoError(t, bed.AppendLayout(root))
	assert.Equal(t, 0, bed.Length())
}

// TestAtReturnsInactiveEmptyBedOutOfRange verifies that At(t) returns the
// bed at time t if in range, otherwise a fresh inactive empty bed.
func TestAtReturnsInactiveEmptyBedOutOfRange(t *testing.T) {
	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)

	nb := bed.At(100)
	require.NotNil(t, nb)
	assert.False(t, nb.Active)
	assert.Empty(t, nb.StitchPtr)
}
