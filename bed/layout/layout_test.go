package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

func newLeaf(t *testing.T, width int) *layout.Leaf {
	t.Helper()
	g := stitch.NewGraph()

	return newLeafIn(t, g, width)
}

func newLeafIn(t *testing.T, g *stitch.Graph, width int) *layout.Leaf {
	t.Helper()
	c, err := course.Flat(g, diag.Front, width, 1)
	require.NoError(t, err)

	return layout.NewLeaf(c)
}

func TestFullTimeOffsetFlipComposeUpTree(t *testing.T) {
	l1, l2 := newLeaf(t, 3), newLeaf(t, 3)
	l1.SetOffset(1)
	l1.SetFlip(true)
	l1.SetTime(2)

	root := layout.NewInternal(l1, l2)
	root.SetOffset(10)
	root.SetFlip(true)
	root.SetTime(5)

	assert.Equal(t, 11, l1.FullOffset())
	assert.Equal(t, 10, l2.FullOffset())
	assert.False(t, l1.FullFlip()) // true XOR true
	assert.True(t, l2.FullFlip())
	assert.Equal(t, 7, l1.FullTime())
	assert.Equal(t, 5, l2.FullTime())
}

func TestInternalLeavesIsDepthFirst(t *testing.T) {
	l1, l2, l3 := newLeaf(t, 1), newLeaf(t, 1), newLeaf(t, 1)
	inner := layout.NewInternal(l2, l3)
	root := layout.NewInternal(l1, inner)

	leaves := root.Leaves()
	require.Len(t, leaves, 3)
	assert.Same(t, l1, leaves[0])
	assert.Same(t, l2, leaves[1])
	assert.Same(t, l3, leaves[2])
}

func TestApplyOffsetBakesIntoLeafCourse(t *testing.T) {
	l1 := newLeaf(t, 3)
	root := layout.NewInternal(l1)
	root.SetOffset(4)

	root.ApplyOffset()

	// Internal.ApplyOffset recurses, so the leaf has already baked the
	// pushed-down offset into its course and zeroed its own.
	assert.Equal(t, 0, root.Offset())
	assert.Equal(t, 0, l1.Offset())
	assert.Equal(t, 4, l1.Course.Offset())

	l1.ApplyOffset()
	assert.Equal(t, 0, l1.Offset())
	assert.Equal(t, 4, l1.Course.Offset())
}

func TestApplyFlipBakesIntoLeafCourseSides(t *testing.T) {
	l1 := newLeaf(t, 3)
	before := l1.Course.Side()
	root := layout.NewInternal(l1)
	root.SetFlip(true)

	root.ApplyFlip()
	l1.ApplyFlip()

	assert.False(t, l1.Flip())
	if before == diag.Front {
		assert.Equal(t, diag.Back, l1.Course.Side())
	}
}

func TestApplyTimeAccumulatesAdditively(t *testing.T) {
	l1 := newLeaf(t, 1)
	inner := layout.NewInternal(l1)
	inner.SetTime(3)
	root := layout.NewInternal(inner)
	root.SetTime(2)

	root.ApplyTime()

	assert.Equal(t, 0, root.Time())
	assert.Equal(t, 0, inner.Time())
	assert.Equal(t, 5, l1.Time())
}

func TestSuspendTracksExtentsAndSide(t *testing.T) {
	l1 := newLeaf(t, 2)
	g := stitch.NewGraph()
	s := g.New()

	l1.Suspend([]*stitch.Stitch{s}, map[stitch.ID]layout.SuspPos{
		s.ID: {Index: 5, Side: diag.Front},
	})

	lo, hi := l1.Extents()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5, hi)
	assert.Equal(t, diag.Front, l1.Side())
}

func TestBoundaryLeavesFindsCrossGroupLinks(t *testing.T) {
	g := stitch.NewGraph()
	l1, l2, l3 := newLeafIn(t, g, 1), newLeaf(t, 1), newLeafIn(t, g, 1)
	group := layout.NewInternal(l1, l2)
	_ = layout.NewInternal(group, l3)

	// l1 and l3 share a graph and are wale-connected, so LinkTo's
	// structural-relatedness check (spec.md:74) accepts the link.
	require.NoError(t, l1.Stitches()[0].Connect(l3.Stitches()[0], stitch.Wale))
	l1.LinkTo(l3)

	linkMap := make(map[*layout.Leaf][]*layout.Leaf)
	boundary := layout.BoundaryLeaves(group, linkMap)

	require.Len(t, boundary, 1)
	assert.Same(t, l1, boundary[0])
	require.Len(t, linkMap[l1], 1)
	assert.Same(t, l3, linkMap[l1][0])
}
