package stitch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/stitch"
)

func TestConnectCourseEnforcesDegreeTwo(t *testing.T) {
	g := stitch.NewGraph()
	a, b, c, d := g.New(), g.New(), g.New(), g.New()

	require.NoError(t, a.Connect(b, stitch.Course))
	require.NoError(t, a.Connect(c, stitch.Course))
	assert.Error(t, a.Connect(d, stitch.Course))

	// Idempotent: reconnecting an existing neighbor is a no-op, not an error.
	assert.NoError(t, a.Connect(b, stitch.Course))
	assert.Equal(t, 2, a.CourseDegree())
}

func TestConnectIsSymmetric(t *testing.T) {
	g := stitch.NewGraph()
	a, b := g.New(), g.New()
	require.NoError(t, a.Connect(b, stitch.Wale))
	assert.Contains(t, b.Neighbors(stitch.Wale), a)
	assert.Contains(t, a.Neighbors(stitch.Wale), b)
}

func TestDisconnectSymmetric(t *testing.T) {
	g := stitch.NewGraph()
	a, b := g.New(), g.New()
	require.NoError(t, a.Connect(b, stitch.Course))
	a.Disconnect(b, stitch.Course)
	assert.Equal(t, 0, a.CourseDegree())
	assert.Equal(t, 0, b.CourseDegree())
}

func TestMergeTransfersWalesAndMetadata(t *testing.T) {
	g := stitch.NewGraph()
	a, b, w1, w2 := g.New(), g.New(), g.New(), g.New()
	require.NoError(t, a.Connect(w1, stitch.Wale))
	require.NoError(t, b.Connect(w2, stitch.Wale))
	b.SetMeta("shape", stitch.NoContext, "sheet-1")
	require.NoError(t, a.Connect(b, stitch.Course))

	a.Merge(b)

	// a now owns both wale neighbors.
	assert.ElementsMatch(t, []*stitch.Stitch{w1, w2}, a.Neighbors(stitch.Wale))
	// b has no wales or course neighbors left.
	assert.Equal(t, 0, b.WaleDegree())
	assert.Equal(t, 0, b.CourseDegree())
	// metadata moved over.
	v, ok := a.First("shape", stitch.NoContext)
	assert.True(t, ok)
	assert.Equal(t, "sheet-1", v)
}

func TestClearBothModes(t *testing.T) {
	g := stitch.NewGraph()
	a, b, c := g.New(), g.New(), g.New()
	require.NoError(t, a.Connect(b, stitch.Course))
	require.NoError(t, a.Connect(c, stitch.Wale))

	a.Clear(nil)
	assert.Equal(t, 0, a.CourseDegree())
	assert.Equal(t, 0, a.WaleDegree())
	assert.Equal(t, 0, b.CourseDegree())
	assert.Equal(t, 0, c.WaleDegree())
}

func TestEndpointAndInternalPredicates(t *testing.T) {
	g := stitch.NewGraph()
	a, b, c := g.New(), g.New(), g.New()
	require.NoError(t, a.Connect(b, stitch.Course))
	assert.True(t, a.IsEndpoint())
	require.NoError(t, a.Connect(c, stitch.Course))
	assert.True(t, a.IsInternal())
	assert.False(t, a.IsEndpoint())
}

func TestAllTraversesFullComponent(t *testing.T) {
	g := stitch.NewGraph()
	a, b, c, isolated := g.New(), g.New(), g.New(), g.New()
	require.NoError(t, a.Connect(b, stitch.Course))
	require.NoError(t, b.Connect(c, stitch.Wale))

	component := a.All()
	assert.ElementsMatch(t, []*stitch.Stitch{a, b, c}, component)
	assert.NotContains(t, component, isolated)
}

func TestMetaOrderingAndContextFilter(t *testing.T) {
	g := stitch.NewGraph()
	a := g.New()
	a.SetMeta("names", 1, "cuff")
	a.SetMeta("names", 2, "body")
	a.SetMeta("names", 1, "cuff-again")

	all := a.MetaValues("names")
	assert.Equal(t, []any{"cuff", "body", "cuff-again"}, all)

	ctx1 := a.MetaCtx("names", 1)
	require.Len(t, ctx1, 2)
	assert.Equal(t, "cuff", ctx1[0].Value)
	assert.Equal(t, "cuff-again", ctx1[1].Value)
}

func TestResetIDGenerator(t *testing.T) {
	stitch.ResetIDGenerator()
	g := stitch.NewGraph()
	first := g.New()
	assert.Equal(t, stitch.ID(1), first.ID)
}
