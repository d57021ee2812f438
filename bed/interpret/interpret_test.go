package interpret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/config"

	// Registers Run onto timeneedlebed.Interpreter (see doc.go).
	_ "github.com/knitgraph/compiler/bed/interpret"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

func flatLeaf(t *testing.T, g *stitch.Graph, width int) (*layout.Leaf, *course.Course) {
	t.Helper()
	c, err := course.Flat(g, diag.Front, width, 1)
	require.NoError(t, err)

	return layout.NewLeaf(c), c
}

// TestRegularKnitClassification covers spec.md §8 scenario 1: a flat
// sheet's stitches each get exactly one upper wale target at the same
// needle, so classify() marks them ActKnit with no transfer emitted. They
// are Regular except the stitch Link joined to the next course, whose
// upper wale is also its course neighbor.
func TestRegularKnitClassification(t *testing.T) {
	g := stitch.NewGraph()
	a, ca := flatLeaf(t, g, 3)
	b, cb := flatLeaf(t, g, 3)
	require.NoError(t, ca.Link(cb))
	for i, s := range ca.Stitches() {
		require.NoError(t, s.Connect(cb.Stitches()[i], stitch.Wale))
	}

	root, err := builder.Build([]builder.Block{{Leaves: []*layout.Leaf{a}}, {Leaves: []*layout.Leaf{b}}}, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	require.Equal(t, 2, bed.Length())

	first := bed.Timeline[0]
	onSet := first.Pass(timeneedlebed.PassCastOn)
	require.NotNil(t, onSet, "bed 0 casts on every stitch (no prior bed)")
	assert.Len(t, onSet.Sequence, 3)

	action := first.Pass(timeneedlebed.PassAction)
	require.NotNil(t, action)
	for _, s := range ca.Stitches() {
		act := action.ActionMap[s.ID]
		require.NotNil(t, act)
		// Link joins ca.First() to cb.First() (the closest endpoints), so
		// only that stitch's upper wale is also a course neighbor.
		assert.Equal(t, s != ca.First(), act.Regular)
		assert.Equal(t, timeneedlebed.ActKnit, act.Kind)
		require.Len(t, act.Targets, 1)
		assert.Equal(t, act.Source.Index, act.Targets[0].Index)
	}
	assert.Nil(t, first.Pass(timeneedlebed.PassTransfer))

	last := bed.Timeline[1]
	off := last.Pass(timeneedlebed.PassCastOff)
	require.NotNil(t, off, "final bed closes every stitch with no continuation")
	assert.Len(t, off.Sequence, 3)
}

// TestSplitIncreaseClassification covers spec.md §4.G's increase
// resolution: a lower stitch with two upper wale targets where the near
// target equals its own needle and the far target is within two needles
// resolves to ActSplit, not ActKickback.
func TestSplitIncreaseClassification(t *testing.T) {
	g := stitch.NewGraph()
	lower, lc := flatLeaf(t, g, 2)
	upper, uc := flatLeaf(t, g, 3)

	require.NoError(t, lc.Link(uc))
	ls, us := lc.Stitches(), uc.Stitches()
	// ls[0] increases into us[0] and us[1] (near == source, far one needle
	// away); ls[1] continues regularly into us[2].
	require.NoError(t, ls[0].Connect(us[0], stitch.Wale))
	require.NoError(t, ls[0].Connect(us[1], stitch.Wale))
	require.NoError(t, ls[1].Connect(us[2], stitch.Wale))

	root, err := builder.Build([]builder.Block{{Leaves: []*layout.Leaf{lower}}, {Leaves: []*layout.Leaf{upper}}}, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))
	require.Equal(t, 2, bed.Length())

	action := bed.Timeline[0].Pass(timeneedlebed.PassAction)
	require.NotNil(t, action)
	act := action.ActionMap[ls[0].ID]
	require.NotNil(t, act)
	assert.Equal(t, timeneedlebed.ActSplit, act.Kind)
	assert.Equal(t, timeneedlebed.IncreaseSplit, act.IncreaseType)
	require.NotNil(t, act.IncreaseTarget)

	regularAct := action.ActionMap[ls[1].ID]
	require.NotNil(t, regularAct)
	assert.Equal(t, timeneedlebed.ActKnit, regularAct.Kind)
	assert.True(t, regularAct.Regular)
}

// TestTooManyUpperWalesTruncatesAndRecordsDiagnostic covers spec.md
// §4.G's overflow handling: a stitch with three upper wale neighbors
// records diag.KindTooManyUpperWales and is resolved against only the
// two lowest-ID targets.
func TestTooManyUpperWalesTruncatesAndRecordsDiagnostic(t *testing.T) {
	g := stitch.NewGraph()
	lower, lc := flatLeaf(t, g, 1)
	upper, uc := flatLeaf(t, g, 3)

	require.NoError(t, lc.Link(uc))
	ls, us := lc.Stitches(), uc.Stitches()
	for _, u := range us {
		require.NoError(t, ls[0].Connect(u, stitch.Wale))
	}

	root, err := builder.Build([]builder.Block{{Leaves: []*layout.Leaf{lower}}, {Leaves: []*layout.Leaf{upper}}}, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	entries := reg.ListAll()
	var found bool
	for _, e := range entries {
		if e.Kind == diag.KindTooManyUpperWales {
			found = true
		}
	}
	assert.True(t, found, "expected a KindTooManyUpperWales diagnostic")
}

// TestCrossPairRewriteSwapsTargets covers spec.md §8 scenario 5: four
// adjacent stitches tagged 13,13,16,16 (right-upper, right-upper,
// left-lower, left-lower) on the same side. The rewrite pass must swap
// the first run's targets with the second run's (0<->2, 1<->3) and record
// a reversed Pairing triple on every participant.
func TestCrossPairRewriteSwapsTargets(t *testing.T) {
	g := stitch.NewGraph()
	lower, lc := flatLeaf(t, g, 4)
	upper, uc := flatLeaf(t, g, 4)

	require.NoError(t, lc.Link(uc))
	ls, us := lc.Stitches(), uc.Stitches()
	for i := range ls {
		require.NoError(t, ls[i].Connect(us[i], stitch.Wale))
	}
	ls[0].Pattern = stitch.PatternCrossRightUpper
	ls[1].Pattern = stitch.PatternCrossRightUpper
	ls[2].Pattern = stitch.PatternCrossLeftLower
	ls[3].Pattern = stitch.PatternCrossLeftLower

	root, err := builder.Build([]builder.Block{{Leaves: []*layout.Leaf{lower}}, {Leaves: []*layout.Leaf{upper}}}, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	action := bed.Timeline[0].Pass(timeneedlebed.PassAction)
	require.NotNil(t, action)

	a0 := action.ActionMap[ls[0].ID]
	a1 := action.ActionMap[ls[1].ID]
	a2 := action.ActionMap[ls[2].ID]
	a3 := action.ActionMap[ls[3].ID]
	require.NotNil(t, a0)
	require.NotNil(t, a1)
	require.NotNil(t, a2)
	require.NotNil(t, a3)

	// us[i] sits at the same needle index as ls[i] on a flat front course,
	// so the pre-swap target for ls[i] would have been needle i; after the
	// swap ls[0]'s target is ls[2]'s original needle, and so on.
	idx := func(s *stitch.Stitch) int {
		i, _, ok := uc.NeedleOf(s, 0, false)
		require.True(t, ok)

		return i
	}
	require.Len(t, a0.Targets, 1)
	require.Len(t, a2.Targets, 1)
	assert.Equal(t, idx(us[2]), a0.Targets[0].Index)
	assert.Equal(t, idx(us[3]), a1.Targets[0].Index)
	assert.Equal(t, idx(us[0]), a2.Targets[0].Index)
	assert.Equal(t, idx(us[1]), a3.Targets[0].Index)

	require.NotNil(t, a0.Pairing)
	require.NotNil(t, a2.Pairing)
	assert.True(t, a0.Pairing.Reverse)
	assert.True(t, a2.Pairing.Reverse)
	assert.Equal(t, 2, a0.Pairing.Steps)
}

// TestCastOnModeDefaultsToAlternate covers spec.md §4.G's "the caston
// mode comes from the interface metadata or a global default": with no
// per-stitch override, the package default (config.CastOnAlternate)
// reorders the cast-on sequence evens-then-odds rather than course order.
func TestCastOnModeDefaultsToAlternate(t *testing.T) {
	require.Equal(t, config.CastOnAlternate, config.DefaultCastOnMode)

	g := stitch.NewGraph()
	a, _ := flatLeaf(t, g, 4)

	root, err := builder.Build([]builder.Block{{Leaves: []*layout.Leaf{a}}}, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	onSet := bed.Timeline[0].Pass(timeneedlebed.PassCastOn)
	require.NotNil(t, onSet)
	require.Len(t, onSet.Sequence, 4)

	source := a.Stitches()
	assert.Equal(t, source[0].ID, onSet.Sequence[0].ID)
	assert.Equal(t, source[2].ID, onSet.Sequence[1].ID)
	assert.Equal(t, source[1].ID, onSet.Sequence[2].ID)
	assert.Equal(t, source[3].ID, onSet.Sequence[3].ID)
}

// TestCastOnModeSequentialOverrideKeepsCourseOrder covers the metadata
// override path: a stitch carrying an explicit "castOnMode" of
// config.CastOnSequential casts on in plain course order.
func TestCastOnModeSequentialOverrideKeepsCourseOrder(t *testing.T) {
	g := stitch.NewGraph()
	a, _ := flatLeaf(t, g, 4)
	source := a.Stitches()
	source[0].SetMeta("castOnMode", stitch.NoContext, config.CastOnSequential)

	root, err := builder.Build([]builder.Block{{Leaves: []*layout.Leaf{a}}}, nil)
	require.NoError(t, err)

	reg := diag.NewRoot("test")
	bed := timeneedlebed.New(reg)
	require.NoError(t, bed.AppendLayout(root))

	onSet := bed.Timeline[0].Pass(timeneedlebed.PassCastOn)
	require.NotNil(t, onSet)
	require.Len(t, onSet.Sequence, 4)
	for i, s := range source {
		assert.Equal(t, s.ID, onSet.Sequence[i].ID)
	}
}
