package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/pipeline"
	"github.com/knitgraph/compiler/stitch"
)

// flatSheetGroup builds a single flat sheet: four courses of width 3 on
// the front bed, linked consecutively.
func flatSheetGroup(t *testing.T, name string) pipeline.ShapeGroup {
	t.Helper()
	g := stitch.NewGraph()

	var leaves []*layout.Leaf
	var prev *course.Course
	for i := 0; i < 4; i++ {
		c, err := course.Flat(g, diag.Front, 3, 1)
		require.NoError(t, err)
		if prev != nil {
			require.NoError(t, prev.Link(c))
		}
		prev = c
		leaves = append(leaves, layout.NewLeaf(c))
	}

	blocks := make([]builder.Block, len(leaves))
	for i, l := range leaves {
		blocks[i] = builder.Block{Leaves: []*layout.Leaf{l}}
	}

	return pipeline.ShapeGroup{Name: name, Blocks: blocks}
}

func TestCompileGroupsSingleFlatSheet(t *testing.T) {
	reg := diag.NewRoot("test")
	groups := []pipeline.ShapeGroup{flatSheetGroup(t, "sheet")}

	bed, err := pipeline.CompileGroups(context.Background(), groups, reg, pipeline.Options{})
	require.NoError(t, err)
	require.NotNil(t, bed)
	assert.Equal(t, 4, len(bed.Timeline))
	assert.GreaterOrEqual(t, bed.Width, 3)
}

func TestCompileGroupsConcurrentIndependentGroups(t *testing.T) {
	reg := diag.NewRoot("test")
	groups := []pipeline.ShapeGroup{
		flatSheetGroup(t, "left"),
		flatSheetGroup(t, "right"),
	}

	bed, err := pipeline.CompileGroups(context.Background(), groups, reg, pipeline.Options{
		Simulate: true,
		Compact:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, bed)
	for i, nb := range bed.Timeline {
		assert.Equal(t, i, nb.Time)
	}
}

func TestCompileGroupsEmptyInput(t *testing.T) {
	bed, err := pipeline.CompileGroups(context.Background(), nil, nil, pipeline.Options{})
	require.NoError(t, err)
	require.NotNil(t, bed)
	assert.Empty(t, bed.Timeline)
}
