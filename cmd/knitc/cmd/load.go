package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/knitgraph/compiler/bed/builder"
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/course"
	"github.com/knitgraph/compiler/pipeline"
	"github.com/knitgraph/compiler/stitch"
)

// docFile is knitc's own minimal JSON input shape. Real shape
// assembly (resolving a parametric node graph plus named interfaces into
// courses and their wale connections) is an external collaborator's job;
// knitc instead accepts an already-flattened description and wires
// consecutive courses by Link (non-circular courses only) plus a
// positional 1:1 wale connection,
// matching the common flat-sheet and tube topologies. This is a
// CLI-level convenience, not a reimplementation of shape assembly.
type docFile struct {
	Groups []groupDoc `json:"groups"`
}

type groupDoc struct {
	Name     string   `json:"name"`
	Gauge    int      `json:"gauge"`
	Circular bool     `json:"circular"`
	Courses  []string `json:"courses"`
}

// loadGroups reads path and resolves it into pipeline.ShapeGroup values.
func loadGroups(path string) ([]pipeline.ShapeGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knitc: reading %s: %w", path, err)
	}

	var doc docFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("knitc: parsing %s: %w", path, err)
	}

	g := stitch.NewGraph()
	groups := make([]pipeline.ShapeGroup, 0, len(doc.Groups))
	for _, gd := range doc.Groups {
		group, err := resolveGroup(g, gd)
		if err != nil {
			return nil, fmt.Errorf("knitc: group %q: %w", gd.Name, err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func resolveGroup(g *stitch.Graph, gd groupDoc) (pipeline.ShapeGroup, error) {
	gauge := gd.Gauge
	if gauge <= 0 {
		gauge = 1
	}

	var leaves []*layout.Leaf
	var prev *course.Course
	for i, spec := range gd.Courses {
		c, err := course.Sequence(g, spec, gauge, gd.Circular)
		if err != nil {
			return pipeline.ShapeGroup{}, fmt.Errorf("course %d: %w", i, err)
		}
		if prev != nil {
			// A circular course (a tube) is a closed loop with no free
			// endpoint, so only non-circular courses are course-linked.
			if !prev.Circular() && !c.Circular() {
				if err := prev.Link(c); err != nil {
					return pipeline.ShapeGroup{}, fmt.Errorf("linking course %d to %d: %w", i-1, i, err)
				}
			}
			wirePositionalWales(prev, c)
		}
		prev = c
		leaves = append(leaves, layout.NewLeaf(c))
	}

	blocks := make([]builder.Block, len(leaves))
	for i, l := range leaves {
		blocks[i] = builder.Block{Leaves: []*layout.Leaf{l}}
	}

	return pipeline.ShapeGroup{Name: gd.Name, Blocks: blocks}, nil
}

// wirePositionalWales connects prev's i-th stitch to cur's i-th stitch by
// wale, the simplest topology for courses of equal width: one wale per
// needle column.
func wirePositionalWales(prev, cur *course.Course) {
	ps, cs := prev.Stitches(), cur.Stitches()
	n := len(ps)
	if len(cs) < n {
		n = len(cs)
	}
	for i := 0; i < n; i++ {
		_ = ps[i].Connect(cs[i], stitch.Wale)
	}
}
