package optimizer

import (
	"sort"

	"github.com/knitgraph/compiler/bed/layout"
)

// buildLevels performs a BFS-like enumeration of root's tree: level 0
// is {root}, level k+1 is the concatenation of every level-k Internal's
// children. A Leaf has no children, so the recursion bottoms out at the
// tree's actual depth. Each level is sorted by Time ascending.
func buildLevels(root layout.Group) [][]layout.Group {
	var levels [][]layout.Group
	current := []layout.Group{root}
	for len(current) > 0 {
		sorted := append([]layout.Group{}, current...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time() < sorted[j].Time() })
		levels = append(levels, sorted)

		var next []layout.Group
		for _, g := range sorted {
			if in, ok := g.(*layout.Internal); ok {
				next = append(next, in.Groups...)
			}
		}
		current = next
	}

	return levels
}
