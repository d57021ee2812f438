package layout

import "github.com/knitgraph/compiler/stitch"

// First returns g's first Leaf descendant in depth-first order, or nil if
// g has none.
func First(g Group) *Leaf {
	leaves := g.Leaves()
	if len(leaves) == 0 {
		return nil
	}

	return leaves[0]
}

// Last returns g's last Leaf descendant in depth-first order, or nil if g
// has none.
func Last(g Group) *Leaf {
	leaves := g.Leaves()
	if len(leaves) == 0 {
		return nil
	}

	return leaves[len(leaves)-1]
}

// LinkTo records a symmetric relatedness link between l and other,
// tracking which leaves reference each other across group boundaries.
// Per spec.md:74, relatedness is structural: the link is only recorded
// when l and other share a stitch or have neighboring (course- or
// wale-adjacent) stitches; an unrelated pair is silently ignored.
func (l *Leaf) LinkTo(other *Leaf) {
	if other == nil || other == l {
		return
	}
	if !related(l, other) {
		return
	}
	if l.links == nil {
		l.links = make(map[*Leaf]struct{})
	}
	if other.links == nil {
		other.links = make(map[*Leaf]struct{})
	}
	l.links[other] = struct{}{}
	other.links[l] = struct{}{}
}

// related reports whether l and other share a stitch, or whether some
// stitch of l has a course or wale neighbor that is a stitch of other.
func related(l, other *Leaf) bool {
	otherSet := make(map[stitch.ID]struct{})
	for _, s := range other.Stitches() {
		otherSet[s.ID] = struct{}{}
	}

	for _, s := range l.Stitches() {
		if _, ok := otherSet[s.ID]; ok {
			return true
		}
		for _, n := range s.Neighbors(stitch.Course) {
			if _, ok := otherSet[n.ID]; ok {
				return true
			}
		}
		for _, n := range s.Neighbors(stitch.Wale) {
			if _, ok := otherSet[n.ID]; ok {
				return true
			}
		}
	}

	return false
}

// LinkedTo reports whether l and other are linked.
func (l *Leaf) LinkedTo(other *Leaf) bool {
	_, ok := l.links[other]

	return ok
}

// Links returns every leaf l is linked to. Callers must not mutate the
// returned slice's backing leaves' link sets through it.
func (l *Leaf) Links() []*Leaf {
	out := make([]*Leaf, 0, len(l.links))
	for other := range l.links {
		out = append(out, other)
	}

	return out
}

// BoundaryLeaves returns every leaf descendant of container that links to
// a leaf outside container's own subtree. If linkMap is
// non-nil, it is populated with each boundary leaf's outside-pointing
// links.
// Complexity: O(L + E) in container's leaf count and total link count.
func BoundaryLeaves(container Group, linkMap map[*Leaf][]*Leaf) []*Leaf {
	inside := make(map[*Leaf]struct{})
	for _, l := range container.Leaves() {
		inside[l] = struct{}{}
	}

	var boundary []*Leaf
	for l := range inside {
		var outside []*Leaf
		for other := range l.links {
			if _, in := inside[other]; !in {
				outside = append(outside, other)
			}
		}
		if len(outside) > 0 {
			boundary = append(boundary, l)
			if linkMap != nil {
				linkMap[l] = outside
			}
		}
	}

	return boundary
}
