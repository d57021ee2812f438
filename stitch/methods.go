// Package stitch: connect/disconnect/merge and the adjacency predicates.
// Course connections enforce the ≤2-neighbor invariant; wale connections
// are unbounded. All operations are symmetric: if a is connected to b, b
// is connected to a.
package stitch

import "github.com/knitgraph/compiler/diag"

// neighborSet returns the mutable set backing mode.
func (s *Stitch) neighborSet(mode NeighborMode) map[ID]struct{} {
	if mode == Course {
		return s.courses
	}

	return s.wales
}

// Connect links s and other under mode, symmetrically. For Course, fails
// with diag.Fatal(KindTooManyCourseNeighbors) if either side already has
// two course neighbors (and the other side is not already the requested
// neighbor, making the call idempotent). Wale connections are unbounded
// and always succeed.
// Complexity: O(1).
func (s *Stitch) Connect(other *Stitch, mode NeighborMode) error {
	if other == nil {
		return diag.Fatal(diag.KindTooManyCourseNeighbors, "stitch: Connect(nil)")
	}
	if other == s {
		return diag.Fatal(diag.KindTooManyCourseNeighbors, "stitch: Connect(self)")
	}
	sSet, oSet := s.neighborSet(mode), other.neighborSet(mode)
	if _, already := sSet[other.ID]; already {
		return nil // idempotent
	}
	if mode == Course {
		if len(sSet) >= 2 {
			return diag.Fatal(diag.KindTooManyCourseNeighbors, "stitch: Connect source already has two course neighbors")
		}
		if len(oSet) >= 2 {
			return diag.Fatal(diag.KindTooManyCourseNeighbors, "stitch: Connect target already has two course neighbors")
		}
	}
	sSet[other.ID] = struct{}{}
	oSet[s.ID] = struct{}{}

	return nil
}

// Disconnect removes any mode-adjacency between s and other, symmetrically.
// No-op if they were not connected.
// Complexity: O(1).
func (s *Stitch) Disconnect(other *Stitch, mode NeighborMode) {
	if other == nil {
		return
	}
	delete(s.neighborSet(mode), other.ID)
	delete(other.neighborSet(mode), s.ID)
}

// Clear removes all of s's adjacency under mode. If mode is nil, both
// course and wale adjacency are cleared.
// Complexity: O(deg(s)).
func (s *Stitch) Clear(mode *NeighborMode) {
	clearOne := func(m NeighborMode) {
		for id := range s.neighborSet(m) {
			if n, ok := s.graph.Get(id); ok {
				delete(n.neighborSet(m), s.ID)
			}
		}
		if m == Course {
			s.courses = make(map[ID]struct{})
		} else {
			s.wales = make(map[ID]struct{})
		}
	}
	if mode == nil {
		clearOne(Course)
		clearOne(Wale)

		return
	}
	clearOne(*mode)
}

// Merge transfers every wale neighbor and metadata entry of other into s,
// then disconnects and empties other's course adjacency. other remains
// addressable in the arena (stitches are never deallocated)
// but is left with no course neighbors and no wales of its own.
// Complexity: O(deg(other) + |other.meta|).
func (s *Stitch) Merge(other *Stitch) {
	if other == nil || other == s {
		return
	}
	// Transfer wales: for each of other's wale neighbors, rewire it to s
	// instead, preserving symmetry.
	for id := range other.wales {
		if id == s.ID {
			delete(other.wales, id)

			continue
		}
		n := other.resolve(id)
		delete(n.wales, other.ID)
		n.wales[s.ID] = struct{}{}
		s.wales[id] = struct{}{}
	}
	other.wales = make(map[ID]struct{})

	// Transfer metadata, preserving per-name insertion order: other's
	// entries are appended after s's existing entries.
	for name, entries := range other.meta {
		s.meta[name] = append(s.meta[name], entries...)
	}
	other.meta = make(MetaMap)

	// Empty other's course set (disconnecting its course neighbors too).
	mode := Course
	other.Clear(&mode)
}

// Neighbors returns the resolved neighbor stitches under mode.
// Complexity: O(deg(s)).
func (s *Stitch) Neighbors(mode NeighborMode) []*Stitch {
	set := s.neighborSet(mode)
	out := make([]*Stitch, 0, len(set))
	for id := range set {
		out = append(out, s.resolve(id))
	}

	return out
}

// CourseDegree and WaleDegree report adjacency counts.
func (s *Stitch) CourseDegree() int { return len(s.courses) }
func (s *Stitch) WaleDegree() int   { return len(s.wales) }

// IsEndpoint reports whether s has fewer than two course neighbors.
func (s *Stitch) IsEndpoint() bool { return len(s.courses) < 2 }

// IsInternal is the complement of IsEndpoint within a course.
func (s *Stitch) IsInternal() bool { return len(s.courses) == 2 }

// IsBoundary reports whether s has at least one wale neighbor that is not
// reachable from s without leaving its own course context — approximated
// here as "has any wale neighbor at all", since boundary-ness relative to
// a specific course is decided by the caller (bed/layout's boundary_leaves
// operates on Leaf groups, not bare stitches).
func (s *Stitch) IsBoundary() bool { return len(s.wales) > 0 }

// All performs a BFS over the full connected component reachable from s
// via both course and wale adjacency.
// Complexity: O(V + E) over the component.
func (s *Stitch) All() []*Stitch {
	visited := map[ID]struct{}{s.ID: {}}
	queue := []*Stitch{s}
	out := make([]*Stitch, 0, 1)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		for _, mode := range [2]NeighborMode{Course, Wale} {
			for id := range cur.neighborSet(mode) {
				if _, seen := visited[id]; seen {
					continue
				}
				visited[id] = struct{}{}
				queue = append(queue, cur.resolve(id))
			}
		}
	}

	return out
}
