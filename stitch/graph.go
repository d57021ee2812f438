package stitch

import (
	"strconv"
	"sync/atomic"
)

// idGenerator is process-wide: the id space is shared across the whole
// process. ResetIDGenerator exposes a reset hook used by tests to get
// deterministic IDs across runs.
var idGenerator int64

// ResetIDGenerator resets the process-wide stitch-ID counter to zero.
// Intended for deterministic test setup only; calling it while any Graph
// still holds live stitches will make new IDs collide with old ones.
func ResetIDGenerator() {
	atomic.StoreInt64(&idGenerator, 0)
}

// nextID atomically allocates the next stitch ID.
func nextID() ID {
	return ID(atomic.AddInt64(&idGenerator, 1))
}

// New allocates a fresh Stitch owned by g and returns it.
// Complexity: O(1) amortized.
func (g *Graph) New() *Stitch {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := newStitch(g, nextID())
	g.stitches[s.ID] = s

	return s
}

// Get resolves id to its owning Stitch, if present in g.
// Complexity: O(1).
func (g *Graph) Get(id ID) (*Stitch, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.stitches[id]

	return s, ok
}

// Len returns the number of stitches currently in the arena.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.stitches)
}

// All returns every stitch in the arena. Order is unspecified; callers
// needing determinism should sort by ID.
func (g *Graph) All() []*Stitch {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Stitch, 0, len(g.stitches))
	for _, s := range g.stitches {
		out = append(out, s)
	}

	return out
}

// resolve looks up a neighbor ID via the owning graph. Panics if the
// stitch has no graph (constructed outside NewGraph().New()), which would
// be a programmer error, not a data condition.
func (s *Stitch) resolve(id ID) *Stitch {
	n, ok := s.graph.Get(id)
	if !ok {
		// A neighbor ID with no backing stitch means an earlier Disconnect/
		// merge left a dangling entry; that is an invariant violation in
		// this package, not a caller mistake, so it is not worth a
		// sentinel error — surface it loudly.
		panic("stitch: dangling neighbor id " + strconv.FormatInt(int64(id), 10))
	}

	return n
}
