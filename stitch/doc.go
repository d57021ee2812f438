// Package stitch implements the stitch graph: an arena of Stitch nodes
// connected by two kinds of symmetric adjacency — course neighbors (at
// most two per stitch, the yarn path within a row) and wale neighbors
// (unbounded, the vertical columns between rows).
//
// Following a map-of-maps adjacency idiom with a thread-safe arena owning
// the nodes, stitches are identified by an arena-local, process-wide-unique
// ID and never deallocated during compilation — merge folds one stitch into another and empties the
// loser's course set, but both remain addressable in the arena
//.
//
// Unlike core.Graph, edges here are not separately identified objects:
// each Stitch stores its own neighbor ID sets directly, because the
// interesting invariant (≤2 course neighbors) is vertex-local, not
// edge-keyed.
package stitch
