// Package layout implements the hierarchical layout tree: Leaf groups
// wrap one course plus any stitches suspended across time,
// Internal groups own an ordered sequence of child groups, and every group
// carries a local (time, offset, flip) transform whose cumulative value up
// the parent chain is the group's absolute placement.
//
// Modeled as a strict tree (single owning parent, non-owning back-link)
// over the same stitch arena: containment rather than adjacency.
package layout
