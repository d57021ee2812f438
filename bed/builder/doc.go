// Package builder implements the layout-builder algorithm of spec.md §4.D:
// turning an ordered block schedule into the hierarchical layout.Internal
// tree, threading suspended-stitch groups between blocks so that a stitch
// whose wale hasn't been produced yet stays addressable on a needle.
//
// Shape assembly (resolving a (shape, course-id) pair into an actual
// course.Course) is an external collaborator's job; a Block here is
// already the ordered list of leaves a shape would have produced.
package builder
