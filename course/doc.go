// Package course implements an ordered sequence of stitches
// placed at integer needle indices on a bed side, with the enumerated
// constructors (Empty, Stitches, Flat, CShape, Tube, ZigZag, ZigZagReturn,
// Sequence) and the course-to-course operations (link, continuity_bind,
// close, spread/apply_pending) that assemble them into a skeleton.
//
// A Course is immutable after tracing: constructors and link/close/spread
// build the stitch adjacency and needle map once; reset() recomputes the
// derived width/side/offset fields whenever the underlying placement
// changes. Construction follows one constructor function per named
// topology, sharing validation and ID-generation helpers across them.
package course
