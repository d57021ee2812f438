// Package compact produces a new time-needle bed that preserves a Bed's
// knitting semantics while dropping beds that add nothing (fully empty
// padding, or an exact occupancy repeat of the bed before it) and
// re-basing every remaining bed's time index contiguously from zero.
//
// A from-scratch compactor would re-derive the packed timeline from the
// original layout-group forest: gather same-time fronts across groups,
// sweep forward then backward propagating each group's time offset from
// its neighbors' overlapping boundary stitches, normalize to leaf-relative
// offsets, then re-pack. This package instead compacts an already-packed
// Bed directly: offset relaxation already happened in bed/optimizer
// before packing, and bed/timeneedlebed.AppendLayout's own classify step
// already flags exact-occupancy-repeat beds, so by the time a Bed reaches
// this package the only remaining, genuinely idempotent operation left to
// do here is dropping empty/duplicate beds and remapping everything that
// refers to a bed index by time.
//
// This means compact does not interleave the timelines of independently
// packed shape groups: pipeline.CompileGroups appends each group's layout
// separately, with one padding bed between groups, and compact only ever
// removes that single padding bed (it is empty) rather than discovering
// needle-overlap between the two groups' content beds and folding them
// together. Concurrent group compilation shortens the build, not the
// final timeline. See DESIGN.md for the open-question rationale.
package compact
