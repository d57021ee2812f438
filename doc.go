// Package compiler (knitgraph) compiles a high-level knitting skeleton —
// a graph of parametric shape nodes connected through named interfaces —
// into a time-indexed two-bed needle assignment with per-stitch machine
// actions.
//
// What is knitgraph/compiler?
//
//	A pipeline that turns an already-constructed stitch graph (wale and
//	course adjacency per stitch) into a schedule a flat-bed knitting
//	machine can execute:
//
//	  - stitch graph + course tracing: stitch/, course/
//	  - layout construction and stress-weighted optimization: bed/layout,
//	    bed/builder, bed/optimizer
//	  - packing into a time-needle bed, with an interpreted instruction
//	    pipeline and a backward-flow simulator: bed/timeneedlebed,
//	    bed/interpret, bed/simulate
//	  - compaction back to a minimal, contiguous timeline: bed/compact
//
// Subpackages, leaves first:
//
//	diag/             — stitch-keyed error/warning registry (§4.J)
//	config/            — ambient platform limits and default modes
//	internal/xlog/     — shared structured logger
//	stitch/            — the stitch graph (§3/§4.A)
//	course/            — course tracing, sequence grammar, linking (§4.B)
//	bed/layout/        — the layout tree (§4.C)
//	bed/builder/       — the layout builder and suspended groups (§4.D)
//	bed/optimizer/     — offset/flip relaxation (§4.E)
//	bed/timeneedlebed/ — packing into the time-needle bed (§4.F)
//	bed/interpret/     — per-bed IR pass emission (§4.G)
//	bed/simulate/      — backward-flow simulation (§4.H)
//	bed/compact/       — duplicate/empty bed removal (§4.I)
//	pipeline/          — end-to-end orchestration across the above
//	cmd/knitc/         — a CLI front door over pipeline
//
// Shape assembly (resolving a parametric skeleton into stitch graphs),
// pattern DSL evaluation, DAT bitmap emission, and all rendering are
// external collaborators; this module compiles their output, it does not
// produce it.
package compiler
