// Package timeneedlebed packs an optimized layout tree into a timeline of
// per-time needle beds, the Pass/Action IR vocabulary, and the
// NeedleBed/Bed container types. bed/interpret registers itself as the
// package-level Interpreter hook at init time (mirroring database/sql's
// driver-registration idiom) so AppendLayout can invoke it after packing
// each bed without this package importing bed/interpret directly —
// bed/interpret imports bed/timeneedlebed, never the reverse.
package timeneedlebed
