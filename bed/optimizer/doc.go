// Package optimizer implements iterative, stress-weighted offset/flip
// relaxation over a layout tree: a level hierarchy is built by
// breadth-first descent through layout.Internal's children, then forward
// and backward sweeps adjust each group's offset toward the mean needle
// delta its linked neighbor stitches want, and flip sides when doing so
// reduces same-needle-opposite-side conflicts.
package optimizer
