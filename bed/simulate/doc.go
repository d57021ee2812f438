// Package simulate implements the backward-flow simulator: a forward
// sweep over an already-interpreted Bed's timeline that tracks,
// for every needle, which stitches' loops currently sit on it and how
// many rows have been missed since a loop last formed there. The result
// is written into timeneedlebed.NeedleBed.State for bed/compact and
// diagnostic tooling to consume.
package simulate
