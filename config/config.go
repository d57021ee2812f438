// Package config holds the ambient, process-wide constants and defaults
// referenced throughout the pipeline: the platform's maximum needle-bed
// width, the optimizer's sweep budget, and the default cast-on/cast-off
// modes used when an interface supplies none. Centralizing these (rather
// than scattering magic numbers across bed/optimizer, bed/timeneedlebed,
// and bed/interpret) keeps one file of named, documented constants per
// concern instead of scattering them.
package config

// MaxBedWidth is the maximum needle extent a physical flat-bed machine
// supports. Exceeding it is a warning (diag.KindBedWidthExceeded),
// not a truncation.
const MaxBedWidth = 541

// MaxOptimizerSweeps bounds bed/optimizer's relaxation loop.
// Reaching it without two consecutive zero-change sweeps emits
// diag.KindOptimizerNonconvergence as a notice, not an error.
const MaxOptimizerSweeps = 20

// CastOnMode and CastOffMode name the yarn-path strategies the interpreter
// uses to open/close a bed when no interface-level override is present.
type CastOnMode int

const (
	// CastOnAlternate alternates needles for stability (default).
	CastOnAlternate CastOnMode = iota
	// CastOnSequential casts on in course order.
	CastOnSequential
)

type CastOffMode int

const (
	// CastOffChain closes stitches one at a time, latching each into the next.
	CastOffChain CastOffMode = iota
	// CastOffBindOff closes by binding directly off the needles.
	CastOffBindOff
)

// DefaultCastOnMode and DefaultCastOffMode are used when a course's
// interface metadata carries no explicit mode.
const (
	DefaultCastOnMode  = CastOnAlternate
	DefaultCastOffMode = CastOffChain
)

// DefaultPattern is the stitch pattern tag used when metadata.pattern is
// absent.
const DefaultPattern = 1
