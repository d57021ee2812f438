package course

import "errors"

// Sentinel errors for the course package: exported sentinels only, checked
// via errors.Is.
var (
	// ErrInvalidSequenceChar is returned by Sequence when the grammar string
	// contains a character outside the §6 grammar.
	ErrInvalidSequenceChar = errors.New("course: invalid sequence character")

	// ErrTooFewStitches guards constructors that require width/n >= 1.
	ErrTooFewStitches = errors.New("course: width or count must be >= 1")

	// ErrDuplicatePending is returned by ApplyPending when two deferred
	// operations queued by LinkLater target the same (course, course) pair.
	ErrDuplicatePending = errors.New("course: duplicate pending operation for target")

	// ErrNoLinkCandidate is returned by link when no viable endpoint pairing
	// exists between two courses (e.g. both are fully internal already).
	ErrNoLinkCandidate = errors.New("course: no viable endpoint pairing")
)
