// Package diag implements the stitch-keyed error/warning taxonomy of §7 and
// the process-wide, namespaced diagnostic registry of §4.J.
//
// Every component that can fail in a recoverable way (course linking,
// layout-builder suspension, the interpreter, the simulator) records a
// diag.Entry instead of returning an error up the call stack; only the
// fatal kinds in the table below are also returned as Go errors so the
// enclosing stage can halt per its severity policy.
//
// Complexity: all Registry operations are O(1) amortized except ListAll/
// ClearAll, which are O(n) in the number of descendant entries.
package diag

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Severity classifies how a diagnostic affects the enclosing stage.
type Severity int

const (
	// SeverityNotice is purely informational (e.g. optimizer non-convergence).
	SeverityNotice Severity = iota
	// SeverityWarning is advisory; execution continues unchanged.
	SeverityWarning
	// SeverityError marks a recoverable defect; the stage continues but the
	// result is not fully correct.
	SeverityError
	// SeverityFatal marks a programmer/integrator bug; the enclosing stage
	// halts and the condition is also returned as a Go error.
	SeverityFatal
)

// String renders the severity for log lines and test failure messages.
func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "notice"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Kind enumerates the diagnostic taxonomy, one constant per
// table row.
type Kind string

const (
	KindTooManyCourseNeighbors  Kind = "TooManyCourseNeighbors"
	KindOverlappingStitch       Kind = "OverlappingStitch"
	KindTooManyUpperWales       Kind = "TooManyUpperWales"
	KindUndefinedCourseDirection Kind = "UndefinedCourseDirection"
	KindReverseStitchConflict   Kind = "ReverseStitchConflict"
	KindSuspendedAtEnd          Kind = "SuspendedAtEnd"
	KindNoContinuityPath        Kind = "NoContinuityPath"
	KindInvalidCrossPair        Kind = "InvalidCrossPair"
	KindExcessiveStackedLoops   Kind = "ExcessiveStackedLoops"
	KindKnitOverMisses          Kind = "KnitOverMisses"
	KindTimeTravel              Kind = "TimeTravel"
	KindBedWidthExceeded        Kind = "BedWidthExceeded"
	KindOptimizerNonconvergence Kind = "OptimizerNonconvergence"
)

// severityOf is the fixed Kind→Severity mapping from the §7 table.
var severityOf = map[Kind]Severity{
	KindTooManyCourseNeighbors:   SeverityFatal,
	KindOverlappingStitch:        SeverityError,
	KindTooManyUpperWales:        SeverityError,
	KindUndefinedCourseDirection: SeverityWarning,
	KindReverseStitchConflict:    SeverityWarning,
	KindSuspendedAtEnd:           SeverityFatal,
	KindNoContinuityPath:         SeverityFatal,
	KindInvalidCrossPair:         SeverityWarning,
	KindExcessiveStackedLoops:    SeverityWarning,
	KindKnitOverMisses:           SeverityWarning,
	KindTimeTravel:               SeverityFatal,
	KindBedWidthExceeded:         SeverityWarning,
	KindOptimizerNonconvergence:  SeverityNotice,
}

// SeverityOf returns the fixed severity for a Kind, or SeverityError if the
// Kind is not one of the constants above (defensive default for forward
// compatibility with callers passing ad-hoc kinds).
func SeverityOf(k Kind) Severity {
	if s, ok := severityOf[k]; ok {
		return s
	}

	return SeverityError
}

// Sentinel errors, one per Kind, so callers can branch with errors.Is
// regardless of which component raised the diagnostic. Only sentinel
// variables are exposed; none are stringified with parameters at the
// definition site.
var (
	ErrTooManyCourseNeighbors   = errors.New("diag: stitch would exceed two course neighbors")
	ErrOverlappingStitch        = errors.New("diag: two stitches assigned to the same needle")
	ErrTooManyUpperWales        = errors.New("diag: stitch has more than two upper wale stitches")
	ErrUndefinedCourseDirection = errors.New("diag: no consecutive same-side stitch pair")
	ErrReverseStitchConflict    = errors.New("diag: reverse action on an occupied opposite side")
	ErrSuspendedAtEnd           = errors.New("diag: layout builder ended with a non-empty suspended list")
	ErrNoContinuityPath         = errors.New("diag: continuity_bind exhausted without reaching next course")
	ErrInvalidCrossPair         = errors.New("diag: cross recognition fell back to MISS")
	ErrExcessiveStackedLoops    = errors.New("diag: simulator saw more than three pointers on a needle")
	ErrKnitOverMisses           = errors.New("diag: simulator saw more than two misses before a knit")
	ErrTimeTravel               = errors.New("diag: simulator observed a future pointer time")
	ErrBedWidthExceeded         = errors.New("diag: packed width exceeds platform maximum")
	ErrOptimizerNonconvergence  = errors.New("diag: optimizer ran 20 sweeps without stability")
)

// errOf maps a Kind to its sentinel error.
var errOf = map[Kind]error{
	KindTooManyCourseNeighbors:   ErrTooManyCourseNeighbors,
	KindOverlappingStitch:        ErrOverlappingStitch,
	KindTooManyUpperWales:        ErrTooManyUpperWales,
	KindUndefinedCourseDirection: ErrUndefinedCourseDirection,
	KindReverseStitchConflict:    ErrReverseStitchConflict,
	KindSuspendedAtEnd:           ErrSuspendedAtEnd,
	KindNoContinuityPath:         ErrNoContinuityPath,
	KindInvalidCrossPair:         ErrInvalidCrossPair,
	KindExcessiveStackedLoops:    ErrExcessiveStackedLoops,
	KindKnitOverMisses:           ErrKnitOverMisses,
	KindTimeTravel:               ErrTimeTravel,
	KindBedWidthExceeded:         ErrBedWidthExceeded,
	KindOptimizerNonconvergence:  ErrOptimizerNonconvergence,
}

// ErrOf returns the sentinel error for a Kind, or nil if unknown.
func ErrOf(k Kind) error {
	return errOf[k]
}

// Side is a three-valued bed-side tag, shared by course, layout, and bed/*.
type Side int

const (
	Front Side = iota
	Back
	Both
)

// Other is the side involution; Other(Both) == Both.
func (s Side) Other() Side {
	switch s {
	case Front:
		return Back
	case Back:
		return Front
	default:
		return Both
	}
}

func (s Side) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// Direction is a three-valued yarn/traversal direction.
type Direction int

const (
	CW      Direction = 1
	CCW     Direction = -1
	Invalid Direction = 0
)

// Entry is one stitch-keyed diagnostic: (time, index, side, message),
// optionally carrying the originating error (fatal kinds) and an opaque
// flow reference.
type Entry struct {
	Kind     Kind
	Severity Severity
	Time     int
	Index    int
	Side     Side
	Message  string
	Err      error
	Flow     any // *simulate.Flow when raised by bed/simulate; nil otherwise
	Group    string
}

// New builds an Entry for Kind k at the given time/index/side with a
// formatted message. Severity is derived from k via SeverityOf.
func New(k Kind, t, index int, side Side, message string) Entry {
	return Entry{Kind: k, Severity: SeverityOf(k), Time: t, Index: index, Side: side, Message: message, Err: ErrOf(k)}
}

// WithFlow attaches a backward-flow reference to a copy of e.
func (e Entry) WithFlow(flow any) Entry {
	e.Flow = flow

	return e
}

// WithGroup attaches an originating layout-group id to a copy of e.
func (e Entry) WithGroup(group string) Entry {
	e.Group = group

	return e
}

// Fatal wraps the Kind's sentinel error with pkg/errors context, so the
// enclosing stage can both return an error (errors.Is still matches the
// sentinel, since pkg/errors preserves Unwrap) and leave a stack trace for
// debugging. Use for the four SeverityFatal kinds.
func Fatal(k Kind, context string) error {
	base := ErrOf(k)
	if base == nil {
		base = errors.New(string(k))
	}

	return pkgerrors.Wrap(base, context)
}
