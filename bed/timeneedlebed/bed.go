package timeneedlebed

import (
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// Cell is one front/back array slot: empty, a single stitch
// (the common case), or a list on conflict.
type Cell struct {
	Stitches []*stitch.Stitch
}

// Empty reports whether the cell holds no stitch.
func (c Cell) Empty() bool { return len(c.Stitches) == 0 }

// Conflict reports whether more than one stitch landed on this needle.
func (c Cell) Conflict() bool { return len(c.Stitches) > 1 }

// First returns the cell's sole or earliest occupant, or nil if empty.
func (c Cell) First() *stitch.Stitch {
	if len(c.Stitches) == 0 {
		return nil
	}

	return c.Stitches[0]
}

// NeedleBed is one time-slice's front/back occupancy plus its interpreted
// IR passes.
type NeedleBed struct {
	Parent *Bed
	Time   int

	Groups      map[*layout.Leaf]struct{}
	ActiveGroup *layout.Leaf

	Front []Cell
	Back  []Cell

	// StitchPtr maps every stitch in this bed to its owning leaf. Pos caches its resolved (index, side), avoiding an
	// O(width) scan every time bed/interpret or bed/simulate needs it.
	StitchPtr map[stitch.ID]*layout.Leaf
	Pos       map[stitch.ID]NeedlePos

	Passes []*Pass

	// State[Front/Back][index] holds an opaque *simulate.Flow once
	// bed/simulate has run, nil beforehand. Declared `any` so this package
	// never depends on bed/simulate (which depends on this package) —
	// mirrors diag.Entry.Flow's same trick.
	State [2][]any

	Active    bool
	Duplicate bool

	// HasKickback/HasSplit/HasSplitted are the "has" side of the increase
	// carry-over: seeded by the *previous* bed's action pass (its "set"
	// maps), consumed by this bed's action pass when resolving irregular
	// stitches.
	HasKickback map[stitch.ID]bool
	HasSplit    map[stitch.ID]bool
	HasSplitted map[stitch.ID]bool
}

func newNeedleBed(parent *Bed, t, width int) *NeedleBed {
	return &NeedleBed{
		Parent:    parent,
		Time:      t,
		Groups:    make(map[*layout.Leaf]struct{}),
		Front:     make([]Cell, width),
		Back:      make([]Cell, width),
		StitchPtr: make(map[stitch.ID]*layout.Leaf),
		Pos:       make(map[stitch.ID]NeedlePos),
	}
}

// cellsFor returns the array to index into for side (Both is treated as
// Front; callers resolving Both-side stitches should already have decided
// a concrete side before indexing).
func (nb *NeedleBed) cellsFor(side diag.Side) []Cell {
	if side == diag.Back {
		return nb.Back
	}

	return nb.Front
}

// Pass returns the bed's first pass of type t, or nil.
func (nb *NeedleBed) Pass(t PassType) *Pass {
	for _, p := range nb.Passes {
		if p.Type == t {
			return p
		}
	}

	return nil
}

// TransferPasses returns every PassTransfer pass on the bed, in order
//.
func (nb *NeedleBed) TransferPasses() []*Pass {
	var out []*Pass
	for _, p := range nb.Passes {
		if p.Type == PassTransfer {
			out = append(out, p)
		}
	}

	return out
}

// ActionAt returns the resolved Action for s within this bed's ACTION
// pass, if any.
func (nb *NeedleBed) ActionAt(s *stitch.Stitch) (*Action, bool) {
	p := nb.Pass(PassAction)
	if p == nil {
		return nil, false
	}
	a, ok := p.ActionMap[s.ID]

	return a, ok
}

// PositionOf returns s's resolved (index, side) within this bed.
func (nb *NeedleBed) PositionOf(s *stitch.Stitch) (NeedlePos, bool) {
	p, ok := nb.Pos[s.ID]

	return p, ok
}

// GroupInfo describes a layout group or shape node's footprint in the
// packed bed.
type GroupInfo struct {
	Shape     string
	Groups    []string
	Times     []int
	StartTime int
}

// Bed is the packed TimeNeedleBed: an append-only timeline of NeedleBeds
// plus cross-cutting indices.
type Bed struct {
	Timeline []*NeedleBed
	Width    int

	StitchMap map[stitch.ID]*NeedleBed
	GroupMap  map[string]GroupInfo
	NodeMap   map[string]GroupInfo

	Reg *diag.Registry

	// KeepDuplicates disables step-6 duplicate filtering/renumbering
	//. Default false, matching the common case.
	KeepDuplicates bool
}

// New returns an empty Bed recording diagnostics under reg's
// "timeneedlebed" sub-registry.
func New(reg *diag.Registry) *Bed {
	var sub *diag.Registry
	if reg != nil {
		sub = reg.Sub("timeneedlebed")
	} else {
		sub = diag.NewRoot("timeneedlebed")
	}

	return &Bed{
		StitchMap: make(map[stitch.ID]*NeedleBed),
		GroupMap:  make(map[string]GroupInfo),
		NodeMap:   make(map[string]GroupInfo),
		Reg:       sub,
	}
}

// Length returns the number of time steps packed so far.
func (b *Bed) Length() int { return len(b.Timeline) }

// At returns the bed at time t if in range; otherwise a fresh inactive
// empty bed.
func (b *Bed) At(t int) *NeedleBed {
	if t >= 0 && t < len(b.Timeline) {
		return b.Timeline[t]
	}

	return newNeedleBed(b, t, b.Width)
}

// Interpreter is the hook bed/interpret registers at init time, invoked by
// AppendLayout after every bed it just packed. Left nil, AppendLayout
// skips interpretation (useful for tests exercising packing in isolation).
var Interpreter func(nb *NeedleBed, reg *diag.Registry) error

// RegisterInterpreter installs fn as the package-level interpretation
// hook. Called from bed/interpret's init().
func RegisterInterpreter(fn func(nb *NeedleBed, reg *diag.Registry) error) {
	Interpreter = fn
}
