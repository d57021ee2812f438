package timeneedlebed

import (
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// PassType enumerates the four IR pass kinds a bed can carry.
type PassType int

const (
	PassCastOn PassType = iota
	PassAction
	PassTransfer
	PassCastOff
)

func (t PassType) String() string {
	switch t {
	case PassCastOn:
		return "cast-on"
	case PassAction:
		return "action"
	case PassTransfer:
		return "transfer"
	case PassCastOff:
		return "cast-off"
	default:
		return "unknown"
	}
}

// ActionKind enumerates the per-stitch machine action.
type ActionKind int

const (
	ActKnit ActionKind = iota
	ActPurl
	ActTuck
	ActMiss
	ActFBKnit
	ActSplit
	ActSplitMiss
	ActKickback
	ActTransferOnly // carries only source/target, used inside PassTransfer
	ActCastOff      // closes a stitch's loop at yarn end
	ActClear        // no-action clear entry inside a cast-off pass
)

// IncreaseType names the strategy chosen for a two-upper-wale stitch.
type IncreaseType int

const (
	IncreaseNone IncreaseType = iota
	IncreaseSplit
	IncreaseKickback
	IncreaseFBKnit
)

// NeedlePos is a resolved (index, side) bed position.
type NeedlePos struct {
	Index int
	Side  diag.Side
}

// Pairing records the reverse-swap relationship a cross-pattern rewrite
// stamps onto both halves of a cross pair: each stitch in `second` stores the reverse of what its
// paired stitch in `first` stored.
type Pairing struct {
	Reverse bool
	Steps   int
	Side    diag.Side
}

// Action is one stitch's resolved machine instruction.
type Action struct {
	Kind     ActionKind
	Regular  bool
	Reverse  bool
	Source   NeedlePos
	Targets  []NeedlePos
	Casting  bool
	Restack  bool
	ShortRow bool
	Splitted bool

	IncreaseType   IncreaseType
	IncreaseTarget *NeedlePos
	Pairing        *Pairing
}

// Pass is one ordered instruction group within a bed.
type Pass struct {
	Type      PassType
	Sequence  []*stitch.Stitch
	ActionMap map[stitch.ID]*Action
}

func newPass(t PassType) *Pass {
	return &Pass{Type: t, ActionMap: make(map[stitch.ID]*Action)}
}
