package stitch

import "github.com/knitgraph/compiler/diag"

// Pattern is the small-int stitch.pattern tag written by external
// pattern-DSL evaluation and read by bed/interpret's action and
// pattern-target-rewrite passes. Kept as a plain int (not a Go-native enum
// type) on Stitch.Pattern itself; the named constants below are the only
// place the enumeration's meaning lives.
type Pattern = int

// Pattern tag enumeration.
const (
	PatternKnit Pattern = 1
	PatternPurl Pattern = 2
	PatternTuck Pattern = 3
	PatternMiss Pattern = 4

	PatternFrontRight1 Pattern = 5
	PatternFrontRight2 Pattern = 6
	PatternFrontLeft1  Pattern = 7
	PatternFrontLeft2  Pattern = 8

	PatternBackRight1 Pattern = 9
	PatternBackRight2 Pattern = 10
	PatternBackLeft1  Pattern = 11
	PatternBackLeft2  Pattern = 12

	PatternCrossRightUpper Pattern = 13
	PatternCrossRightLower Pattern = 14
	PatternCrossLeftUpper  Pattern = 15
	PatternCrossLeftLower  Pattern = 16

	PatternStack Pattern = 17
)

// reverseSet is {2,9,10,11,12}: patterns whose regular action carries
// Action.Reverse == true (PURL, and the BACK move family).
var reverseSet = map[Pattern]struct{}{
	PatternPurl:       {},
	PatternBackRight1: {},
	PatternBackRight2: {},
	PatternBackLeft1:  {},
	PatternBackLeft2:  {},
}

// IsReverse reports whether p is in the reverse set.
func IsReverse(p Pattern) bool {
	_, ok := reverseSet[p]

	return ok
}

// crossComplement is the symmetric pairing 13<->16, 14<->15.
var crossComplement = map[Pattern]Pattern{
	PatternCrossRightUpper: PatternCrossLeftLower,
	PatternCrossLeftLower:  PatternCrossRightUpper,
	PatternCrossRightLower: PatternCrossLeftUpper,
	PatternCrossLeftUpper:  PatternCrossRightLower,
}

// IsCross reports whether p is one of the four cross tags, and returns its
// complementary tag (the pattern its "second part" partner must carry).
func IsCross(p Pattern) (complement Pattern, ok bool) {
	c, found := crossComplement[p]

	return c, found
}

// IsMove reports whether p is one of the eight move tags, and returns the
// move's direction and step count.
func IsMove(p Pattern) (direction diag.Direction, steps int, ok bool) {
	switch p {
	case PatternFrontRight1:
		return diag.CW, 1, true
	case PatternFrontRight2:
		return diag.CW, 2, true
	case PatternFrontLeft1:
		return diag.CCW, 1, true
	case PatternFrontLeft2:
		return diag.CCW, 2, true
	case PatternBackRight1:
		return diag.CW, 1, true
	case PatternBackRight2:
		return diag.CW, 2, true
	case PatternBackLeft1:
		return diag.CCW, 1, true
	case PatternBackLeft2:
		return diag.CCW, 2, true
	default:
		return diag.Invalid, 0, false
	}
}

// IsMiss reports whether p is the MISS tag.
func IsMiss(p Pattern) bool { return p == PatternMiss }

// IsTuck reports whether p is the TUCK tag.
func IsTuck(p Pattern) bool { return p == PatternTuck }

// IsStack reports whether p is the STACK tag.
func IsStack(p Pattern) bool { return p == PatternStack }
