package optimizer

import (
	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// pos is an absolute needle position, used only for stress bookkeeping.
type pos struct {
	idx  int
	side diag.Side
}

// stressPair is one (group-A position, group-B position) pair for related
// stitches.
type stressPair struct {
	a, b pos
}

// stressPairsBetween collects stress pairs for every stitch in a that is
// "related" (equal stitch or a wale/course neighbor) to a stitch in b.
func stressPairsBetween(a, b layout.Group) []stressPair {
	bPos := make(map[stitch.ID]pos)
	for _, l := range b.Leaves() {
		for _, s := range l.Stitches() {
			idx, side, ok := l.AbsoluteNeedleOf(s)
			if ok {
				bPos[s.ID] = pos{idx: idx, side: side}
			}
		}
	}
	if len(bPos) == 0 {
		return nil
	}

	var pairs []stressPair
	for _, l := range a.Leaves() {
		for _, s := range l.Stitches() {
			aIdx, aSide, ok := l.AbsoluteNeedleOf(s)
			if !ok {
				continue
			}
			apos := pos{idx: aIdx, side: aSide}
			if bp, ok := bPos[s.ID]; ok {
				pairs = append(pairs, stressPair{a: apos, b: bp})
			}
			for _, mode := range [2]stitch.NeighborMode{stitch.Wale, stitch.Course} {
				for _, n := range s.Neighbors(mode) {
					if bp, ok := bPos[n.ID]; ok {
						pairs = append(pairs, stressPair{a: apos, b: bp})
					}
				}
			}
		}
	}

	return pairs
}

// bestOffset is the mean of (b.idx - a.idx) across pairs.
func bestOffset(pairs []stressPair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	sum := 0
	for _, p := range pairs {
		sum += p.b.idx - p.a.idx
	}

	return float64(sum) / float64(len(pairs))
}

// sideConflicts tallies pairs whose sides match ("good") vs differ
// ("bad").
func sideConflicts(pairs []stressPair) (good, bad int) {
	for _, p := range pairs {
		if p.a.side == p.b.side {
			good++
		} else {
			bad++
		}
	}

	return good, bad
}
