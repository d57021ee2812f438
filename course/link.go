package course

import (
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// endpoint names one of a course's two addressable ends.
type endpoint int

const (
	endFirst endpoint = iota
	endLast
)

// availableEndpoints returns the endpoints of c that still have fewer than
// two course neighbors.
func (c *Course) availableEndpoints() []endpoint {
	var out []endpoint
	if s := c.First(); s != nil && s.IsEndpoint() {
		out = append(out, endFirst)
	}
	if s := c.Last(); s != nil && s.IsEndpoint() && (len(c.stitches) == 1 || s != c.First()) {
		out = append(out, endLast)
	}

	return out
}

func (c *Course) stitchAt(e endpoint) *stitch.Stitch {
	if e == endFirst {
		return c.First()
	}

	return c.Last()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// Link chooses endpoints between c and next and connects them with a
// single stitch.Course edge:
//  1. Enumerate every (this_end, next_end) candidate pair.
//  2. Filter out pairs whose sides disagree (a direct course link keeps
//     the yarn on the same bed side; crossing sides needs ContinuityBind
//     instead).
//  3. Pick the pair minimizing needle-index distance.
//  4. Connect with stitch.Course.
//
// Returns ErrNoLinkCandidate if either course is circular (no endpoints)
// or no side-compatible pair exists.
// Complexity: O(1) (at most 4 candidate pairs).
func (c *Course) Link(next *Course) error {
	if c.circular || next.circular {
		return ErrNoLinkCandidate
	}
	cEnds := c.availableEndpoints()
	nEnds := next.availableEndpoints()
	if len(cEnds) == 0 || len(nEnds) == 0 {
		return ErrNoLinkCandidate
	}

	type candidate struct {
		a, b     *stitch.Stitch
		distance int
	}
	var best *candidate
	for _, ce := range cEnds {
		a := c.stitchAt(ce)
		aIdx, aSide, _ := c.NeedleOf(a, 0, false)
		for _, ne := range nEnds {
			b := next.stitchAt(ne)
			bIdx, bSide, _ := next.NeedleOf(b, 0, false)
			if aSide != diag.Both && bSide != diag.Both && aSide != bSide {
				continue // side opposition: reject, use ContinuityBind instead
			}
			d := abs(bIdx - aIdx)
			if best == nil || d < best.distance {
				best = &candidate{a: a, b: b, distance: d}
			}
		}
	}
	if best == nil {
		return ErrNoLinkCandidate
	}

	return best.a.Connect(best.b, stitch.Course)
}

// ContinuityBind resolves a course pair that Link could not join directly:
// starting from the outgoing endpoint `from` (a stitch of c), it manufactures
// one intermediate stitch per index in path, chaining them by stitch.Course,
// until path's last index matches an available endpoint of next at the
// same side; it then connects the final manufactured stitch to that
// endpoint. Yarn direction is inferred from path having at least two
// consecutive needles on the same side (front ascending is positive, back
// is reversed) purely for bookkeeping on the manufactured stitches'
// metadata; it does not affect connectivity.
//
// Returns a diag.Fatal error for diag.KindNoContinuityPath (wrapping
// diag.ErrNoContinuityPath) if path is exhausted without reaching an
// endpoint of next.
// Complexity: O(len(path)).
func ContinuityBind(g *stitch.Graph, from *stitch.Stitch, side diag.Side, next *Course, path []int) error {
	if len(path) == 0 {
		return diag.Fatal(diag.KindNoContinuityPath, "course: ContinuityBind empty path")
	}
	dir := inferDirection(path, side)

	cur := from
	for i, idx := range path {
		last := i == len(path)-1
		if last {
			target := findEndpointAt(next, idx, side)
			if target == nil {
				return diag.Fatal(diag.KindNoContinuityPath, "course: ContinuityBind path did not reach an endpoint of next")
			}
			return cur.Connect(target, stitch.Course)
		}
		mid := g.New()
		mid.SetMeta("continuityIndex", stitch.NoContext, idx)
		mid.SetMeta("continuityDirection", stitch.NoContext, int(dir))
		if err := cur.Connect(mid, stitch.Course); err != nil {
			return err
		}
		cur = mid
	}

	return diag.Fatal(diag.KindNoContinuityPath, "course: ContinuityBind path did not reach an endpoint of next")
}

// findEndpointAt returns next's endpoint stitch sitting at (idx, side), or
// nil if neither endpoint matches.
func findEndpointAt(next *Course, idx int, side diag.Side) *stitch.Stitch {
	for _, e := range next.availableEndpoints() {
		s := next.stitchAt(e)
		si, ss, ok := next.NeedleOf(s, 0, false)
		if ok && si == idx && (ss == side || ss == diag.Both || side == diag.Both) {
			return s
		}
	}

	return nil
}

// inferDirection reports the yarn direction implied by at least two
// consecutive needles in path on the same side: ascending index is CW on
// the front, and the sign is reversed on the back.
// Returns diag.Invalid if path has fewer than two entries.
func inferDirection(path []int, side diag.Side) diag.Direction {
	if len(path) < 2 {
		return diag.Invalid
	}
	delta := path[1] - path[0]
	if delta == 0 {
		return diag.Invalid
	}
	dir := diag.CW
	if delta < 0 {
		dir = diag.CCW
	}
	if side == diag.Back {
		dir = -dir
	}

	return dir
}
