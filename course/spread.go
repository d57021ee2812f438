package course

import (
	"math"
	"sort"

	"github.com/knitgraph/compiler/stitch"
)

// Spread creates a biased many-to-one (or one-to-many) wale map between c
// and other, and defers the actual course link via LinkLater instead of
// joining immediately. factor biases which end of the shorter course absorbs the
// extra wale fan-in/fan-out: factor==1 spreads evenly, factor>1 biases
// the mapping toward the start, factor<1 toward the end.
// Complexity: O(max(len(c), len(other))).
func (c *Course) Spread(other *Course, factor float64) error {
	if factor <= 0 {
		factor = 1
	}
	longer, shorter := c.stitches, other.stitches
	longerIsC := true
	if len(other.stitches) > len(c.stitches) {
		longer, shorter = other.stitches, c.stitches
		longerIsC = false
	}
	if len(shorter) == 0 || len(longer) == 0 {
		return ErrTooFewStitches
	}
	for i, ls := range longer {
		frac := 0.0
		if len(longer) > 1 {
			frac = float64(i) / float64(len(longer)-1)
		}
		biased := math.Pow(frac, factor)
		j := int(biased * float64(len(shorter)-1))
		if j < 0 {
			j = 0
		}
		if j >= len(shorter) {
			j = len(shorter) - 1
		}
		if err := ls.Connect(shorter[j], stitch.Wale); err != nil {
			return err
		}
	}

	freedom := len(c.availableEndpoints()) + len(other.availableEndpoints())
	// The shorter course absorbed the fan-in/fan-out bias above, so it is
	// the more-constrained side; per the design notes' "always invoking
	// the action on the more-constrained side", it is the one that
	// performs the deferred Link.
	if longerIsC {
		other.LinkLater(c, freedom)
	} else {
		c.LinkLater(other, freedom)
	}

	return nil
}

// LinkLater queues a deferred Link between c and other, to be resolved by
// ApplyPending. It always queues, even if a pending operation already
// targets other; duplicates are rejected by ApplyPending, which has the
// full picture across every course sharing the same target.
func (c *Course) LinkLater(other *Course, freedom int) {
	c.pending = append(c.pending, pendingOp{
		target:  other,
		freedom: freedom,
		do:      func() error { return c.Link(other) },
	})
}

// ApplyPending resolves every LinkLater call queued across courses, in
// order of increasing degree-of-freedom (most-constrained first). It
// detects duplicate pending operations against the same (course, target)
// pair and returns ErrDuplicatePending.
// Complexity: O(n log n) in the total number of queued operations.
func ApplyPending(courses []*Course) error {
	type queued struct {
		owner *Course
		op    pendingOp
	}
	var all []queued
	seen := make(map[[2]*Course]struct{})
	for _, c := range courses {
		for _, op := range c.pending {
			key := [2]*Course{c, op.target}
			if _, dup := seen[key]; dup {
				return ErrDuplicatePending
			}
			seen[key] = struct{}{}
			all = append(all, queued{owner: c, op: op})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].op.freedom < all[j].op.freedom })
	for _, q := range all {
		if err := q.op.do(); err != nil {
			return err
		}
	}
	for _, c := range courses {
		c.pending = nil
	}

	return nil
}
