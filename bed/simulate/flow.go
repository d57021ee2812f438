package simulate

import "github.com/knitgraph/compiler/stitch"

// Pointer is one (stitch, time) reference a Flow carries.
type Pointer struct {
	Stitch *stitch.Stitch
	Time   int
}

// Flow is the per-needle history, also called BackwardFlow: the
// stitches currently riding a needle plus a count of rows missed since
// the last loop formed there. Monotone append-only within a time step;
// callers never mutate a Flow already stored on a bed, they build a new
// one and replace the slot (keeps historical beds' state pointers valid).
type Flow struct {
	Pointers []Pointer
	Misses   int
}

// single returns a fresh Flow holding one pointer at the given stitch/time.
func single(s *stitch.Stitch, t int) *Flow {
	return &Flow{Pointers: []Pointer{{Stitch: s, Time: t}}}
}

// merge unions f's and other's pointers and takes the max of their
// misses counts. Either argument may be nil.
func merge(f, other *Flow) *Flow {
	if f == nil {
		return other
	}
	if other == nil {
		return f
	}

	out := &Flow{Pointers: append(append([]Pointer{}, f.Pointers...), other.Pointers...)}
	out.Misses = f.Misses
	if other.Misses > out.Misses {
		out.Misses = other.Misses
	}

	return out
}

// withMiss returns a copy of f (or a fresh empty Flow if f is nil) with
// its miss count incremented by one.
func withMiss(f *Flow) *Flow {
	if f == nil {
		return &Flow{Misses: 1}
	}

	return &Flow{Pointers: append([]Pointer{}, f.Pointers...), Misses: f.Misses + 1}
}

// withTuck returns a copy of f with s appended as a new pointer at time t
// and its miss count incremented, representing a collapsed row.
func withTuck(f *Flow, s *stitch.Stitch, t int) *Flow {
	misses := 1
	var pointers []Pointer
	if f != nil {
		pointers = append(pointers, f.Pointers...)
		misses = f.Misses + 1
	}
	pointers = append(pointers, Pointer{Stitch: s, Time: t})

	return &Flow{Pointers: pointers, Misses: misses}
}
