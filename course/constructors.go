package course

import (
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// Empty returns a zero-width Course with no stitches.
func Empty() *Course {
	c := newCourse()
	c.Reset(false, true)

	return c
}

// Stitches creates a course of n freshly allocated stitches chained by
// course adjacency, placed at successive front-side indices 0..n-1. It is
// the bare building block the other constructors specialize.
// Complexity: O(n).
func Stitches(g *stitch.Graph, n int) (*Course, error) {
	if n < 1 {
		return nil, ErrTooFewStitches
	}
	c := newCourse()
	for i := 0; i < n; i++ {
		c.place(g.New(), i, diag.Front)
	}
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(false, true)

	return c, nil
}

// Flat creates a single-side course of width stitches spaced by gauge
// needle positions.
// Complexity: O(width).
func Flat(g *stitch.Graph, side diag.Side, width, gauge int) (*Course, error) {
	if width < 1 {
		return nil, ErrTooFewStitches
	}
	if gauge < 1 {
		gauge = 1
	}
	c := newCourse()
	for i := 0; i < width; i++ {
		c.place(g.New(), i*gauge, side)
	}
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(false, true)

	return c, nil
}

// CShape creates a course that runs `width` stitches across side, with
// `pre` extra stitches curling onto the opposite side before the main
// run and `post` curling after it — the short return-edges that turn a
// flat panel into a partial collar.
// Complexity: O(pre + width + post).
func CShape(g *stitch.Graph, side diag.Side, width, pre, post, gauge int) (*Course, error) {
	if width < 1 {
		return nil, ErrTooFewStitches
	}
	if gauge < 1 {
		gauge = 1
	}
	other := side.Other()
	c := newCourse()
	// Pre-curl: pre stitches on the opposite side, descending toward index 0.
	for i := pre; i > 0; i-- {
		c.place(g.New(), -i*gauge, other)
	}
	// Main run.
	for i := 0; i < width; i++ {
		c.place(g.New(), i*gauge, side)
	}
	// Post-curl: post stitches on the opposite side, continuing past width-1.
	for i := 1; i <= post; i++ {
		c.place(g.New(), (width-1+i)*gauge, other)
	}
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(false, true)

	return c, nil
}

// Tube creates a circular course of circumference width: one stitch on
// the front and one on the back at every index 0..width-1, chained front
// ascending then back descending so the last stitch closes back onto the
// first.
// Complexity: O(width).
func Tube(g *stitch.Graph, width, gauge int) (*Course, error) {
	if width < 1 {
		return nil, ErrTooFewStitches
	}
	if gauge < 1 {
		gauge = 1
	}
	c := newCourse()
	for i := 0; i < width; i++ {
		c.place(g.New(), i*gauge, diag.Front)
	}
	for i := width - 1; i >= 0; i-- {
		c.place(g.New(), i*gauge, diag.Back)
	}
	c.circular = true
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(true, true)

	return c, nil
}

// ZigZag creates a course that toggles side at every stitch while
// advancing the needle index, the building block of short-row shaping
//.
// Complexity: O(width).
func ZigZag(g *stitch.Graph, width, gauge int) (*Course, error) {
	if width < 1 {
		return nil, ErrTooFewStitches
	}
	if gauge < 1 {
		gauge = 1
	}
	c := newCourse()
	side := diag.Front
	for i := 0; i < width; i++ {
		c.place(g.New(), i*gauge, side)
		side = side.Other()
	}
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(false, true)

	return c, nil
}

// ZigZagReturn creates a ZigZag course that additionally returns to its
// starting index, optionally closing the loop circularly.
// Complexity: O(width).
func ZigZagReturn(g *stitch.Graph, width, gauge int, circular bool) (*Course, error) {
	if width < 1 {
		return nil, ErrTooFewStitches
	}
	if gauge < 1 {
		gauge = 1
	}
	c := newCourse()
	side := diag.Front
	for i := 0; i < width; i++ {
		c.place(g.New(), i*gauge, side)
		side = side.Other()
	}
	for i := width - 2; i >= 0; i-- {
		c.place(g.New(), i*gauge, side)
		side = side.Other()
	}
	c.circular = circular
	if err := c.chain(); err != nil {
		return nil, err
	}
	c.Reset(circular, true)

	return c, nil
}
