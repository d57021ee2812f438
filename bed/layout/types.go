package layout

import (
	"fmt"
	"sync/atomic"

	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// Group is the shared behavior of Leaf and Internal.
type Group interface {
	ID() string
	Parent() *Internal
	Time() int
	SetTime(int)
	Offset() int
	SetOffset(int)
	Flip() bool
	SetFlip(bool)

	FullTime() int
	FullOffset() int
	FullFlip() bool

	Stitches() []*stitch.Stitch
	Side() diag.Side
	Extents() (lo, hi int)

	ApplyTime()
	ApplyOffset()
	ApplyFlip()

	// Leaves returns every Leaf descendant (a Leaf returns itself).
	Leaves() []*Leaf

	setParent(*Internal)
	addOffset(int)
	addTime(int)
	xorFlip(bool)
}

var groupSeq int64

func nextGroupID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, atomic.AddInt64(&groupSeq, 1))
}

// base holds the fields and trivial accessors shared by Leaf and Internal.
type base struct {
	id     string
	parent *Internal
	time   int
	offset int
	flip   bool
}

func (b *base) ID() string         { return b.id }
func (b *base) Parent() *Internal  { return b.parent }
func (b *base) Time() int          { return b.time }
func (b *base) SetTime(t int)      { b.time = t }
func (b *base) Offset() int        { return b.offset }
func (b *base) SetOffset(o int)    { b.offset = o }
func (b *base) Flip() bool         { return b.flip }
func (b *base) SetFlip(f bool)     { b.flip = f }
func (b *base) setParent(p *Internal) { b.parent = p }
func (b *base) addOffset(d int)    { b.offset += d }
func (b *base) addTime(d int)      { b.time += d }
func (b *base) xorFlip(f bool)     { b.flip = b.flip != f }

// FullTime, FullOffset, FullFlip walk the parent chain, composing the sum
// of time, sum of offset, and XOR of flip up to the root.
func (b *base) FullTime() int {
	t := b.time
	if b.parent != nil {
		t += b.parent.FullTime()
	}

	return t
}

func (b *base) FullOffset() int {
	o := b.offset
	if b.parent != nil {
		o += b.parent.FullOffset()
	}

	return o
}

func (b *base) FullFlip() bool {
	f := b.flip
	if b.parent != nil {
		f = f != b.parent.FullFlip()
	}

	return f
}
