package layout

import (
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/stitch"
)

// Internal owns an ordered sequence of child groups. NewInternal and
// Adopt set the child's parent pointer on adoption; they do not remove the
// child from a previous parent's Groups.
type Internal struct {
	base
	Groups []Group
}

// NewInternal builds an Internal owning groups, in order, adopting each.
func NewInternal(groups ...Group) *Internal {
	in := &Internal{base: base{id: nextGroupID("grp")}}
	for _, g := range groups {
		in.Adopt(g)
	}

	return in
}

// Adopt appends g as in's last child and reparents it to in. Callers must
// not adopt a group already owned elsewhere without first detaching it;
// Adopt does not check for this.
func (in *Internal) Adopt(g Group) {
	g.setParent(in)
	in.Groups = append(in.Groups, g)
}

// Stitches returns the concatenation of every child's stitches, in order.
func (in *Internal) Stitches() []*stitch.Stitch {
	var out []*stitch.Stitch
	for _, g := range in.Groups {
		out = append(out, g.Stitches()...)
	}

	return out
}

// Side unions the side across every child.
func (in *Internal) Side() diag.Side {
	mask := 0
	for _, g := range in.Groups {
		switch g.Side() {
		case diag.Front:
			mask |= 1
		case diag.Back:
			mask |= 2
		case diag.Both:
			mask |= 3
		}
	}
	switch mask {
	case 0, 1:
		return diag.Front
	case 2:
		return diag.Back
	default:
		return diag.Both
	}
}

// Extents returns the min/max local needle index across every child,
// each child's own offset already folded in.
func (in *Internal) Extents() (lo, hi int) {
	first := true
	for _, g := range in.Groups {
		clo, chi := g.Extents()
		clo += g.Offset()
		chi += g.Offset()
		if first {
			lo, hi = clo, chi
			first = false

			continue
		}
		if clo < lo {
			lo = clo
		}
		if chi > hi {
			hi = chi
		}
	}

	return lo, hi
}

// Leaves returns every Leaf descendant, depth-first in child order.
func (in *Internal) Leaves() []*Leaf {
	var out []*Leaf
	for _, g := range in.Groups {
		out = append(out, g.Leaves()...)
	}

	return out
}

// ApplyTime pushes in's own local time into each child (additive), zeros
// in's own, then recurses so every descendant ends with an absolute,
// fully-baked time.
func (in *Internal) ApplyTime() {
	if in.time != 0 {
		for _, g := range in.Groups {
			g.addTime(in.time)
		}
		in.time = 0
	}
	for _, g := range in.Groups {
		g.ApplyTime()
	}
}

// ApplyOffset pushes in's own local offset into each child additively,
// zeros in's own, then recurses.
func (in *Internal) ApplyOffset() {
	if in.offset != 0 {
		for _, g := range in.Groups {
			g.addOffset(in.offset)
		}
		in.offset = 0
	}
	for _, g := range in.Groups {
		g.ApplyOffset()
	}
}

// ApplyFlip pushes in's own local flip into each child via XOR, clears
// in's own, then recurses.
func (in *Internal) ApplyFlip() {
	if in.flip {
		for _, g := range in.Groups {
			g.xorFlip(true)
		}
		in.flip = false
	}
	for _, g := range in.Groups {
		g.ApplyFlip()
	}
}
