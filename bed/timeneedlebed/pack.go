package timeneedlebed

import (
	"fmt"
	"math"

	"github.com/knitgraph/compiler/bed/layout"
	"github.com/knitgraph/compiler/config"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
)

var packLog = xlog.For("timeneedlebed")

// AppendLayout packs an optimized layout tree into the timeline, following
// spec.md §4.F steps 1-8.
func (b *Bed) AppendLayout(root layout.Group) error {
	leaves := root.Leaves()
	if len(leaves) == 0 {
		return nil
	}

	// Step 1: absolute time/offset extents.
	tMin, tMax := math.MaxInt, math.MinInt
	oMin, oMax := math.MaxInt, math.MinInt
	for _, l := range leaves {
		t := l.FullTime()
		if t < tMin {
			tMin = t
		}
		if t > tMax {
			tMax = t
		}
		lo, hi := l.Extents()
		lo += l.FullOffset()
		hi += l.FullOffset()
		if lo < oMin {
			oMin = lo
		}
		if hi > oMax {
			oMax = hi
		}
	}

	// Step 2: extend width if needed.
	newWidth := oMax - oMin + 1
	if newWidth > b.Width {
		b.extendWidth(newWidth)
	}
	if b.Width > config.MaxBedWidth {
		b.Reg.Record(diag.New(diag.KindBedWidthExceeded, tMax, 0, diag.Front,
			fmt.Sprintf("packed width %d exceeds platform maximum %d", b.Width, config.MaxBedWidth)))
	}

	// Step 3: padding bed (if not the first component) + duration beds.
	startIdx := len(b.Timeline)
	if startIdx > 0 {
		b.appendBed()
	}
	baseTime := len(b.Timeline)
	duration := tMax - tMin + 1
	for i := 0; i < duration; i++ {
		b.appendBed()
	}

	// Step 4: bake time/offset/flip down into the leaves.
	root.ApplyTime()
	root.ApplyOffset()
	root.ApplyFlip()

	// Step 5: add each leaf to its bed.
	for _, l := range leaves {
		t := l.Time() - tMin + baseTime
		if t < 0 || t >= len(b.Timeline) {
			continue
		}
		b.addGroup(b.Timeline[t], l)
	}

	// Earliest-bed bookkeeping for stitch_map, scanned in time order so
	// "earliest" is well-defined regardless of leaf traversal order.
	for i := startIdx; i < len(b.Timeline); i++ {
		nb := b.Timeline[i]
		for id := range nb.StitchPtr {
			if _, seen := b.StitchMap[id]; !seen {
				b.StitchMap[id] = nb
			}
		}
	}

	// Step 6: classify active/duplicate/passive.
	for i := startIdx; i < len(b.Timeline); i++ {
		b.classify(i)
	}
	if !b.KeepDuplicates {
		b.filterDuplicates(startIdx)
	}

	// Step 7: group_map/node_map.
	b.indexGroups(leaves, baseTime)

	// Step 8: invoke the interpreter, left to right, over newly added beds.
	if Interpreter != nil {
		for i := startIdx; i < len(b.Timeline); i++ {
			if err := Interpreter(b.Timeline[i], b.Reg); err != nil {
				return err
			}
		}
	}
	packLog.Debug().Int("beds_added", len(b.Timeline)-startIdx).Int("width", b.Width).Msg("appended layout")

	return nil
}

func (b *Bed) extendWidth(width int) {
	for _, nb := range b.Timeline {
		nb.Front = growCells(nb.Front, width)
		nb.Back = growCells(nb.Back, width)
	}
	b.Width = width
}

func growCells(cells []Cell, width int) []Cell {
	if len(cells) >= width {
		return cells
	}
	grown := make([]Cell, width)
	copy(grown, cells)

	return grown
}

func (b *Bed) appendBed() {
	nb := newNeedleBed(b, len(b.Timeline), b.Width)
	b.Timeline = append(b.Timeline, nb)
}

// addGroup records every stitch of l at its absolute needle position,
// flagging same-needle collisions.
func (b *Bed) addGroup(nb *NeedleBed, l *layout.Leaf) {
	nb.Groups[l] = struct{}{}
	if l.Course != nil && l.Course.Len() > 0 {
		nb.ActiveGroup = l
	}
	for _, s := range l.Stitches() {
		idx, side, ok := l.NeedleOf(s)
		if !ok {
			continue
		}
		if idx < 0 || idx >= len(nb.Front) {
			continue // width already validated by the caller's extent pass
		}
		nb.StitchPtr[s.ID] = l
		nb.Pos[s.ID] = NeedlePos{Index: idx, Side: side}
		cells := nb.cellsFor(side)
		cell := cells[idx]
		if !cell.Empty() {
			b.Reg.Record(diag.New(diag.KindOverlappingStitch, nb.Time, idx, side,
				"two stitches assigned to the same needle"))
		}
		cell.Stitches = append(cell.Stitches, s)
		cells[idx] = cell
	}
}

// classify sets Active/Duplicate for bed i.
func (b *Bed) classify(i int) {
	nb := b.Timeline[i]
	active := false
	for id := range nb.StitchPtr {
		if eb, ok := b.StitchMap[id]; ok && eb == nb {
			active = true

			break
		}
	}
	nb.Active = active
	if active || i == 0 {
		nb.Duplicate = false

		return
	}
	nb.Duplicate = sameOccupancy(nb, b.Timeline[i-1])
}

// sameOccupancy reports whether every stitch in a is present in prior at
// the same needle, and vice versa.
func sameOccupancy(a, prior *NeedleBed) bool {
	if len(a.Pos) != len(prior.Pos) {
		return false
	}
	for id, p := range a.Pos {
		pp, ok := prior.Pos[id]
		if !ok || pp != p {
			return false
		}
	}

	return true
}

// filterDuplicates removes duplicate beds from index startIdx onward and
// renumbers the remaining beds' Time fields contiguously.
func (b *Bed) filterDuplicates(startIdx int) {
	kept := b.Timeline[:startIdx]
	for i := startIdx; i < len(b.Timeline); i++ {
		if b.Timeline[i].Duplicate {
			continue
		}
		kept = append(kept, b.Timeline[i])
	}
	b.Timeline = kept
	for i, nb := range b.Timeline {
		nb.Time = i
	}
}

// indexGroups builds group_map/node_map entries for the leaves just added
//, keyed by the leaf's own id and, when present, the
// external "shape" metadata key.
func (b *Bed) indexGroups(leaves []*layout.Leaf, baseTime int) {
	for _, l := range leaves {
		shape := ""
		if l.Course != nil {
			for _, s := range l.Course.Stitches() {
				if v, ok := s.First("shape", 0); ok {
					if str, isStr := v.(string); isStr {
						shape = str
					}

					break
				}
			}
		}
		info := GroupInfo{Shape: shape, Groups: []string{l.ID()}, Times: []int{l.Time()}, StartTime: l.Time()}
		b.GroupMap[l.ID()] = info
		if shape != "" {
			existing, ok := b.NodeMap[shape]
			if !ok {
				b.NodeMap[shape] = GroupInfo{Shape: shape, Groups: []string{l.ID()}, Times: []int{l.Time()}, StartTime: l.Time()}

				continue
			}
			existing.Groups = append(existing.Groups, l.ID())
			existing.Times = append(existing.Times, l.Time())
			b.NodeMap[shape] = existing
		}
	}
}
