package builder

import "github.com/knitgraph/compiler/bed/layout"

// Block is one scheduled step of the layout builder: the ordered leaves a
// shape would have produced for this step, one per course-id.
// Resolving a shape into a leaf is an external collaborator's job; Block
// only carries the already-built leaves.
type Block struct {
	Leaves []*layout.Leaf
}
