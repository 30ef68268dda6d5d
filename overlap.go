package meshbool

import (
	"github.com/soypat/meshbool/bvh"
)

// buildTrees indexes the input triangles by operand. In self mode, or
// without a classifier, treeB is nil and treeA holds every triangle that is
// not skipped.
func (c *intersectContext) buildTrees() (treeA, treeB *bvh.Tree) {
	self := c.cfg.Self || c.classify == nil
	treeA = bvh.New(c.eps.eps)
	if !self {
		treeB = bvh.New(c.eps.eps)
	}
	c.triSide = make([]Side, len(c.tris))
	for i, t := range c.tris {
		side := c.side(t.F)
		c.triSide[i] = side
		switch {
		case side == SideSkip:
		case self || side == SideA:
			treeA.Insert(i, t.Coords())
		default:
			treeB.Insert(i, t.Coords())
		}
	}
	treeA.Balance()
	if treeB != nil {
		treeB.Balance()
	}
	return treeA, treeB
}

// overlapPairs returns the candidate triangle pairs to intersect.
func overlapPairs(treeA, treeB *bvh.Tree) [][2]int {
	if treeB == nil {
		return treeA.Overlap(treeA, func(a, b int) bool { return a < b })
	}
	return treeA.Overlap(treeB, nil)
}
