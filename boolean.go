package meshbool

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/bvh"
	"github.com/soypat/meshbool/internal/d3"
)

type islandAction int

const (
	actionKeep islandAction = iota
	actionRemove
	actionFlip
)

// rayDir is skewed so rays from axis aligned geometry rarely graze edges.
var rayDir = r3.Unit(r3.Vec{X: 0.37, Y: 0.61, Z: 0.70})

// booleanPass classifies the face islands of the cut mesh as inside or
// outside the other operand and removes or flips them according to the mode.
func (c *intersectContext) booleanPass(treeA, treeB *bvh.Tree) {
	var faces []*bmesh.Face
	for _, f := range c.m.Faces() {
		if c.side(f) != SideSkip {
			faces = append(faces, f)
		}
	}
	order, ranges := bmesh.GroupFaces(faces, c.crossable)
	var removed []*bmesh.Face
	for _, r := range ranges {
		island := order[r[0]:r[1]]
		side := c.side(island[0])
		var action islandAction
		if dir := c.coincident(island[0], side, treeA, treeB); dir != 0 {
			action = c.decideCoincident(side, dir > 0)
		} else {
			action = c.decide(side, c.inside(island[0].InteriorPoint(), side, treeA, treeB))
		}
		switch action {
		case actionRemove:
			removed = append(removed, island...)
		case actionFlip:
			for _, f := range island {
				c.m.FlipFace(f)
			}
			c.changed = true
		}
	}
	// Faces are only killed once every island has been classified.
	for _, f := range removed {
		c.m.KillFaceLoose(f)
		c.changed = true
	}
}

// crossable reports whether the faces around e belong to the same island.
// Cut edges are never crossed, nor edges shared by both operands.
func (c *intersectContext) crossable(e *bmesh.Edge) bool {
	if c.isWire(e) {
		return false
	}
	first := SideSkip
	for _, f := range e.Faces() {
		side := c.side(f)
		switch {
		case side == SideSkip:
		case first == SideSkip:
			first = side
		case side != first:
			return false
		}
	}
	return true
}

func (c *intersectContext) decide(side Side, inside bool) islandAction {
	switch c.cfg.Mode {
	case Intersection:
		if !inside {
			return actionRemove
		}
	case Union:
		if inside {
			return actionRemove
		}
	case Difference:
		if inside == (side == SideA) {
			return actionRemove
		}
		if side == SideB {
			return actionFlip
		}
	}
	return actionKeep
}

// decideCoincident handles islands lying on the surface of the other operand.
// same reports whether both surfaces face the same way. A single copy of a
// shared surface survives, taken from side A.
func (c *intersectContext) decideCoincident(side Side, same bool) islandAction {
	switch c.cfg.Mode {
	case Union, Intersection:
		if same && side == SideA {
			return actionKeep
		}
	case Difference:
		if !same && side == SideA {
			return actionKeep
		}
	}
	return actionRemove
}

// coincident reports whether f lies on a triangle of the operand other than
// side. It returns 1 when the triangle faces the same way as f, -1 when it
// faces the opposite way and 0 when f is not on the other surface.
func (c *intersectContext) coincident(f *bmesh.Face, side Side, treeA, treeB *bvh.Tree) int {
	n := f.Normal()
	if n == (r3.Vec{}) {
		return 0
	}
	tree := treeA
	if treeB != nil && side == SideA {
		tree = treeB
	}
	margin := c.eps.margin
	origin := r3.Sub(f.InteriorPoint(), r3.Scale(margin, n))
	dir := 0
	tree.RayCastAll(origin, n, func(id int, dist float64) {
		if dir != 0 || (treeB == nil && c.triSide[id] == side) {
			return
		}
		if math.Abs(dist-margin) > c.eps.eps2x {
			return
		}
		co := c.tris[id].Coords()
		dot := r3.Dot(n, d3.TriangleNormal(co[0], co[1], co[2]))
		switch {
		case dot >= 1-c.eps.eps:
			dir = 1
		case dot <= c.eps.eps-1:
			dir = -1
		}
	})
	return dir
}

// inside casts a ray from p and reports whether it crosses the surface of
// the operand other than side an odd number of times.
func (c *intersectContext) inside(p r3.Vec, side Side, treeA, treeB *bvh.Tree) bool {
	tree := treeA
	if treeB != nil && side == SideA {
		tree = treeB
	}
	var dists []float64
	tree.RayCastAll(p, rayDir, func(id int, dist float64) {
		if treeB == nil && c.triSide[id] == side {
			return
		}
		if dist > c.eps.eps {
			dists = append(dists, dist)
		}
	})
	sort.Float64s(dists)
	crossings := 0
	last := -1.0
	for _, d := range dists {
		if crossings == 0 || d-last > c.eps.eps2x {
			crossings++
		}
		last = d
	}
	return crossings%2 == 1
}
