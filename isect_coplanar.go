package meshbool

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/internal/d2"
	"github.com/soypat/meshbool/internal/d3"
)

// coplanar reports whether every corner of triangle tb lies within eps2x of
// the plane of triangle ta.
func (c *intersectContext) coplanar(ta, tb int) bool {
	co := c.tris[ta].Coords()
	n := d3.TriangleNormal(co[0], co[1], co[2])
	if n == (r3.Vec{}) {
		return false
	}
	for _, v := range c.tris[tb].V {
		if math.Abs(r3.Dot(r3.Sub(v.Co, co[0]), n)) > c.eps.eps2x {
			return false
		}
	}
	return true
}

// coplanarTri cuts each of two coplanar triangles along the edges of the
// other that cross it. Where two edges cross, the vertex is shared with the
// edge-triangle intersector through the cache.
func (c *intersectContext) coplanarTri(ta, tb int) {
	c.clipEdges(ta, tb)
	c.clipEdges(tb, ta)
}

// clipEdges cuts the face of triangle dst along the parts of the mesh edges
// of triangle src lying inside dst.
func (c *intersectContext) clipEdges(dst, src int) {
	tri := c.tris[dst]
	co := tri.Coords()
	n := d3.TriangleNormal(co[0], co[1], co[2])
	if n == (r3.Vec{}) {
		return
	}
	u, v := d3.PlaneBasis(n)
	pl := bmesh.Plane{U: u, V: v}
	var corners [3]r2.Vec
	for i := range co {
		corners[i] = pl.Project(co[i])
	}
	sv := c.tris[src].V
	for i := 0; i < 3; i++ {
		p, q := sv[i], sv[(i+1)%3]
		if c.m.FindEdge(p, q) == nil {
			continue // Tessellation diagonal.
		}
		c.clipEdge(tri, pl, corners, p, q)
	}
}

// clipEdge cuts the face of dst along the part of segment (p,q) inside it.
// A segment running along a side of dst is boundary and makes no cut.
func (c *intersectContext) clipEdge(dst bmesh.LoopTri, pl bmesh.Plane, corners [3]r2.Vec, p, q *bmesh.Vert) {
	pp, pq := pl.Project(p.Co), pl.Project(q.Co)
	sign := 1.0
	if d2.Orient(corners[0], corners[1], corners[2]) < 0 {
		sign = -1
	}
	tol := c.eps.eps2x
	t0, t1 := 0.0, 1.0
	enter, exit := -1, -1
	for k := 0; k < 3; k++ {
		a, b := corners[k], corners[(k+1)%3]
		side := r2.Sub(b, a)
		l := r2.Norm(side)
		if l == 0 {
			return
		}
		// Signed distances to side k, positive inside.
		d0 := sign * d2.Cross(side, r2.Sub(pp, a)) / l
		d1 := sign * d2.Cross(side, r2.Sub(pq, a)) / l
		switch {
		case math.Abs(d0) <= tol && math.Abs(d1) <= tol:
			return
		case d0 < -tol && d1 < -tol:
			return
		case d0 >= -tol && d1 >= -tol:
			continue
		}
		t := d0 / (d0 - d1)
		if d0 < d1 {
			if t > t0 {
				t0, enter = t, k
			}
		} else if t < t1 {
			t1, exit = t, k
		}
	}
	if (t1-t0)*r3.Norm(r3.Sub(q.Co, p.Co)) <= c.eps.margin {
		return
	}
	a := c.clipEnd(dst, p, q, t0, enter, p)
	b := c.clipEnd(dst, p, q, t1, exit, q)
	if a == b || (isCorner(dst, a) && isCorner(dst, b)) {
		return
	}
	c.addCut(a, b, dst.F)
}

// clipEnd returns the vertex where (p,q) crosses side k of dst at factor t.
// When k is negative the segment ends inside dst at end.
func (c *intersectContext) clipEnd(dst bmesh.LoopTri, p, q *bmesh.Vert, t float64, k int, end *bmesh.Vert) *bmesh.Vert {
	if k < 0 {
		return end
	}
	co := d3.Lerp(p.Co, q.Co, t)
	a, b := dst.V[k], dst.V[(k+1)%3]
	for _, v := range [...]*bmesh.Vert{p, q, a, b} {
		if d3.Dist2(co, v.Co) <= c.eps.marginSq {
			return v
		}
	}
	return c.crossVert(p, q, a, b, co)
}

func isCorner(t bmesh.LoopTri, v *bmesh.Vert) bool {
	return t.V[0] == v || t.V[1] == v || t.V[2] == v
}
