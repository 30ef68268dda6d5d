package meshbool

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/internal/d3"
)

// scratchCap bounds the number of vertices one triangle pair may visit on each side.
const scratchCap = 8

// vertStack is a bounded set of vertices in insertion order.
type vertStack struct {
	v [scratchCap]*bmesh.Vert
	n int
}

func (s *vertStack) has(v *bmesh.Vert) bool {
	for _, sv := range s.v[:s.n] {
		if sv == v {
			return true
		}
	}
	return false
}

// push adds v if not present. It returns false if the stack is full.
func (s *vertStack) push(v *bmesh.Vert) bool {
	if s.has(v) {
		return true
	}
	if s.n == scratchCap {
		return false
	}
	s.v[s.n] = v
	s.n++
	return true
}

func (s *vertStack) reset() {
	s.v = [scratchCap]*bmesh.Vert{}
	s.n = 0
}

// pairScratch holds the vertices visited on each side while intersecting
// a triangle pair.
type pairScratch struct {
	a, b     vertStack
	overflow bool
}

func (p *pairScratch) reset() {
	p.a.reset()
	p.b.reset()
	p.overflow = false
}

func (p *pairScratch) pushA(v *bmesh.Vert) {
	if !p.a.push(v) {
		p.overflow = true
	}
}

func (p *pairScratch) pushB(v *bmesh.Vert) {
	if !p.b.push(v) {
		p.overflow = true
	}
}

// triTri intersects triangles ta and tb, queueing new vertices on the edges
// they split and new cut edges on the faces they cross.
func (c *intersectContext) triTri(ta, tb int) {
	s := &c.scratch
	s.reset()
	defer s.reset()

	fa, fb := c.tris[ta].V, c.tris[tb].V
	for _, va := range fa {
		for _, vb := range fb {
			if va == vb {
				return
			}
		}
	}
	ca, cb := c.tris[ta].Coords(), c.tris[tb].Coords()

	// Vertex-vertex.
	for _, va := range fa {
		for _, vb := range fb {
			if d3.Dist2(va.Co, vb.Co) <= c.eps.eps2xSq {
				s.pushA(va)
				s.pushB(vb)
			}
		}
	}

	// Vertex-edge.
	c.vertEdge(fa, fb, &s.a, &s.b, s.pushB)
	c.vertEdge(fb, fa, &s.b, &s.a, s.pushA)

	// Vertex-triangle.
	shrunkA := d3.ScaleTriangle(ca, 1-c.eps.eps2x)
	shrunkB := d3.ScaleTriangle(cb, 1-c.eps.eps2x)
	for _, va := range fa {
		if !s.a.has(va) && c.pointInTri(va.Co, shrunkB) {
			s.pushA(va)
			s.pushB(va)
		}
	}
	for _, vb := range fb {
		if !s.b.has(vb) && c.pointInTri(vb.Co, shrunkA) {
			s.pushA(vb)
			s.pushB(vb)
		}
	}

	if c.coplanar(ta, tb) {
		c.coplanarTri(ta, tb)
		return
	}

	// Edge-triangle.
	for i := 0; i < 3; i++ {
		e0, e1 := fa[i], fa[(i+1)%3]
		if s.a.has(e0) && s.a.has(e1) {
			continue
		}
		if kind, v := c.edgeTri(e0, e1, tb); kind != isectNone {
			s.pushA(v)
			s.pushB(v)
		}
	}
	for i := 0; i < 3; i++ {
		e0, e1 := fb[i], fb[(i+1)%3]
		if s.b.has(e0) && s.b.has(e1) {
			continue
		}
		if kind, v := c.edgeTri(e0, e1, ta); kind != isectNone {
			s.pushA(v)
			s.pushB(v)
		}
	}

	if s.overflow {
		if !c.overflowed {
			c.warnf("triangle pair %d/%d visits more than %d vertices, cut dropped", ta, tb, scratchCap)
		}
		c.overflowed = true
		return
	}
	if s.a.n == 2 {
		c.addCut(s.a.v[0], s.a.v[1], c.tris[ta].F)
	}
	if s.b.n == 2 {
		c.addCut(s.b.v[0], s.b.v[1], c.tris[tb].F)
	}
}

// vertEdge tests the unvisited corners of one triangle against the edges of
// the other. Corners lying on an edge are queued on it and marked with mark.
func (c *intersectContext) vertEdge(corners, edges [3]*bmesh.Vert, visitedCorners, visitedEdges *vertStack, mark func(*bmesh.Vert)) {
	for _, v := range corners {
		if visitedCorners.has(v) {
			continue
		}
		for i := 0; i < 3; i++ {
			e0, e1 := edges[i], edges[(i+1)%3]
			if visitedEdges.has(e0) || visitedEdges.has(e1) {
				continue
			}
			fac := d3.LinePointFactor(v.Co, e0.Co, e1.Co)
			if fac <= -c.eps.eps || fac >= 1+c.eps.eps {
				continue
			}
			if d3.Dist2(d3.Lerp(e0.Co, e1.Co, fac), v.Co) > c.eps.eps2xSq {
				continue
			}
			mark(v)
			if e := c.m.FindEdge(e0, e1); e != nil {
				c.addEdgeVert(e, v)
			}
			break
		}
	}
}

func (c *intersectContext) pointInTri(p r3.Vec, tri [3]r3.Vec) bool {
	proj, inside := d3.ProjectPointTriangle(p, tri[0], tri[1], tri[2])
	return inside && d3.Dist2(proj, p) <= c.eps.eps2xSq
}

// addCut joins a and b with an edge and registers it as a cut through f.
func (c *intersectContext) addCut(a, b *bmesh.Vert, f *bmesh.Face) {
	e, _ := c.m.AddEdge(a, b)
	if e.IsWire() {
		c.addWire(e)
	}
	if e.InFace(f) {
		return
	}
	if fi, ok := c.table.IndexOf(f); ok {
		c.addFaceEdge(fi, e)
	}
}
