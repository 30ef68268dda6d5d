package meshbool

import (
	"sort"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/internal/d3"
)

// spliceEdges inserts the queued vertices into their edges, nearest to the
// first endpoint first. Running it again with the same queue is a no-op.
func (c *intersectContext) spliceEdges() {
	for _, orig := range c.edgeOrder {
		l := c.edgeVerts[orig]
		e := c.resolve(orig)
		if e == nil || l.n == 0 {
			continue
		}
		verts := l.verts
		if l.n > 1 {
			origin := e.V[0].Co
			sort.SliceStable(verts, func(i, j int) bool {
				return d3.Dist2(verts[i].Co, origin) < d3.Dist2(verts[j].Co, origin)
			})
		}
		c.spliceEdge(orig, e, verts)
	}
}

// spliceEdge walks verts splitting what remains of e, the live edge standing
// in for orig, at each of them. Edges doubled by a splice are merged.
func (c *intersectContext) spliceEdge(orig, e *bmesh.Edge, verts []*bmesh.Vert) {
	wire := c.isWire(orig) || c.isWire(e)
	prev := e.V[0]
	for _, vi := range verts {
		if vi.IsDead() || e.Has(vi) {
			continue
		}
		next := e.Other(prev)
		fac := d3.LinePointFactor(vi.Co, prev.Co, next.Co)
		if fac <= 0 || fac >= 1 {
			continue
		}
		nv, ne := c.m.SplitEdge(e, prev, fac)
		if wire {
			c.addWire(ne)
		}
		c.splits[orig] = append(c.splits[orig], ne)
		c.changed = true
		if c.m.FindEdge(nv, vi) != nil || c.m.VertsShareFace(vi, nv) {
			nv.Co = vi.Co
			prev = nv
			continue
		}
		c.m.SpliceVert(vi, nv)
		c.moved[nv] = vi
		prev = vi
		if e.IsDead() {
			if e = c.m.FindEdge(vi, next); e == nil {
				return
			}
			c.splits[orig] = append(c.splits[orig], e)
		}
	}
}
