package meshbool

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/internal/d3"
)

type isectType int

const (
	isectNone isectType = iota
	isectEdgeTri0
	isectEdgeTri1
	isectEdgeTri2
	isectEdgeTriInterior
)

// indexPair holds two vertex indices, or a triangle index followed by -1.
type indexPair [2]int

func (p indexPair) less(q indexPair) bool {
	if p[0] != q[0] {
		return p[0] < q[0]
	}
	return p[1] < q[1]
}

func makePair(a, b int) indexPair {
	if a > b {
		a, b = b, a
	}
	return indexPair{a, b}
}

// isectKey identifies an intersected feature pair: an edge and a triangle
// interior, or two edges. Edge-edge keys are symmetric so the same crossing
// is found whichever edge is queried.
type isectKey [2]indexPair

func interiorKey(edge indexPair, tri int) isectKey {
	return isectKey{edge, {tri, -1}}
}

func edgeEdgeKey(a, b indexPair) isectKey {
	if b.less(a) {
		a, b = b, a
	}
	return isectKey{a, b}
}

// edgeTri intersects the segment (v0,v1) with triangle t. It returns the type
// of feature hit and the vertex at the intersection, which is shared with
// any earlier query hitting the same feature pair.
func (c *intersectContext) edgeTri(v0, v1 *bmesh.Vert, t int) (isectType, *bmesh.Vert) {
	if v0.Index() > v1.Index() {
		v0, v1 = v1, v0
	}
	tv := c.tris[t].V
	edge := indexPair{v0.Index(), v1.Index()}
	var keys [4]isectKey
	keys[0] = interiorKey(edge, t)
	for j := 0; j < 3; j++ {
		keys[j+1] = edgeEdgeKey(edge, makePair(tv[j].Index(), tv[(j+1)%3].Index()))
	}
	for k, key := range keys {
		if v, ok := c.cache[key]; ok {
			if k == 0 {
				return isectEdgeTriInterior, v
			}
			return isectEdgeTri0 + isectType(k-1), v
		}
	}

	e0, e1 := v0.Co, v1.Co
	dir := r3.Sub(e1, e0)
	length := r3.Norm(dir)
	if length == 0 {
		return isectNone, nil
	}
	edir := r3.Scale(1/length, dir)
	margin := c.eps.margin
	for j := 0; j < 3; j++ {
		ta, tb := tv[j], tv[(j+1)%3]
		tdir := r3.Sub(tb.Co, ta.Co)
		tlen := r3.Norm(tdir)
		if tlen == 0 || math.Abs(r3.Dot(edir, r3.Scale(1/tlen, tdir))) >= 1-c.eps.eps {
			continue
		}
		pa, pb, ok := d3.ClosestLineLine(e0, e1, ta.Co, tb.Co)
		if !ok || d3.Dist2(pa, pb) > c.eps.marginSq {
			continue
		}
		fa := d3.LinePointFactor(pa, e0, e1)
		fb := d3.LinePointFactor(pb, ta.Co, tb.Co)
		if fa <= margin || fa >= 1-margin || fb <= margin || fb >= 1-margin {
			continue
		}
		return isectEdgeTri0 + isectType(j), c.crossVert(v0, v1, ta, tb, d3.Lerp(pa, pb, 0.5))
	}

	co := c.tris[t].Coords()
	lambda, ok := d3.RayTriangle(e0, dir, co[0], co[1], co[2], 0)
	if !ok || lambda <= margin || lambda >= 1-margin {
		return isectNone, nil
	}
	ip := r3.Add(e0, r3.Scale(lambda, dir))
	for _, corner := range co {
		if d3.Dist2(ip, corner) <= c.eps.marginSq {
			return isectNone, nil
		}
	}
	v := c.m.AddVert(ip)
	if e := c.m.FindEdge(v0, v1); e != nil {
		c.addEdgeVert(e, v)
	} else {
		c.dissolve = append(c.dissolve, v)
	}
	c.cache[keys[0]] = v
	return isectEdgeTriInterior, v
}

// crossVert returns the vertex where segments (p,q) and (a,b) cross, adding
// it at co when no earlier query found the crossing. A new vertex is queued
// for splicing into whichever of the segments are mesh edges.
func (c *intersectContext) crossVert(p, q, a, b *bmesh.Vert, co r3.Vec) *bmesh.Vert {
	key := edgeEdgeKey(makePair(p.Index(), q.Index()), makePair(a.Index(), b.Index()))
	if v, ok := c.cache[key]; ok {
		return v
	}
	v := c.m.AddVert(co)
	registered := false
	if e := c.m.FindEdge(p, q); e != nil {
		c.addEdgeVert(e, v)
		registered = true
	}
	if e := c.m.FindEdge(a, b); e != nil {
		c.addEdgeVert(e, v)
		registered = true
	}
	if !registered {
		c.dissolve = append(c.dissolve, v)
	}
	c.cache[key] = v
	return v
}
