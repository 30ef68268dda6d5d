package meshbool

import (
	"github.com/soypat/meshbool/bmesh"
)

// dissolveWire joins chains of cut edges running through degree two
// intersection vertices into single edges.
func (c *intersectContext) dissolveWire() {
	cand := make(map[*bmesh.Vert]bool, len(c.dissolve))
	for _, v := range c.dissolve {
		cand[v] = true
	}
	visited := make(map[*bmesh.Vert]bool)
	var tagged []*bmesh.Edge
	var splices [][2]*bmesh.Vert // {src, dst}
	for _, v := range c.dissolve {
		if visited[v] || !c.dissolvable(v) {
			continue
		}
		visited[v] = true
		edges := v.Edges()
		back, end0 := c.walkChain(v, edges[0], cand, visited)
		fwd, end1 := c.walkChain(v, edges[1], cand, visited)
		if end0 == v || end0 == end1 {
			continue // Closed loop.
		}
		// chain runs from end0 to end1.
		chain := make([]*bmesh.Edge, 0, len(back)+len(fwd))
		for i := len(back) - 1; i >= 0; i-- {
			chain = append(chain, back[i])
		}
		chain = append(chain, fwd...)
		tagged = append(tagged, chain[1:]...)
		splices = append(splices, [2]*bmesh.Vert{chain[0].Other(end0), end1})
	}
	if len(tagged) == 0 {
		return
	}
	for _, e := range tagged {
		for _, f := range e.Faces() {
			if i, ok := c.table.IndexOf(f); ok {
				c.table.Tombstone(i)
			}
		}
		c.m.KillEdge(e)
	}
	for _, v := range c.dissolve {
		if !v.IsDead() && v.Degree() == 0 {
			c.m.KillVert(v)
		}
	}
	for _, sp := range splices {
		src, dst := sp[0], sp[1]
		if src.IsDead() || dst.IsDead() || c.m.SpliceCheckDouble(src, dst) {
			continue
		}
		c.m.SpliceVert(dst, src)
	}
	c.changed = true
}

// walkChain follows the chain of dissolvable vertices starting at v along e.
// It returns the traversed edges in order and the vertex the walk stopped at.
func (c *intersectContext) walkChain(v *bmesh.Vert, e *bmesh.Edge, cand, visited map[*bmesh.Vert]bool) ([]*bmesh.Edge, *bmesh.Vert) {
	var edges []*bmesh.Edge
	cur := v
	for {
		edges = append(edges, e)
		next := e.Other(cur)
		if next == v || !cand[next] || visited[next] || !c.dissolvable(next) {
			return edges, next
		}
		visited[next] = true
		es := next.Edges()
		if es[0] == e {
			e = es[1]
		} else {
			e = es[0]
		}
		cur = next
	}
}

// dissolvable reports whether v joins exactly two cut edges, neither of
// which bounds a triangle.
func (c *intersectContext) dissolvable(v *bmesh.Vert) bool {
	if v.IsDead() || v.Degree() != 2 {
		return false
	}
	for _, e := range v.Edges() {
		if !c.isWire(e) {
			return false
		}
	}
	return !touchesTriangle(v)
}

// touchesTriangle reports whether a face around v is a triangle. Removing v
// would degenerate it.
func touchesTriangle(v *bmesh.Vert) bool {
	for _, e := range v.Edges() {
		for _, f := range e.Faces() {
			if f.Len() == 3 {
				return true
			}
		}
	}
	return false
}

// dissolveCollapse removes intersection vertices left with two edges after
// the boolean pass.
func (c *intersectContext) dissolveCollapse() {
	for _, v := range c.dissolve {
		if v.IsDead() || v.Degree() != 2 || touchesTriangle(v) {
			continue
		}
		if c.m.CollapseVert(v) {
			c.changed = true
		}
	}
}
