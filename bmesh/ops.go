package bmesh

import (
	"github.com/soypat/meshbool/internal/d3"
)

// SplitEdge creates a vertex on e at factor fac measured from vertex from.
// The new edge ne joins from and nv while e is rewired to join nv and the
// other endpoint. Faces using e get nv inserted into their loops. ne inherits
// the Tag of e.
func (m *Mesh) SplitEdge(e *Edge, from *Vert, fac float64) (nv *Vert, ne *Edge) {
	other := e.Other(from)
	nv = m.AddVert(d3.Lerp(from.Co, other.Co, fac))
	if e.V[0] == from {
		e.V[0] = nv
	} else {
		e.V[1] = nv
	}
	from.edges = removeEdge(from.edges, e)
	nv.edges = append(nv.edges, e)
	ne = m.newEdge(from, nv)
	ne.Tag = e.Tag

	var done []*Face
	for _, f := range e.faces {
		if containsFace(done, f) {
			continue
		}
		done = append(done, f)
		// Walk backwards so insertions do not shift unvisited positions.
		for i := len(f.edges) - 1; i >= 0; i-- {
			if f.edges[i] != e {
				continue
			}
			var first, second *Edge
			if f.verts[i] == from {
				first, second = ne, e
			} else {
				first, second = e, ne
			}
			f.verts = insertVert(f.verts, i+1, nv)
			f.edges[i] = first
			f.edges = insertEdge(f.edges, i+1, second)
			ne.faces = append(ne.faces, f)
		}
	}
	return nv, ne
}

// SpliceCheckDouble reports whether merging a and b would produce two edges
// joining the same pair of vertices.
func (m *Mesh) SpliceCheckDouble(a, b *Vert) bool {
	for _, ea := range a.edges {
		w := ea.Other(a)
		if w == b {
			return true
		}
		if m.FindEdge(w, b) != nil {
			return true
		}
	}
	return false
}

// VertsShareFace reports whether a and b are both in the loop of some face.
func (m *Mesh) VertsShareFace(a, b *Vert) bool {
	for _, f := range a.Faces() {
		if f.HasVert(b) {
			return true
		}
	}
	return false
}

// SpliceVert merges src into dst. Edges and faces using src are rewired to
// dst and src is killed. dst keeps its position. Edges that end up doubled
// are merged and edges collapsed to a point are killed along with their faces.
// SpliceVert returns false if dst and src are the same vertex.
func (m *Mesh) SpliceVert(dst, src *Vert) bool {
	if dst == src || dst.dead || src.dead {
		return false
	}
	faces := src.Faces()
	edges := src.edges
	src.edges = nil
	var collapsed []*Edge
	for _, e := range edges {
		if e.V[0] == src {
			e.V[0] = dst
		} else {
			e.V[1] = dst
		}
		dst.edges = append(dst.edges, e)
		if e.V[0] == e.V[1] {
			collapsed = append(collapsed, e)
		}
	}
	for _, f := range faces {
		for i, v := range f.verts {
			if v == src {
				f.verts[i] = dst
			}
		}
	}
	src.dead = true
	m.nv--
	for _, e := range collapsed {
		// Remove the self-loop reference twice, once per endpoint slot.
		for len(e.faces) > 0 {
			m.KillFace(e.faces[0])
		}
		dst.edges = removeEdge(dst.edges, e)
		dst.edges = removeEdge(dst.edges, e)
		e.dead = true
		m.ne--
	}
	m.mergeDoubleEdges(dst)
	return true
}

// mergeDoubleEdges merges edges of v that join the same pair of vertices.
func (m *Mesh) mergeDoubleEdges(v *Vert) {
	for i := 0; i < len(v.edges); i++ {
		keep := v.edges[i]
		w := keep.Other(v)
		for j := i + 1; j < len(v.edges); j++ {
			dup := v.edges[j]
			if !dup.Has(w) {
				continue
			}
			for _, f := range dup.faces {
				for k, fe := range f.edges {
					if fe == dup {
						f.edges[k] = keep
					}
				}
				keep.faces = append(keep.faces, f)
			}
			keep.Tag = keep.Tag || dup.Tag
			dup.faces = nil
			v.edges = removeEdge(v.edges, dup)
			w.edges = removeEdge(w.edges, dup)
			dup.dead = true
			m.ne--
			j--
		}
	}
}

// CollapseVert dissolves a vertex with exactly two edges, joining them into a
// single edge and removing the vertex from the loops of its faces. It returns
// false and leaves the mesh untouched if v does not have two edges, the
// neighbours are already connected, or a face using v would be left with
// less than three vertices.
func (m *Mesh) CollapseVert(v *Vert) bool {
	if v.dead || len(v.edges) != 2 {
		return false
	}
	e1, e2 := v.edges[0], v.edges[1]
	a, b := e1.Other(v), e2.Other(v)
	if a == b || m.FindEdge(a, b) != nil {
		return false
	}
	faces := v.Faces()
	for _, f := range faces {
		if len(f.verts) <= 3 || !e1.InFace(f) || !e2.InFace(f) {
			return false
		}
	}
	for _, f := range faces {
		for i := len(f.verts) - 1; i >= 0; i-- {
			if f.verts[i] != v {
				continue
			}
			n := len(f.verts)
			prev := (i + n - 1) % n
			f.edges[prev] = e1
			f.verts = append(f.verts[:i], f.verts[i+1:]...)
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
		}
	}
	if e1.V[0] == v {
		e1.V[0] = b
	} else {
		e1.V[1] = b
	}
	b.edges = removeEdge(b.edges, e2)
	b.edges = append(b.edges, e1)
	e2.faces = nil
	e2.dead = true
	m.ne--
	v.edges = nil
	v.dead = true
	m.nv--
	return true
}

// FlipFace reverses the winding of f.
func (m *Mesh) FlipFace(f *Face) {
	n := len(f.verts)
	verts := make([]*Vert, n)
	edges := make([]*Edge, n)
	for k := 0; k < n; k++ {
		verts[k] = f.verts[n-1-k]
		edges[k] = f.edges[(2*n-2-k)%n]
	}
	f.verts = verts
	f.edges = edges
}

func insertVert(s []*Vert, i int, v *Vert) []*Vert {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertEdge(s []*Edge, i int, e *Edge) []*Edge {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = e
	return s
}
