// Package bmesh implements a polygon mesh with explicit vertex, edge and face
// adjacency suited to incremental surgery such as edge splitting, vertex
// splicing and face splitting.
//
// Elements are pointers owned by a Mesh. Killed elements are flagged dead and
// unlinked from their neighbours; pointers to them remain valid for identity
// checks but must not be used for topology queries.
package bmesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/internal/d3"
)

// Vert is a mesh vertex.
type Vert struct {
	Co    r3.Vec
	index int
	edges []*Edge
	dead  bool
}

// Index returns the stable creation index of the vertex. Indices are unique
// within a Mesh and never reused.
func (v *Vert) Index() int { return v.index }

// IsDead reports whether the vertex has been killed.
func (v *Vert) IsDead() bool { return v.dead }

// Edges returns the edges incident to v. The slice must not be modified.
func (v *Vert) Edges() []*Edge { return v.edges }

// Degree returns the number of edges incident to v.
func (v *Vert) Degree() int { return len(v.edges) }

// Faces returns the distinct faces using v.
func (v *Vert) Faces() []*Face {
	var faces []*Face
	for _, e := range v.edges {
		for _, f := range e.faces {
			if !containsFace(faces, f) {
				faces = append(faces, f)
			}
		}
	}
	return faces
}

// Edge joins two distinct vertices.
type Edge struct {
	V [2]*Vert
	// Tag is a caller defined flag. The intersection engine sets it on cut edges.
	Tag   bool
	index int
	faces []*Face
	dead  bool
}

func (e *Edge) Index() int    { return e.index }
func (e *Edge) IsDead() bool  { return e.dead }
func (e *Edge) Faces() []*Face { return e.faces }

// IsWire reports whether the edge bounds no face.
func (e *Edge) IsWire() bool { return len(e.faces) == 0 }

// Has reports whether v is an endpoint of e.
func (e *Edge) Has(v *Vert) bool { return e.V[0] == v || e.V[1] == v }

// Other returns the endpoint of e that is not v. It panics if v is not in e.
func (e *Edge) Other(v *Vert) *Vert {
	switch v {
	case e.V[0]:
		return e.V[1]
	case e.V[1]:
		return e.V[0]
	}
	panic("bmesh: vertex not in edge")
}

// InFace reports whether e is part of the boundary of f.
func (e *Edge) InFace(f *Face) bool { return containsFace(e.faces, f) }

// Length returns the euclidean length of the edge.
func (e *Edge) Length() float64 { return r3.Norm(r3.Sub(e.V[1].Co, e.V[0].Co)) }

// Face is a planar polygon. edges[i] joins verts[i] and verts[i+1].
type Face struct {
	// Mat is a caller defined attribute copied to faces created by splitting.
	Mat   int
	Tag   bool
	verts []*Vert
	edges []*Edge
	index int
	dead  bool
}

func (f *Face) Index() int   { return f.index }
func (f *Face) IsDead() bool { return f.dead }
func (f *Face) Len() int     { return len(f.verts) }

// Verts returns the face loop vertices in winding order. The slice must not be modified.
func (f *Face) Verts() []*Vert { return f.verts }

// Edges returns the face loop edges. Edges()[i] joins Verts()[i] and Verts()[i+1].
func (f *Face) Edges() []*Edge { return f.edges }

// HasVert reports whether v is in the loop of f.
func (f *Face) HasVert(v *Vert) bool {
	for _, fv := range f.verts {
		if fv == v {
			return true
		}
	}
	return false
}

// Coords returns the face loop vertex positions.
func (f *Face) Coords() []r3.Vec {
	pts := make([]r3.Vec, len(f.verts))
	for i, v := range f.verts {
		pts[i] = v.Co
	}
	return pts
}

// Normal returns the unit Newell normal of the face.
func (f *Face) Normal() r3.Vec {
	return d3.PolygonNormal(f.Coords())
}

// Mesh owns vertices, edges and faces.
type Mesh struct {
	verts []*Vert
	edges []*Edge
	faces []*Face

	nextV, nextE, nextF int
	nv, ne, nf          int
}

// New returns an empty mesh.
func New() *Mesh { return &Mesh{} }

func (m *Mesh) NumVerts() int { return m.nv }
func (m *Mesh) NumEdges() int { return m.ne }
func (m *Mesh) NumFaces() int { return m.nf }

// Verts returns the live vertices in creation order. The returned slice is
// a copy so the mesh may be modified while iterating over it.
func (m *Mesh) Verts() []*Vert {
	live := m.verts[:0]
	for _, v := range m.verts {
		if !v.dead {
			live = append(live, v)
		}
	}
	m.verts = live
	return append([]*Vert(nil), live...)
}

// Edges returns the live edges in creation order. See Verts.
func (m *Mesh) Edges() []*Edge {
	live := m.edges[:0]
	for _, e := range m.edges {
		if !e.dead {
			live = append(live, e)
		}
	}
	m.edges = live
	return append([]*Edge(nil), live...)
}

// Faces returns the live faces in creation order. See Verts.
func (m *Mesh) Faces() []*Face {
	live := m.faces[:0]
	for _, f := range m.faces {
		if !f.dead {
			live = append(live, f)
		}
	}
	m.faces = live
	return append([]*Face(nil), live...)
}

// AddVert creates a vertex at co.
func (m *Mesh) AddVert(co r3.Vec) *Vert {
	v := &Vert{Co: co, index: m.nextV}
	m.nextV++
	m.nv++
	m.verts = append(m.verts, v)
	return v
}

// FindEdge returns the edge joining a and b or nil if there is none.
func (m *Mesh) FindEdge(a, b *Vert) *Edge {
	if len(b.edges) < len(a.edges) {
		a, b = b, a
	}
	for _, e := range a.edges {
		if e.Has(b) {
			return e
		}
	}
	return nil
}

// AddEdge returns the edge joining a and b, creating it if it does not exist.
// created is true if a new edge was made.
func (m *Mesh) AddEdge(a, b *Vert) (e *Edge, created bool) {
	if a == b {
		panic("bmesh: edge with identical vertices")
	}
	if e = m.FindEdge(a, b); e != nil {
		return e, false
	}
	return m.newEdge(a, b), true
}

func (m *Mesh) newEdge(a, b *Vert) *Edge {
	e := &Edge{V: [2]*Vert{a, b}, index: m.nextE}
	m.nextE++
	m.ne++
	a.edges = append(a.edges, e)
	b.edges = append(b.edges, e)
	m.edges = append(m.edges, e)
	return e
}

// AddFace creates a face with the given loop, creating missing edges.
// Attributes are copied from example when it is not nil. AddFace returns nil
// if the loop has less than 3 vertices or repeats a vertex consecutively.
func (m *Mesh) AddFace(verts []*Vert, example *Face) *Face {
	n := len(verts)
	if n < 3 {
		return nil
	}
	for i := range verts {
		if verts[i] == verts[(i+1)%n] {
			return nil
		}
	}
	f := &Face{
		verts: append([]*Vert(nil), verts...),
		edges: make([]*Edge, n),
		index: m.nextF,
	}
	if example != nil {
		f.Mat = example.Mat
		f.Tag = example.Tag
	}
	m.nextF++
	m.nf++
	for i := range verts {
		e, _ := m.AddEdge(verts[i], verts[(i+1)%n])
		e.faces = append(e.faces, f)
		f.edges[i] = e
	}
	m.faces = append(m.faces, f)
	return f
}

// KillFace removes f from the mesh. Its edges and vertices are kept.
func (m *Mesh) KillFace(f *Face) {
	if f.dead {
		return
	}
	for _, e := range f.edges {
		e.faces = removeFace(e.faces, f)
	}
	f.dead = true
	f.edges = nil
	m.nf--
}

// KillFaceLoose removes f and any of its edges and vertices left unused.
func (m *Mesh) KillFaceLoose(f *Face) {
	if f.dead {
		return
	}
	edges := append([]*Edge(nil), f.edges...)
	verts := append([]*Vert(nil), f.verts...)
	m.KillFace(f)
	for _, e := range edges {
		if !e.dead && len(e.faces) == 0 {
			m.KillEdge(e)
		}
	}
	for _, v := range verts {
		if !v.dead && len(v.edges) == 0 {
			m.KillVert(v)
		}
	}
}

// KillEdge removes e and every face using it.
func (m *Mesh) KillEdge(e *Edge) {
	if e.dead {
		return
	}
	for len(e.faces) > 0 {
		m.KillFace(e.faces[0])
	}
	e.V[0].edges = removeEdge(e.V[0].edges, e)
	e.V[1].edges = removeEdge(e.V[1].edges, e)
	e.dead = true
	m.ne--
}

// KillVert removes v and every edge and face using it.
func (m *Mesh) KillVert(v *Vert) {
	if v.dead {
		return
	}
	for len(v.edges) > 0 {
		m.KillEdge(v.edges[0])
	}
	v.dead = true
	m.nv--
}

// removeFace removes the first occurrence of f.
func removeFace(faces []*Face, f *Face) []*Face {
	for i := range faces {
		if faces[i] == f {
			return append(faces[:i], faces[i+1:]...)
		}
	}
	return faces
}

// removeEdge removes the first occurrence of e.
func removeEdge(edges []*Edge, e *Edge) []*Edge {
	for i := range edges {
		if edges[i] == e {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

func containsFace(faces []*Face, f *Face) bool {
	for _, g := range faces {
		if g == f {
			return true
		}
	}
	return false
}
