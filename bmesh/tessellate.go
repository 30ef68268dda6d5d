package bmesh

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/internal/d2"
	"github.com/soypat/meshbool/internal/d3"
)

// LoopTri is a triangle of a face tessellation.
type LoopTri struct {
	V [3]*Vert
	F *Face
}

// Coords returns the triangle corner positions.
func (t LoopTri) Coords() [3]r3.Vec {
	return [3]r3.Vec{t.V[0].Co, t.V[1].Co, t.V[2].Co}
}

// Tessellate triangulates every live face. Triangles keep the face winding.
func (m *Mesh) Tessellate() []LoopTri {
	var tris []LoopTri
	for _, f := range m.Faces() {
		tris = append(tris, f.Tessellate()...)
	}
	return tris
}

// Tessellate triangulates f by ear clipping its projection onto its plane.
func (f *Face) Tessellate() []LoopTri {
	if len(f.verts) == 3 {
		return []LoopTri{{V: [3]*Vert{f.verts[0], f.verts[1], f.verts[2]}, F: f}}
	}
	poly := f.project()
	if poly == nil {
		return nil
	}
	idx := d2.EarClip(poly)
	tris := make([]LoopTri, len(idx))
	for i, t := range idx {
		tris[i] = LoopTri{V: [3]*Vert{f.verts[t[0]], f.verts[t[1]], f.verts[t[2]]}, F: f}
	}
	return tris
}

// project returns the face loop in 2D coordinates of the face plane, in
// counter clockwise order. Degenerate faces return nil.
func (f *Face) project() []r2.Vec {
	pl, ok := f.Plane()
	if !ok {
		return nil
	}
	poly := make([]r2.Vec, len(f.verts))
	for i, v := range f.verts {
		poly[i] = pl.Project(v.Co)
	}
	return poly
}

// InteriorPoint returns a point strictly inside f: the centroid of the
// largest triangle of its tessellation. The face centroid is not used since
// it may fall outside concave faces.
func (f *Face) InteriorPoint() r3.Vec {
	var best r3.Vec
	bestArea := -1.0
	for _, t := range f.Tessellate() {
		c := t.Coords()
		a := d3.TriangleArea(c[0], c[1], c[2])
		if a > bestArea {
			bestArea = a
			best = d3.Set(c[:]).Centroid()
		}
	}
	if bestArea < 0 {
		return d3.Set(f.Coords()).Centroid()
	}
	return best
}

// Area returns the area of f.
func (f *Face) Area() float64 {
	var a float64
	for _, t := range f.Tessellate() {
		c := t.Coords()
		a += d3.TriangleArea(c[0], c[1], c[2])
	}
	return a
}

// Volume returns the signed volume enclosed by the mesh faces. It is only
// meaningful for closed meshes with outward facing normals.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, f := range m.Faces() {
		p0 := f.verts[0].Co
		for i := 1; i+1 < len(f.verts); i++ {
			p1, p2 := f.verts[i].Co, f.verts[i+1].Co
			vol += r3.Dot(p0, r3.Cross(p1, p2))
		}
	}
	return vol / 6
}

// IsManifold reports whether every live edge is used by exactly two face loops.
func (m *Mesh) IsManifold() bool {
	edges := m.Edges()
	if len(edges) == 0 {
		return false
	}
	for _, e := range edges {
		if len(e.faces) != 2 {
			return false
		}
	}
	return true
}

// Triangles returns the tessellated mesh as a triangle soup.
func (m *Mesh) Triangles() [][3]r3.Vec {
	lt := m.Tessellate()
	tris := make([][3]r3.Vec, len(lt))
	for i, t := range lt {
		tris[i] = t.Coords()
	}
	return tris
}

// Bounds returns the bounding box of the live vertices.
func (m *Mesh) Bounds() r3.Box {
	bb := d3.EmptyBox()
	for _, v := range m.Verts() {
		bb = bb.Include(v.Co)
	}
	return r3.Box(bb)
}
