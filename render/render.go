// Package render converts meshes to and from binary STL and draws them as
// images for quick inspection.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
)

// Triangle3 is a 3D triangle with counter-clockwise winding seen from outside.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two vertices of the triangle are within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	tol2 := tol * tol
	return r3.Norm2(r3.Sub(t.V[0], t.V[1])) <= tol2 ||
		r3.Norm2(r3.Sub(t.V[1], t.V[2])) <= tol2 ||
		r3.Norm2(r3.Sub(t.V[2], t.V[0])) <= tol2
}

// Triangles converts raw vertex triples.
func Triangles(tris [][3]r3.Vec) []Triangle3 {
	out := make([]Triangle3, len(tris))
	for i, t := range tris {
		out[i].V = t
	}
	return out
}

// Vecs is the inverse of Triangles.
func Vecs(model []Triangle3) [][3]r3.Vec {
	out := make([][3]r3.Vec, len(model))
	for i, t := range model {
		out[i] = t.V
	}
	return out
}

// MeshTriangles tessellates the live faces of m.
func MeshTriangles(m *bmesh.Mesh) []Triangle3 {
	return Triangles(m.Triangles())
}
