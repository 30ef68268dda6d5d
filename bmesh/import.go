package bmesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/internal/d3"
)

// FromTriangles builds a mesh from a triangle soup. Corners closer than tol
// are welded into a single vertex. If tol is 0 it is inferred from the
// shortest triangle side. Triangles that collapse after welding are skipped.
func FromTriangles(tris [][3]r3.Vec, tol float64) (*Mesh, error) {
	if len(tris) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for i := range tris {
		for j, vert := range tris[i] {
			side2 := d3.Dist2(tris[i][(j+1)%3], vert)
			if side2 > 0 {
				minDist2 = math.Min(minDist2, side2)
			}
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	if maxDist2 <= 0 {
		return nil, errors.New("all triangles are degenerate")
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to generate appropiate mesh, suggested tolerance: %g", suggested)
	}
	if tol <= 0 {
		tol = suggested
	}

	m := New()
	w := welder{tol2: tol * tol, m: m}
	var loop [3]*Vert
	skipped := 0
	for _, tri := range tris {
		for j, vert := range tri {
			loop[j] = w.vert(vert)
		}
		if loop[0] == loop[1] || loop[1] == loop[2] || loop[2] == loop[0] {
			skipped++
			continue
		}
		m.AddFace(loop[:], nil)
	}
	if skipped == len(tris) {
		return nil, fmt.Errorf("all %d triangles collapsed with vertex tolerance %g", skipped, tol)
	}
	return m, nil
}

// welder finds previously created vertices within tolerance using a kd-tree.
type welder struct {
	tree kdtree.Tree
	tol2 float64
	m    *Mesh
}

func (w *welder) vert(co r3.Vec) *Vert {
	q := &weldPoint{co: co}
	if w.tree.Root != nil {
		near, dist2 := w.tree.Nearest(q)
		if near != nil && dist2 <= w.tol2 {
			return near.(*weldPoint).v
		}
	}
	q.v = w.m.AddVert(co)
	w.tree.Insert(q, false)
	return q.v
}

// weldPoint implements kdtree.Comparable.
type weldPoint struct {
	co r3.Vec
	v  *Vert
}

func (p *weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*weldPoint)
	return d3.Component(p.co, int(d)) - d3.Component(q.co, int(d))
}

func (p *weldPoint) Dims() int { return 3 }

func (p *weldPoint) Distance(c kdtree.Comparable) float64 {
	return d3.Dist2(p.co, c.(*weldPoint).co)
}

// Merge copies the live elements of other into m and returns the copied faces
// in order. Face attributes and edge tags are preserved.
func (m *Mesh) Merge(other *Mesh) []*Face {
	vmap := make(map[*Vert]*Vert, other.NumVerts())
	for _, v := range other.Verts() {
		vmap[v] = m.AddVert(v.Co)
	}
	for _, e := range other.Edges() {
		ne, _ := m.AddEdge(vmap[e.V[0]], vmap[e.V[1]])
		ne.Tag = e.Tag
	}
	faces := other.Faces()
	out := make([]*Face, 0, len(faces))
	loop := make([]*Vert, 0, 8)
	for _, f := range faces {
		loop = loop[:0]
		for _, v := range f.verts {
			loop = append(loop, vmap[v])
		}
		if nf := m.AddFace(loop, f); nf != nil {
			out = append(out, nf)
		}
	}
	return out
}
