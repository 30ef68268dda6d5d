// Package meshbool intersects triangulated polygon meshes. It inserts the
// cut geometry of every pair of crossing triangles into the mesh, splits the
// faces along the cuts and optionally keeps only the face islands selected
// by a boolean operation.
//
// Faces are assigned to operands by a Classifier. Difference subtracts
// operand B from operand A; swapping the operands yields the complementary
// solid.
package meshbool

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
)

// ErrEmptyOperand is returned by Boolean when an operand has no faces.
var ErrEmptyOperand = errors.New("boolean operand has no faces")

// Intersect cuts m along the intersections of the triangles in tris, which
// must tessellate faces of m. It reports whether the mesh was modified.
// Intersect must not run concurrently on the same mesh.
func Intersect(m *bmesh.Mesh, tris []bmesh.LoopTri, classify Classifier, cfg Config) bool {
	c := newContext(m, tris, classify, cfg)
	treeA, treeB := c.buildTrees()
	for _, pair := range overlapPairs(treeA, treeB) {
		c.triTri(pair[0], pair[1])
	}
	c.spliceEdges()
	c.resolveWire()

	if cfg.Dissolve && cfg.Mode == None {
		c.dissolveWire()
	}
	c.splitFaces()

	if cfg.Mode != None && classify != nil {
		c.booleanPass(treeA, treeB)
		if cfg.Dissolve {
			c.dissolveCollapse()
		}
	}

	wire := c.liveWire()
	if cfg.EdgeTag {
		for _, e := range wire {
			e.Tag = true
		}
	}
	if cfg.Separate && len(wire) > 0 {
		m.SplitEdges(wire)
	}
	if cfg.Debug {
		c.checkResult()
	}
	return c.changed
}

// checkResult logs duplicate edges and zero length cut edges.
func (c *intersectContext) checkResult() {
	seen := make(map[[2]int]bool)
	for _, e := range c.m.Edges() {
		a, b := e.V[0].Index(), e.V[1].Index()
		if a > b {
			a, b = b, a
		}
		if seen[[2]int{a, b}] {
			c.warnf("duplicate edge between vertices %d and %d", a, b)
		}
		seen[[2]int{a, b}] = true
	}
	for _, e := range c.liveWire() {
		if e.Length() <= c.eps.eps {
			c.warnf("zero length cut edge %d", e.Index())
		}
	}
}

// Boolean combines the closed meshes a and b into a new mesh. The operands
// are not modified. Faces of the result carry Mat 0 when they come from a
// and Mat 1 when they come from b.
func Boolean(a, b *bmesh.Mesh, mode BooleanMode, cfg Config) (*bmesh.Mesh, error) {
	if a.NumFaces() == 0 || b.NumFaces() == 0 {
		return nil, ErrEmptyOperand
	}
	m := bmesh.New()
	for _, f := range m.Merge(a) {
		f.Mat = 0
	}
	for _, f := range m.Merge(b) {
		f.Mat = 1
	}
	cfg.Mode = mode
	Intersect(m, m.Tessellate(), ClassifyMat, cfg)
	return m, nil
}

// BooleanTriangles is Boolean for triangle soups. Vertices closer than tol are
// welded, see bmesh.FromTriangles.
func BooleanTriangles(a, b [][3]r3.Vec, tol float64, mode BooleanMode, cfg Config) (*bmesh.Mesh, error) {
	ma, err := bmesh.FromTriangles(a, tol)
	if err != nil {
		return nil, err
	}
	mb, err := bmesh.FromTriangles(b, tol)
	if err != nil {
		return nil, err
	}
	return Boolean(ma, mb, mode, cfg)
}
