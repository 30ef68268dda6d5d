package meshbool

import (
	"bytes"
	"log"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/helpers/meshgen"
)

func boxMesh(t *testing.T, min, max r3.Vec) *bmesh.Mesh {
	t.Helper()
	m, err := bmesh.FromTriangles(meshgen.Box(min, max), 0)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// unitCube and cutter overlap in [0.5,1]x[0,1]x[0,1]. The cutter is larger
// in Y and Z so no faces are coplanar, see halfCube for the coplanar case.
func unitCube(t *testing.T) *bmesh.Mesh {
	return boxMesh(t, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
}

func cutter(t *testing.T) *bmesh.Mesh {
	return boxMesh(t, r3.Vec{X: 0.5, Y: -0.25, Z: -0.5}, r3.Vec{X: 1.5, Y: 1.25, Z: 1.5})
}

// halfCube shares four faces' planes with unitCube and overlaps half of it.
func halfCube(t *testing.T) *bmesh.Mesh {
	return boxMesh(t, r3.Vec{X: 0.5}, r3.Vec{X: 1.5, Y: 1, Z: 1})
}

func TestEpsilon(t *testing.T) {
	e := newEpsilon(1e-6, 0)
	if e.eps2x != 2e-6 || math.Abs(e.margin-2e-5) > 1e-20 {
		t.Errorf("got eps2x=%g margin=%g", e.eps2x, e.margin)
	}
	if math.Abs(e.marginSq-e.margin*e.margin) > 1e-30 {
		t.Error("bad margin square")
	}
	if e := newEpsilon(1e-3, 4); math.Abs(e.margin-8e-3) > 1e-15 {
		t.Errorf("scaled margin %g", e.margin)
	}
}

func TestIsectKeyCanonical(t *testing.T) {
	k1 := edgeEdgeKey(makePair(5, 2), makePair(1, 9))
	k2 := edgeEdgeKey(makePair(9, 1), makePair(2, 5))
	if k1 != k2 {
		t.Errorf("keys differ: %v %v", k1, k2)
	}
	if k1 != (isectKey{{1, 9}, {2, 5}}) {
		t.Errorf("unexpected key %v", k1)
	}
	if interiorKey(makePair(2, 5), 1) == k1 {
		t.Error("interior key collides with edge key")
	}
}

func TestScratchOverflow(t *testing.T) {
	m := bmesh.New()
	var s pairScratch
	for i := 0; i < scratchCap+1; i++ {
		s.pushA(m.AddVert(r3.Vec{X: float64(i)}))
	}
	if !s.overflow || s.a.n != scratchCap {
		t.Errorf("overflow=%v n=%d", s.overflow, s.a.n)
	}
	s.reset()
	if s.overflow || s.a.n != 0 {
		t.Error("reset did not clear scratch")
	}
}

// edgeAndTriangle returns a mesh holding the triangle (0,0,0)-(1,0,0)-(0,1,0)
// and a wire edge from p to q.
func edgeAndTriangle(p, q r3.Vec) (m *bmesh.Mesh, v0, v1 *bmesh.Vert) {
	m = bmesh.New()
	a := m.AddVert(r3.Vec{})
	b := m.AddVert(r3.Vec{X: 1})
	c := m.AddVert(r3.Vec{Y: 1})
	m.AddFace([]*bmesh.Vert{a, b, c}, nil)
	v0 = m.AddVert(p)
	v1 = m.AddVert(q)
	m.AddEdge(v0, v1)
	return m, v0, v1
}

func TestEdgeTriInterior(t *testing.T) {
	m, v0, v1 := edgeAndTriangle(r3.Vec{X: 0.2, Y: 0.2, Z: -1}, r3.Vec{X: 0.2, Y: 0.2, Z: 1})
	c := newContext(m, m.Tessellate(), nil, DefaultConfig())
	kind, v := c.edgeTri(v0, v1, 0)
	if kind != isectEdgeTriInterior || v == nil {
		t.Fatalf("got kind %d", kind)
	}
	if m.NumVerts() != 6 {
		t.Errorf("got %d verts, want 6", m.NumVerts())
	}
	want := r3.Vec{X: 0.2, Y: 0.2}
	if r3.Norm(r3.Sub(v.Co, want)) > c.eps.margin {
		t.Errorf("vertex at %v, want %v", v.Co, want)
	}
	// Reversed endpoints hit the cache.
	kind2, v2 := c.edgeTri(v1, v0, 0)
	if kind2 != kind || v2 != v {
		t.Error("cache returned a different vertex")
	}
	if m.NumVerts() != 6 {
		t.Error("cache hit created a vertex")
	}
	if l := c.edgeVerts[m.FindEdge(v0, v1)]; l == nil || l.n != 1 || l.verts[0] != v {
		t.Error("vertex not queued on edge")
	}
}

func TestEdgeTriMiss(t *testing.T) {
	for _, test := range []struct {
		name string
		p, q r3.Vec
	}{
		{"outside", r3.Vec{X: 2, Y: 2, Z: -1}, r3.Vec{X: 2, Y: 2, Z: 1}},
		{"short", r3.Vec{X: 0.2, Y: 0.2, Z: 0.5}, r3.Vec{X: 0.2, Y: 0.2, Z: 1}},
		{"corner", r3.Vec{Z: -1}, r3.Vec{Z: 1}},
		{"parallel", r3.Vec{X: 0.1, Y: 0.1, Z: 0.5}, r3.Vec{X: 0.5, Y: 0.1, Z: 0.5}},
	} {
		m, v0, v1 := edgeAndTriangle(test.p, test.q)
		c := newContext(m, m.Tessellate(), nil, DefaultConfig())
		if kind, _ := c.edgeTri(v0, v1, 0); kind != isectNone {
			t.Errorf("%s: got kind %d", test.name, kind)
		}
		if m.NumVerts() != 5 || len(c.cache) != 0 {
			t.Errorf("%s: miss modified state", test.name)
		}
	}
}

func TestEdgeTriEdge(t *testing.T) {
	// Crosses triangle edge (0,0,0)-(1,0,0) at its midpoint.
	m, v0, v1 := edgeAndTriangle(r3.Vec{X: 0.5, Y: -1, Z: -1}, r3.Vec{X: 0.5, Y: 1, Z: 1})
	c := newContext(m, m.Tessellate(), nil, DefaultConfig())
	kind, v := c.edgeTri(v0, v1, 0)
	if kind < isectEdgeTri0 || kind > isectEdgeTri2 {
		t.Fatalf("got kind %d", kind)
	}
	if r3.Norm(r3.Sub(v.Co, r3.Vec{X: 0.5})) > c.eps.margin {
		t.Errorf("vertex at %v", v.Co)
	}
	// Registered on the query edge and the triangle edge.
	if len(c.edgeVerts) != 2 {
		t.Errorf("vertex queued on %d edges, want 2", len(c.edgeVerts))
	}
}

// twoTriangles returns a mesh with two unconnected triangle faces.
func twoTriangles(ta, tb [3]r3.Vec) *bmesh.Mesh {
	m := bmesh.New()
	for _, tri := range [][3]r3.Vec{ta, tb} {
		var loop []*bmesh.Vert
		for _, p := range tri {
			loop = append(loop, m.AddVert(p))
		}
		m.AddFace(loop, nil)
	}
	return m
}

func TestTriTriNoTouch(t *testing.T) {
	m := twoTriangles(
		[3]r3.Vec{{}, {X: 1}, {Y: 1}},
		[3]r3.Vec{{Z: 1}, {X: 1, Z: 1}, {Y: 1, Z: 1}},
	)
	c := newContext(m, m.Tessellate(), nil, DefaultConfig())
	c.triTri(0, 1)
	if m.NumVerts() != 6 || m.NumEdges() != 6 || len(c.faceEdges) != 0 || len(c.edgeVerts) != 0 {
		t.Error("intersecting separate triangles modified the mesh")
	}
}

func TestTriTriCoplanarCorners(t *testing.T) {
	const eps = 1e-6
	d := r3.Vec{X: 0.4 * eps, Y: -0.3 * eps}
	a := [3]r3.Vec{{}, {X: 1}, {Y: 1}}
	b := [3]r3.Vec{r3.Add(a[0], d), r3.Add(a[1], d), r3.Add(a[2], d)}
	m := twoTriangles(a, b)
	c := newContext(m, m.Tessellate(), nil, DefaultConfig())
	c.triTri(0, 1)
	if m.NumVerts() != 6 || m.NumEdges() != 6 {
		t.Errorf("got %d verts %d edges", m.NumVerts(), m.NumEdges())
	}
	if len(c.faceEdges) != 0 {
		t.Error("coplanar triangles produced cut edges")
	}
}

func TestTriTriCoplanarOverlap(t *testing.T) {
	// b's first corner lies inside a and a's long edge crosses b.
	m := twoTriangles(
		[3]r3.Vec{{}, {X: 2}, {Y: 2}},
		[3]r3.Vec{{X: 0.5, Y: 0.5}, {X: 2.5, Y: 0.5}, {X: 0.5, Y: 2.5}},
	)
	c := newContext(m, m.Tessellate(), nil, DefaultConfig())
	c.triTri(0, 1)
	if m.NumVerts() != 8 {
		t.Fatalf("got %d verts, want 8", m.NumVerts())
	}
	if len(c.wire) != 3 || len(c.faceEdges) != 2 {
		t.Fatalf("got %d cut edges on %d faces, want 3 on 2", len(c.wire), len(c.faceEdges))
	}
	if n := c.faceEdges[0].n; n != 2 {
		t.Errorf("first triangle has %d cuts, want 2", n)
	}
	if n := c.faceEdges[1].n; n != 1 {
		t.Errorf("second triangle has %d cuts, want 1", n)
	}
	crossings := []r3.Vec{{X: 1.5, Y: 0.5}, {X: 0.5, Y: 1.5}}
	for _, cut := range c.faceEdges[1].edges {
		for _, v := range cut.V {
			onCrossing := false
			for _, want := range crossings {
				onCrossing = onCrossing || r3.Norm(r3.Sub(v.Co, want)) <= c.eps.margin
			}
			if !onCrossing {
				t.Errorf("cut vertex %v off the crossings", v.Co)
			}
		}
	}
	// Each crossing is queued on the edges of both triangles, so the long
	// edge of the first triangle gets both of them.
	if len(c.edgeVerts) != 3 {
		t.Errorf("crossings queued on %d edges, want 3", len(c.edgeVerts))
	}
	for e, l := range c.edgeVerts {
		if e.Length() > 2.5 && l.n != 2 {
			t.Errorf("long edge has %d queued crossings, want 2", l.n)
		}
	}
}

func TestTriTriCrossing(t *testing.T) {
	m := twoTriangles(
		[3]r3.Vec{{}, {X: 2}, {Y: 2}},
		[3]r3.Vec{{X: 0.5, Y: 0.5, Z: -1}, {X: 0.5, Y: 0.5, Z: 1}, {X: 3, Y: 0.5, Z: 0}},
	)
	c := newContext(m, m.Tessellate(), nil, DefaultConfig())
	c.triTri(0, 1)
	if len(c.wire) != 1 {
		t.Fatalf("got %d cut edges, want 1", len(c.wire))
	}
	if len(c.faceEdges) != 2 {
		t.Errorf("cut registered on %d faces, want 2", len(c.faceEdges))
	}
	for e := range c.wire {
		for _, v := range e.V {
			if math.Abs(v.Co.Z) > c.eps.margin || math.Abs(v.Co.Y-0.5) > c.eps.margin {
				t.Errorf("cut vertex %v off the intersection line", v.Co)
			}
		}
	}
}

func TestSpliceIdempotent(t *testing.T) {
	m := bmesh.New()
	a := m.AddVert(r3.Vec{})
	b := m.AddVert(r3.Vec{X: 1})
	cv := m.AddVert(r3.Vec{Y: 1})
	f := m.AddFace([]*bmesh.Vert{a, b, cv}, nil)
	mid := m.AddVert(r3.Vec{X: 0.5})
	quarter := m.AddVert(r3.Vec{X: 0.25})
	e := m.FindEdge(a, b)
	c := newContext(m, nil, nil, DefaultConfig())
	c.addEdgeVert(e, mid)
	c.addEdgeVert(e, quarter)
	c.spliceEdges()
	if m.NumVerts() != 5 || m.NumEdges() != 5 || f.Len() != 5 {
		t.Fatalf("got %d verts %d edges face len %d", m.NumVerts(), m.NumEdges(), f.Len())
	}
	if m.FindEdge(a, quarter) == nil || m.FindEdge(quarter, mid) == nil || m.FindEdge(mid, b) == nil {
		t.Error("vertices spliced out of order")
	}
	c.addEdgeVert(e, mid)
	c.spliceEdges()
	if m.NumVerts() != 5 || m.NumEdges() != 5 || f.Len() != 5 {
		t.Errorf("second splice changed mesh: %d verts %d edges", m.NumVerts(), m.NumEdges())
	}
}

func TestDissolveTriangleGuard(t *testing.T) {
	m := bmesh.New()
	a := m.AddVert(r3.Vec{})
	v := m.AddVert(r3.Vec{X: 1})
	b := m.AddVert(r3.Vec{X: 1, Y: 1})
	m.AddFace([]*bmesh.Vert{a, v, b}, nil)
	c := newContext(m, nil, nil, DefaultConfig())
	c.addWire(m.FindEdge(a, v))
	c.addWire(m.FindEdge(v, b))
	c.dissolve = append(c.dissolve, v)
	c.dissolveWire()
	c.dissolveCollapse()
	if v.IsDead() || m.NumFaces() != 1 || m.NumEdges() != 3 {
		t.Error("dissolve removed a vertex of a triangle")
	}
}

func TestDissolveWireChain(t *testing.T) {
	m := bmesh.New()
	c := newContext(m, nil, nil, DefaultConfig())
	var chain []*bmesh.Vert
	for i := 0; i < 5; i++ {
		chain = append(chain, m.AddVert(r3.Vec{X: float64(i)}))
	}
	for i := 0; i+1 < len(chain); i++ {
		e, _ := m.AddEdge(chain[i], chain[i+1])
		c.addWire(e)
	}
	c.dissolve = append(c.dissolve, chain[1:4]...)
	c.dissolveWire()
	if m.NumVerts() != 2 || m.NumEdges() != 1 {
		t.Fatalf("got %d verts %d edges, want 2 and 1", m.NumVerts(), m.NumEdges())
	}
	if m.FindEdge(chain[0], chain[4]) == nil {
		t.Error("chain ends not joined")
	}
}

func TestDisjointNone(t *testing.T) {
	m := unitCube(t)
	m.Merge(boxMesh(t, r3.Vec{X: 3}, r3.Vec{X: 4, Y: 1, Z: 1}))
	nv, ne, nf := m.NumVerts(), m.NumEdges(), m.NumFaces()
	cfg := DefaultConfig()
	if Intersect(m, m.Tessellate(), nil, cfg) {
		t.Error("disjoint cubes reported a change")
	}
	if m.NumVerts() != nv || m.NumEdges() != ne || m.NumFaces() != nf {
		t.Error("disjoint cubes modified the mesh")
	}
}

func TestBooleanCubes(t *testing.T) {
	testBooleanCubes(t, halfCube, []booleanCase{
		{Union, false, 1.5},
		{Intersection, false, 0.5},
		{Difference, false, 0.5},
		{Difference, true, 0.5},
	})
}

func TestBooleanCubesOffset(t *testing.T) {
	testBooleanCubes(t, cutter, []booleanCase{
		{Union, false, 3.5},
		{Intersection, false, 0.5},
		{Difference, false, 0.5},
		{Difference, true, 2.5},
	})
}

type booleanCase struct {
	mode    BooleanMode
	swap    bool
	wantVol float64
}

// testBooleanCubes combines unitCube with the box built by other.
func testBooleanCubes(t *testing.T, other func(*testing.T) *bmesh.Mesh, tests []booleanCase) {
	t.Helper()
	for _, test := range tests {
		a, b := unitCube(t), other(t)
		if test.swap {
			a, b = b, a
		}
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.Logger = log.New(&buf, "", 0)
		cfg.Debug = true
		m, err := Boolean(a, b, test.mode, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if !m.IsManifold() {
			t.Errorf("%v swap=%v: result not manifold", test.mode, test.swap)
		}
		if vol := m.Volume(); math.Abs(vol-test.wantVol) > 1e-9 {
			t.Errorf("%v swap=%v: volume %g, want %g", test.mode, test.swap, vol, test.wantVol)
		}
		if buf.Len() != 0 {
			t.Errorf("%v swap=%v: warnings logged: %s", test.mode, test.swap, buf.String())
		}
	}
}

func TestBooleanIslandConnect(t *testing.T) {
	// The tower pierces the slab top inside a single triangle.
	slab := boxMesh(t, r3.Vec{}, r3.Vec{X: 4, Y: 4, Z: 1})
	tower := boxMesh(t, r3.Vec{X: 2.5, Y: 0.5, Z: 0.5}, r3.Vec{X: 3.5, Y: 1.5, Z: 1.5})
	m, err := Boolean(slab, tower, Union, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsManifold() {
		t.Error("result not manifold")
	}
	if vol := m.Volume(); math.Abs(vol-16.5) > 1e-9 {
		t.Errorf("volume %g, want 16.5", vol)
	}
}

func TestIntersectEdgeTagSeparate(t *testing.T) {
	m := unitCube(t)
	for _, f := range m.Merge(cutter(t)) {
		f.Mat = 1
	}
	cfg := DefaultConfig()
	cfg.EdgeTag = true
	if !Intersect(m, m.Tessellate(), ClassifyMat, cfg) {
		t.Fatal("overlapping cubes reported no change")
	}
	tagged := 0
	for _, e := range m.Edges() {
		if e.Tag {
			tagged++
			if len(e.Faces()) != 4 {
				t.Errorf("cut edge in %d faces, want 4", len(e.Faces()))
			}
		}
	}
	if tagged == 0 {
		t.Fatal("no cut edges tagged")
	}
	if vol := m.Volume(); math.Abs(vol-4) > 1e-9 {
		t.Errorf("cutting changed volume to %g", vol)
	}

	m = unitCube(t)
	for _, f := range m.Merge(cutter(t)) {
		f.Mat = 1
	}
	nv := m.NumVerts()
	cfg.EdgeTag = false
	cfg.Separate = true
	Intersect(m, m.Tessellate(), ClassifyMat, cfg)
	if m.NumVerts() <= nv {
		t.Error("separate did not duplicate vertices")
	}
	for _, e := range m.Edges() {
		if len(e.Faces()) > 2 {
			t.Fatalf("edge in %d faces after separate", len(e.Faces()))
		}
	}
}

func TestSelfIntersect(t *testing.T) {
	m := unitCube(t)
	m.Merge(cutter(t))
	cfg := DefaultConfig()
	cfg.Self = true
	cfg.EdgeTag = true
	if !Intersect(m, m.Tessellate(), nil, cfg) {
		t.Fatal("self intersection reported no change")
	}
	tagged := 0
	for _, e := range m.Edges() {
		if e.Tag {
			tagged++
		}
	}
	if tagged == 0 {
		t.Error("no cut edges tagged")
	}
	if vol := m.Volume(); math.Abs(vol-4) > 1e-9 {
		t.Errorf("cutting changed volume to %g", vol)
	}
}

func TestBooleanEmptyOperand(t *testing.T) {
	if _, err := Boolean(unitCube(t), bmesh.New(), Union, DefaultConfig()); err != ErrEmptyOperand {
		t.Errorf("got error %v", err)
	}
}

func TestParseBooleanMode(t *testing.T) {
	for _, mode := range []BooleanMode{None, Intersection, Union, Difference} {
		got, err := ParseBooleanMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("%v: got %v, %v", mode, got, err)
		}
	}
	if _, err := ParseBooleanMode("xor"); err == nil {
		t.Error("expected error")
	}
}
