package meshbool

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/bmesh"
)

// square returns a mesh with the face (0,0)-(4,0)-(4,4)-(0,4) in the z=0 plane.
func square() (m *bmesh.Mesh, f *bmesh.Face, loop []*bmesh.Vert) {
	m = bmesh.New()
	for _, p := range []r3.Vec{{}, {X: 4}, {X: 4, Y: 4}, {Y: 4}} {
		loop = append(loop, m.AddVert(p))
	}
	f = m.AddFace(loop, nil)
	return m, f, loop
}

func TestPartialConnect(t *testing.T) {
	for _, partial := range []bool{false, true} {
		m, f, loop := square()
		a, b := loop[0], loop[1]
		p := m.AddVert(r3.Vec{X: 2, Y: 1})
		cfg := DefaultConfig()
		cfg.IslandConnect = false
		cfg.PartialConnect = partial
		c := newContext(m, nil, nil, cfg)
		c.addCut(a, p, f)
		c.splitFaces()
		if !partial {
			if m.NumFaces() != 1 {
				t.Errorf("dangling cut split the face into %d", m.NumFaces())
			}
			continue
		}
		// The free end is bridged to the nearest loop corner.
		if m.FindEdge(p, b) == nil {
			t.Error("free end not bridged to nearest corner")
		}
		if m.NumFaces() != 2 {
			t.Errorf("got %d faces, want 2", m.NumFaces())
		}
	}
}

// islandSquare returns a classified square holding a closed triangle of cut
// edges near corner b. Corner b is shared with a face of operand B.
func islandSquare() (c *intersectContext, f *bmesh.Face, loop []*bmesh.Vert, net []*bmesh.Edge) {
	m, f, loop := square()
	b := loop[1]
	g := m.AddFace([]*bmesh.Vert{b, m.AddVert(r3.Vec{X: 6}), m.AddVert(r3.Vec{X: 6, Z: 2})}, nil)
	g.Mat = 1
	island := []*bmesh.Vert{
		m.AddVert(r3.Vec{X: 2.8, Y: 0.8}),
		m.AddVert(r3.Vec{X: 3.2, Y: 0.8}),
		m.AddVert(r3.Vec{X: 3, Y: 1.2}),
	}
	for i, v := range island {
		e, _ := m.AddEdge(v, island[(i+1)%3])
		net = append(net, e)
	}
	c = newContext(m, nil, ClassifyMat, DefaultConfig())
	return c, f, loop, net
}

func bridgeTouches(bridges []*bmesh.Edge, v *bmesh.Vert) bool {
	for _, e := range bridges {
		if e.Has(v) {
			return true
		}
	}
	return false
}

func TestBridgeSidePreference(t *testing.T) {
	c, f, loop, net := islandSquare()
	a, b, cv := loop[0], loop[1], loop[2]
	bridges := c.connectIslands(f, net)
	if len(bridges) != 2 {
		t.Fatalf("got %d bridges, want 2", len(bridges))
	}
	// b is nearest but borders the other operand.
	if bridgeTouches(bridges, b) {
		t.Error("bridge used corner shared with the other operand")
	}
	if !bridgeTouches(bridges, a) || !bridgeTouches(bridges, cv) {
		t.Error("bridges not joined to the nearest agreeing corners")
	}
}

func TestBridgeSideFallback(t *testing.T) {
	c, f, loop, net := islandSquare()
	// A reversed copy of the square puts every corner on the other operand.
	rev := c.m.AddFace([]*bmesh.Vert{loop[3], loop[2], loop[1], loop[0]}, nil)
	rev.Mat = 1
	bridges := c.connectIslands(f, net)
	if len(bridges) == 0 {
		t.Fatal("no bridges when every corner disagrees")
	}
	if !bridgeTouches(bridges, loop[1]) {
		t.Error("fallback did not pick the nearest corner")
	}
}
