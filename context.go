package meshbool

import (
	"log"

	"github.com/soypat/meshbool/bmesh"
)

// vertList is the ordered list of vertices waiting to be spliced into an edge.
type vertList struct {
	verts []*bmesh.Vert
	n     int
}

// edgeList is the list of cut edges found inside a face.
type edgeList struct {
	edges []*bmesh.Edge
	n     int
}

// intersectContext owns all state of a single intersection pass.
type intersectContext struct {
	m        *bmesh.Mesh
	tris     []bmesh.LoopTri
	classify Classifier
	cfg      Config
	eps      epsilon
	table    *bmesh.FaceTable
	// triSide holds the operand of each input triangle, recorded before
	// the faces are split.
	triSide []Side

	// cache maps intersected features to the vertex created for them.
	cache map[isectKey]*bmesh.Vert

	edgeVerts map[*bmesh.Edge]*vertList
	edgeOrder []*bmesh.Edge

	faceEdges map[int]*edgeList

	// splits holds the pieces split off each edge while splicing and moved
	// the vertex each spliced vertex was merged into.
	splits map[*bmesh.Edge][]*bmesh.Edge
	moved  map[*bmesh.Vert]*bmesh.Vert

	wire     map[*bmesh.Edge]struct{}
	wireList []*bmesh.Edge

	dissolve []*bmesh.Vert

	scratch    pairScratch
	overflowed bool
	changed    bool
	log        *log.Logger
}

func newContext(m *bmesh.Mesh, tris []bmesh.LoopTri, classify Classifier, cfg Config) *intersectContext {
	return &intersectContext{
		m:         m,
		tris:      tris,
		classify:  classify,
		cfg:       cfg,
		eps:       newEpsilon(cfg.Epsilon, cfg.MarginScale),
		table:     m.FaceTable(),
		cache:     make(map[isectKey]*bmesh.Vert),
		edgeVerts: make(map[*bmesh.Edge]*vertList),
		faceEdges: make(map[int]*edgeList),
		splits:    make(map[*bmesh.Edge][]*bmesh.Edge),
		moved:     make(map[*bmesh.Vert]*bmesh.Vert),
		wire:      make(map[*bmesh.Edge]struct{}),
		log:       cfg.Logger,
	}
}

func (c *intersectContext) warnf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Printf("w: "+format, args...)
	}
}

// side returns the operand of f. Without a classifier every face is on side A.
func (c *intersectContext) side(f *bmesh.Face) Side {
	if c.classify == nil {
		return SideA
	}
	return c.classify(f)
}

// addEdgeVert queues v to be spliced into e.
func (c *intersectContext) addEdgeVert(e *bmesh.Edge, v *bmesh.Vert) {
	l := c.edgeVerts[e]
	if l == nil {
		l = &vertList{}
		c.edgeVerts[e] = l
		c.edgeOrder = append(c.edgeOrder, e)
	}
	for _, lv := range l.verts {
		if lv == v {
			return
		}
	}
	l.verts = append(l.verts, v)
	l.n++
}

// addFaceEdge registers e as a cut through the face at table index fi.
func (c *intersectContext) addFaceEdge(fi int, e *bmesh.Edge) {
	l := c.faceEdges[fi]
	if l == nil {
		l = &edgeList{}
		c.faceEdges[fi] = l
	}
	for _, le := range l.edges {
		if le == e {
			return
		}
	}
	l.edges = append(l.edges, e)
	l.n++
	c.changed = true
}

func (c *intersectContext) addWire(e *bmesh.Edge) {
	if c.isWire(e) {
		return
	}
	c.wire[e] = struct{}{}
	c.wireList = append(c.wireList, e)
}

func (c *intersectContext) isWire(e *bmesh.Edge) bool {
	_, ok := c.wire[e]
	return ok
}

// liveWire returns the cut edges still in the mesh.
func (c *intersectContext) liveWire() []*bmesh.Edge {
	var live []*bmesh.Edge
	for _, e := range c.wireList {
		if !e.IsDead() {
			live = append(live, e)
		}
	}
	return live
}

// resolveWire replaces the cut edges merged away while splicing with the
// edges they were merged into.
func (c *intersectContext) resolveWire() {
	old := c.wireList
	c.wire = make(map[*bmesh.Edge]struct{}, len(old))
	c.wireList = c.wireList[:0:0]
	for _, e := range old {
		if r := c.resolve(e); r != nil {
			c.addWire(r)
		}
	}
}

func (c *intersectContext) liveVert(v *bmesh.Vert) *bmesh.Vert {
	for v.IsDead() {
		next, ok := c.moved[v]
		if !ok {
			return nil
		}
		v = next
	}
	return v
}

// resolve returns the live edge standing in for e. An edge doubled by a
// splice is merged into the edge joining the same vertices.
func (c *intersectContext) resolve(e *bmesh.Edge) *bmesh.Edge {
	if !e.IsDead() {
		return e
	}
	a, b := c.liveVert(e.V[0]), c.liveVert(e.V[1])
	if a == nil || b == nil || a == b {
		return nil
	}
	return c.m.FindEdge(a, b)
}

// cutEdges returns the live edges covering cut e after splicing.
func (c *intersectContext) cutEdges(e *bmesh.Edge) []*bmesh.Edge {
	var out []*bmesh.Edge
	seen := make(map[*bmesh.Edge]bool)
	added := make(map[*bmesh.Edge]bool)
	stack := []*bmesh.Edge{e}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[e] {
			continue
		}
		seen[e] = true
		stack = append(stack, c.splits[e]...)
		if r := c.resolve(e); r != nil && !added[r] {
			added[r] = true
			out = append(out, r)
		}
	}
	return out
}
