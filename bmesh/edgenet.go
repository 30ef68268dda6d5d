package bmesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/internal/d2"
	"github.com/soypat/meshbool/internal/d3"
)

// Plane is the 2D coordinate system of a face. Faces project counter
// clockwise onto their own plane.
type Plane struct {
	U, V r3.Vec
}

// Plane returns the projection plane of f. ok is false for degenerate faces.
func (f *Face) Plane() (pl Plane, ok bool) {
	n := f.Normal()
	if n == (r3.Vec{}) {
		return pl, false
	}
	pl.U, pl.V = d3.PlaneBasis(n)
	return pl, true
}

// Project maps co onto the plane.
func (pl Plane) Project(co r3.Vec) r2.Vec {
	return r2.Vec{X: r3.Dot(co, pl.U), Y: r3.Dot(co, pl.V)}
}

// SplitFaceEdgeNet splits f along the given edges. Edges must lie inside f
// and join its loop vertices or each other. Dangling edges and edge
// components not connected to the face boundary are ignored and remain in
// the mesh as wire edges. The new faces copy the attributes of f, which is
// killed. SplitFaceEdgeNet returns nil if f was not split.
func (m *Mesh) SplitFaceEdgeNet(f *Face, edges []*Edge) []*Face {
	if f.dead || len(edges) == 0 {
		return nil
	}
	pl, ok := f.Plane()
	if !ok {
		return nil
	}
	var net []*Edge
	for _, e := range edges {
		if e.dead || e.InFace(f) || containsEdge(net, e) {
			continue
		}
		net = append(net, e)
	}
	net = pruneNet(f, net)
	if len(net) == 0 {
		return nil
	}

	g := &netGraph{
		pos: make(map[*Vert]r2.Vec),
		out: make(map[*Vert][]int),
	}
	n := len(f.verts)
	for i, v := range f.verts {
		g.addHalf(pl, v, f.verts[(i+1)%n])
	}
	for _, e := range net {
		g.addHalf(pl, e.V[0], e.V[1])
		g.addHalf(pl, e.V[1], e.V[0])
	}
	cycles := g.trace()
	if len(cycles) < 2 {
		return nil
	}
	// Reject the split if the cycles do not tile the face exactly.
	want := d2.SignedArea(f.project())
	var got float64
	for _, c := range cycles {
		a := g.area(c)
		if a <= 0 {
			return nil
		}
		got += a
	}
	if math.Abs(got-want) > 1e-6*math.Abs(want) {
		return nil
	}

	out := make([]*Face, 0, len(cycles))
	for _, c := range cycles {
		if nf := m.AddFace(c, f); nf != nil {
			out = append(out, nf)
		}
	}
	m.KillFace(f)
	return out
}

// pruneNet drops edges that cannot bound a face: edges with a dangling end
// and edges not connected to the loop of f.
func pruneNet(f *Face, net []*Edge) []*Edge {
	degree := make(map[*Vert]int)
	for _, e := range f.edges {
		degree[e.V[0]]++
		degree[e.V[1]]++
	}
	for _, e := range net {
		degree[e.V[0]]++
		degree[e.V[1]]++
	}
	for changed := true; changed; {
		changed = false
		kept := net[:0]
		for _, e := range net {
			if degree[e.V[0]] <= 1 || degree[e.V[1]] <= 1 {
				degree[e.V[0]]--
				degree[e.V[1]]--
				changed = true
				continue
			}
			kept = append(kept, e)
		}
		net = kept
	}

	reached := make(map[*Vert]bool)
	for _, v := range f.verts {
		reached[v] = true
	}
	for changed := true; changed; {
		changed = false
		for _, e := range net {
			if reached[e.V[0]] != reached[e.V[1]] {
				reached[e.V[0]] = true
				reached[e.V[1]] = true
				changed = true
			}
		}
	}
	kept := net[:0]
	for _, e := range net {
		if reached[e.V[0]] {
			kept = append(kept, e)
		}
	}
	return kept
}

type halfEdge struct {
	from, to *Vert
	used     bool
}

// netGraph is a planar graph of directed half edges used to trace the
// faces of an edge net.
type netGraph struct {
	pos    map[*Vert]r2.Vec
	halves []halfEdge
	out    map[*Vert][]int
}

func (g *netGraph) addHalf(pl Plane, from, to *Vert) {
	for _, v := range [2]*Vert{from, to} {
		if _, ok := g.pos[v]; !ok {
			g.pos[v] = pl.Project(v.Co)
		}
	}
	g.out[from] = append(g.out[from], len(g.halves))
	g.halves = append(g.halves, halfEdge{from: from, to: to})
}

// trace walks every half edge once, always taking the sharpest clockwise
// turn, which yields the counter clockwise boundary of each region to the
// left of the walk. It returns nil if the walk gets stuck.
func (g *netGraph) trace() [][]*Vert {
	var cycles [][]*Vert
	for start := range g.halves {
		if g.halves[start].used {
			continue
		}
		var cycle []*Vert
		h := start
		for {
			he := &g.halves[h]
			if he.used {
				if h == start {
					break
				}
				return nil
			}
			he.used = true
			cycle = append(cycle, he.from)
			h = g.next(h)
			if h < 0 {
				return nil
			}
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

func (g *netGraph) next(h int) int {
	he := g.halves[h]
	origin := g.pos[he.to]
	angIn := d2.Angle(r2.Sub(g.pos[he.from], origin))
	best, bestTurn := -1, math.Inf(1)
	for _, o := range g.out[he.to] {
		turn := angIn - d2.Angle(r2.Sub(g.pos[g.halves[o].to], origin))
		if turn <= 0 {
			turn += 2 * math.Pi
		}
		if turn < bestTurn {
			best, bestTurn = o, turn
		}
	}
	return best
}

func (g *netGraph) area(cycle []*Vert) float64 {
	poly := make([]r2.Vec, len(cycle))
	for i, v := range cycle {
		poly[i] = g.pos[v]
	}
	return d2.SignedArea(poly)
}

func containsEdge(edges []*Edge, e *Edge) bool {
	for _, x := range edges {
		if x == e {
			return true
		}
	}
	return false
}
