package meshbool

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/internal/d2"
)

// splitFaces splits every face crossed by cut edges along them, in face
// table order.
func (c *intersectContext) splitFaces() {
	for fi := 0; fi < c.table.Len(); fi++ {
		l := c.faceEdges[fi]
		f := c.table.Get(fi)
		if l == nil || f == nil {
			continue
		}
		edges := make([]*bmesh.Edge, 0, l.n)
		seen := make(map[*bmesh.Edge]bool, l.n)
		for _, cut := range l.edges {
			for _, e := range c.cutEdges(cut) {
				if !seen[e] && !e.InFace(f) {
					seen[e] = true
					edges = append(edges, e)
				}
			}
		}
		if len(edges) == 0 {
			continue
		}
		if c.cfg.IslandConnect || c.cfg.PartialConnect {
			edges = append(edges, c.connectIslands(f, edges)...)
		}
		if faces := c.m.SplitFaceEdgeNet(f, edges); faces != nil {
			c.changed = true
		}
	}
}

// segment is a 2D obstacle for bridge edges, remembering its endpoints so
// bridges may touch segments sharing a vertex with them.
type segment struct {
	a, b   *bmesh.Vert
	pa, pb r2.Vec
}

// faceNet is the projection of a face and the cut edges inside it.
type faceNet struct {
	f         *bmesh.Face
	pl        bmesh.Plane
	loop      []r2.Vec
	obstacles []segment
}

func (n *faceNet) pos(v *bmesh.Vert) r2.Vec { return n.pl.Project(v.Co) }

func (n *faceNet) addObstacle(a, b *bmesh.Vert) {
	n.obstacles = append(n.obstacles, segment{a: a, b: b, pa: n.pos(a), pb: n.pos(b)})
}

// connectIslands returns bridge edges joining the cut edge components of f
// that do not reach its boundary. With partial connect the free ends of
// dangling chains are bridged too.
func (c *intersectContext) connectIslands(f *bmesh.Face, net []*bmesh.Edge) []*bmesh.Edge {
	pl, ok := f.Plane()
	if !ok {
		return nil
	}
	fn := &faceNet{f: f, pl: pl}
	verts := f.Verts()
	for i, v := range verts {
		fn.loop = append(fn.loop, fn.pos(v))
		fn.addObstacle(v, verts[(i+1)%len(verts)])
	}
	for _, e := range net {
		fn.addObstacle(e.V[0], e.V[1])
	}

	comps, compOf := netComponents(net)
	degree := make(map[*bmesh.Vert]int)
	for _, e := range net {
		degree[e.V[0]]++
		degree[e.V[1]]++
	}
	attached := make([]bool, len(comps))
	targets := append([]*bmesh.Vert(nil), verts...)
	for i, comp := range comps {
		for _, v := range comp {
			if f.HasVert(v) {
				attached[i] = true
				break
			}
		}
		if attached[i] {
			targets = append(targets, comp...)
		}
	}

	var bridges []*bmesh.Edge
	if c.cfg.IslandConnect {
		for i, comp := range comps {
			if attached[i] {
				continue
			}
			found := c.bridge(fn, comp, targets, 2)
			bridges = append(bridges, found...)
			if len(found) > 0 {
				targets = append(targets, comp...)
			}
		}
	}
	if c.cfg.PartialConnect {
		for _, e := range net {
			for _, v := range e.V {
				if degree[v] != 1 || f.HasVert(v) || !attached[compOf[v]] {
					continue
				}
				own := comps[compOf[v]]
				var others []*bmesh.Vert
				for _, t := range targets {
					if !containsVert(own, t) {
						others = append(others, t)
					}
				}
				found := c.bridge(fn, []*bmesh.Vert{v}, others, 1)
				bridges = append(bridges, found...)
				degree[v] += len(found)
			}
		}
	}
	return bridges
}

// netComponents labels the connected components of the edge net.
func netComponents(net []*bmesh.Edge) (comps [][]*bmesh.Vert, compOf map[*bmesh.Vert]int) {
	adj := make(map[*bmesh.Vert][]*bmesh.Vert)
	var order []*bmesh.Vert
	for _, e := range net {
		for k, v := range e.V {
			if _, ok := adj[v]; !ok {
				order = append(order, v)
			}
			adj[v] = append(adj[v], e.V[1-k])
		}
	}
	compOf = make(map[*bmesh.Vert]int, len(order))
	for _, seed := range order {
		if _, ok := compOf[seed]; ok {
			continue
		}
		id := len(comps)
		compOf[seed] = id
		comp := []*bmesh.Vert{seed}
		for head := 0; head < len(comp); head++ {
			for _, w := range adj[comp[head]] {
				if _, ok := compOf[w]; !ok {
					compOf[w] = id
					comp = append(comp, w)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps, compOf
}

type bridgeCandidate struct {
	from, to *bmesh.Vert
	dist2    float64
}

// bridge adds up to want edges from vertices in from to vertices in targets,
// shortest first. Bridges stay inside the face, never cross or touch another
// edge of the net and never share endpoints with each other. When the face
// is classified, targets on faces of another operand are only used if no
// other target works.
func (c *intersectContext) bridge(fn *faceNet, from, targets []*bmesh.Vert, want int) []*bmesh.Edge {
	var preferred, fallback []bridgeCandidate
	side := c.side(fn.f)
	for _, u := range from {
		pu := fn.pos(u)
		for _, t := range targets {
			if t == u || c.m.FindEdge(u, t) != nil {
				continue
			}
			cand := bridgeCandidate{from: u, to: t, dist2: r2.Norm2(r2.Sub(fn.pos(t), pu))}
			if c.classify == nil || c.targetAgrees(t, fn.f, side) {
				preferred = append(preferred, cand)
			} else {
				fallback = append(fallback, cand)
			}
		}
	}
	bridges := c.pickBridges(fn, preferred, want)
	if len(bridges) == 0 {
		bridges = c.pickBridges(fn, fallback, want)
	}
	return bridges
}

func (c *intersectContext) pickBridges(fn *faceNet, cands []bridgeCandidate, want int) []*bmesh.Edge {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist2 < cands[j].dist2 })
	var bridges []*bmesh.Edge
	used := make(map[*bmesh.Vert]bool)
	for _, cand := range cands {
		if len(bridges) == want {
			break
		}
		if used[cand.from] || used[cand.to] || !fn.clear(cand.from, cand.to, c.eps.eps) {
			continue
		}
		e, _ := c.m.AddEdge(cand.from, cand.to)
		bridges = append(bridges, e)
		fn.addObstacle(cand.from, cand.to)
		used[cand.from] = true
		used[cand.to] = true
	}
	return bridges
}

// clear reports whether the segment (u,t) lies inside the face without
// touching any obstacle not incident to u or t.
func (n *faceNet) clear(u, t *bmesh.Vert, eps float64) bool {
	pu, pt := n.pos(u), n.pos(t)
	if !d2.PointInPolygon(r2.Scale(0.5, r2.Add(pu, pt)), n.loop) {
		return false
	}
	for _, s := range n.obstacles {
		if s.a == u || s.b == u || s.a == t || s.b == t {
			continue
		}
		if d2.SegmentsIntersect(pu, pt, s.pa, s.pb, eps) {
			return false
		}
	}
	return true
}

// targetAgrees reports whether every face around t other than f is on side.
func (c *intersectContext) targetAgrees(t *bmesh.Vert, f *bmesh.Face, side Side) bool {
	for _, g := range t.Faces() {
		if g != f && c.side(g) != side {
			return false
		}
	}
	return true
}

func containsVert(verts []*bmesh.Vert, v *bmesh.Vert) bool {
	for _, w := range verts {
		if w == v {
			return true
		}
	}
	return false
}
