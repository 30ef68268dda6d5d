// Package bvh implements a bounding volume hierarchy over triangles for
// overlap and ray queries.
package bvh

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/internal/d3"
)

// maxLeaf is the maximum number of triangles stored in a leaf node.
const maxLeaf = 4

type item struct {
	id       int
	tri      [3]r3.Vec
	box      d3.Box
	centroid r3.Vec
}

type node struct {
	box d3.Box
	// left and right index the child nodes. Leaves have left < 0 and own
	// items[start:end].
	left, right int
	start, end  int
}

func (n *node) isLeaf() bool { return n.left < 0 }

// Tree is a bounding volume hierarchy of triangles identified by integer ids.
// Triangle coordinates are copied on Insert. The zero value is not usable,
// use New.
type Tree struct {
	eps      float64
	items    []item
	nodes    []node
	balanced bool
}

// New returns an empty tree. Triangle bounds are enlarged by eps on every side.
func New(eps float64) *Tree {
	return &Tree{eps: eps}
}

// Len returns the number of triangles in the tree.
func (t *Tree) Len() int { return len(t.items) }

// Insert adds a triangle to the tree. The tree must be balanced again before
// it is queried, which queries do automatically.
func (t *Tree) Insert(id int, tri [3]r3.Vec) {
	bb := d3.EmptyBox()
	for _, p := range tri {
		bb = bb.Include(p)
	}
	bb = bb.Enlarge(d3.Elem(2 * t.eps))
	t.items = append(t.items, item{
		id:       id,
		tri:      tri,
		box:      bb,
		centroid: d3.Set(tri[:]).Centroid(),
	})
	t.balanced = false
}

// Balance builds the hierarchy. Nodes are split at the median centroid along
// the longest axis of their bounds.
func (t *Tree) Balance() {
	t.nodes = t.nodes[:0]
	t.balanced = true
	if len(t.items) == 0 {
		return
	}
	t.nodes = append(t.nodes, node{})
	t.subdivide(0, 0, len(t.items))
}

func (t *Tree) subdivide(ni, start, end int) {
	bb := d3.EmptyBox()
	for _, it := range t.items[start:end] {
		bb = bb.Extend(it.box)
	}
	if end-start <= maxLeaf {
		t.nodes[ni] = node{box: bb, left: -1, right: -1, start: start, end: end}
		return
	}
	axis := d3.LongestAxis(bb.Size())
	items := t.items[start:end]
	sort.Slice(items, func(i, j int) bool {
		return d3.Component(items[i].centroid, axis) < d3.Component(items[j].centroid, axis)
	})
	mid := start + (end-start)/2
	// Append two new nodes to store the children.
	children := len(t.nodes)
	t.nodes = append(t.nodes, node{}, node{})
	t.subdivide(children, start, mid)
	t.subdivide(children+1, mid, end)
	t.nodes[ni] = node{box: bb, left: children, right: children + 1}
}

func (t *Tree) ensureBalanced() {
	if !t.balanced {
		t.Balance()
	}
}

// Overlap returns the pairs of ids {a, b} with a from t and b from other whose
// enlarged triangle bounds overlap. filter, if not nil, decides which pairs are
// kept. t and other may be the same tree. Pairs are sorted.
func (t *Tree) Overlap(other *Tree, filter func(a, b int) bool) [][2]int {
	t.ensureBalanced()
	other.ensureBalanced()
	if len(t.nodes) == 0 || len(other.nodes) == 0 {
		return nil
	}
	var pairs [][2]int
	stack := [][2]int{{0, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		na, nb := &t.nodes[top[0]], &other.nodes[top[1]]
		if !na.box.Overlaps(nb.box) {
			continue
		}
		switch {
		case na.isLeaf() && nb.isLeaf():
			for _, ia := range t.items[na.start:na.end] {
				for _, ib := range other.items[nb.start:nb.end] {
					if !ia.box.Overlaps(ib.box) {
						continue
					}
					if filter == nil || filter(ia.id, ib.id) {
						pairs = append(pairs, [2]int{ia.id, ib.id})
					}
				}
			}
		case nb.isLeaf() || (!na.isLeaf() && volume(na.box) >= volume(nb.box)):
			// Descend into the larger node.
			stack = append(stack, [2]int{na.left, top[1]}, [2]int{na.right, top[1]})
		default:
			stack = append(stack, [2]int{top[0], nb.left}, [2]int{top[0], nb.right})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// RayCastAll calls fn for every triangle hit by the ray origin+dist*dir with
// dist >= 0. Hits are reported in no particular order. Hits on a triangle's
// boundary are accepted within the tree tolerance, so a ray crossing a shared
// edge may report both triangles.
func (t *Tree) RayCastAll(origin, dir r3.Vec, fn func(id int, dist float64)) {
	t.ensureBalanced()
	if len(t.nodes) == 0 {
		return
	}
	stack := []int{0}
	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !n.box.IntersectRay(origin, dir) {
			continue
		}
		if !n.isLeaf() {
			stack = append(stack, n.left, n.right)
			continue
		}
		for _, it := range t.items[n.start:n.end] {
			lambda, ok := d3.RayTriangle(origin, dir, it.tri[0], it.tri[1], it.tri[2], t.eps)
			if ok && lambda >= 0 {
				fn(it.id, lambda)
			}
		}
	}
}

func volume(b d3.Box) float64 {
	sz := b.Size()
	return sz.X * sz.Y * sz.Z
}
