package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SignedArea returns the signed area of a closed polygon. Counter clockwise
// polygons have positive area.
func SignedArea(poly []r2.Vec) float64 {
	var a float64
	for i, cur := range poly {
		next := poly[(i+1)%len(poly)]
		a += Cross(cur, next)
	}
	return a / 2
}

// PointInPolygon uses the even-odd rule to check if p is inside poly.
// Points on the boundary may report either result.
func PointInPolygon(p r2.Vec, poly []r2.Vec) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SegmentsIntersect reports whether closed segments (a0,a1) and (b0,b1)
// touch or cross. Points within eps of the other segment count as touching.
func SegmentsIntersect(a0, a1, b0, b1 r2.Vec, eps float64) bool {
	o1 := Orient(a0, a1, b0)
	o2 := Orient(a0, a1, b1)
	o3 := Orient(b0, b1, a0)
	o4 := Orient(b0, b1, a1)
	// Orientation tolerances are scaled by segment lengths.
	la := r2.Norm(r2.Sub(a1, a0))
	lb := r2.Norm(r2.Sub(b1, b0))
	ta, tb := eps*la, eps*lb
	if ((o1 > ta && o2 < -ta) || (o1 < -ta && o2 > ta)) &&
		((o3 > tb && o4 < -tb) || (o3 < -tb && o4 > tb)) {
		return true
	}
	return pointSegmentDist(b0, a0, a1) <= eps || pointSegmentDist(b1, a0, a1) <= eps ||
		pointSegmentDist(a0, b0, b1) <= eps || pointSegmentDist(a1, b0, b1) <= eps
}

func pointSegmentDist(p, a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	dd := r2.Dot(d, d)
	if dd == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), d)/dd))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, d))))
}

// EarClip triangulates a simple polygon and returns index triplets into poly
// with the same winding as the input. Degenerate polygons fall back to
// clipping the most convex corner so the result always has len(poly)-2
// triangles.
func EarClip(poly []r2.Vec) [][3]int {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	ccw := SignedArea(poly) >= 0
	orient := func(a, b, c int) float64 {
		o := Orient(poly[a], poly[b], poly[c])
		if !ccw {
			return -o
		}
		return o
	}
	tris := make([][3]int, 0, n-2)
	for len(idx) > 3 {
		m := len(idx)
		best, bestOrient := -1, math.Inf(-1)
		for i := 0; i < m; i++ {
			a, b, c := idx[(i+m-1)%m], idx[i], idx[(i+1)%m]
			o := orient(a, b, c)
			if o > bestOrient {
				best, bestOrient = i, o
			}
			if o <= 0 || !isEar(poly, idx, a, b, c, orient) {
				continue
			}
			best = i
			bestOrient = math.Inf(1)
			break
		}
		a, b, c := idx[(best+m-1)%m], idx[best], idx[(best+1)%m]
		tris = append(tris, [3]int{a, b, c})
		idx = append(idx[:best], idx[best+1:]...)
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]})
}

func isEar(poly []r2.Vec, idx []int, a, b, c int, orient func(a, b, c int) float64) bool {
	for _, p := range idx {
		if p == a || p == b || p == c {
			continue
		}
		pt := poly[p]
		if pt == poly[a] || pt == poly[b] || pt == poly[c] {
			continue // Repeated vertex of a bridged polygon.
		}
		if orient(a, b, p) >= 0 && orient(b, c, p) >= 0 && orient(c, a, p) >= 0 {
			return false
		}
	}
	return true
}
