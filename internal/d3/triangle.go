package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parallelTol is the relative determinant tolerance below which two
// directions are considered parallel.
const parallelTol = 1e-14

// LinePointFactor returns the parametric position of p projected onto the
// line through l0 and l1. 0 corresponds to l0 and 1 to l1.
func LinePointFactor(p, l0, l1 r3.Vec) float64 {
	d := r3.Sub(l1, l0)
	dd := r3.Dot(d, d)
	if dd == 0 {
		return 0
	}
	return r3.Dot(r3.Sub(p, l0), d) / dd
}

// ClosestLineLine returns the points on the infinite lines through (a0,a1)
// and (b0,b1) closest to each other. ok is false for parallel or degenerate lines.
func ClosestLineLine(a0, a1, b0, b1 r3.Vec) (pa, pb r3.Vec, ok bool) {
	da := r3.Sub(a1, a0)
	db := r3.Sub(b1, b0)
	w := r3.Sub(a0, b0)
	a := r3.Dot(da, da)
	b := r3.Dot(da, db)
	c := r3.Dot(db, db)
	d := r3.Dot(da, w)
	e := r3.Dot(db, w)
	den := a*c - b*b
	if a == 0 || c == 0 || den <= parallelTol*a*c {
		return pa, pb, false
	}
	s := (b*e - c*d) / den
	t := (a*e - b*d) / den
	return r3.Add(a0, r3.Scale(s, da)), r3.Add(b0, r3.Scale(t, db)), true
}

// RayTriangle intersects the ray origin+lambda*dir with triangle (t0,t1,t2)
// using the Moller-Trumbore algorithm. Barycentric coordinates are accepted
// within eps outside of the triangle. The returned lambda is not range checked.
func RayTriangle(origin, dir, t0, t1, t2 r3.Vec, eps float64) (lambda float64, ok bool) {
	e1 := r3.Sub(t1, t0)
	e2 := r3.Sub(t2, t0)
	p := r3.Cross(dir, e2)
	det := r3.Dot(e1, p)
	if math.Abs(det) <= parallelTol*r3.Norm(e1)*r3.Norm(p) {
		return 0, false // Ray is parallel to triangle plane.
	}
	inv := 1 / det
	s := r3.Sub(origin, t0)
	u := inv * r3.Dot(s, p)
	if u < -eps || u > 1+eps {
		return 0, false
	}
	q := r3.Cross(s, e1)
	v := inv * r3.Dot(dir, q)
	if v < -eps || u+v > 1+eps {
		return 0, false
	}
	return inv * r3.Dot(e2, q), true
}

// ProjectPointTriangle projects p onto the plane of triangle (a,b,c) and
// reports whether the projection lies within the triangle.
func ProjectPointTriangle(p, a, b, c r3.Vec) (r3.Vec, bool) {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	nn := r3.Dot(n, n)
	if nn == 0 {
		return r3.Vec{}, false
	}
	proj := r3.Sub(p, r3.Scale(r3.Dot(r3.Sub(p, a), n)/nn, n))
	if r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(proj, a)), n) < 0 ||
		r3.Dot(r3.Cross(r3.Sub(c, b), r3.Sub(proj, b)), n) < 0 ||
		r3.Dot(r3.Cross(r3.Sub(a, c), r3.Sub(proj, c)), n) < 0 {
		return proj, false
	}
	return proj, true
}

// ScaleTriangle scales the triangle about its centroid by fac.
func ScaleTriangle(t [3]r3.Vec, fac float64) [3]r3.Vec {
	c := Set(t[:]).Centroid()
	for i := range t {
		t[i] = r3.Add(c, r3.Scale(fac, r3.Sub(t[i], c)))
	}
	return t
}

// TriangleNormal returns the unit normal of a counter clockwise triangle.
// Degenerate triangles return the zero vector.
func TriangleNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// TriangleArea returns the area of triangle (a,b,c).
func TriangleArea(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// PolygonNormal returns the unit Newell normal of a planar polygon.
func PolygonNormal(pts []r3.Vec) r3.Vec {
	var n r3.Vec
	for i, cur := range pts {
		next := pts[(i+1)%len(pts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// PlaneBasis returns two unit vectors u, v such that (u, v, n) is a right
// handed orthonormal basis. n must be a unit vector.
func PlaneBasis(n r3.Vec) (u, v r3.Vec) {
	// Pick the world axis least aligned with n.
	a := AbsElem(n)
	var axis r3.Vec
	switch {
	case a.X <= a.Y && a.X <= a.Z:
		axis = r3.Vec{X: 1}
	case a.Y <= a.Z:
		axis = r3.Vec{Y: 1}
	default:
		axis = r3.Vec{Z: 1}
	}
	u = r3.Unit(r3.Cross(axis, n))
	v = r3.Cross(n, u)
	return u, v
}
