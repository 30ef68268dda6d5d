package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRayTriangle(t *testing.T) {
	a, b, c := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}
	for _, test := range []struct {
		origin, dir r3.Vec
		ok          bool
		lambda      float64
	}{
		{r3.Vec{X: 0.2, Y: 0.2, Z: -1}, r3.Vec{Z: 2}, true, 0.5},
		{r3.Vec{X: 0.2, Y: 0.2, Z: 1}, r3.Vec{Z: 1}, true, -1},
		{r3.Vec{X: 0.8, Y: 0.8, Z: -1}, r3.Vec{Z: 1}, false, 0},
		{r3.Vec{X: 0.2, Y: 0.2, Z: 1}, r3.Vec{X: 1}, false, 0},
	} {
		lambda, ok := RayTriangle(test.origin, test.dir, a, b, c, 0)
		if ok != test.ok || (ok && math.Abs(lambda-test.lambda) > 1e-15) {
			t.Errorf("ray %v+%v: got %g,%v want %g,%v", test.origin, test.dir, lambda, ok, test.lambda, test.ok)
		}
	}
}

func TestClosestLineLine(t *testing.T) {
	pa, pb, ok := ClosestLineLine(r3.Vec{Z: 1}, r3.Vec{X: 2, Z: 1}, r3.Vec{X: 1, Y: -1}, r3.Vec{X: 1, Y: 1})
	if !ok || !EqualWithin(pa, r3.Vec{X: 1, Z: 1}, 1e-15) || !EqualWithin(pb, r3.Vec{X: 1}, 1e-15) {
		t.Errorf("got %v %v %v", pa, pb, ok)
	}
	if _, _, ok := ClosestLineLine(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{X: 3, Y: 1}); ok {
		t.Error("parallel lines reported ok")
	}
	if f := LinePointFactor(r3.Vec{X: 1.5, Y: 7}, r3.Vec{X: 1}, r3.Vec{X: 3}); f != 0.25 {
		t.Errorf("factor %g", f)
	}
}

func TestProjectPointTriangle(t *testing.T) {
	a, b, c := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}
	proj, in := ProjectPointTriangle(r3.Vec{X: 0.25, Y: 0.25, Z: 3}, a, b, c)
	if !in || proj != (r3.Vec{X: 0.25, Y: 0.25}) {
		t.Errorf("got %v %v", proj, in)
	}
	if _, in := ProjectPointTriangle(r3.Vec{X: 1, Y: 1}, a, b, c); in {
		t.Error("outside point reported inside")
	}
	s := ScaleTriangle([3]r3.Vec{a, {X: 3}, {Y: 3}}, 0.5)
	if !EqualWithin(s[0], r3.Vec{X: 0.5, Y: 0.5}, 1e-15) {
		t.Errorf("scaled corner %v", s[0])
	}
}

func TestPlaneBasis(t *testing.T) {
	for _, n := range []r3.Vec{{Z: 1}, {X: -1}, r3.Unit(r3.Vec{X: 1, Y: 2, Z: 3})} {
		u, v := PlaneBasis(n)
		if math.Abs(r3.Dot(u, n)) > 1e-12 || math.Abs(r3.Dot(v, n)) > 1e-12 || math.Abs(r3.Dot(u, v)) > 1e-12 {
			t.Errorf("basis for %v not orthogonal", n)
		}
		if !EqualWithin(r3.Cross(u, v), n, 1e-12) {
			t.Errorf("basis for %v not right handed", n)
		}
	}
	square := []r3.Vec{{}, {Y: 1}, {Y: 1, Z: 1}, {Z: 1}}
	if n := PolygonNormal(square); !EqualWithin(n, r3.Vec{X: 1}, 1e-15) {
		t.Errorf("normal %v", n)
	}
}

func TestBox(t *testing.T) {
	b := EmptyBox().Include(r3.Vec{X: 1, Y: 1, Z: 1}).Include(r3.Vec{X: -1})
	if !b.Contains(r3.Vec{Y: 0.5, Z: 0.5}) || b.Contains(r3.Vec{X: 2}) {
		t.Error("bad Contains")
	}
	if !b.IntersectRay(r3.Vec{X: -5, Y: 0.5, Z: 0.5}, r3.Vec{X: 1}) {
		t.Error("ray should hit box")
	}
	if b.IntersectRay(r3.Vec{X: -5, Y: 2, Z: 0.5}, r3.Vec{X: 1}) {
		t.Error("ray should miss box")
	}
	other := Box{Min: r3.Vec{X: 1, Y: 1, Z: 1}, Max: r3.Vec{X: 2, Y: 2, Z: 2}}
	if !b.Overlaps(other) || b.Overlaps(other.Enlarge(r3.Vec{X: -0.1, Y: -0.1, Z: -0.1})) {
		t.Error("bad Overlaps")
	}
}
