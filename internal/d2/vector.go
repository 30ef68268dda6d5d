package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Orient returns twice the signed area of triangle (a,b,c).
// It is positive when the points are in counter clockwise order.
func Orient(a, b, c r2.Vec) float64 {
	return Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// Angle returns the angle of a measured counter clockwise from the X axis in [0, 2pi).
func Angle(a r2.Vec) float64 {
	ang := math.Atan2(a.Y, a.X)
	if ang < 0 {
		ang += 2 * math.Pi
	}
	return ang
}
