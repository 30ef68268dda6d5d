// Package meshgen generates closed triangle meshes to use as boolean operands.
package meshgen

import (
	"errors"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// boxQuads lists the outward facing quads of a box. Corner i has its X, Y
// and Z at the maximum when bits 0, 1 and 2 of i are set.
var boxQuads = [6][4]int{
	{0, 2, 3, 1}, {4, 5, 7, 6}, // -z +z
	{0, 1, 5, 4}, {2, 6, 7, 3}, // -y +y
	{0, 4, 6, 2}, {1, 3, 7, 5}, // -x +x
}

// Box returns the 12 triangles of the axis aligned box spanning min to max.
// Quads are split along the diagonal from their first corner.
func Box(min, max r3.Vec) [][3]r3.Vec {
	var corners [8]r3.Vec
	for i := range corners {
		corners[i] = min
		if i&1 != 0 {
			corners[i].X = max.X
		}
		if i&2 != 0 {
			corners[i].Y = max.Y
		}
		if i&4 != 0 {
			corners[i].Z = max.Z
		}
	}
	tris := make([][3]r3.Vec, 0, 12)
	for _, q := range boxQuads {
		tris = append(tris,
			[3]r3.Vec{corners[q[0]], corners[q[1]], corners[q[2]]},
			[3]r3.Vec{corners[q[0]], corners[q[2]], corners[q[3]]},
		)
	}
	return tris
}

// Sphere returns a sphere of radius r centered at the origin tessellated by
// marching cubes over cells cells along the longest side of its bounds.
func Sphere(r float64, cells int) ([][3]r3.Vec, error) {
	s, err := sdf.Sphere3D(r)
	if err != nil {
		return nil, err
	}
	return tessellate(s, cells)
}

// Cylinder returns a cylinder of height h and radius r centered at the origin
// with its axis along Z. See Sphere for the meaning of cells.
func Cylinder(h, r float64, cells int) ([][3]r3.Vec, error) {
	s, err := sdf.Cylinder3D(h, r, 0)
	if err != nil {
		return nil, err
	}
	return tessellate(s, cells)
}

// Translate moves every triangle by d.
func Translate(tris [][3]r3.Vec, d r3.Vec) [][3]r3.Vec {
	out := make([][3]r3.Vec, len(tris))
	for i, t := range tris {
		for j := range t {
			out[i][j] = r3.Add(t[j], d)
		}
	}
	return out
}

func tessellate(s sdf.SDF3, cells int) ([][3]r3.Vec, error) {
	if cells <= 0 {
		return nil, errors.New("cells must be positive")
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	tris := make([][3]r3.Vec, 0, len(triangles))
	var vol float64
	for _, tri := range triangles {
		var t [3]r3.Vec
		for j := 0; j < 3; j++ {
			t[j] = vec(tri[j])
		}
		vol += r3.Dot(t[0], r3.Cross(t[1], t[2]))
		tris = append(tris, t)
	}
	if len(tris) == 0 {
		return nil, errors.New("marching cubes produced no triangles")
	}
	if vol < 0 {
		// Orient outward.
		for i := range tris {
			tris[i][1], tris[i][2] = tris[i][2], tris[i][1]
		}
	}
	return tris, nil
}

func vec(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
