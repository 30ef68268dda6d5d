package matter

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// ABS shrinks noticeably more than PLA when cooling.
	ABS = ViscousMaterial{shrink: 0.7e-2, pullShrink: .5}
)

type ViscousMaterial struct {
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Lookup returns the material with the given case insensitive name.
func Lookup(name string) (ViscousMaterial, error) {
	switch strings.ToLower(name) {
	case "pla":
		return PLA, nil
	case "abs":
		return ABS, nil
	}
	return ViscousMaterial{}, fmt.Errorf("unknown material %q", name)
}

// Scale enlarges the triangles about the center of their bounds so the
// printed part shrinks back to the modelled size.
func (m ViscousMaterial) Scale(tris [][3]r3.Vec) [][3]r3.Vec {
	if len(tris) == 0 {
		return nil
	}
	scale := 1 / (1 - m.shrink)
	bb := r3.Box{Min: tris[0][0], Max: tris[0][0]}
	for _, t := range tris {
		for _, v := range t {
			bb.Min = r3.Vec{X: min(bb.Min.X, v.X), Y: min(bb.Min.Y, v.Y), Z: min(bb.Min.Z, v.Z)}
			bb.Max = r3.Vec{X: max(bb.Max.X, v.X), Y: max(bb.Max.Y, v.Y), Z: max(bb.Max.Z, v.Z)}
		}
	}
	center := r3.Scale(0.5, r3.Add(bb.Min, bb.Max))
	out := make([][3]r3.Vec, len(tris))
	for i, t := range tris {
		for j, v := range t {
			out[i][j] = r3.Add(center, r3.Scale(scale, r3.Sub(v, center)))
		}
	}
	return out
}

// InternalDimScale returns the dimension to model a hole with so it prints at real size.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
