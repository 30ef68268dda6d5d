package main

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/meshbool/helpers/meshgen"
	"github.com/soypat/meshbool/render"
)

// loadOperand reads an STL file or generates a primitive. Generators are
// written as kind:args, for example box:0,0,0,1,1,1, sphere:0.5 or
// cylinder:2,0.5. A trailing @x,y,z translates the primitive.
func loadOperand(arg string, cells int) ([][3]r3.Vec, error) {
	kind, args, ok := strings.Cut(arg, ":")
	if !ok {
		model, err := render.LoadSTL(arg)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", arg, err)
		}
		return render.Vecs(model), nil
	}
	var offset r3.Vec
	if shape, at, ok := strings.Cut(args, "@"); ok {
		v, err := parseFloats(at, 3)
		if err != nil {
			return nil, fmt.Errorf("operand %q offset: %w", arg, err)
		}
		offset = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
		args = shape
	}
	return generate(arg, kind, args, cells, offset)
}

func generate(arg, kind, args string, cells int, offset r3.Vec) ([][3]r3.Vec, error) {
	var (
		tris [][3]r3.Vec
		err  error
	)
	switch kind {
	case "box":
		var v []float64
		if v, err = parseFloats(args, 6); err == nil {
			tris = meshgen.Box(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, r3.Vec{X: v[3], Y: v[4], Z: v[5]})
		}
	case "sphere":
		var v []float64
		if v, err = parseFloats(args, 1); err == nil {
			tris, err = meshgen.Sphere(v[0], cells)
		}
	case "cylinder":
		var v []float64
		if v, err = parseFloats(args, 2); err == nil {
			tris, err = meshgen.Cylinder(v[0], v[1], cells)
		}
	default:
		return nil, fmt.Errorf("unknown generator %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("operand %q: %w", arg, err)
	}
	if offset != (r3.Vec{}) {
		tris = meshgen.Translate(tris, offset)
	}
	return tris, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d comma separated numbers, got %d", n, len(fields))
	}
	v := make([]float64, n)
	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}
