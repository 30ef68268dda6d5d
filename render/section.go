package render

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Section slices model with the plane Z=z and returns the cut segments
// projected onto XY. Vertices lying on the plane count as above it.
func Section(model []Triangle3, z float64) [][2]r2.Vec {
	var segs [][2]r2.Vec
	for _, t := range model {
		var pts []r2.Vec
		for i := 0; i < 3; i++ {
			a, b := t.V[i], t.V[(i+1)%3]
			da, db := a.Z-z, b.Z-z
			if (da < 0) == (db < 0) {
				continue
			}
			f := da / (da - db)
			pts = append(pts, r2.Vec{
				X: a.X + f*(b.X-a.X),
				Y: a.Y + f*(b.Y-a.Y),
			})
		}
		if len(pts) == 2 {
			segs = append(segs, [2]r2.Vec{pts[0], pts[1]})
		}
	}
	return segs
}

// PlotSection draws the section of model at Z=z and saves it to path. The
// image format is taken from the file extension.
func PlotSection(path string, model []Triangle3, z float64, size vg.Length) error {
	segs := Section(model, z)
	if len(segs) == 0 {
		return fmt.Errorf("plane z=%g does not cut the model", z)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("section z=%g", z)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	for _, s := range segs {
		l, err := plotter.NewLine(plotter.XYs{{X: s[0].X, Y: s[0].Y}, {X: s[1].X, Y: s[1].Y}})
		if err != nil {
			return err
		}
		p.Add(l)
	}
	return p.Save(size, size, path)
}
