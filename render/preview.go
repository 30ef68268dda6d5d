package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// PreviewConfig describes the camera and output size of a preview image.
// The model is scaled to fit a bi-unit cube centered at the origin before
// drawing, so Eye and Center are given in those units.
type PreviewConfig struct {
	Width, Height int
	// Supersampling factor. The image is drawn Scale times larger and
	// downsampled for antialiasing.
	Scale int
	// Vertical field of view in degrees.
	Fovy       float64
	Near, Far  float64
	Eye        r3.Vec
	Center     r3.Vec
	Up         r3.Vec
	Color      string // Object color as hex.
	Background string
}

// DefaultPreview returns an isometric-ish view of the model.
func DefaultPreview() PreviewConfig {
	return PreviewConfig{
		Width:      960,
		Height:     540,
		Scale:      2,
		Fovy:       30,
		Near:       1,
		Far:        10,
		Eye:        r3.Vec{X: 3, Y: 3, Z: 3},
		Up:         r3.Vec{Z: 1},
		Color:      "#468966",
		Background: "#FFF8E3",
	}
}

// RenderPreview draws model with a phong shader.
func RenderPreview(model []Triangle3, cfg PreviewConfig) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(fv(t.V[0]), fv(t.V[1]), fv(t.V[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()

	var (
		eye    = fv(cfg.Eye)
		center = fv(cfg.Center)
		up     = fv(cfg.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor(cfg.Background))
	aspect := float64(cfg.Width) / float64(cfg.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cfg.Fovy, aspect, cfg.Near, cfg.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(cfg.Color)
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if cfg.Scale > 1 {
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePreview renders model and writes it as a PNG file at path.
func SavePreview(path string, model []Triangle3, cfg PreviewConfig) error {
	img, err := RenderPreview(model, cfg)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fv(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
