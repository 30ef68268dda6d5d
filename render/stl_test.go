package render_test

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"

	"github.com/soypat/meshbool/bmesh"
	"github.com/soypat/meshbool/helpers/meshgen"
	"github.com/soypat/meshbool/render"
)

func boxModel() []render.Triangle3 {
	return render.Triangles(meshgen.Box(r3.Vec{X: -1, Y: -0.5, Z: 0}, r3.Vec{X: 2, Y: 1.5, Z: 0.75}))
}

func TestSTLCreateWriteRead(t *testing.T) {
	model := boxModel()
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := render.CreateSTL(path, model); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+50*len(model) {
		t.Fatalf("got %d bytes", b.Len())
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}

	got, err := render.LoadSTL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, want %d", len(got), len(model))
	}
	// Coordinates are exact in float32.
	for i := range got {
		if got[i] != model[i] {
			t.Errorf("triangle %d: got %v, want %v", i, got[i], model[i])
		}
	}
	m, err := bmesh.FromTriangles(render.Vecs(got), 0)
	if err != nil {
		t.Fatal(err)
	}
	if vol := m.Volume(); math.Abs(vol-4.5) > 1e-9 {
		t.Errorf("volume %g, want 4.5", vol)
	}
}

func TestReadSTLErrors(t *testing.T) {
	if err := render.WriteSTL(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error writing empty model")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("expected error for short header")
	}
	var b bytes.Buffer
	b.Write(make([]byte, 80))
	binary.Write(&b, binary.LittleEndian, uint32(0))
	if _, err := render.ReadSTL(&b); err == nil {
		t.Error("expected error for zero triangles")
	}

	// Header claims two triangles but holds one.
	b.Reset()
	if err := render.WriteSTL(&b, boxModel()[:1]); err != nil {
		t.Fatal(err)
	}
	data := b.Bytes()
	binary.LittleEndian.PutUint32(data[80:], 2)
	if _, err := render.ReadSTL(bytes.NewReader(data)); err == nil {
		t.Error("expected error for truncated file")
	}

	// NaN vertex.
	b.Reset()
	render.WriteSTL(&b, boxModel()[:1])
	data = b.Bytes()
	binary.LittleEndian.PutUint32(data[84+12:], math.Float32bits(float32(math.NaN())))
	if _, err := render.ReadSTL(bytes.NewReader(data)); err == nil {
		t.Error("expected error for NaN vertex")
	}
}

func TestReadSTLFlippedNormal(t *testing.T) {
	var b bytes.Buffer
	model := boxModel()[:2]
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	data := b.Bytes()
	// Point the stored normal of the first triangle sideways.
	for i, f := range []float32{0.6, 0.8, 0} {
		binary.LittleEndian.PutUint32(data[84+4*i:], math.Float32bits(f))
	}
	got, err := render.ReadSTL(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d triangles", len(got))
	}
}

func TestSection(t *testing.T) {
	model := render.Triangles(meshgen.Box(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}))
	segs := render.Section(model, 0.5)
	if len(segs) != 8 {
		t.Fatalf("got %d segments, want 8", len(segs))
	}
	var perimeter float64
	for _, s := range segs {
		perimeter += math.Hypot(s[1].X-s[0].X, s[1].Y-s[0].Y)
	}
	if math.Abs(perimeter-4) > 1e-12 {
		t.Errorf("perimeter %g, want 4", perimeter)
	}
	if len(render.Section(model, 2)) != 0 {
		t.Error("plane above model produced segments")
	}
	path := filepath.Join(t.TempDir(), "section.png")
	if err := render.PlotSection(path, model, 0.5, 200); err != nil {
		t.Fatal(err)
	}
	if err := render.PlotSection(path, model, 2, 200); err == nil {
		t.Error("expected error for plane missing the model")
	}
}

func TestPreviewDeterministic(t *testing.T) {
	model := boxModel()
	cfg := render.DefaultPreview()
	cfg.Width, cfg.Height = 160, 90
	var pngs [2][]byte
	for i := range pngs {
		img, err := render.RenderPreview(model, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != cfg.Width || b.Dy() != cfg.Height {
			t.Fatalf("image size %v", b)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		pngs[i] = buf.Bytes()
	}
	equal, err := cmpimg.EqualApprox("png", pngs[0], pngs[1], 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("preview not deterministic")
	}

	path := filepath.Join(t.TempDir(), "box.png")
	if err := render.SavePreview(path, model, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := render.RenderPreview(nil, cfg); err == nil {
		t.Error("expected error for empty model")
	}
}
