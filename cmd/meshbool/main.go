// Command meshbool combines two closed triangle meshes with a boolean
// operation and writes the result as binary STL.
//
//	meshbool -a box:0,0,0,1,1,1 -b sphere:0.6@1,1,1 -op difference -o out.stl -png out.png
package main

import (
	"flag"
	"log"
	"time"

	"github.com/soypat/meshbool"
	"github.com/soypat/meshbool/helpers/matter"
	"github.com/soypat/meshbool/render"
)

func main() {
	var (
		pathA    = flag.String("a", "", "first operand: STL path or generator (box:x0,y0,z0,x1,y1,z1, sphere:r, cylinder:h,r; append @x,y,z to move)")
		pathB    = flag.String("b", "", "second operand, same format as -a")
		op       = flag.String("op", "union", "operation: union, intersect, difference or none")
		eps      = flag.Float64("eps", 1e-6, "intersection tolerance")
		weld     = flag.Float64("weld", 1e-9, "vertex welding tolerance when importing triangles")
		output   = flag.String("o", "out.stl", "output STL path")
		pngPath  = flag.String("png", "", "optional preview PNG path")
		cells    = flag.Int("cells", 64, "marching cubes resolution for generated spheres and cylinders")
		dissolve = flag.Bool("dissolve", true, "dissolve redundant intersection vertices")
		self     = flag.Bool("self", false, "also intersect each operand with itself")
		material = flag.String("material", "", "compensate printing shrinkage for material (pla, abs)")
		section  = flag.Float64("section", 0, "z height of the section plot")
		sectPath = flag.String("sectionplot", "", "optional section plot path (png, svg or pdf)")
		verbose  = flag.Bool("v", false, "log engine warnings and post-condition checks")
	)
	flag.Parse()
	log.SetFlags(0)
	if *pathA == "" || *pathB == "" {
		flag.Usage()
		log.Fatal("both -a and -b are required")
	}
	mode, err := meshbool.ParseBooleanMode(*op)
	if err != nil {
		log.Fatal(err)
	}

	a, err := loadOperand(*pathA, *cells)
	if err != nil {
		log.Fatal(err)
	}
	b, err := loadOperand(*pathB, *cells)
	if err != nil {
		log.Fatal(err)
	}

	cfg := meshbool.DefaultConfig()
	cfg.Epsilon = *eps
	cfg.Dissolve = *dissolve
	cfg.Self = *self
	if *verbose {
		cfg.Logger = log.Default()
		cfg.Debug = true
	}
	start := time.Now()
	result, err := meshbool.BooleanTriangles(a, b, *weld, mode, cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s: %d verts, %d faces, volume %.6g in %s", mode, result.NumVerts(), result.NumFaces(), result.Volume(), time.Since(start))
	if !result.IsManifold() {
		log.Printf("w: result is not a closed manifold")
	}

	tris := result.Triangles()
	if *material != "" {
		mat, err := matter.Lookup(*material)
		if err != nil {
			log.Fatal(err)
		}
		tris = mat.Scale(tris)
	}
	model := render.Triangles(tris)
	if err := render.CreateSTL(*output, model); err != nil {
		log.Fatal(err)
	}
	if *pngPath != "" {
		if err := render.SavePreview(*pngPath, model, render.DefaultPreview()); err != nil {
			log.Fatal(err)
		}
	}
	if *sectPath != "" {
		if err := render.PlotSection(*sectPath, model, *section, 4*96); err != nil {
			log.Fatal(err)
		}
	}
}
