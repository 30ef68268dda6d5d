package meshbool

import (
	"fmt"
	"log"

	"github.com/soypat/meshbool/bmesh"
)

// BooleanMode selects how face islands are kept after intersecting.
type BooleanMode int

const (
	// None only inserts the cut geometry.
	None BooleanMode = iota
	// Intersection keeps the regions inside both operands.
	Intersection
	// Union keeps the regions outside the other operand.
	Union
	// Difference subtracts operand B from operand A.
	Difference
)

func (b BooleanMode) String() string {
	switch b {
	case None:
		return "none"
	case Intersection:
		return "intersect"
	case Union:
		return "union"
	case Difference:
		return "difference"
	}
	return fmt.Sprintf("BooleanMode(%d)", int(b))
}

// ParseBooleanMode returns the mode named s as printed by BooleanMode.String.
func ParseBooleanMode(s string) (BooleanMode, error) {
	for _, m := range [...]BooleanMode{None, Intersection, Union, Difference} {
		if m.String() == s {
			return m, nil
		}
	}
	return None, fmt.Errorf("unknown boolean mode %q", s)
}

// Side is the operand a face belongs to.
type Side int

const (
	SideSkip Side = -1
	SideA    Side = 0
	SideB    Side = 1
)

// Classifier assigns faces to operands. Faces classified as SideSkip are
// ignored by the intersection.
type Classifier func(f *bmesh.Face) Side

// ClassifyMat classifies faces by their Mat attribute: 0 is operand A, 1 is
// operand B and any other value is skipped.
func ClassifyMat(f *bmesh.Face) Side {
	switch f.Mat {
	case 0:
		return SideA
	case 1:
		return SideB
	}
	return SideSkip
}

// Config controls an intersection pass.
type Config struct {
	// Epsilon is the base tolerance of the geometric predicates.
	Epsilon float64
	// MarginScale multiplies 2*Epsilon to get the margin that keeps new
	// vertices away from existing ones. Non-positive values use 10.
	MarginScale float64
	Mode        BooleanMode
	// Self intersects every triangle against every other one instead of
	// operand A against operand B.
	Self bool
	// Separate rips the mesh along the cut edges.
	Separate bool
	// Dissolve removes degree two vertices created on the interior of faces.
	Dissolve bool
	// IslandConnect bridges cuts that do not touch the boundary of the face
	// they lie in so the face can be split.
	IslandConnect bool
	// PartialConnect also bridges the free end of dangling cuts.
	PartialConnect bool
	// EdgeTag sets Tag on the cut edges.
	EdgeTag bool
	// Logger receives warnings. nil disables logging.
	Logger *log.Logger
	// Debug checks the result for duplicate and zero length edges.
	Debug bool
}

// DefaultConfig returns the configuration used by the command line tool.
func DefaultConfig() Config {
	return Config{
		Epsilon:       1e-6,
		MarginScale:   defaultMarginScale,
		Dissolve:      true,
		IslandConnect: true,
	}
}
