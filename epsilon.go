package meshbool

// defaultMarginScale multiplies eps2x to get the margin used to keep new
// vertices away from triangle corners and edge endpoints.
const defaultMarginScale = 10

// epsilon holds the nested tolerances derived from a single base epsilon.
type epsilon struct {
	eps, eps2x, margin       float64
	epsSq, eps2xSq, marginSq float64
}

func newEpsilon(eps, marginScale float64) epsilon {
	if marginScale <= 0 {
		marginScale = defaultMarginScale
	}
	e := epsilon{
		eps:   eps,
		eps2x: 2 * eps,
	}
	e.margin = e.eps2x * marginScale
	e.epsSq = e.eps * e.eps
	e.eps2xSq = e.eps2x * e.eps2x
	e.marginSq = e.margin * e.margin
	return e
}
