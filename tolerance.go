package cvode

// Tolerance selects between a uniform scalar absolute tolerance and a
// per-component vector tolerance. The vector form carries plain values; the
// solver materializes them as a native vector under its own context during
// construction, because CVODES keeps a reference to that vector instead of
// copying it.
type Tolerance struct {
	scalar float64
	vec    []float64
}

// ScalarTolerance applies atol uniformly to every component.
func ScalarTolerance(atol float64) Tolerance {
	return Tolerance{scalar: atol}
}

// VectorTolerance applies atol[i] to component i. The slice is copied; its
// length must equal the solver dimension.
func VectorTolerance(atol []float64) Tolerance {
	vec := make([]float64, len(atol))
	copy(vec, atol)
	return Tolerance{vec: vec}
}

func (tol Tolerance) isVector() bool { return tol.vec != nil }

// SensTolerance is the per-direction counterpart of [Tolerance] for the
// sensitivity solver: one scalar, or one vector of the solver dimension, per
// sensitivity direction.
type SensTolerance struct {
	scalars []float64
	vecs    [][]float64
}

// SensScalarTolerance applies atol[i] uniformly to sensitivity direction i.
// The slice length must equal the number of sensitivity directions.
func SensScalarTolerance(atol []float64) SensTolerance {
	scalars := make([]float64, len(atol))
	copy(scalars, atol)
	return SensTolerance{scalars: scalars}
}

// SensVectorTolerance applies atol[i][j] to component j of sensitivity
// direction i. The outer length must equal the number of directions, each
// inner length the solver dimension.
func SensVectorTolerance(atol [][]float64) SensTolerance {
	vecs := make([][]float64, len(atol))
	for i, row := range atol {
		vecs[i] = make([]float64, len(row))
		copy(vecs[i], row)
	}
	return SensTolerance{vecs: vecs}
}

func (tol SensTolerance) isVector() bool { return tol.vecs != nil }

func (tol SensTolerance) directions() int {
	if tol.isVector() {
		return len(tol.vecs)
	}
	return len(tol.scalars)
}
