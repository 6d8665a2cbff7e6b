package cvode

// RhsResult is the outcome of a right-hand-side evaluation. It is a
// three-way value rather than an error: the integrator treats a recoverable
// failure as a hint to shrink the step or redo the nonlinear solve, and only
// a non-recoverable failure halts integration. Collapsing the two into a
// plain error would lose that retry behavior.
type RhsResult struct {
	code        int
	recoverable bool
}

// RhsOk reports a successful evaluation.
func RhsOk() RhsResult {
	return RhsResult{}
}

// RecoverableError reports a failure the integrator may retry. code must be
// positive; zero or negative values are normalized to 1.
func RecoverableError(code int) RhsResult {
	if code <= 0 {
		code = 1
	}
	return RhsResult{code: code, recoverable: true}
}

// NonRecoverableError reports a failure that halts integration. code must be
// positive; zero or negative values are normalized to 1.
func NonRecoverableError(code int) RhsResult {
	if code <= 0 {
		code = 1
	}
	return RhsResult{code: code}
}

// status maps the result onto the CVODES convention: 0 for success, a
// positive value for a recoverable failure, a negative value for a
// non-recoverable one.
func (r RhsResult) status() int {
	switch {
	case r.code == 0:
		return 0
	case r.recoverable:
		return r.code
	default:
		return -r.code
	}
}

// RhsFunc computes ydot = f(t, y). y and ydot are views over native memory
// of the solver's dimension, valid only for the duration of the call. user
// is the pointer given to [NewSolver]; it may be nil.
type RhsFunc[U any] func(t float64, y, ydot []float64, user *U) RhsResult

// SensRhsFunc computes the sensitivity right-hand sides: for each direction
// i, ySdot[i] = (df/dy)·yS[i] + df/dp_i. All slices are views over native
// memory, valid only for the duration of the call.
type SensRhsFunc[U any] func(t float64, y, ydot []float64, yS, ySdot [][]float64, user *U) RhsResult
