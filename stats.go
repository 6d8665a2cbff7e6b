package cvode

/*
#include <cvodes/cvodes.h>
*/
import "C"

import "unsafe"

// Stats reports the native integrator's internal counters. Values accumulate
// over the solver's life.
type Stats struct {
	// Steps is the number of internal steps taken.
	Steps int64
	// RhsEvals is the number of RHS callback invocations.
	RhsEvals int64
	// ErrTestFails is the number of local error test failures.
	ErrTestFails int64
	// NonlinIters is the number of nonlinear solver iterations.
	NonlinIters int64
	// LastStep and CurrentStep are the sizes of the last completed and
	// next attempted internal step.
	LastStep    float64
	CurrentStep float64
	// CurrentTime is the internal time the integrator has reached, which
	// may be past the last requested output time.
	CurrentTime float64
}

func solverStats(mem unsafe.Pointer) (Stats, error) {
	var st Stats
	var n C.long
	if err := checkStatus(int(C.CVodeGetNumSteps(mem, &n)), "CVodeGetNumSteps"); err != nil {
		return Stats{}, err
	}
	st.Steps = int64(n)
	if err := checkStatus(int(C.CVodeGetNumRhsEvals(mem, &n)), "CVodeGetNumRhsEvals"); err != nil {
		return Stats{}, err
	}
	st.RhsEvals = int64(n)
	if err := checkStatus(int(C.CVodeGetNumErrTestFails(mem, &n)), "CVodeGetNumErrTestFails"); err != nil {
		return Stats{}, err
	}
	st.ErrTestFails = int64(n)
	if err := checkStatus(int(C.CVodeGetNumNonlinSolvIters(mem, &n)), "CVodeGetNumNonlinSolvIters"); err != nil {
		return Stats{}, err
	}
	st.NonlinIters = int64(n)

	var h C.realtype
	if err := checkStatus(int(C.CVodeGetLastStep(mem, &h)), "CVodeGetLastStep"); err != nil {
		return Stats{}, err
	}
	st.LastStep = float64(h)
	if err := checkStatus(int(C.CVodeGetCurrentStep(mem, &h)), "CVodeGetCurrentStep"); err != nil {
		return Stats{}, err
	}
	st.CurrentStep = float64(h)
	if err := checkStatus(int(C.CVodeGetCurrentTime(mem, &h)), "CVodeGetCurrentTime"); err != nil {
		return Stats{}, err
	}
	st.CurrentTime = float64(h)
	return st, nil
}

// SensStats extends [Stats] with sensitivity-specific counters.
type SensStats struct {
	Stats
	// SensRhsEvals is the number of sensitivity RHS callback invocations.
	SensRhsEvals int64
}

func sensSolverStats(mem unsafe.Pointer) (SensStats, error) {
	base, err := solverStats(mem)
	if err != nil {
		return SensStats{}, err
	}
	var n C.long
	if err := checkStatus(int(C.CVodeGetSensNumRhsEvals(mem, &n)), "CVodeGetSensNumRhsEvals"); err != nil {
		return SensStats{}, err
	}
	return SensStats{Stats: base, SensRhsEvals: int64(n)}, nil
}
