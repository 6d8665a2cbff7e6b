// Package cvode drives the SUNDIALS CVODES integrator from Go.
//
// The package owns every native resource the integrator needs (execution
// context, serial vectors, dense matrix and linear solver, solver memory)
// and exposes the integration loop through two solver types:
//
//   - [Solver]: plain initial-value integration with [Adams] or [BDF]
//     linear multistep methods
//   - [SensSolver]: the same, plus forward sensitivity propagation with
//     the staggered corrector
//
// The right-hand side of the ODE system is an ordinary Go function:
//
//	rhs := func(t float64, y, ydot []float64, _ *struct{}) cvode.RhsResult {
//	    ydot[0] = y[1]
//	    ydot[1] = -y[0]
//	    return cvode.RhsOk()
//	}
//	solver, err := cvode.NewSolver(cvode.Adams, rhs, 0, []float64{0, 1},
//	    1e-4, cvode.ScalarTolerance(1e-4), nil)
//	if err != nil {
//	    // ...
//	}
//	defer solver.Free()
//	t, y, err := solver.Step(1.0, cvode.StepNormal)
//
// The y and ydot slices handed to the callback are zero-copy views over
// native memory, valid only for the duration of the call. The callback must
// not retain them and must not call back into its own solver.
//
// Building requires the SUNDIALS 6.x CVODES headers and libraries
// (cvodes, nvecserial, sunmatrixdense, sunlinsoldense). Non-standard
// install locations are picked up through CGO_CFLAGS / CGO_LDFLAGS. The
// package assumes the default SUNDIALS build with double-precision
// realtype.
package cvode
