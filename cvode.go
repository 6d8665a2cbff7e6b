package cvode

/*
#include <cvodes/cvodes.h>
#include <nvector/nvector_serial.h>
#include <sunmatrix/sunmatrix_dense.h>
#include <sunlinsol/sunlinsol_dense.h>

extern int cvodegoRhs(realtype t, N_Vector y, N_Vector ydot, void *user_data);

static int cvodego_init(void *mem, realtype t0, N_Vector y0) {
	return CVodeInit(mem, cvodegoRhs, t0, y0);
}
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"unsafe"
)

// Method selects the linear multistep method: [Adams] for non-stiff
// problems, [BDF] for stiff ones.
type Method int

const (
	Adams Method = C.CV_ADAMS
	BDF   Method = C.CV_BDF
)

// StepKind selects how [Solver.Step] advances the integration.
type StepKind int

const (
	// StepNormal integrates until the target time is reached or passed,
	// then interpolates back to exactly the target.
	StepNormal StepKind = C.CV_NORMAL
	// StepOneStep takes a single internal step of the integrator's own
	// choosing and reports whatever time it landed on.
	StepOneStep StepKind = C.CV_ONE_STEP
)

// core holds the native handles shared by both solver variants and enforces
// their teardown order. Exactly one solver owns a core; handles are never
// shared or copied.
type core struct {
	ctx    *Context
	mem    unsafe.Pointer
	y      *NVector
	mat    C.SUNMatrix
	ls     C.SUNLinearSolver
	atol   *NVector
	handle cgo.Handle
	cell   unsafe.Pointer
	n      int
}

// newCore creates the context, solver memory, initial-state vector, and
// dense matrix/linear-solver handles. On failure the partially built core is
// returned along with the error so the caller's deferred free still runs.
func newCore(method Method, y0 []float64) (*core, error) {
	c := &core{n: len(y0)}

	ctx, err := NewContext()
	if err != nil {
		return c, err
	}
	c.ctx = ctx

	c.mem = C.CVodeCreate(C.int(method), c.ctx.raw)
	if c.mem == nil {
		return c, &NullPointerError{Op: "CVodeCreate"}
	}

	c.y, err = NewNVectorFrom(y0, c.ctx)
	if err != nil {
		return c, err
	}

	c.mat = C.SUNDenseMatrix(C.sunindextype(c.n), C.sunindextype(c.n), c.ctx.raw)
	if c.mat == nil {
		return c, &NullPointerError{Op: "SUNDenseMatrix"}
	}

	c.ls = C.SUNLinSol_Dense(c.y.raw, c.mat, c.ctx.raw)
	if c.ls == nil {
		return c, &NullPointerError{Op: "SUNLinSol_Dense"}
	}
	return c, nil
}

// pin registers b as the solver's pinned closure state. The same token is
// later handed to CVodeSetUserData; both must reference this allocation for
// the solver's whole life.
func (c *core) pin(b *rhsBundle) {
	c.handle, c.cell = pinBundle(b)
}

func (c *core) init(t0 float64) error {
	return checkStatus(int(C.cvodego_init(c.mem, C.realtype(t0), c.y.raw)), "CVodeInit")
}

func (c *core) setTolerances(rtol float64, atol Tolerance) error {
	if !atol.isVector() {
		flag := C.CVodeSStolerances(c.mem, C.realtype(rtol), C.realtype(atol.scalar))
		return checkStatus(int(flag), "CVodeSStolerances")
	}
	vec, err := NewNVectorFrom(atol.vec, c.ctx)
	if err != nil {
		return err
	}
	// CVODES keeps a reference to the tolerance vector; it is owned here
	// and freed in teardown, after CVodeFree.
	c.atol = vec
	flag := C.CVodeSVtolerances(c.mem, C.realtype(rtol), vec.raw)
	return checkStatus(int(flag), "CVodeSVtolerances")
}

func (c *core) setLinearSolver() error {
	flag := C.CVodeSetLinearSolver(c.mem, c.ls, c.mat)
	return checkStatus(int(flag), "CVodeSetLinearSolver")
}

func (c *core) setUserData() error {
	flag := C.CVodeSetUserData(c.mem, c.cell)
	return checkStatus(int(flag), "CVodeSetUserData")
}

func (c *core) step(tOut float64, kind StepKind) (float64, []float64, error) {
	var tRet C.realtype
	flag := C.CVode(c.mem, C.realtype(tOut), c.y.raw, &tRet, C.int(kind))
	if err := checkStatus(int(flag), "CVode"); err != nil {
		return 0, nil, err
	}
	return float64(tRet), c.y.View(), nil
}

// free releases every native handle the core owns, in native dependency
// order: solver memory, linear solver, matrix, owned vectors, pinned closure
// state, context. Each handle is freed at most once; free is safe on a
// partially constructed core.
func (c *core) free() {
	if c == nil {
		return
	}
	c.freeSolverHandles()
	c.freeVectorsAndContext()
}

// freeSolverHandles tears down the solver memory block and the linear
// solver/matrix attached to it.
func (c *core) freeSolverHandles() {
	if c.mem != nil {
		mem := c.mem
		C.CVodeFree(&mem)
		c.mem = nil
	}
	if c.ls != nil {
		if flag := C.SUNLinSolFree(c.ls); flag != 0 {
			logger.Warn().Int("code", int(flag)).Msg("SUNLinSolFree failed")
		}
		c.ls = nil
	}
	if c.mat != nil {
		C.SUNMatDestroy(c.mat)
		c.mat = nil
	}
}

// freeVectorsAndContext destroys the owned vectors and pinned closure state,
// then the context they were created under. The sensitivity solver frees its
// extra vectors in between the two phases.
func (c *core) freeVectorsAndContext() {
	c.atol.Free()
	c.atol = nil
	c.y.Free()
	c.y = nil
	if c.cell != nil {
		unpinBundle(c.handle, c.cell)
		c.cell = nil
	}
	c.ctx.Free()
	c.ctx = nil
}

// Solver integrates an ODE system y' = f(t, y) of fixed dimension. It owns
// all native resources it creates and must be released with [Solver.Free]
// exactly once. A Solver is not safe for concurrent use, and its RHS
// callback must not call back into it.
type Solver[U any] struct {
	c *core
}

// NewSolver constructs a solver for the system defined by f, starting at
// (t0, y0). The dimension is fixed at len(y0). userData is passed through to
// every f invocation and may be nil.
//
// On failure every native resource built before the failing call is
// released; nothing leaks.
func NewSolver[U any](method Method, f RhsFunc[U], t0 float64, y0 []float64,
	rtol float64, atol Tolerance, userData *U) (s *Solver[U], err error) {
	if len(y0) == 0 {
		return nil, fmt.Errorf("cvode: empty initial state")
	}
	if atol.isVector() && len(atol.vec) != len(y0) {
		return nil, fmt.Errorf("cvode: tolerance vector length %d does not match dimension %d",
			len(atol.vec), len(y0))
	}

	c, err := newCore(method, y0)
	defer func() {
		if err != nil {
			c.free()
		}
	}()
	if err != nil {
		return nil, err
	}

	c.pin(&rhsBundle{
		n: c.n,
		f: func(t float64, y, ydot []float64) RhsResult {
			return f(t, y, ydot, userData)
		},
	})

	if err = c.init(t0); err != nil {
		return nil, err
	}
	if err = c.setTolerances(rtol, atol); err != nil {
		return nil, err
	}
	if err = c.setLinearSolver(); err != nil {
		return nil, err
	}
	if err = c.setUserData(); err != nil {
		return nil, err
	}
	return &Solver[U]{c: c}, nil
}

// Step advances the integration toward tOut and returns the time actually
// reached together with a view of the state vector. The view is overwritten
// by the next Step call; callers that keep trajectories must copy it. The
// call blocks until the native integrator returns and may invoke the RHS
// callback any number of times.
func (s *Solver[U]) Step(tOut float64, kind StepKind) (float64, []float64, error) {
	return s.c.step(tOut, kind)
}

// Stats returns the integrator's internal counters for this solver.
func (s *Solver[U]) Stats() (Stats, error) {
	return solverStats(s.c.mem)
}

// Free releases all native resources owned by the solver. It must be called
// exactly once; the solver is unusable afterwards.
func (s *Solver[U]) Free() {
	if s == nil {
		return
	}
	s.c.free()
}
