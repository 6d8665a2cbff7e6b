package cvode

/*
#include <cvodes/cvodes.h>
#include <nvector/nvector_serial.h>

extern int cvodegoSensRhs(int ns, realtype t, N_Vector y, N_Vector ydot,
	N_Vector *yS, N_Vector *ySdot, void *user_data,
	N_Vector tmp1, N_Vector tmp2);

static int cvodego_sens_init(void *mem, int ns, N_Vector *yS0) {
	return CVodeSensInit(mem, ns, CV_STAGGERED, cvodegoSensRhs, yS0);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// SensSolver integrates an ODE system together with its forward
// sensitivities, one per sensitivity direction, using the staggered
// corrector: each step solves the primary state first and the sensitivities
// within the same step. Resource rules are those of [Solver].
type SensSolver[U any] struct {
	c        *core
	nSensi   int
	yS       []*NVector // initial sensitivity vectors
	atolSens []*NVector // nil unless vector sensitivity tolerances
	out      []*NVector // reusable CVodeGetSens destination
	outRaws  []C.N_Vector
	outViews [][]float64
}

// NewSensSolver constructs a sensitivity solver. yS0 holds one initial
// sensitivity vector per direction, each of the primary dimension; the
// number of directions is fixed at len(yS0). atolSens must cover exactly
// that many directions.
//
// On failure every native resource built before the failing call is
// released; nothing leaks.
func NewSensSolver[U any](method Method, f RhsFunc[U], fS SensRhsFunc[U],
	t0 float64, y0 []float64, yS0 [][]float64, rtol float64,
	atol Tolerance, atolSens SensTolerance, userData *U) (s *SensSolver[U], err error) {
	if len(y0) == 0 {
		return nil, fmt.Errorf("cvode: empty initial state")
	}
	if len(yS0) == 0 {
		return nil, fmt.Errorf("cvode: no sensitivity directions")
	}
	for i, row := range yS0 {
		if len(row) != len(y0) {
			return nil, fmt.Errorf("cvode: sensitivity vector %d has length %d, want %d",
				i, len(row), len(y0))
		}
	}
	if atol.isVector() && len(atol.vec) != len(y0) {
		return nil, fmt.Errorf("cvode: tolerance vector length %d does not match dimension %d",
			len(atol.vec), len(y0))
	}
	if atolSens.directions() != len(yS0) {
		return nil, fmt.Errorf("cvode: sensitivity tolerances cover %d directions, want %d",
			atolSens.directions(), len(yS0))
	}
	if atolSens.isVector() {
		for i, row := range atolSens.vecs {
			if len(row) != len(y0) {
				return nil, fmt.Errorf("cvode: sensitivity tolerance vector %d has length %d, want %d",
					i, len(row), len(y0))
			}
		}
	}

	res := &SensSolver[U]{nSensi: len(yS0)}
	defer func() {
		if err != nil {
			res.Free()
		}
	}()

	res.c, err = newCore(method, y0)
	if err != nil {
		return nil, err
	}
	n := res.c.n

	res.c.pin(&rhsBundle{
		n:      n,
		nSensi: res.nSensi,
		f: func(t float64, y, ydot []float64) RhsResult {
			return f(t, y, ydot, userData)
		},
		fS: func(t float64, y, ydot []float64, yS, ySdot [][]float64) RhsResult {
			return fS(t, y, ydot, yS, ySdot, userData)
		},
		ySViews:    make([][]float64, res.nSensi),
		ySdotViews: make([][]float64, res.nSensi),
	})

	// The token must be registered before any init call can invoke a
	// callback.
	if err = res.c.setUserData(); err != nil {
		return nil, err
	}
	if err = res.c.init(t0); err != nil {
		return nil, err
	}

	res.yS, err = res.newVectors(yS0)
	if err != nil {
		return nil, err
	}
	raws := rawVectors(res.yS)
	flag := C.cvodego_sens_init(res.c.mem, C.int(res.nSensi), &raws[0])
	if err = checkStatus(int(flag), "CVodeSensInit"); err != nil {
		return nil, err
	}

	if err = res.c.setTolerances(rtol, atol); err != nil {
		return nil, err
	}
	if err = res.setSensTolerances(rtol, atolSens); err != nil {
		return nil, err
	}
	if err = res.c.setLinearSolver(); err != nil {
		return nil, err
	}

	// Reusable destination for CVodeGetSens; allocated once so Step never
	// allocates native memory.
	out := make([][]float64, res.nSensi)
	for i := range out {
		out[i] = make([]float64, n)
	}
	res.out, err = res.newVectors(out)
	if err != nil {
		return nil, err
	}
	res.outRaws = rawVectors(res.out)
	res.outViews = make([][]float64, res.nSensi)
	for i, v := range res.out {
		res.outViews[i] = v.View()
	}
	return res, nil
}

func (s *SensSolver[U]) newVectors(rows [][]float64) ([]*NVector, error) {
	vecs := make([]*NVector, 0, len(rows))
	for _, row := range rows {
		v, err := NewNVectorFrom(row, s.c.ctx)
		if err != nil {
			freeVectors(vecs)
			return nil, err
		}
		vecs = append(vecs, v)
	}
	return vecs, nil
}

func (s *SensSolver[U]) setSensTolerances(rtol float64, atolSens SensTolerance) error {
	if !atolSens.isVector() {
		flag := C.CVodeSensSStolerances(s.c.mem, C.realtype(rtol),
			(*C.realtype)(unsafe.Pointer(&atolSens.scalars[0])))
		return checkStatus(int(flag), "CVodeSensSStolerances")
	}
	vecs, err := s.newVectors(atolSens.vecs)
	if err != nil {
		return err
	}
	s.atolSens = vecs
	raws := rawVectors(vecs)
	flag := C.CVodeSensSVtolerances(s.c.mem, C.realtype(rtol), &raws[0])
	return checkStatus(int(flag), "CVodeSensSVtolerances")
}

// Step advances the integration toward tOut, then retrieves the
// sensitivities at the reached time. The returned state and sensitivity
// slices are views into solver-owned buffers, overwritten by the next Step
// call.
func (s *SensSolver[U]) Step(tOut float64, kind StepKind) (float64, []float64, [][]float64, error) {
	t, y, err := s.c.step(tOut, kind)
	if err != nil {
		return 0, nil, nil, err
	}
	var tRet C.realtype
	flag := C.CVodeGetSens(s.c.mem, &tRet, &s.outRaws[0])
	if err := checkStatus(int(flag), "CVodeGetSens"); err != nil {
		return 0, nil, nil, err
	}
	return t, y, s.outViews, nil
}

// Stats returns the integrator's internal counters for this solver.
func (s *SensSolver[U]) Stats() (SensStats, error) {
	return sensSolverStats(s.c.mem)
}

// Free releases all native resources owned by the solver. It must be called
// exactly once; the solver is unusable afterwards. Safe on a partially
// constructed solver.
func (s *SensSolver[U]) Free() {
	if s == nil || s.c == nil {
		return
	}
	s.c.freeSolverHandles()
	freeVectors(s.yS)
	s.yS = nil
	freeVectors(s.atolSens)
	s.atolSens = nil
	freeVectors(s.out)
	s.out = nil
	s.c.freeVectorsAndContext()
}

func rawVectors(vecs []*NVector) []C.N_Vector {
	raws := make([]C.N_Vector, len(vecs))
	for i, v := range vecs {
		raws[i] = v.raw
	}
	return raws
}

func freeVectors(vecs []*NVector) {
	for _, v := range vecs {
		v.Free()
	}
}
