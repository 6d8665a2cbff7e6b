package cvode

/*
#include <stdint.h>
#include <stdlib.h>
#include <cvodes/cvodes.h>
#include <nvector/nvector_serial.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// rhsBundle is the closure state shared with the native integrator: the
// dimension, the wrapped callbacks (which close over the caller's user
// data), and reusable view buffers for the sensitivity trampoline. It is
// held alive by a cgo.Handle for the lifetime of its solver.
type rhsBundle struct {
	n      int
	nSensi int
	f      func(t float64, y, ydot []float64) RhsResult
	fS     func(t float64, y, ydot []float64, yS, ySdot [][]float64) RhsResult

	ySViews    [][]float64
	ySdotViews [][]float64
}

// pinBundle registers b with the runtime and stores the resulting handle in
// a C-allocated cell. The cell's address is the opaque token handed to
// CVodeSetUserData: it never moves, contains no Go pointer, and is the only
// value the trampolines ever see.
func pinBundle(b *rhsBundle) (cgo.Handle, unsafe.Pointer) {
	h := cgo.NewHandle(b)
	cell := (*C.uintptr_t)(C.malloc(C.size_t(unsafe.Sizeof(C.uintptr_t(0)))))
	*cell = C.uintptr_t(h)
	return h, unsafe.Pointer(cell)
}

// unpinBundle releases the token cell and the handle. Must be called exactly
// once, after the native solver that holds the token is freed.
func unpinBundle(h cgo.Handle, cell unsafe.Pointer) {
	C.free(cell)
	h.Delete()
}

// loadBundle reinterprets the opaque token back to the closure state. This
// is the only code permitted to do so.
func loadBundle(userData unsafe.Pointer) *rhsBundle {
	h := cgo.Handle(*(*C.uintptr_t)(userData))
	return h.Value().(*rhsBundle)
}

// panicStatus is returned to the integrator when a callback panics. A Go
// panic must not unwind through the native frames, so it is converted into a
// non-recoverable failure here.
const panicStatus = -1

//export cvodegoRhs
func cvodegoRhs(t C.realtype, y C.N_Vector, ydot C.N_Vector, userData unsafe.Pointer) (status C.int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("panic in RHS callback")
			status = panicStatus
		}
	}()
	b := loadBundle(userData)
	res := b.f(float64(t), vecView(y, b.n), vecView(ydot, b.n))
	return C.int(res.status())
}

//export cvodegoSensRhs
func cvodegoSensRhs(ns C.int, t C.realtype, y C.N_Vector, ydot C.N_Vector,
	yS *C.N_Vector, ySdot *C.N_Vector, userData unsafe.Pointer,
	tmp1 C.N_Vector, tmp2 C.N_Vector) (status C.int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("panic in sensitivity RHS callback")
			status = panicStatus
		}
	}()
	b := loadBundle(userData)
	ysv := unsafe.Slice(yS, b.nSensi)
	ysdv := unsafe.Slice(ySdot, b.nSensi)
	for i := 0; i < b.nSensi; i++ {
		b.ySViews[i] = vecView(ysv[i], b.n)
		b.ySdotViews[i] = vecView(ysdv[i], b.n)
	}
	res := b.fS(float64(t), vecView(y, b.n), vecView(ydot, b.n), b.ySViews, b.ySdotViews)
	return C.int(res.status())
}
