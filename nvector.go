package cvode

/*
#include <nvector/nvector_serial.h>
*/
import "C"

import "unsafe"

// NVector owns a native serial vector of fixed length, allocated under a
// [Context]. The length is set at construction and never changes.
type NVector struct {
	raw C.N_Vector
	n   int
}

// NewNVector allocates a zero-filled vector of length n under ctx.
func NewNVector(n int, ctx *Context) (*NVector, error) {
	raw := C.N_VNew_Serial(C.sunindextype(n), ctx.raw)
	if raw == nil {
		return nil, &NullPointerError{Op: "N_VNew_Serial"}
	}
	C.N_VConst(0, raw)
	return &NVector{raw: raw, n: n}, nil
}

// NewNVectorFrom allocates a vector under ctx initialized with a copy of
// data.
func NewNVectorFrom(data []float64, ctx *Context) (*NVector, error) {
	v, err := NewNVector(len(data), ctx)
	if err != nil {
		return nil, err
	}
	copy(v.View(), data)
	return v, nil
}

// Len returns the vector's length.
func (v *NVector) Len() int { return v.n }

// View returns the vector's components as a slice backed directly by the
// native buffer; writes through it are visible to the integrator. The slice
// is valid only while v is alive.
func (v *NVector) View() []float64 {
	return vecView(v.raw, v.n)
}

// Free destroys the native vector. It must be called exactly once. Safe on a
// nil receiver.
func (v *NVector) Free() {
	if v == nil || v.raw == nil {
		return
	}
	C.N_VDestroy(v.raw)
	v.raw = nil
}

// vecView reinterprets a native vector's buffer as a Go slice of length n
// without copying. This is the only place native vector memory crosses into
// Go. It is sound because the serial N_Vector stores its components as a
// contiguous array of C doubles, which match Go's float64 in size and
// layout; n must be the vector's true allocated length.
func vecView(raw C.N_Vector, n int) []float64 {
	p := C.N_VGetArrayPointer(raw)
	return unsafe.Slice((*float64)(unsafe.Pointer(p)), n)
}
