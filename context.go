package cvode

/*
#cgo LDFLAGS: -lsundials_cvodes -lsundials_nvecserial -lsundials_sunmatrixdense -lsundials_sunlinsoldense -lm
#include <sundials/sundials_context.h>
*/
import "C"

// Context owns a SUNDIALS execution context. Every other native object is
// created under exactly one Context, which must outlive all of them.
type Context struct {
	raw C.SUNContext
}

// NewContext allocates a native execution context.
func NewContext() (*Context, error) {
	var raw C.SUNContext
	if err := checkStatus(int(C.SUNContext_Create(nil, &raw)), "SUNContext_Create"); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &NullPointerError{Op: "SUNContext_Create"}
	}
	return &Context{raw: raw}, nil
}

// Free releases the context. It must be called exactly once, after every
// object created under the context is gone. Failures during teardown have no
// recovery path and are only logged. Safe on a nil receiver.
func (c *Context) Free() {
	if c == nil || c.raw == nil {
		return
	}
	if flag := C.SUNContext_Free(&c.raw); flag != 0 {
		logger.Warn().Int("code", int(flag)).Msg("SUNContext_Free failed")
	}
	c.raw = nil
}
