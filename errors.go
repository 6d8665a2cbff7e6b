package cvode

import "fmt"

// NullPointerError reports a native allocator that returned a null handle
// during construction.
type NullPointerError struct {
	Op string
}

func (e *NullPointerError) Error() string {
	return fmt.Sprintf("cvode: %s returned a null pointer", e.Op)
}

// CodeError reports a native call that returned a non-success status. The
// raw code is preserved for diagnostics; CVODES codes are negative on
// failure.
type CodeError struct {
	Op   string
	Code int
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("cvode: %s failed with code %d", e.Op, e.Code)
}

// checkStatus translates a native status flag into the package error
// taxonomy. Zero is the only success value for the calls this package makes
// (no stop times or root functions are registered).
func checkStatus(flag int, op string) error {
	if flag == 0 {
		return nil
	}
	return &CodeError{Op: op, Code: flag}
}
