package errors

import "fmt"

// FatalError is the panic value raised for misuse of the runtime: loading a
// registry twice, copying an uncopyable value, a constructor that fails
// while building a value, or an unresolved type collision.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string {
	return "rtti: fatal: " + e.Msg
}

// Fail aborts the current operation with a *FatalError panic.
func Fail(format string, args ...any) {
	panic(&FatalError{Msg: fmt.Sprintf(format, args...)})
}

// Recover converts a *FatalError panic into an error. Other panics are
// re-raised. Use with defer:
//
//	defer errors.Recover(&err)
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if fe, ok := r.(*FatalError); ok {
		*err = fe
		return
	}
	panic(r)
}
