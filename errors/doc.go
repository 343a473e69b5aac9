// Package errors provides structured error types for the rtti runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a member path, the type name involved and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindWrongType).
//		Path("outer", "x").
//		TypeName("app::Outer").
//		Detail("codec is %d bytes, field is %d", 1, 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseLookup, "type", "app::Widget")
//	err := errors.OutOfBounds(errors.PhaseLoad, path, 10, 5)
//
// Misuse of the runtime is not reported as an error value: Fail panics with
// a *FatalError, which Recover turns back into an error at a boundary.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
