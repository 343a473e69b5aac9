package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // descriptor stream ingestion
	PhaseRegister Phase = "register" // descriptor batch registration
	PhaseLookup   Phase = "lookup"   // registry queries
	PhaseValue    Phase = "value"    // value construction and lifecycle
	PhaseCast     Phase = "cast"     // pointer adjustment
	PhaseAccess   Phase = "access"   // field access and invocation
	PhaseBundle   Phase = "bundle"   // bundle files
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindCouldNotReflect Kind = "could_not_reflect"
	KindInvalidType     Kind = "invalid_type"
	KindNoDefaultCtor   Kind = "no_default_ctor"
	KindNotFound        Kind = "not_found"
	KindIsNotBitField   Kind = "is_not_bit_field"
	KindIsBitField      Kind = "is_bit_field"
	KindCouldNotCast    Kind = "could_not_cast"
	KindWrongType       Kind = "wrong_type"
	KindCollision       Kind = "collision"
	KindInvalidData     Kind = "invalid_data"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindAllocation      Kind = "allocation"
)

// Sentinels for errors.Is checks that only care about the kind.
var (
	ErrCouldNotReflect = &Error{Kind: KindCouldNotReflect}
	ErrInvalidType     = &Error{Kind: KindInvalidType}
	ErrNoDefaultCtor   = &Error{Kind: KindNoDefaultCtor}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrIsNotBitField   = &Error{Kind: KindIsNotBitField}
	ErrIsBitField      = &Error{Kind: KindIsBitField}
	ErrCouldNotCast    = &Error{Kind: KindCouldNotCast}
	ErrWrongType       = &Error{Kind: KindWrongType}
	ErrCollision       = &Error{Kind: KindCollision}
	ErrInvalidData     = &Error{Kind: KindInvalidData}
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && t.Phase != e.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the name of the type involved
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// CouldNotReflect creates an error for an id that does not resolve
func CouldNotReflect(phase Phase, id any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCouldNotReflect,
		Detail: fmt.Sprintf("no descriptor for type id %v", id),
		Value:  id,
	}
}

// InvalidType creates an error for a type that cannot be used for an operation
func InvalidType(phase Phase, typeName, why string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidType,
		TypeName: typeName,
		Detail:   why,
	}
}

// NoDefaultCtor creates an error for a record without a default constructor
func NoDefaultCtor(phase Phase, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNoDefaultCtor,
		TypeName: typeName,
		Detail:   "no default constructor",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NoPath creates a not-found error for unrelated record types
func NoPath(from, to string) *Error {
	return &Error{
		Phase:  PhaseCast,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("no inheritance path from %s to %s", from, to),
	}
}

// WrongType creates an error for a read whose shape does not match
func WrongType(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWrongType,
		Path:   path,
		Detail: fmt.Sprintf("want %s, got %s", want, got),
	}
}

// BitField creates an error for a field whose bit-field-ness is wrong for the
// requested access
func BitField(path []string, isBitField bool) *Error {
	if isBitField {
		return &Error{
			Phase:  PhaseAccess,
			Kind:   KindIsBitField,
			Path:   path,
			Detail: "field is a bit field",
		}
	}
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindIsNotBitField,
		Path:   path,
		Detail: "field is not a bit field",
	}
}

// Collision creates a type collision error naming both candidates
func Collision(a, b string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindCollision,
		Detail: fmt.Sprintf("collision between %s and %s", a, b),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a stream ingestion error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
