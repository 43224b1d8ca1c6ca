package errors

import (
	"fmt"
	"io"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // bytecode to text
	PhaseResolve Phase = "resolve" // symbol table lookups
	PhaseLoad    Phase = "load"    // manifest and symbol file loading
	PhaseBatch   Phase = "batch"   // worker pool execution
	PhaseVerify  Phase = "verify"  // comparison against a stored copy
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated         Kind = "truncated"
	KindReferenceNotFound Kind = "reference_not_found"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidUTF16      Kind = "invalid_utf16"
	KindNotFound          Kind = "not_found"
	KindMismatch          Kind = "mismatch"
	KindCanceled          Kind = "canceled"
)

// Sentinels for errors.Is. Matching uses Phase and Kind only.
var (
	// ErrDecode matches every buffer underrun raised while decoding.
	ErrDecode = &Error{Phase: PhaseDecode, Kind: KindTruncated}

	// ErrReferenceNotFound matches every unresolved symbol index.
	ErrReferenceNotFound = &Error{Phase: PhaseResolve, Kind: KindReferenceNotFound}

	// ErrMismatch matches verification failures.
	ErrMismatch = &Error{Phase: PhaseVerify, Kind: KindMismatch}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Program  string
	Detail   string
	Position int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Program != "" {
		b.WriteString(" in ")
		b.WriteString(e.Program)
	}

	if e.Position > 0 {
		fmt.Fprintf(&b, " at offset %d", e.Position)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
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

// Program sets the name of the program being processed
func (b *Builder) Program(name string) *Builder {
	b.err.Program = name
	return b
}

// Position sets the byte offset into the program buffer
func (b *Builder) Position(pos int) *Builder {
	b.err.Position = pos
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

// Truncated creates a buffer underrun error: want bytes were needed at pos
// but only have remained.
func Truncated(pos, want, have int) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindTruncated,
		Position: pos,
		Detail:   fmt.Sprintf("need %d bytes, %d remaining", want, have),
		Value:    want,
		Cause:    io.ErrUnexpectedEOF,
	}
}

// ReferenceNotFound creates an unresolved symbol error
func ReferenceNotFound(index int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindReferenceNotFound,
		Detail: fmt.Sprintf("symbol index %d not in table", index),
		Value:  index,
	}
}

// InvalidUTF16 creates an error for undecodable string payloads
func InvalidUTF16(pos int, data []byte, cause error) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInvalidUTF16,
		Position: pos,
		Detail:   fmt.Sprintf("invalid UTF-16 sequence: %x", preview),
		Cause:    cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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

// Mismatch creates a verification error for the first differing line
func Mismatch(program string, line int, got, want string) *Error {
	return &Error{
		Phase:   PhaseVerify,
		Kind:    KindMismatch,
		Program: program,
		Detail:  fmt.Sprintf("line %d: got %q, want %q", line, got, want),
		Value:   line,
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

// Load creates a manifest or symbol file loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// InProgram wraps err with the name of the program that produced it. Structured
// errors are copied so the sentinel matching in Is keeps working.
func InProgram(name string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		c := *e
		c.Program = name
		return &c
	}
	return &Error{
		Phase:   PhaseBatch,
		Kind:    KindInvalidData,
		Program: name,
		Cause:   err,
	}
}
