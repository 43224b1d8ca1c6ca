// Package errors provides structured error types for the pcdecode module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes the program name, the byte offset into the bytecode buffer,
// the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncated).
//		Program("PSOPRDEFN.OPRID.FieldChange").
//		Position(212).
//		Detail("packed number needs %d bytes", 18).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(pos, 18, 3)
//	err := errors.ReferenceNotFound(7)
//
// The decoder surfaces two kinds to callers. Match them with the sentinels:
//
//	if errors.Is(err, pcerrors.ErrDecode) { ... }
//	if errors.Is(err, pcerrors.ErrReferenceNotFound) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
