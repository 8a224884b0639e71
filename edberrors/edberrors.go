// Package edberrors defines the domain-level error kinds shared across the
// analysis, replay and evaluation pipeline (spec §7). Each Kind is a
// sentinel compared with errors.Is; an Error additionally carries the
// offending input (expression text, identifier name, file name) verbatim, as
// mandated by "user-visible failure" in spec §7.
//
// The shape mirrors the teacher's revert.Error: a concrete type implementing
// Unwrap so that both errors.Is(err, edberrors.KindKind) and inspection of
// the wrapped cause work.
package edberrors

import "fmt"

// Kind is a domain-level error classification; it is itself an error so that
// errors.Is(err, edberrors.DivisionByZero) works whether err is the sentinel
// itself or an *Error wrapping it.
type Kind string

// Error implements error for Kind, returning the kind name.
func (k Kind) Error() string { return string(k) }

// Kinds enumerated in spec §7.
const (
	MissingAST              Kind = "MissingAst"
	ASTConversion           Kind = "AstConversion"
	StepPartition           Kind = "StepPartition"
	InstrumentationOverlap  Kind = "InstrumentationOverlap"
	InstrumentedCompileFail Kind = "InstrumentedCompileFailed"
	SnapshotOutOfRange      Kind = "SnapshotOutOfRange"
	FrameUnknown            Kind = "FrameUnknown"
	DivisionByZero          Kind = "DivisionByZero"
	ModuloByZero            Kind = "ModuloByZero"
	InvalidTypeForOp        Kind = "InvalidTypeForOp"
	UnresolvedIdentifier    Kind = "UnresolvedIdentifier"
	NoHandlerConfigured     Kind = "NoHandlerConfigured"
	IncompatibleCast        Kind = "IncompatibleCast"
	InvalidUTF8             Kind = "InvalidUtf8"
	BreakpointAmbiguous     Kind = "BreakpointAmbiguous"
	BreakpointInvalidLoc    Kind = "BreakpointInvalidLocation"
	Timeout                 Kind = "Timeout"
	Cancelled               Kind = "Cancelled"
)

// Error pairs a Kind with the offending input and an optional wrapped cause.
type Error struct {
	Kind  Kind
	Input string // expression text / identifier / file name, verbatim
	Err   error  // optional underlying cause
}

// New returns an *Error of the given kind, annotated with the offending
// input. It does not wrap a cause; use Wrap for that.
func New(kind Kind, input string) *Error {
	return &Error{Kind: kind, Input: input}
}

// Wrap returns an *Error of the given kind, annotated with the offending
// input and wrapping cause.
func Wrap(kind Kind, input string, cause error) *Error {
	return &Error{Kind: kind, Input: input, Err: cause}
}

// Error implements error, preserving both the kind and the offending input
// verbatim (spec §7).
func (e *Error) Error() string {
	if e.Input == "" && e.Err == nil {
		return string(e.Kind)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %q", e.Kind, e.Input)
	}
	if e.Input == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %q: %v", e.Kind, e.Input, e.Err)
}

// Unwrap returns the wrapped Kind so errors.Is(err, someKind) succeeds, and
// also exposes the underlying cause, if any, via a second path: callers that
// need the cause use errors.As to obtain *Error and read Err directly.
func (e *Error) Unwrap() error { return e.Kind }

var _ error = (*Error)(nil)
