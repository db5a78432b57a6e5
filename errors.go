package qnty

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Error codes
// ============================================================

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Dimensional analysis
	CodeDimensionMismatch Code = "DIMENSION_MISMATCH"
	CodeArithmeticGuard   Code = "ARITHMETIC_GUARD"

	// Lookup
	CodeUnknownUnit     Code = "UNKNOWN_UNIT"
	CodeUnknownVariable Code = "UNKNOWN_VARIABLE"
	CodeDuplicateUnit   Code = "DUPLICATE_UNIT"
	CodeInvalidUnit     Code = "INVALID_UNIT"

	// Evaluation and solving
	CodeEvaluation              Code = "EVALUATION_FAILED"
	CodeUnsupportedEquationForm Code = "UNSUPPORTED_EQUATION_FORM"

	// Decoding
	CodeInvalidExpression Code = "INVALID_EXPRESSION"
	CodeInvalidDocument   Code = "INVALID_DOCUMENT"
)

// Sentinels for errors.Is; matching is by code.
var (
	ErrDimensionMismatch       = &Error{Code: CodeDimensionMismatch, Message: "dimension mismatch"}
	ErrArithmeticGuard         = &Error{Code: CodeArithmeticGuard, Message: "arithmetic guard"}
	ErrUnknownUnit             = &Error{Code: CodeUnknownUnit, Message: "unknown unit"}
	ErrUnknownVariable         = &Error{Code: CodeUnknownVariable, Message: "unknown variable"}
	ErrDuplicateUnit           = &Error{Code: CodeDuplicateUnit, Message: "duplicate unit"}
	ErrInvalidUnit             = &Error{Code: CodeInvalidUnit, Message: "invalid unit"}
	ErrEvaluation              = &Error{Code: CodeEvaluation, Message: "evaluation failed"}
	ErrUnsupportedEquationForm = &Error{Code: CodeUnsupportedEquationForm, Message: "equation form not supported"}
	ErrInvalidExpression       = &Error{Code: CodeInvalidExpression, Message: "invalid expression"}
	ErrInvalidDocument         = &Error{Code: CodeInvalidDocument, Message: "invalid document"}
)

// ============================================================
// Error
// ============================================================

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Offending names, available names, units
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func withMeta(code Code, metadata map[string]string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Metadata: metadata}
}

func wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsExpected reports whether err belongs to the failure classes that residual
// checks, constant folding and the solver treat as a normal negative outcome:
// missing bindings and incompatible or unknown units. Anything else, arithmetic
// guards included, must propagate.
func IsExpected(err error) bool {
	switch CodeOf(err) {
	case CodeUnknownVariable, CodeEvaluation, CodeDimensionMismatch, CodeUnknownUnit:
		return true
	}
	return false
}

// isFoldable is the wider set constant folding tolerates: a guard tripping on a
// constant subtree leaves it unfolded so the failure surfaces at evaluation.
func isFoldable(err error) bool {
	return IsExpected(err) || CodeOf(err) == CodeArithmeticGuard
}

func dimensionMismatch(op string, a, b Signature) *Error {
	return withMeta(CodeDimensionMismatch,
		map[string]string{"op": op, "left": a.String(), "right": b.String()},
		"cannot %s %s and %s", op, a, b)
}

func signatureOverflow(op string, operands ...Signature) *Error {
	parts := make([]string, len(operands))
	for i, sig := range operands {
		parts[i] = sig.String()
	}
	return withMeta(CodeArithmeticGuard,
		map[string]string{"op": op, "operands": strings.Join(parts, ",")},
		"%s of %s overflows the dimension encoding", op, strings.Join(parts, " and "))
}

func joinNames(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
