package ocl

import (
	"errors"
	"fmt"
)

// ParseError reports a failure to parse expression text.
// Pos is a zero-based rune offset into the input.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

// EvalErrorKind categorizes runtime evaluation failures.
type EvalErrorKind string

const (
	// ErrKindTypeMismatch indicates an operator applied to incompatible types.
	ErrKindTypeMismatch EvalErrorKind = "TYPE_MISMATCH"

	// ErrKindUndefinedReference indicates an unknown name in the expression.
	ErrKindUndefinedReference EvalErrorKind = "UNDEFINED_REFERENCE"

	// ErrKindMissingProperty indicates property navigation on a value that
	// has no properties.
	ErrKindMissingProperty EvalErrorKind = "MISSING_PROPERTY"

	// ErrKindNotCallable indicates an unknown or inapplicable operation.
	ErrKindNotCallable EvalErrorKind = "NOT_CALLABLE"

	// ErrKindArithmetic indicates a numeric failure such as division by zero
	// or an out-of-range collection index.
	ErrKindArithmetic EvalErrorKind = "ARITHMETIC"
)

// EvalError reports a runtime failure while evaluating a syntactically
// valid expression against real data.
type EvalError struct {
	Kind    EvalErrorKind
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func evalErrorf(kind EvalErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsEvalError reports whether err is (or wraps) an EvalError.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}

// FriendlyMessage turns a parse or evaluation error into the human-readable
// form surfaced in validation dialogs. Unknown errors pass through verbatim.
func FriendlyMessage(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("Syntax error at position %d: %s", pe.Pos, pe.Message)
	}
	var ee *EvalError
	if errors.As(err, &ee) {
		switch ee.Kind {
		case ErrKindTypeMismatch:
			return "Type mismatch: " + ee.Message
		case ErrKindUndefinedReference:
			return "Undefined reference: " + ee.Message
		case ErrKindMissingProperty:
			return "Missing property: " + ee.Message
		case ErrKindNotCallable:
			return "Operation not callable: " + ee.Message
		default:
			return ee.Message
		}
	}
	return err.Error()
}
