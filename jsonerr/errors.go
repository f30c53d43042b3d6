// Package jsonerr defines the failure taxonomy for json-codec.
//
// Every error returned by the parser, the formatter, or the value model maps
// to exactly one Kind, which lets callers and conformance vectors verify the
// failure classification rather than just "did it fail." Errors raised while
// scanning text carry the line and column where scanning stopped; errors from
// value-model misuse carry no position.
package jsonerr

import "fmt"

// Kind is a stable failure category.
type Kind string

// Syntax errors raised by the parser and, where detected, the formatter.
const (
	UnknownValueType            Kind = "UNKNOWN_VALUE_TYPE"
	ExpectedComma               Kind = "EXPECTED_COMMA"
	ExpectedString              Kind = "EXPECTED_STRING"
	ExpectedColon               Kind = "EXPECTED_COLON"
	DuplicateKey                Kind = "DUPLICATE_KEY"
	IllegalControlCharacter     Kind = "ILLEGAL_CONTROL_CHARACTER"
	UnterminatedString          Kind = "UNTERMINATED_STRING"
	InvalidNumber               Kind = "INVALID_NUMBER"
	UnknownLiteral              Kind = "UNKNOWN_LITERAL"
	EmptyInput                  Kind = "EMPTY_INPUT"
	WhitespaceOnlyInput         Kind = "WHITESPACE_ONLY_INPUT"
	UnexpectedTrailingCharacter Kind = "UNEXPECTED_TRAILING_CHARACTER"
	IncompleteInput             Kind = "INCOMPLETE_INPUT"
	PrematureClose              Kind = "PREMATURE_CLOSE"
	BoundExceeded               Kind = "BOUND_EXCEEDED"
)

// Unicode errors raised by the codec during escape decoding or serialization.
const (
	InvalidInput     Kind = "INVALID_INPUT"
	InvalidSurrogate Kind = "INVALID_SURROGATE"
	InvalidCodepoint Kind = "INVALID_CODEPOINT"
	InvalidUTF8      Kind = "INVALID_UTF8"
)

// Model-usage errors raised by the value model.
const (
	TypeMismatch    Kind = "TYPE_MISMATCH"
	IndexOutOfRange Kind = "INDEX_OUT_OF_RANGE"
	KeyNotFound     Kind = "KEY_NOT_FOUND"
	IntegerRange    Kind = "INTEGER_RANGE"
	NonFiniteNumber Kind = "NON_FINITE_NUMBER"
)

// ExitCode returns the process exit code for this kind when surfaced by a CLI.
func (k Kind) ExitCode() int {
	switch k {
	case TypeMismatch, IndexOutOfRange, KeyNotFound:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all json-codec failures.
//
// Line and Column are zero-based and are set to -1 when the error was not
// raised while scanning text.
type Error struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
	Cause   error
}

// Error implements the error interface. Positioned errors render in the
// fixed "JSON parsing error at line L, column C: reason" form so error text
// is deterministic and testable.
func (e *Error) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("JSON parsing error at line %d, column %d: %s",
			e.Line, e.Column, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a position-less Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Line: -1, Column: -1, Message: message}
}

// At creates an Error positioned at the given line and column.
func At(kind Kind, line, column int, message string) *Error {
	return &Error{Kind: kind, Line: line, Column: column, Message: message}
}

// Wrap creates a position-less Error wrapping an existing error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Line: -1, Column: -1, Message: message, Cause: cause}
}

// WrapAt creates a positioned Error wrapping an existing error.
func WrapAt(kind Kind, line, column int, message string, cause error) *Error {
	return &Error{Kind: kind, Line: line, Column: column, Message: message, Cause: cause}
}
