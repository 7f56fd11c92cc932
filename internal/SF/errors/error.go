package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the failure class of a check or engine operation.
// Codes are never conflated: a conversion failure, a code-generation
// failure and an evaluation failure are three different codes.
type ErrorCode int32

const (
	EC_OK       ErrorCode = 0 // no error
	EC_ERROR    ErrorCode = 1 // generic failure
	EC_INTERNAL ErrorCode = 2 // invariant violated inside the engine
	EC_CONVERT  ErrorCode = 3 // host literal has no internal representation
	EC_CODEGEN  ErrorCode = 4 // projection compilation failed
	EC_EVAL     ErrorCode = 5 // expression raised during evaluation
	EC_MISMATCH ErrorCode = 6 // backend result differs from expected value
	EC_OPTIMIZE ErrorCode = 7 // optimize-then-evaluate path failed or diverged
	EC_RANGE    ErrorCode = 8 // value outside the caller-supplied tolerance band
	EC_MISUSE   ErrorCode = 9 // harness API used incorrectly
)

var codeNames = map[ErrorCode]string{
	EC_OK:       "EC_OK",
	EC_ERROR:    "EC_ERROR",
	EC_INTERNAL: "EC_INTERNAL",
	EC_CONVERT:  "EC_CONVERT",
	EC_CODEGEN:  "EC_CODEGEN",
	EC_EVAL:     "EC_EVAL",
	EC_MISMATCH: "EC_MISMATCH",
	EC_OPTIMIZE: "EC_OPTIMIZE",
	EC_RANGE:    "EC_RANGE",
	EC_MISUSE:   "EC_MISUSE",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("EC_UNKNOWN(%d)", int32(c))
}

// Error is the coded error carried through the engine and the harness.
// Detail holds auxiliary diagnostic text, e.g. the generated program
// listing for EC_CODEGEN failures.
type Error struct {
	Code    ErrorCode
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Code.String() + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates an Error with a fixed message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping a cause.
func Wrap(code ErrorCode, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithDetail returns a copy of err carrying the given detail text. A
// non-coded error is promoted to EC_ERROR first.
func WithDetail(err error, detail string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Code: e.Code, Message: e.Message, Detail: detail, Err: e.Err}
	}
	return &Error{Code: EC_ERROR, Message: err.Error(), Detail: detail}
}

// ErrorCodeOf returns the ErrorCode of err, or EC_OK for nil and
// EC_ERROR for non-coded errors.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return EC_OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EC_ERROR
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return ErrorCodeOf(err) == code
}

// DetailOf returns the first non-empty diagnostic detail text in the
// error chain, if any.
func DetailOf(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Detail != "" {
			return e.Detail
		}
		err = errors.Unwrap(err)
	}
	return ""
}
