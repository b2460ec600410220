package bytestr

import (
	"errors"
	"fmt"
)

// Error represents a toolkit contract violation.
//
// Contract violations are programmer errors, detected before any allocation
// or copying happens:
//   - Absent input: a zero-value ByteString passed where a value is required
//   - Range violation: an offset or count outside the documented bounds
//
// Error includes structured fields for diagnostics; the CLI layer decides
// how to present them.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that rejected its input ("substring", etc).
	Op string

	// Message is a human-readable description of the violated precondition.
	Message string
}

// ErrorCode categorizes toolkit errors.
type ErrorCode string

const (
	// CodeInvalidArgument indicates an absent buffer where one is required.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeOutOfRange indicates an index or length precondition violation.
	CodeOutOfRange ErrorCode = "OUT_OF_RANGE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument returns true if the error is an absent-input violation.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == CodeInvalidArgument
	}
	return false
}

// IsOutOfRange returns true if the error is a range precondition violation.
// Uses errors.As to handle wrapped errors.
func IsOutOfRange(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == CodeOutOfRange
	}
	return false
}

func invalidArgument(op, msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Op: op, Message: msg}
}

func outOfRange(op, msg string) *Error {
	return &Error{Code: CodeOutOfRange, Op: op, Message: msg}
}
