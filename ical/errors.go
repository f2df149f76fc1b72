package ical

import (
	"errors"
	"fmt"
)

// ErrorType classifies codec errors
type ErrorType string

const (
	// Structural errors abort the whole parse
	ErrDanglingContinuation ErrorType = "dangling_continuation"
	ErrMalformedProperty    ErrorType = "malformed_property"
	ErrUnbalancedComponent  ErrorType = "unbalanced_component"

	// Property-level errors are recovered locally
	ErrInvalidValue ErrorType = "invalid_value"

	// Recurrence errors
	ErrConflictingTerminator ErrorType = "conflicting_terminator"
	ErrUnknownFrequency      ErrorType = "unknown_frequency"
)

// Error represents a codec error with its source position where known
type Error struct {
	Type    ErrorType
	Message string
	Line    int // 1-based logical line number, 0 if unknown
	Err     error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: line %d: %s: %v", e.Type, e.Line, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: line %d: %s", e.Type, e.Line, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsType reports whether err is a codec *Error of the given type
func IsType(err error, t ErrorType) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Type == t
}

func newError(t ErrorType, line int, format string, args ...any) *Error {
	return &Error{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}
