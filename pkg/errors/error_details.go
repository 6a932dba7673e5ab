package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "symbol has invalid format".
	Message string

	// Code (required) is one of the ErrorCode values.
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string

	// Object (optional) is the related object the error occured on, if any.
	Object interface{}
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// NewErrorDetailsf creates a new ErrorDetails with a formatted message.
func NewErrorDetailsf(code ErrorCode, field, format string, args ...any) *ErrorDetails {
	return &ErrorDetails{
		Message: fmt.Sprintf(format, args...),
		Code:    string(code),
		Field:   field,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code string) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == code
}

// HasCode walks the wrapped chain of err and reports whether any ErrorDetails
// or BaseError in it carries code.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	var details *ErrorDetails
	if errors.As(err, &details) && details.Code == string(code) {
		return true
	}

	var base *BaseError
	if errors.As(err, &base) && base.IsAnyCodeEqual(string(code)) {
		return true
	}

	return false
}
