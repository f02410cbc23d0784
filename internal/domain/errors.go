package domain

import (
	"errors"
	"fmt"
)

// Code classifies an operation failure so callers can distinguish
// "nothing happened" validation errors from post-charge inconsistencies.
type Code string

const (
	CodeNotFound              Code = "NOT_FOUND"
	CodeUnauthenticated       Code = "UNAUTHENTICATED"
	CodeConflict              Code = "CONFLICT"
	CodeInvalidAmount         Code = "INVALID_AMOUNT"
	CodePreconditionFailed    Code = "PRECONDITION_FAILED"
	CodeRiskDenied            Code = "RISK_DENIED"
	CodeNoProcessorConfigured Code = "NO_PROCESSOR_CONFIGURED"
	CodeProcessorDeclined     Code = "PROCESSOR_DECLINED"
	CodePersistence           Code = "PERSISTENCE_ERROR"
	CodePartialFailure        Code = "PARTIAL_FAILURE"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func E(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Ef(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the classification of err, or CodePersistence for
// unclassified errors reaching a boundary.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodePersistence
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}
