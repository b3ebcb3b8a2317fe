// Package errors defines the error taxonomy of the filament accounting engine.
// Every failure surfaced by the engine carries one of the codes below so that
// callers can branch on the kind of failure with the standard errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// CodeIncompleteMeasurement is returned when a record has neither weight nor length.
	CodeIncompleteMeasurement ErrorCode = "INCOMPLETE_MEASUREMENT"

	// CodeNoActiveSpool is returned when an operation needs a spool but none was ever created.
	CodeNoActiveSpool ErrorCode = "NO_ACTIVE_SPOOL"

	// CodeStorageFailure wraps any read or write rejected by the database.
	CodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	// CodeAmbiguousSchemaState is returned when the table existence check
	// reports a count other than 0 or 1.
	CodeAmbiguousSchemaState ErrorCode = "AMBIGUOUS_SCHEMA_STATE"

	// CodeInvalidInput covers caller mistakes such as negative durations.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// AppError is an error tagged with an ErrorCode.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Sentinels for errors.Is. Matching compares codes only, so any AppError
// carrying the same code matches regardless of message or cause.
var (
	ErrIncompleteMeasurement = New(CodeIncompleteMeasurement, "weight and length are both missing")
	ErrNoActiveSpool         = New(CodeNoActiveSpool, "no spool has been created yet")
	ErrStorageFailure        = New(CodeStorageFailure, "storage operation failed")
	ErrAmbiguousSchemaState  = New(CodeAmbiguousSchemaState, "ambiguous schema state")
	ErrInvalidInput          = New(CodeInvalidInput, "invalid input")
)

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Storage wraps a database error as a storage failure. A nil err yields nil,
// and errors that already carry a code are returned unchanged.
func Storage(message string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := CodeOf(err); ok {
		return err
	}
	return Wrap(CodeStorageFailure, message, err)
}

// CodeOf returns the code of the first AppError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
