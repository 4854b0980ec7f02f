package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the failure categories omiros distinguishes
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Reconciliation errors
	ErrPreconditionNotFound ErrorCode = "PRECONDITION_NOT_FOUND"
	ErrQueryFailed          ErrorCode = "QUERY_FAILED"
	ErrParseFailed          ErrorCode = "PARSE_FAILED"
	ErrWriteFailed          ErrorCode = "WRITE_FAILED"
	ErrInstallFailed        ErrorCode = "INSTALL_FAILED"

	// Dotfile errors
	ErrSourceNotFound     ErrorCode = "SOURCE_NOT_FOUND"
	ErrFilesystemConflict ErrorCode = "FILESYSTEM_CONFLICT"
	ErrSymlinkCreate      ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate          ErrorCode = "DIR_CREATE"
)

// OmirosError represents a structured error with code and details
type OmirosError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OmirosError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OmirosError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OmirosError) Is(target error) bool {
	var targetErr *OmirosError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OmirosError with the given code and message
func New(code ErrorCode, message string) *OmirosError {
	return &OmirosError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OmirosError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OmirosError {
	return &OmirosError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OmirosError
func Wrap(err error, code ErrorCode, message string) *OmirosError {
	if err == nil {
		return nil
	}
	return &OmirosError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OmirosError {
	if err == nil {
		return nil
	}
	return &OmirosError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OmirosError) WithDetail(key string, value interface{}) *OmirosError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var omirosErr *OmirosError
	if errors.As(err, &omirosErr) {
		return omirosErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OmirosError
func GetErrorCode(err error) ErrorCode {
	var omirosErr *OmirosError
	if errors.As(err, &omirosErr) {
		return omirosErr.Code
	}
	return ErrUnknown
}
