package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error carrying the HTTP status the transport layer should
// answer with, plus an optional wrapped cause that is never exposed to users.
type AppError struct {
	Code    int    // HTTP status code (e.g., 403, 404)
	Message string // User-facing error message
	Err     error  // Underlying cause, if any
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StatusOf extracts the HTTP status code from err. Errors that are not
// AppErrors map to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
