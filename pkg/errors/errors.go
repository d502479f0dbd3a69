package errors

import "net/http"

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Field carries field-level detail for validation failures
	Field string `json:"field,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common errors
var (
	ErrInvalidRequest = NewAppError(http.StatusBadRequest, "Invalid request parameters")
	ErrUnauthorized   = NewAppError(http.StatusUnauthorized, "Unauthorized access")
	ErrNotFound       = NewAppError(http.StatusNotFound, "Resource not found")
	ErrConflict       = NewAppError(http.StatusConflict, "Resource already exists")
	ErrInternalServer = NewAppError(http.StatusInternalServerError, "Internal server error")
	ErrRateLimit      = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded")
)

// Validation creates a field-level validation error.
// Mapping creation rejects malformed targets and past expiry dates with these.
func Validation(field, msg string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: msg,
		Field:   field,
	}
}

// NotFound covers missing keys, expired keys and foreign-owner keys alike,
// so callers cannot tell them apart.
func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg)
}

// Conflict signals a unique-key collision on insert. Callers regenerate the
// key and retry a bounded number of times.
func Conflict(msg string) *AppError {
	return NewAppError(http.StatusConflict, msg)
}

func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, msg)
}

// IsNotFound reports whether err is an AppError with a 404 code.
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == http.StatusNotFound
}

// IsConflict reports whether err is an AppError with a 409 code.
func IsConflict(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == http.StatusConflict
}

// IsValidation reports whether err is an AppError with a 400 code.
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == http.StatusBadRequest
}
