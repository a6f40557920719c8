package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrUpstream   = errors.New("upstream unavailable")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Upstream returns an AppError for a failed call to an external service.
// The cause is kept in the message for logs; handlers only expose the service name.
// HTTP handlers map this to 502 Bad Gateway.
func Upstream(service string, cause error) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: fmt.Sprintf("%s unavailable: %v", service, cause),
		Field:   service,
	}
}

// Error kinds sent in the "error" field of a Response.
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found"
	KindUpstream   = "upstream_unavailable"
	KindInternal   = "internal_error"
)

// Response is the JSON body of every error answer, whether it comes from a
// handler or from middleware that rejects a request early.
type Response struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}
