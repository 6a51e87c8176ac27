// Package apperror defines the domain error taxonomy shared by services
// and handlers. Services return these; handlers translate them to HTTP
// status codes with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	// ErrConflict is reserved. Like/follow/repost are idempotent, so a
	// repeat is success, not a conflict; nothing raises this today.
	ErrConflict = errors.New("conflict")
	ErrStore    = errors.New("store failure")
)

type AppError struct {
	Err     error  // sentinel, matched by errors.Is
	Message string // human-readable message
	Field   string // optional: field causing a validation error
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

// Store wraps a database error. The underlying cause stays reachable via
// errors.Is/As for logging; callers only see the generic sentinel.
func Store(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrStore, op, cause),
		Message: "something went wrong",
	}
}
