// Package errors provides the error categories surfaced to API clients.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the category of a failure.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrCodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	ErrCodeDispatchFailed   ErrorCode = "DISPATCH_FAILED"
	ErrCodeQueueFull        ErrorCode = "QUEUE_FULL"
	ErrCodeUnknownKind      ErrorCode = "UNKNOWN_KIND"
	ErrCodeUnknownAction    ErrorCode = "UNKNOWN_ACTION"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Error is the structured error returned by the builder, the resolver and the dispatchers.
type Error struct {
	Code    ErrorCode `json:"error"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a field that blocks submission.
func NewValidationError(field, message string) *Error {
	return &Error{
		Code:    ErrCodeValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewResolutionError reports a malformed entity identifier.
func NewResolutionError(entityID, message string) *Error {
	return &Error{
		Code:    ErrCodeResolutionFailed,
		Message: message,
		Details: fmt.Sprintf("entity: %q", entityID),
	}
}

// NewDispatchError wraps a failed outbound service call.
func NewDispatchError(service string, err error) *Error {
	return &Error{
		Code:    ErrCodeDispatchFailed,
		Message: "service call failed",
		Details: fmt.Sprintf("service: %s, error: %v", service, err),
		Err:     err,
	}
}

// NewInvalidJSONError reports a request body that is not a JSON object.
func NewInvalidJSONError(err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidJSON,
		Message: "request body must be a JSON object",
		Details: err.Error(),
		Err:     err,
	}
}

func NewQueueFullError(capacity int) *Error {
	return &Error{
		Code:    ErrCodeQueueFull,
		Message: "print queue is full",
		Details: fmt.Sprintf("capacity: %d", capacity),
	}
}

func NewUnknownKindError(kind string) *Error {
	return &Error{
		Code:    ErrCodeUnknownKind,
		Message: fmt.Sprintf("unknown print kind %q", kind),
	}
}

func NewUnknownActionError(action string) *Error {
	return &Error{
		Code:    ErrCodeUnknownAction,
		Message: fmt.Sprintf("unknown printer action %q", action),
	}
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case ErrCodeUnknownKind, ErrCodeUnknownAction:
		return http.StatusNotFound
	case ErrCodeResolutionFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeQueueFull:
		return http.StatusServiceUnavailable
	case ErrCodeDispatchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Normalize converts any error into an *Error so it can be rendered.
func Normalize(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    ErrCodeInternal,
		Message: "unexpected error",
		Details: err.Error(),
		Err:     err,
	}
}
