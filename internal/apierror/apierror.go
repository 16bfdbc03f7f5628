// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a business error so handlers can map it to an HTTP status
// without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindForbidden
	KindUnauthorized
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Kind   Kind   `json:"-"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string { return e.Detail }

// Status returns the HTTP status code for the error kind.
func (e *APIError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(msg string) *APIError { return &APIError{Kind: KindInternal, Detail: msg} }

func NotFound(msg string) *APIError     { return &APIError{Kind: KindNotFound, Detail: msg} }
func Conflict(msg string) *APIError     { return &APIError{Kind: KindConflict, Detail: msg} }
func Validation(msg string) *APIError   { return &APIError{Kind: KindValidation, Detail: msg} }
func Forbidden(msg string) *APIError    { return &APIError{Kind: KindForbidden, Detail: msg} }
func Unauthorized(msg string) *APIError { return &APIError{Kind: KindUnauthorized, Detail: msg} }

// From converts any error into an *APIError. Unknown errors become a generic
// internal error so raw DB messages never reach clients.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: KindInternal, Detail: "Error interno del servidor"}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
