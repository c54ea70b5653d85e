package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrStatusNotApplied = errors.New("requested status not applied")
	ErrRowBusy          = errors.New("order has a status change in flight")
	ErrSubmitInFlight   = errors.New("submission already in flight")
	ErrNoRefreshToken   = errors.New("no refresh token stored")
)

// ValidationError is raised locally before any network call, or when the
// backend returns field-level validation details.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// NewValidationError builds a field-less validation error.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthError carries the backend message of a rejected login or reset.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError is a generic failed operation. Message prefers the backend
// text and falls back to the transport error.
type RequestError struct {
	Op      string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

// NetworkError means no response was obtained from the backend.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the request deadline elapsed before a response arrived.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return "request timed out: " + e.Err.Error() }

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx backend reply. Body may be empty.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string { return fmt.Sprintf("backend responded with status %d", e.Status) }

// IsUnauthorized reports whether err carries a backend 401.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == 401
}
