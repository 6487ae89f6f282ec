// Package apperror defines the error kinds surfaced by the identity and
// catalog services and how they map onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind uint8

const (
	// KindInternal is an unexpected storage or configuration failure.
	KindInternal Kind = iota
	// KindValidation is malformed or missing input.
	KindValidation
	// KindConflict is a uniqueness violation such as a duplicate email.
	KindConflict
	// KindAuth is a credential or token failure.
	KindAuth
	// KindNotFound is a missing theme or saved record.
	KindNotFound
	// KindAuthorization means the caller does not own the resource.
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Error carries a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so sentinel values
// can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation reports malformed or missing input (400).
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict reports a uniqueness clash such as a taken email (409).
func Conflict(message string) *Error { return New(KindConflict, message) }

// Auth reports missing or rejected credentials (401).
func Auth(message string) *Error { return New(KindAuth, message) }

// NotFound reports a missing resource (404).
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Authorization reports an authenticated caller acting on something it does
// not own (403).
func Authorization(message string) *Error { return New(KindAuthorization, message) }

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal server error", err)
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind onto the status code returned to clients.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client. Internal errors
// never leak their cause.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}
