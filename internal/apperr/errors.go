package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error into one of the failure classes the API exposes.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindValidation
	KindConflict
	KindNotFound
)

// Error carries a caller-safe message plus an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Authentication builds a 401-class error (missing, invalid or expired token).
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization builds a 403-class error (role or capability mismatch).
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// Validation builds a 400-class error (malformed input, past-dated appointment, bad id).
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict builds a 409-class error (slot taken, duplicate unique field).
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound builds a 404-class error (absent or already removed entity).
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging but the
// message returned to callers stays generic outside development mode.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, defaulting to KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error to the HTTP status code of its class.
func Status(err error) int {
	switch KindOf(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to echo to a caller. Unclassified
// errors are collapsed to a generic message so internal detail never leaks.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}
