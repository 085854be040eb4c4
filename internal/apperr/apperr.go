// Package apperr defines the error kinds surfaced by the service layer.
// Handlers translate a Kind into an HTTP status; nothing below the service
// layer should construct these errors.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// Internal covers unexpected persistence or infrastructure faults.
	Internal Kind = iota
	MissingField
	InvalidInput
	Conflict
	Unauthenticated
	Forbidden
	NotFound
)

func (k Kind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case MissingField, InvalidInput:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind and a client-safe message. Err keeps the underlying
// cause for logging and is never serialized.
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

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches cause to a new error of the given kind.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or Internal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-safe message for err. Errors that are not
// *Error are reported generically so internal details never leak.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
