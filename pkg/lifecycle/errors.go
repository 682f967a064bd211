// Package lifecycle is a client-side controller for the task assignment
// lifecycle. It keeps a local snapshot of the caller's tasks, applies status
// transitions through the HTTP API with optimistic pre-validation, and gates
// review submission on the assignment being finished and unreviewed.
package lifecycle

import (
	"errors"
	"fmt"
)

// Kind classifies a controller failure so callers can branch on it.
type Kind string

const (
	// KindNetwork covers transport failures: the request never produced an
	// HTTP response.
	KindNetwork Kind = "NetworkError"
	// KindStateConflict covers transitions rejected because the assignment
	// moved, locally or server-side (HTTP 409).
	KindStateConflict Kind = "StateConflict"
	// KindUnauthorized covers expired or invalid credentials (HTTP 401).
	KindUnauthorized Kind = "Unauthorized"
	// KindValidation covers input the caller can fix before retrying.
	KindValidation Kind = "ValidationError"
	// KindServer covers 5xx responses.
	KindServer Kind = "ServerError"
	// KindInFlight marks a transition suppressed because another one for the
	// same task is still running. Nothing was sent.
	KindInFlight Kind = "InFlightSuppressed"
)

// Error is a classified controller failure.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status when the server answered, 0 otherwise
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or "" when err is not a controller error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
