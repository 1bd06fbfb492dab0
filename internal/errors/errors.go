package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced by the services matches exactly one of
// these through errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("conflict")
	ErrAuthentication      = errors.New("authentication error")
	ErrAuthorization       = errors.New("authorization error")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInternal            = errors.New("internal error")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
)

// Error is a classified error with a message that is safe to show callers.
// Cause holds the underlying failure for logging and is never rendered.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// New returns a classified error with a public message.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns a classified error that keeps cause for logging.
func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Internal classifies an unexpected failure. The public message is fixed.
func Internal(cause error) *Error {
	return Wrap(ErrInternal, "Internal server error", cause)
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}
