// Package apperrors defines the typed errors the workflow layer returns.
// Handlers map these to HTTP responses; anything else becomes a generic 500.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation is missing or malformed required input (HTTP 400).
	KindValidation Kind = iota + 1
	// KindNotFound is a referenced account/request/trip that does not exist (HTTP 404).
	KindNotFound
	// KindAuth is a failed credential check: OTP mismatch, expired code,
	// bad token (HTTP 400 or 401).
	KindAuth
	// KindDependency is a storage or email collaborator failure on the
	// critical path (HTTP 502).
	KindDependency
	// KindConflict is a uniqueness violation such as an already-taken
	// username (HTTP 409).
	KindConflict
	// KindRateLimited is a resend/cooldown rejection (HTTP 429).
	KindRateLimited
)

// Error carries an HTTP status and a user-facing message.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidation returns a 400 validation error.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: message}
}

// NewNotFound returns a 404 not-found error.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

// NewAuth returns a 400 auth failure (OTP mismatch, expired code).
func NewAuth(message string) *Error {
	return &Error{Kind: KindAuth, StatusCode: http.StatusBadRequest, Message: message}
}

// NewUnauthorized returns a 401 auth failure (missing or invalid token).
func NewUnauthorized(message string) *Error {
	return &Error{Kind: KindAuth, StatusCode: http.StatusUnauthorized, Message: message}
}

// NewDependency returns a 502 for a collaborator failure that could not be
// papered over (upload, email dispatch, store write).
func NewDependency(message string) *Error {
	return &Error{Kind: KindDependency, StatusCode: http.StatusBadGateway, Message: message}
}

// NewConflict returns a 409 for an already-existing unique value.
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message}
}

// NewRateLimited returns a 429 for a resend attempt inside the cooldown window.
func NewRateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, StatusCode: http.StatusTooManyRequests, Message: message}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
