package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operational error so the HTTP boundary can map it to a
// status code with an explicit match instead of sniffing error shapes.
type Kind string

const (
	// KindValidation covers bad input shape or constraint violations.
	KindValidation Kind = "VALIDATION"
	// KindAuth covers bad credentials and unauthenticated access.
	KindAuth Kind = "AUTH"
	// KindTokenExpired marks a session token past its expiry window.
	KindTokenExpired Kind = "TOKEN_EXPIRED"
	// KindTokenInvalid marks a malformed or badly signed session token.
	KindTokenInvalid Kind = "TOKEN_INVALID"
	// KindForbidden marks an authenticated principal lacking the required role.
	KindForbidden Kind = "FORBIDDEN"
	// KindNotFound marks a missing record or redeemed/expired reset token.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict marks a write conflicting with existing state.
	KindConflict Kind = "CONFLICT"
	// KindInternal marks non-operational faults. Detail never reaches clients
	// in production.
	KindInternal Kind = "INTERNAL"
)

// Error is an operational, user-facing error with a tagged kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the internal cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Operational reports whether the error is expected and safe to render
// to clients. Internal faults are not.
func (e *Error) Operational() bool {
	return e.Kind != KindInternal
}

// New creates a tagged error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a tagged error keeping the internal cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a KindValidation error.
func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Auth builds a KindAuth error.
func Auth(message string) *Error {
	return New(KindAuth, message)
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Conflict builds a KindConflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Internal wraps a non-operational fault behind an opaque message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "something went very wrong", Err: err}
}

// KindOf extracts the kind of err, or KindInternal when err carries no tag.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth, KindTokenExpired, KindTokenInvalid:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// StatusWord is the envelope status field: "fail" for client errors,
// "error" for server faults.
func (k Kind) StatusWord() string {
	if k.HTTPStatus() < http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

// ErrorResponse is the serialized error envelope.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
