package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an error so the HTTP boundary can map it to a status
// code without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindUnavailable
)

// Error codes used in API responses
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Error is the failure type returned by services. Message is always
// written for the caller: it names the current status, the conflicting
// user, or whatever else is needed to resolve the condition.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and formatted message
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records an underlying cause
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Constructors for each kind

func InvalidInput(format string, args ...interface{}) *Error {
	return New(KindInvalidInput, format, args...)
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return New(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(KindInvalidState, format, args...)
}

func Unavailable(err error, format string, args ...interface{}) *Error {
	return Wrap(KindUnavailable, err, format, args...)
}

// KindOf returns the kind of err, or KindInternal when err is not an
// *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// APIError is the JSON error body sent to clients
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func codeFor(kind Kind) (int, string) {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest, ErrCodeInvalidInput
	case KindUnauthenticated:
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case KindForbidden:
		return http.StatusForbidden, ErrCodeForbidden
	case KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case KindInvalidState:
		return http.StatusConflict, ErrCodeInvalidState
	case KindUnavailable:
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// Respond writes err as a JSON error response. Unclassified errors
// become a generic 500 so internal details never leak to clients.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, APIError{
			Code:    ErrCodeInternalError,
			Message: "Internal server error",
		})
		return
	}

	status, code := codeFor(appErr.Kind)
	message := appErr.Message
	if appErr.Kind == KindUnavailable {
		// Transient backend failures are retryable; the cause stays in
		// the server log, not the response.
		message = "Service temporarily unavailable. Please try again."
	}
	c.JSON(status, APIError{Code: code, Message: message})
}
