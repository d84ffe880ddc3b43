// Package apperr defines the portal's error taxonomy. Every failure that can
// reach a handler carries an HTTP status and a stable machine-readable code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeConfiguration  = "configuration_error"
	CodeAuthentication = "authentication_error"
	CodeStoreRead      = "store_read_error"
	CodeStoreWrite     = "store_write_error"
	CodeValidation     = "validation_error"
	CodeDuplicate      = "duplicate_registration"
	CodeRateLimited    = "rate_limited"
	CodeUnauthorized   = "unauthorized"
	CodeNotFound       = "not_found"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error without changing what callers see.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func Configuration(message string) *Error {
	return New(http.StatusInternalServerError, CodeConfiguration, message)
}

func Authentication(message string) *Error {
	return New(http.StatusInternalServerError, CodeAuthentication, message)
}

func StoreRead(message string) *Error {
	return New(http.StatusInternalServerError, CodeStoreRead, message)
}

func StoreWrite(message string) *Error {
	return New(http.StatusInternalServerError, CodeStoreWrite, message)
}

// Validation returns a 400 with per-field detail, e.g. {"email": "malformed"}.
func Validation(message string, fields map[string]string) *Error {
	e := New(http.StatusBadRequest, CodeValidation, message)
	if len(fields) > 0 {
		e.Details = fields
	}
	return e
}

func Duplicate(message string) *Error {
	return New(http.StatusConflict, CodeDuplicate, message)
}

func RateLimited(message string) *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

// From extracts an *Error from err, wrapping unknown errors as a plain 500.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error", cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
