package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the domain error type carried across service boundaries. Every
// service failure surfaces one of these; the HTTP layer turns it into a
// `{"message": ...}` body using Code as the status (400 when unset).
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status for the error, defaulting to 400.
func (e *Error) Status() int {
	if e.Code == 0 {
		return http.StatusBadRequest
	}
	return e.Code
}

// NewValidation reports bad or missing input.
func NewValidation(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

// NewConflict reports a duplicate unique key, e.g. an email already in use.
func NewConflict(message string) *Error {
	return &Error{Code: http.StatusConflict, Message: message}
}

// NewNotFound reports a missing entity or slug.
func NewNotFound(message string) *Error {
	return &Error{Code: http.StatusNotFound, Message: message}
}

// NewForbidden reports a missing permission.
func NewForbidden(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message}
}

// NewUnauthenticated reports bad credentials or a missing session.
func NewUnauthenticated(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

// WrapUpstream wraps a store/blob/hasher failure, keeping the original
// cause reachable via Unwrap. The wrapped message is prefixed so the
// source of the failure is visible in logs. Code stays 500 unless the
// cause already carries one.
func WrapUpstream(err error, message string) *Error {
	var domain *Error
	if errors.As(err, &domain) {
		return &Error{Code: domain.Code, Message: fmt.Sprintf("%s: %s", message, domain.Message), Err: err}
	}
	return &Error{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	var domain *Error
	return errors.As(err, &domain) && domain.Code == http.StatusConflict
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var domain *Error
	return errors.As(err, &domain) && domain.Code == http.StatusNotFound
}
