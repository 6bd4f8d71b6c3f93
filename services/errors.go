package services

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// ErrorKind classifies service failures so the HTTP layer can map them to
// status codes without inspecting messages.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
)

// Error is a typed service error carrying a human-readable reason.
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Reason: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Reason: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

// FromDBError converts known database failures into service errors: a
// unique-index violation becomes Conflict with the given reason, so a lost
// check-then-create race still surfaces as 409. Other errors pass through
// unchanged.
func FromDBError(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict(format, args...)
	}
	return err
}

// KindOf returns the kind of a service error, or 0 for other errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// StatusCode maps a service error onto an HTTP status. Unknown errors map
// to 500 so they surface through the app error handler.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
