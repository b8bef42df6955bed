// Package apperr holds the error taxonomy surfaced to API callers.
package apperr

import (
	"context"
	"errors"
)

type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeValidation      Code = "BAD_USER_INPUT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

// Error is a user-visible failure. Message is safe to return to clients;
// Cause is for logs only.
type Error struct {
	Code    Code
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on code so errors.Is(err, apperr.Forbidden("")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Extensions is picked up by the GraphQL error formatter.
func (e *Error) Extensions() map[string]any {
	ext := map[string]any{"code": string(e.Code)}
	if e.Details != nil {
		ext["details"] = e.Details
	}
	return ext
}

func New(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }

func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

func Unauthenticated(msg string) *Error {
	if msg == "" {
		msg = "Not authenticated"
	}
	return New(CodeUnauthenticated, msg)
}

func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "Forbidden"
	}
	return New(CodeForbidden, msg)
}

func Validation(msg string) *Error { return New(CodeValidation, msg) }

// Invalid carries field-level details alongside the message.
func Invalid(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

func NotFound(msg string) *Error { return New(CodeNotFound, msg) }

func Internal(cause error) *Error {
	return Wrap(CodeInternal, "internal error", cause)
}

// CodeOf returns the code of err, treating deadlines as TIMEOUT and anything
// unclassified as INTERNAL_SERVER_ERROR.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	return CodeInternal
}

// Public converts any error into one safe to show a client. The second
// return value is true when the original error was not an *Error and should
// be logged.
func Public(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(CodeTimeout, "request timed out", err), true
	}
	return Internal(err), true
}
