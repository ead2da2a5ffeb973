package errs

import "fmt"

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: kind.String(), Message: message}
}

// NotFound builds a 404 error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, message)
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message)
}

// BadRequest builds a 400 error, optionally with per-field failures.
func BadRequest(message string, fields []FieldError) *Error {
	e := newError(KindBadRequest, message)
	e.Fields = fields
	return e
}

func TooManyRequests(message string) *Error {
	return newError(KindTooManyRequests, message)
}

// Conflict builds a 409 error. cause is kept for logs only.
func Conflict(message, code string, cause error) *Error {
	e := newError(KindConflict, message)
	if code != "" {
		e.Code = code
	}
	e.cause = cause
	return e
}

// Internal wraps an unexpected failure. The client only sees the status text.
func Internal(cause error) *Error {
	e := newError(KindInternal, "internal error")
	e.cause = cause
	return e
}

// Wrap attaches cause to a copy of e.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}
