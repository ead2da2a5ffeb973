// Package errs defines the domain error type returned by services.
//
// Every error leaving a service is an *Error with a Kind. Transports map the
// kind to a status code (HTTP or gRPC) and render only the client-facing
// message and field errors; the underlying cause is kept for logs.
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

var kindStatus = map[Kind]int{
	KindInternal:     http.StatusInternalServerError,
	KindBadRequest:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,

	KindTooManyRequests: http.StatusTooManyRequests,
}

var kindCode = map[Kind]codes.Code{
	KindInternal:     codes.Internal,
	KindBadRequest:   codes.InvalidArgument,
	KindUnauthorized: codes.Unauthenticated,
	KindForbidden:    codes.PermissionDenied,
	KindNotFound:     codes.NotFound,
	KindConflict:     codes.AlreadyExists,

	KindTooManyRequests: codes.ResourceExhausted,
}

func (k Kind) String() string {
	return MakeUpperCaseWithUnderscores(http.StatusText(k.Status()))
}

// Status returns the HTTP status code of the kind.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FieldError is a field-level validation failure.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind, so errors.Is(err, errs.ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) Status() int { return e.Kind.Status() }

// GRPCStatus lets status.FromError recognise domain errors.
func (e *Error) GRPCStatus() *status.Status {
	c, ok := kindCode[e.Kind]
	if !ok {
		c = codes.Internal
	}
	return status.New(c, e.Message)
}

// Public returns the message as a client may see it. Internal errors never
// expose their message.
func (e *Error) Public() string {
	if e.Kind == KindInternal {
		return http.StatusText(http.StatusInternalServerError)
	}
	return e.Message
}

// MakeUpperCaseWithUnderscores turns "Not Found" into "NOT_FOUND".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// Sentinels for errors.Is checks.
var (
	ErrInternal     = &Error{Kind: KindInternal}
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
)

// Response is the JSON body of every failed request.
type Response struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Response renders e for the client.
func (e *Error) Response() Response {
	return Response{
		Code:    e.Code,
		Message: e.Public(),
		Status:  e.Status(),
		Errors:  e.Fields,
	}
}
