// Package apierr classifies failed backend requests into a small taxonomy and
// applies the global side effects tied to them.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Kind is the taxonomy of a failed request.
type Kind string

const (
	// KindAPI means the server responded with a non-2xx status.
	KindAPI Kind = "api_error"
	// KindNetwork means the request left the client but no response came back.
	KindNetwork Kind = "network_error"
	// KindClient means the request failed locally before being sent.
	KindClient Kind = "client_error"
)

var (
	// ErrUnauthorized matches api errors with status 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden matches api errors with status 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound matches api errors with status 404.
	ErrNotFound = errors.New("resource not found")

	// ErrBadRequest matches api errors with status 400.
	ErrBadRequest = errors.New("bad request")

	// ErrServer matches api errors with a 5xx status.
	ErrServer = errors.New("server error")

	// ErrNetwork matches every network_error.
	ErrNetwork = errors.New("network error")
)

// Fixed user-facing messages.
const (
	MsgUnauthorized = "Unauthorized. Please login again."
	MsgForbidden    = "You do not have permission to perform this action."
	MsgNotFound     = "Resource not found."
	MsgServer       = "Server error. Please try again later."
	MsgNetwork      = "Network error. Please check your connection."
	MsgUnexpected   = "An unexpected error occurred."
)

// Error is the structured record produced for every failed request.
type Error struct {
	ID        uuid.UUID
	Message   string
	Kind      Kind
	Code      int // HTTP status, 0 unless Kind is KindAPI
	Context   string
	Timestamp time.Time

	// Detail is the message extracted from the response body before any fixed
	// message replaced it.
	Detail string

	// Fields holds field-level validation messages keyed by field name.
	Fields map[string][]string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (%d %s)", e.Context, e.Message, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the status sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindAPI && e.Code == http.StatusUnauthorized
	case ErrForbidden:
		return e.Kind == KindAPI && e.Code == http.StatusForbidden
	case ErrNotFound:
		return e.Kind == KindAPI && e.Code == http.StatusNotFound
	case ErrBadRequest:
		return e.Kind == KindAPI && e.Code == http.StatusBadRequest
	case ErrServer:
		return e.Kind == KindAPI && e.Code >= 500
	}
	return false
}

// Field returns the joined messages for a field, or "".
func (e *Error) Field(name string) string {
	msgs := e.Fields[name]
	if len(msgs) == 0 {
		return ""
	}
	out := msgs[0]
	for _, m := range msgs[1:] {
		out += ", " + m
	}
	return out
}

// As extracts the classified record from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
