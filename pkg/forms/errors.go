// Package forms validates user input before it is sent to the backend and
// turns backend failures into the inline messages shown next to a form.
package forms

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/marshallshelly/stockroom/pkg/apierr"
)

// ErrInvalid matches every ValidationError.
var ErrInvalid = errors.New("invalid input")

// ValidationError reports the first rule a form broke.
type ValidationError struct {
	// Field is empty for messages that concern the whole form.
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Inline messages shared by several forms.
const (
	MsgConnect    = "Unable to connect to server. Please check your internet connection."
	MsgTryAgain   = "An unexpected error occurred. Please try again."
	MsgLoginEmpty = "Login failed: invalid response"
)

// serverMessage picks the message a form shows for err: the server's own
// text when it sent one, fallback when it answered without one.
func serverMessage(err error, fallback string) string {
	e, ok := apierr.As(err)
	if !ok {
		return MsgTryAgain
	}
	switch e.Kind {
	case apierr.KindAPI:
		if e.Detail != "" {
			return e.Detail
		}
		return fallback
	case apierr.KindNetwork:
		return MsgConnect
	default:
		return MsgTryAgain
	}
}

func isBadRequest(err error) (*apierr.Error, bool) {
	e, ok := apierr.As(err)
	if !ok || e.Kind != apierr.KindAPI || e.Code != http.StatusBadRequest {
		return nil, false
	}
	return e, true
}
