package apierr

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/marshallshelly/stockroom/pkg/session"
)

// Failure describes a request that did not succeed.
type Failure struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Body       []byte

	// Sent is true once the request left the client.
	Sent bool
	Err  error
}

// Invalidator ends the current session.
type Invalidator interface {
	Invalidate(reason session.Reason) error
}

// Classifier turns failures into Error records. One classifier is shared by
// every request of a client.
type Classifier struct {
	session Invalidator
	logger  *slog.Logger
	now     func() time.Time
}

// NewClassifier creates a classifier. A nil logger uses slog.Default.
func NewClassifier(sess Invalidator, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		session: sess,
		logger:  logger,
		now:     time.Now,
	}
}

// Classify builds the record for f, logs it and applies the 401 side effect.
// The returned record is the error callers must propagate.
func (c *Classifier) Classify(context string, f Failure) *Error {
	e := &Error{
		ID:        uuid.New(),
		Context:   context,
		Timestamp: c.now().UTC(),
		Err:       f.Err,
	}

	switch {
	case f.StatusCode != 0:
		e.Kind = KindAPI
		e.Code = f.StatusCode
		e.Detail, e.Fields = parseBody(f.Body)
		e.Message = e.Detail
		if e.Message == "" {
			e.Message = "API Error: " + http.StatusText(f.StatusCode)
		}

		switch f.StatusCode {
		case http.StatusUnauthorized:
			e.Message = MsgUnauthorized
			if c.session != nil {
				if err := c.session.Invalidate(session.ReasonUnauthorized); err != nil {
					c.logger.Warn("failed to clear session", "error", err)
				}
			}
		case http.StatusForbidden:
			e.Message = MsgForbidden
		case http.StatusNotFound:
			e.Message = MsgNotFound
		case http.StatusInternalServerError:
			e.Message = MsgServer
		}

	case f.Sent:
		e.Kind = KindNetwork
		e.Message = MsgNetwork

	default:
		e.Kind = KindClient
		e.Message = MsgUnexpected
		if f.Err != nil && f.Err.Error() != "" {
			e.Message = f.Err.Error()
		}
	}

	attrs := []any{
		"error_id", e.ID.String(),
		"context", e.Context,
		"kind", string(e.Kind),
		"message", e.Message,
	}
	if e.Code != 0 {
		attrs = append(attrs, "code", e.Code)
	}
	if f.Err != nil {
		attrs = append(attrs, "cause", f.Err.Error())
	}
	c.logger.Error("request failed", attrs...)

	return e
}

// reserved keys are never treated as form fields.
var reserved = map[string]bool{
	"detail":           true,
	"message":          true,
	"error":            true,
	"non_field_errors": true,
	"status_code":      true,
	"errors":           true,
	"type":             true,
}

// parseBody extracts the display message in priority order detail, message,
// error, non_field_errors[0], and any field-level messages.
func parseBody(body []byte) (string, map[string][]string) {
	if len(body) == 0 {
		return "", nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", nil
	}

	var msg string
	for _, key := range []string{"detail", "message", "error", "non_field_errors"} {
		if m := firstString(obj[key]); m != "" {
			msg = m
			break
		}
	}

	fields := collectFields(obj)

	// The original exception handler nests field errors under "errors"
	if raw, ok := obj["errors"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			for k, v := range collectFields(nested) {
				if fields == nil {
					fields = map[string][]string{}
				}
				fields[k] = v
			}
		}
	}

	return msg, fields
}

func collectFields(obj map[string]json.RawMessage) map[string][]string {
	var fields map[string][]string
	for k, raw := range obj {
		if reserved[k] {
			continue
		}
		msgs := messages(raw)
		if len(msgs) == 0 {
			continue
		}
		if fields == nil {
			fields = map[string][]string{}
		}
		fields[k] = msgs
	}
	return fields
}

// firstString returns raw as a string, or its first element when it is a
// list of strings. Anything else yields "".
func firstString(raw json.RawMessage) string {
	msgs := messages(raw)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

func messages(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, m := range list {
			if m != "" {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
