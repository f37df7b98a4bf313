package apierr

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/marshallshelly/stockroom/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassify_MessagePriority(t *testing.T) {
	c := NewClassifier(nil, discardLogger())

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "detail wins", body: `{"detail":"d","message":"m","error":"e"}`, want: "d"},
		{name: "message next", body: `{"message":"m","error":"e"}`, want: "m"},
		{name: "error next", body: `{"error":"e","non_field_errors":["n"]}`, want: "e"},
		{name: "non field list", body: `{"non_field_errors":["first","second"]}`, want: "first"},
		{name: "non field string", body: `{"non_field_errors":"only"}`, want: "only"},
		{name: "boolean error ignored", body: `{"error":true,"message":null,"detail":null}`, want: "API Error: Bad Request"},
		{name: "empty body", body: ``, want: "API Error: Bad Request"},
		{name: "not json", body: `<html>oops</html>`, want: "API Error: Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := c.Classify("API Request", Failure{StatusCode: http.StatusBadRequest, Body: []byte(tt.body), Sent: true})
			assert.Equal(t, KindAPI, e.Kind)
			assert.Equal(t, http.StatusBadRequest, e.Code)
			assert.Equal(t, tt.want, e.Message)
		})
	}
}

func TestClassify_FixedMessages(t *testing.T) {
	c := NewClassifier(nil, discardLogger())
	body := []byte(`{"detail":"server said"}`)

	tests := []struct {
		code int
		want string
		is   error
	}{
		{http.StatusForbidden, MsgForbidden, ErrForbidden},
		{http.StatusNotFound, MsgNotFound, ErrNotFound},
		{http.StatusInternalServerError, MsgServer, ErrServer},
		{http.StatusConflict, "server said", nil},
		{http.StatusBadGateway, "server said", ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			e := c.Classify("ctx", Failure{StatusCode: tt.code, Body: body, Sent: true})
			assert.Equal(t, tt.want, e.Message)
			assert.Equal(t, "server said", e.Detail)
			if tt.is != nil {
				assert.ErrorIs(t, e, tt.is)
			}
		})
	}
}

func TestClassify_UnauthorizedInvalidatesSession(t *testing.T) {
	store := session.NewMemoryStore()
	sess := session.New(store)
	require.NoError(t, sess.Start(session.Tokens{Access: "a", Refresh: "r"}))

	redirected := false
	sess.OnInvalidate(func(r session.Reason) {
		redirected = r == session.ReasonUnauthorized
	})

	c := NewClassifier(sess, discardLogger())
	e := c.Classify("products", Failure{StatusCode: http.StatusUnauthorized, Body: []byte(`{"detail":"Token expired"}`), Sent: true})

	assert.Equal(t, MsgUnauthorized, e.Message)
	assert.Equal(t, "Token expired", e.Detail)
	assert.ErrorIs(t, e, ErrUnauthorized)
	assert.True(t, redirected)
	assert.Equal(t, session.Tokens{}, sess.Tokens())

	persisted, _ := store.Load()
	assert.True(t, persisted.Empty())
}

func TestClassify_NetworkAndClient(t *testing.T) {
	c := NewClassifier(nil, discardLogger())
	cause := errors.New("dial tcp: connection refused")

	n := c.Classify("ctx", Failure{Sent: true, Err: cause})
	assert.Equal(t, KindNetwork, n.Kind)
	assert.Equal(t, MsgNetwork, n.Message)
	assert.Equal(t, 0, n.Code)
	assert.ErrorIs(t, n, ErrNetwork)
	assert.ErrorIs(t, n, cause)

	cl := c.Classify("ctx", Failure{Err: errors.New("json: unsupported value")})
	assert.Equal(t, KindClient, cl.Kind)
	assert.Equal(t, "json: unsupported value", cl.Message)
	assert.False(t, errors.Is(cl, ErrNetwork))

	empty := c.Classify("ctx", Failure{})
	assert.Equal(t, MsgUnexpected, empty.Message)
}

func TestClassify_Fields(t *testing.T) {
	c := NewClassifier(nil, discardLogger())

	flat := c.Classify("ctx", Failure{StatusCode: 400, Body: []byte(`{"sku":["Product with SKU \"A1\" already exists."],"price":"Price can't be negative"}`)})
	assert.Equal(t, `Product with SKU "A1" already exists.`, flat.Field("sku"))
	assert.Equal(t, "Price can't be negative", flat.Field("price"))
	assert.Equal(t, "", flat.Field("name"))

	wrapped := c.Classify("ctx", Failure{StatusCode: 400, Body: []byte(`{"error":true,"status_code":400,"message":"Validation failed","errors":{"sku":["taken","again"]}}`)})
	assert.Equal(t, "Validation failed", wrapped.Message)
	assert.Equal(t, "taken, again", wrapped.Field("sku"))
	assert.NotContains(t, wrapped.Fields, "status_code")
}

func TestClassify_RecordMetadataAndLogging(t *testing.T) {
	var buf bytes.Buffer
	c := NewClassifier(nil, slog.New(slog.NewTextHandler(&buf, nil)))

	e := c.Classify("API Request", Failure{StatusCode: 404, Sent: true})
	assert.NotEqual(t, [16]byte{}, [16]byte(e.ID))
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "API Request", e.Context)
	assert.True(t, strings.Contains(e.Error(), "404"))

	logged := buf.String()
	assert.Contains(t, logged, "request failed")
	assert.Contains(t, logged, "kind=api_error")
	assert.Contains(t, logged, "code=404")

	got, ok := As(errors.Join(errors.New("outer"), e))
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)
}
