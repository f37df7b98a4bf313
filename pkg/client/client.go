// Package client is the gateway to the inventory REST backend. It attaches the
// bearer token, sends and decodes JSON, and hands every failure to the error
// classifier before returning it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marshallshelly/stockroom/pkg/apierr"
	"github.com/marshallshelly/stockroom/pkg/observability"
	"github.com/marshallshelly/stockroom/pkg/session"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the backend used when nothing is configured.
const DefaultBaseURL = "http://localhost:8000/api/"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Session is what the client needs from the session: read the token, and end
// the session on 401.
type Session interface {
	Token() string
	Invalidate(reason session.Reason) error
}

// Client sends requests to the backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    Session
	classifier *apierr.Classifier
	logger     *slog.Logger
	tracer     *observability.Tracer
	metrics    *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used by the client and its classifier.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTracerProvider enables request tracing.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = observability.NewTracer(tp)
	}
}

// WithMeterProvider enables request metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		c.metrics = observability.NewMetrics(mp)
	}
}

// New creates a client for baseURL. sess may be nil for anonymous use.
func New(baseURL string, sess Session, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    sess,
		logger:     slog.Default(),
		tracer:     observability.NewTracer(nil),
		metrics:    observability.NewMetrics(nil),
	}
	for _, opt := range opts {
		opt(c)
	}

	var inv apierr.Invalidator
	if sess != nil {
		inv = sess
	}
	c.classifier = apierr.NewClassifier(inv, c.logger)

	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do sends one request. body, when non-nil, is encoded as JSON; out, when
// non-nil, receives the decoded response. Every failure is an *apierr.Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	label := method + " " + strings.TrimPrefix(path, "/")
	requestID := uuid.NewString()

	ctx, span := c.tracer.StartRequest(ctx, method, path, requestID)

	req, err := c.newRequest(ctx, method, path, query, body, requestID)
	if err != nil {
		return c.fail(ctx, span, label, apierr.Failure{Err: err})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A request we abandoned ourselves never got a chance to be answered
		sent := !errors.Is(err, context.Canceled)
		return c.fail(ctx, span, label, apierr.Failure{Sent: sent, Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.metrics.RecordRequest(ctx, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return c.fail(ctx, span, label, apierr.Failure{Sent: true, Err: fmt.Errorf("failed to read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, span, label, apierr.Failure{
			StatusCode: resp.StatusCode,
			Body:       data,
			Sent:       true,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		})
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			observability.EndRequest(span, resp.StatusCode, string(apierr.KindClient))
			c.metrics.RecordError(ctx, string(apierr.KindClient))
			return c.classifier.Classify(label, apierr.Failure{Err: fmt.Errorf("failed to decode response: %w", err)})
		}
	}

	observability.EndRequest(span, resp.StatusCode, "")
	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, requestID string) (*http.Request, error) {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	target := c.baseURL.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, label string, f apierr.Failure) error {
	e := c.classifier.Classify(label, f)
	observability.EndRequest(span, e.Code, string(e.Kind))
	c.metrics.RecordError(ctx, string(e.Kind))
	return e
}

// idPath joins a collection path and an id with the trailing slash the
// backend expects.
func idPath(collection string, id int64) string {
	return fmt.Sprintf("%s%d/", collection, id)
}
