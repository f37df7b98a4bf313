// Package observability provides OpenTelemetry instrumentation for outbound
// backend requests.
//
// Tracing and metrics are opt-in. When no provider is configured, no-op
// implementations are used.
package observability

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName identifies spans and instruments from this module.
const InstrumentationName = "github.com/marshallshelly/stockroom"

// Attribute keys.
const (
	AttrMethod     = "http.request.method"
	AttrPath       = "url.path"
	AttrStatusCode = "http.response.status_code"
	AttrErrorKind  = "stockroom.error.kind"
	AttrRequestID  = "stockroom.request_id"
	AttrView       = "stockroom.view"
)

// Tracer wraps an OpenTelemetry tracer.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from tp, or a no-op tracer when tp is nil.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(InstrumentationName)}
}

// StartRequest starts a client span for one backend call.
func (t *Tracer) StartRequest(ctx context.Context, method, path, requestID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "stockroom.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrMethod, method),
			attribute.String(AttrPath, path),
			attribute.String(AttrRequestID, requestID),
		),
	)
}

// StartView starts a span around an aggregation cycle.
func (t *Tracer) StartView(ctx context.Context, view string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "stockroom.view", trace.WithAttributes(attribute.String(AttrView, view)))
}

// EndRequest records the outcome on span and ends it.
func EndRequest(span trace.Span, statusCode int, errKind string) {
	if statusCode != 0 {
		span.SetAttributes(attribute.Int(AttrStatusCode, statusCode))
	}
	if errKind != "" {
		span.SetAttributes(attribute.String(AttrErrorKind, errKind))
		span.SetStatus(codes.Error, errKind)
	} else if statusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(statusCode))
	}
	span.End()
}

// Metrics holds the request instruments.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	errorCount      metric.Int64Counter
}

// NewMetrics creates instruments from mp, or no-op ones when mp is nil.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)
	m := &Metrics{}

	var err error
	m.requestDuration, err = meter.Float64Histogram(
		"stockroom.request.duration",
		metric.WithDescription("Duration of backend requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.requestDuration, _ = metricnoop.NewMeterProvider().Meter("").Float64Histogram("stockroom.request.duration")
	}

	m.requestCount, err = meter.Int64Counter(
		"stockroom.request.count",
		metric.WithDescription("Total number of backend requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.requestCount, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("stockroom.request.count")
	}

	m.errorCount, err = meter.Int64Counter(
		"stockroom.error.count",
		metric.WithDescription("Failed backend requests by error kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("stockroom.error.count")
	}

	return m
}

// RecordRequest records one finished request.
func (m *Metrics) RecordRequest(ctx context.Context, method string, statusCode int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.Int(AttrStatusCode, statusCode),
	)
	m.requestCount.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, float64(d.Microseconds())/1000, attrs)
}

// RecordError counts a classified failure.
func (m *Metrics) RecordError(ctx context.Context, kind string) {
	m.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrErrorKind, kind)))
}
