package derivative

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/arllen133/derivative"
	meterName  = "github.com/arllen133/derivative"
)

// Metrics holds the OpenTelemetry metric instruments
type Metrics struct {
	DeclCount    metric.Int64Counter
	DeclDuration metric.Float64Histogram
	DeclErrors   metric.Int64Counter
}

// ObservabilityConfig holds logging, tracing, and metrics configuration
type ObservabilityConfig struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *Metrics
}

// WithLogger sets the logger for the compiler
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.obs.Logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer for the compiler
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Compiler) {
		c.obs.Tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer
func WithDefaultTracer() Option {
	return func(c *Compiler) {
		c.obs.Tracer = otel.Tracer(tracerName)
	}
}

// WithMeter sets the OpenTelemetry meter for metrics
func WithMeter(meter metric.Meter) Option {
	return func(c *Compiler) {
		c.obs.Meter = meter
		c.obs.Metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter
func WithDefaultMeter() Option {
	return func(c *Compiler) {
		meter := otel.Meter(meterName)
		c.obs.Meter = meter
		c.obs.Metrics = initMetrics(meter)
	}
}

// initMetrics creates all metric instruments
func initMetrics(meter metric.Meter) *Metrics {
	declCount, _ := meter.Int64Counter("derivative.decl.count",
		metric.WithDescription("Total number of declarations compiled"),
		metric.WithUnit("{declaration}"),
	)

	declDuration, _ := meter.Float64Histogram("derivative.decl.duration",
		metric.WithDescription("Declaration compile duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50),
	)

	declErrors, _ := meter.Int64Counter("derivative.decl.errors",
		metric.WithDescription("Total number of rejected declarations"),
		metric.WithUnit("{error}"),
	)

	return &Metrics{
		DeclCount:    declCount,
		DeclDuration: declDuration,
		DeclErrors:   declErrors,
	}
}

// spanWrapper wraps a trace.Span to handle nil spans gracefully
type spanWrapper struct {
	span trace.Span
}

func (w spanWrapper) End() {
	if w.span != nil {
		w.span.End()
	}
}

func (w spanWrapper) RecordError(err error) {
	if w.span != nil {
		w.span.RecordError(err)
	}
}

func (w spanWrapper) SetStatus(code codes.Code, description string) {
	if w.span != nil {
		w.span.SetStatus(code, description)
	}
}

func (w spanWrapper) SetAttributes(kv ...attribute.KeyValue) {
	if w.span != nil {
		w.span.SetAttributes(kv...)
	}
}

// startSpan starts a new span if tracing is enabled
func (c *Compiler) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, spanWrapper) {
	if c.obs.Tracer == nil {
		return ctx, spanWrapper{nil}
	}
	ctx, span := c.obs.Tracer.Start(ctx, name, opts...)
	return ctx, spanWrapper{span}
}

// recordMetrics records declaration metrics if metrics are enabled
func (c *Compiler) recordMetrics(ctx context.Context, pkg string, duration time.Duration, err error) {
	if c.obs.Metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("derivative.package", pkg),
		attribute.String("derivative.namespace", c.namespace),
	)

	c.obs.Metrics.DeclCount.Add(ctx, 1, attrs)
	c.obs.Metrics.DeclDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)

	if err != nil {
		c.obs.Metrics.DeclErrors.Add(ctx, 1, attrs)
	}
}

// logDecl logs the outcome of one declaration
func (c *Compiler) logDecl(ctx context.Context, decl Declaration, duration time.Duration, err error) {
	if c.obs.Logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("package", decl.Package),
		slog.String("type", decl.Name),
		slog.Duration("duration", duration),
	}

	if err != nil {
		c.obs.Logger.LogAttrs(ctx, slog.LevelError, "declaration rejected", append(attrs, slog.String("error", err.Error()))...)
		return
	}

	c.obs.Logger.LogAttrs(ctx, slog.LevelDebug, "declaration compiled", attrs...)
}
