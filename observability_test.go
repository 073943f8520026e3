package derivative_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/arllen133/derivative"
)

// recordingTracer remembers the names of the spans it starts.
type recordingTracer struct {
	embedded.Tracer

	mu    sync.Mutex
	names []string
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()
	return tracenoop.NewTracerProvider().Tracer("").Start(ctx, name, opts...)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := derivative.NewCompiler(derivative.WithLogger(logger))
	c.CompilePackage(context.Background(), testDecls(t))

	out := buf.String()
	if !strings.Contains(out, "declaration rejected") {
		t.Errorf("expected rejection log, got: %s", out)
	}
	if !strings.Contains(out, "type=Broken") {
		t.Errorf("expected rejected type in log, got: %s", out)
	}
	if !strings.Contains(out, "declaration compiled") {
		t.Errorf("expected debug log for compiled declarations, got: %s", out)
	}
}

func TestWithLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	c := derivative.NewCompiler(derivative.WithLogger(logger))
	c.CompilePackage(context.Background(), testDecls(t))

	if strings.Contains(buf.String(), "declaration compiled") {
		t.Errorf("expected no debug output at warn level, got: %s", buf.String())
	}
}

func TestWithTracer(t *testing.T) {
	tracer := &recordingTracer{}
	c := derivative.NewCompiler(derivative.WithTracer(tracer), derivative.WithWorkers(2))
	c.CompilePackage(context.Background(), testDecls(t))

	var pkgSpans, typeSpans int
	for _, name := range tracer.names {
		switch name {
		case "derivative.compile.package":
			pkgSpans++
		case "derivative.compile.type":
			typeSpans++
		default:
			t.Errorf("unexpected span %q", name)
		}
	}
	if pkgSpans != 1 || typeSpans != 3 {
		t.Errorf("expected 1 package span and 3 type spans, got %d and %d", pkgSpans, typeSpans)
	}
}

func TestWithDefaultTracer(t *testing.T) {
	// Just test that it doesn't panic
	c := derivative.NewCompiler(derivative.WithDefaultTracer())
	res := c.CompileType(context.Background(), testDecls(t)[0])
	if res.Err != nil {
		t.Fatalf("failed to compile with tracer: %v", res.Err)
	}
}

func TestWithMeter(t *testing.T) {
	c := derivative.NewCompiler(derivative.WithMeter(noop.NewMeterProvider().Meter("test")))
	results := c.CompilePackage(context.Background(), testDecls(t))
	if results[0].Err != nil {
		t.Fatalf("failed to compile with meter: %v", results[0].Err)
	}
}

func TestCombinedObservability(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := derivative.NewCompiler(
		derivative.WithLogger(logger),
		derivative.WithDefaultTracer(),
		derivative.WithDefaultMeter(),
	)
	results := c.CompilePackage(context.Background(), testDecls(t))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Just verify no panics and some logging occurred
	if buf.Len() == 0 {
		t.Error("expected some log output")
	}
}
