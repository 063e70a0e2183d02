package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SpanMeta describes one traced unit of work.
type SpanMeta struct {
	Name string         // Operation name, e.g. "lookup", "generate", "store.write"
	Day  string         // Day key the work is for (optional)
	Kind trace.SpanKind // Defaults to internal
}

// SpanName returns the deterministic span name: puzzle.<name>.
func (m SpanMeta) SpanName() string {
	return "puzzle." + m.Name
}

// Tracer wraps OpenTelemetry tracing with puzzle-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for the described work.
	StartSpan(ctx context.Context, meta SpanMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta SpanMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("puzzle.operation", meta.Name),
		attribute.Bool("puzzle.error", false),
	}
	if meta.Day != "" {
		attrs = append(attrs, attribute.String("puzzle.day", meta.Day))
	}

	kind := meta.Kind
	if kind == trace.SpanKindUnspecified {
		kind = trace.SpanKindInternal
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("puzzle.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NopTracer returns a tracer whose spans record nothing.
func NopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta SpanMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}

func spanContext(ctx context.Context) trace.SpanContext {
	if ctx == nil {
		return trace.SpanContext{}
	}
	return trace.SpanContextFromContext(ctx)
}
