package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Source names the tier that satisfied a puzzle lookup.
type Source string

const (
	SourceMemory    Source = "memory"
	SourceStore     Source = "store"
	SourceGenerated Source = "generated"
	// SourceNone marks a lookup that failed before any tier produced a puzzle.
	SourceNone Source = "none"
)

// Metrics records puzzle service metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one orchestrated lookup and where it was served from.
	RecordLookup(ctx context.Context, source Source, duration time.Duration, err error)

	// RecordGeneration records one call to the puzzle generator.
	RecordGeneration(ctx context.Context, duration time.Duration, err error)

	// RecordRequest records one HTTP request.
	RecordRequest(ctx context.Context, route string, status int, duration time.Duration)
}

type metricsImpl struct {
	lookupCount      metric.Int64Counter
	lookupErrors     metric.Int64Counter
	lookupDuration   metric.Float64Histogram
	generateCount    metric.Int64Counter
	generateErrors   metric.Int64Counter
	generateDuration metric.Float64Histogram
	requestCount     metric.Int64Counter
	requestDuration  metric.Float64Histogram
}

// NewMetrics creates the service instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m := &metricsImpl{}
	var err error

	if m.lookupCount, err = meter.Int64Counter(
		"puzzle.lookup.total",
		metric.WithDescription("Total number of puzzle lookups"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if m.lookupErrors, err = meter.Int64Counter(
		"puzzle.lookup.errors",
		metric.WithDescription("Total number of failed puzzle lookups"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if m.lookupDuration, err = meter.Float64Histogram(
		"puzzle.lookup.duration_ms",
		metric.WithDescription("Puzzle lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.generateCount, err = meter.Int64Counter(
		"puzzle.generate.total",
		metric.WithDescription("Total number of generator calls"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if m.generateErrors, err = meter.Int64Counter(
		"puzzle.generate.errors",
		metric.WithDescription("Total number of failed generator calls"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if m.generateDuration, err = meter.Float64Histogram(
		"puzzle.generate.duration_ms",
		metric.WithDescription("Generator call duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.requestCount, err = meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.requestDuration, err = meter.Float64Histogram(
		"http.server.duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, source Source, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("puzzle.source", string(source)))

	m.lookupCount.Add(ctx, 1, opt)
	if err != nil {
		m.lookupErrors.Add(ctx, 1, opt)
	}
	m.lookupDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordGeneration(ctx context.Context, duration time.Duration, err error) {
	m.generateCount.Add(ctx, 1)
	if err != nil {
		m.generateErrors.Add(ctx, 1)
	}
	m.generateDuration.Record(ctx, float64(duration.Milliseconds()))
}

func (m *metricsImpl) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.String("http.status_code", strconv.Itoa(status)),
	)
	m.requestCount.Add(ctx, 1, opt)
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordLookup(context.Context, Source, time.Duration, error) {}
func (noopMetrics) RecordGeneration(context.Context, time.Duration, error)     {}
func (noopMetrics) RecordRequest(context.Context, string, int, time.Duration)  {}
