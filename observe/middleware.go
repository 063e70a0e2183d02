package observe

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Middleware wraps HTTP handlers with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Handler returns a thread-safe http.Handler.
//   - Context: the request context carries the server span into the handler,
//     parented on any inbound trace context the global propagator extracts.
//   - Ownership: requests and responses pass through unmodified.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Tracer returns the middleware's tracer, for sharing with other components.
func (m *Middleware) Tracer() Tracer { return m.tracer }

// Metrics returns the middleware's metrics.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger { return m.logger }

// Handler wraps next, labelling telemetry with route.
func (m *Middleware) Handler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := m.tracer.StartSpan(ctx, SpanMeta{
			Name: "http " + route,
			Kind: trace.SpanKindServer,
		})

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		duration := time.Since(start)

		var err error
		if rec.status >= http.StatusInternalServerError {
			err = errStatus(rec.status)
		}
		m.tracer.EndSpan(span, err)
		m.metrics.RecordRequest(ctx, route, rec.status, duration)

		fields := []Field{
			F("method", r.Method),
			F("route", route),
			F("status", rec.status),
			F("duration_ms", float64(duration.Milliseconds())),
		}
		if err != nil {
			m.logger.Error(ctx, "request failed", fields...)
		} else {
			m.logger.Debug(ctx, "request completed", fields...)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

type errStatus int

func (e errStatus) Error() string {
	return "http status " + http.StatusText(int(e))
}
