// Package observe provides the service's telemetry: a structured JSON
// logger, OpenTelemetry tracing and metrics for puzzle lookups and
// generations, and HTTP middleware that ties them to requests.
//
// Everything degrades to no-ops when disabled, so components can always
// take a Logger, Tracer and Metrics without nil checks.
package observe
