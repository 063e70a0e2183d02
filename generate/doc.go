// Package generate asks an OpenAI-compatible chat completion endpoint for
// a new puzzle and returns the raw reply text.
//
// The reply is untrusted: it may be wrapped in markup, use an older shape
// or be missing fields. Callers pass it through puzzle.Normalize before
// use. Calls are bounded by a timeout, rate limited and guarded by a
// circuit breaker; they are never retried here.
package generate
