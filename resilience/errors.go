package resilience

import "errors"

// Sentinel errors for guarded calls.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRateLimited is returned when no call budget is left for the period.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when a call exceeds its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)
