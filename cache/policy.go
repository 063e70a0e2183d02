package cache

import "time"

// DefaultStoreTimeout bounds each durable-tier call.
const DefaultStoreTimeout = 10 * time.Second

// Policy configures the orchestrator's consistency behavior.
type Policy struct {
	// SingleFlight collapses concurrent misses for the same day key into
	// one fill. Waiters still honor their own context.
	SingleFlight bool

	// StoreTimeout bounds each durable-tier call. Zero means no bound
	// beyond the caller's context.
	StoreTimeout time.Duration
}

// DefaultPolicy returns the default policy.
// SingleFlight: true, StoreTimeout: 10 seconds
func DefaultPolicy() Policy {
	return Policy{
		SingleFlight: true,
		StoreTimeout: DefaultStoreTimeout,
	}
}

// AtLeastOncePolicy returns a policy where every concurrent miss generates
// and writes independently.
func AtLeastOncePolicy() Policy {
	return Policy{
		SingleFlight: false,
		StoreTimeout: DefaultStoreTimeout,
	}
}
