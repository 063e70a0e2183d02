// Package resilience guards calls to slow or unreliable collaborators,
// chiefly the puzzle generation service.
//
// The guards never retry: a failed generation is surfaced to the caller,
// who may retry the whole request.
//
//   - Timeout bounds a single call. Callers that ignore their context are
//     abandoned when the deadline passes.
//
//   - CircuitBreaker fails fast once the collaborator has failed several
//     times in a row, and lets a single probe through after a cool-down.
//
//   - RateLimiter caps how many calls may start per period, so a stream of
//     misses (for example while the durable store is down) cannot turn into
//     a stream of paid generations.
//
// # Usage
//
//	guard := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Limit: 6,
//	        Per:   time.Minute,
//	    })),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := guard.Execute(ctx, func(ctx context.Context) error {
//	    raw, err = client.Generate(ctx)
//	    return err
//	})
package resilience
