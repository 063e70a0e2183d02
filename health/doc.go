// Package health reports whether the puzzle service can serve today's puzzle.
//
// A Checker reports a Result with one of three states. StatusDegraded means
// requests will still be answered but something upstream needs attention,
// for example an open generator circuit or a day whose puzzle has not been
// generated yet. StatusUnhealthy means requests for today's puzzle will fail.
//
// The service registers three checkers:
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewStoreChecker("store", durable))
//	agg.Register(health.NewBreakerChecker("generator", gen.Breaker()))
//	agg.Register(health.NewFreshnessChecker("today", keyer, tier, durable))
//
// and exposes them with RegisterHandlers:
//
//	GET /healthz  liveness, always 200
//	GET /readyz   200 unless a check is unhealthy
//	GET /health   JSON report of every check
package health
