package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/dailypuzzle/cache"
	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/resilience"
)

// Pinger is implemented by every durable store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker reports the durable store unhealthy when it cannot be reached.
// Without the store neither a stored nor a freshly generated puzzle can be
// served for a new day.
type StoreChecker struct {
	name string
	p    Pinger
}

// NewStoreChecker creates a StoreChecker.
func NewStoreChecker(name string, p Pinger) *StoreChecker {
	return &StoreChecker{name: name, p: p}
}

// Name returns the checker name.
func (c *StoreChecker) Name() string { return c.name }

// Check pings the store.
func (c *StoreChecker) Check(ctx context.Context) Result {
	if err := c.p.Ping(ctx); err != nil {
		return Unhealthy("store unreachable", fmt.Errorf("%w: %w", ErrCheckFailed, err))
	}
	return Healthy("store reachable")
}

// BreakerState is the read side of a circuit breaker.
type BreakerState interface {
	State() resilience.State
	Failures() int
}

// BreakerChecker reports an open generator circuit as degraded: puzzles
// already cached or stored are still served.
type BreakerChecker struct {
	name string
	b    BreakerState
}

// NewBreakerChecker creates a BreakerChecker.
func NewBreakerChecker(name string, b BreakerState) *BreakerChecker {
	return &BreakerChecker{name: name, b: b}
}

// Name returns the checker name.
func (c *BreakerChecker) Name() string { return c.name }

// Check reads the breaker state.
func (c *BreakerChecker) Check(context.Context) Result {
	state := c.b.State()
	details := map[string]any{
		"state":    state.String(),
		"failures": c.b.Failures(),
	}
	switch state {
	case resilience.StateOpen:
		return Degraded("circuit open").WithDetails(details).WithError(resilience.ErrCircuitOpen)
	case resilience.StateHalfOpen:
		return Degraded("circuit probing").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// Exister reports whether a day's puzzle is stored.
type Exister interface {
	Exists(ctx context.Context, key daykey.Key) (bool, error)
}

// FreshnessChecker reports whether today's puzzle is already available. A
// missing puzzle is degraded, not unhealthy: the next request generates it.
type FreshnessChecker struct {
	name    string
	keyer   daykey.Keyer
	tier    cache.Tier
	durable Exister
	now     func() time.Time
}

// FreshnessOption configures a FreshnessChecker.
type FreshnessOption func(*FreshnessChecker)

// WithClock sets the clock. Default: time.Now
func WithClock(now func() time.Time) FreshnessOption {
	return func(c *FreshnessChecker) { c.now = now }
}

// NewFreshnessChecker creates a FreshnessChecker.
func NewFreshnessChecker(name string, keyer daykey.Keyer, tier cache.Tier, durable Exister, opts ...FreshnessOption) *FreshnessChecker {
	c := &FreshnessChecker{
		name:    name,
		keyer:   keyer,
		tier:    tier,
		durable: durable,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the checker name.
func (c *FreshnessChecker) Name() string { return c.name }

// Check looks for today's puzzle in memory, then in the durable store.
func (c *FreshnessChecker) Check(ctx context.Context) Result {
	key := c.keyer.Key(c.now())
	details := map[string]any{"day": key.String()}

	if e, ok := c.tier.Load(ctx); ok && e.Key == key {
		details["source"] = "memory"
		return Healthy("today's puzzle is cached").WithDetails(details)
	}

	ok, err := c.durable.Exists(ctx, key)
	if err != nil {
		return Degraded("could not look up today's puzzle").WithDetails(details).WithError(err)
	}
	if ok {
		details["source"] = "store"
		return Healthy("today's puzzle is stored").WithDetails(details)
	}
	return Degraded("today's puzzle has not been generated").WithDetails(details)
}

var (
	_ Checker = (*CheckerFunc)(nil)
	_ Checker = (*StoreChecker)(nil)
	_ Checker = (*BreakerChecker)(nil)
	_ Checker = (*FreshnessChecker)(nil)
)
