package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestNewTimeout_Default(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})
	if timeout.Config().Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", timeout.Config().Timeout, DefaultTimeout)
	}
}

func TestTimeout_Execute(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 20 * time.Millisecond})
	testErr := errors.New("test error")

	t.Run("success", func(t *testing.T) {
		if err := timeout.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
			t.Errorf("Execute() error = %v", err)
		}
	})

	t.Run("error passes through", func(t *testing.T) {
		err := timeout.Execute(context.Background(), func(ctx context.Context) error { return testErr })
		if err != testErr {
			t.Errorf("Execute() error = %v, want %v", err, testErr)
		}
	})

	t.Run("op ignoring context is abandoned", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		start := time.Now()
		err := timeout.Execute(context.Background(), func(ctx context.Context) error {
			<-release
			return nil
		})
		if err != ErrTimeout {
			t.Errorf("Execute() error = %v, want ErrTimeout", err)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("Execute() blocked for %v", elapsed)
		}
	})

	t.Run("op honouring context", func(t *testing.T) {
		err := timeout.Execute(context.Background(), func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		if err != ErrTimeout {
			t.Errorf("Execute() error = %v, want ErrTimeout", err)
		}
	})

	t.Run("parent cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewTimeout(TimeoutConfig{Timeout: time.Hour}).Execute(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
	})
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := newFakeClock()
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures: 2,
		CoolDown:    time.Minute,
		Now:         clock.Now,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()
	fail := func(ctx context.Context) error { return errors.New("boom") }
	ok := func(ctx context.Context) error { return nil }

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, ok) // success resets the run
	_ = cb.Execute(ctx, fail)
	if cb.State() != StateClosed {
		t.Fatalf("State() = %v, want closed", cb.State())
	}

	_ = cb.Execute(ctx, fail)
	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}

	called := false
	err := cb.Execute(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != ErrCircuitOpen || called {
		t.Fatalf("open breaker should reject without calling: err=%v called=%v", err, called)
	}

	clock.Advance(time.Minute)
	if cb.State() != StateHalfOpen {
		t.Fatalf("State() = %v, want half-open", cb.State())
	}
	if err := cb.Execute(ctx, ok); err != nil {
		t.Fatalf("probe error = %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed after successful probe", cb.State())
	}

	want := []string{"closed->open", "open->half-open", "half-open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transitions[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	clock := newFakeClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, CoolDown: time.Second, Now: clock.Now})
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return ErrTimeout })
	clock.Advance(time.Second)

	_ = cb.Execute(ctx, func(ctx context.Context) error { return ErrTimeout })
	if cb.State() != StateOpen {
		t.Errorf("State() = %v, want open after failed probe", cb.State())
	}
}

func TestCircuitBreaker_SingleProbe(t *testing.T) {
	clock := newFakeClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, CoolDown: time.Second, Now: clock.Now})
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("boom") })
	clock.Advance(time.Second)

	probing := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			close(probing)
			<-release
			return nil
		})
	}()
	<-probing

	if err := cb.Execute(ctx, func(ctx context.Context) error { return nil }); err != ErrCircuitOpen {
		t.Errorf("second call during probe error = %v, want ErrCircuitOpen", err)
	}
	close(release)
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1})
	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return context.Canceled })

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", cb.Failures())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, CoolDown: time.Hour})
	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	cb.Reset()
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimiterConfig{Limit: 2, Per: time.Minute, Now: clock.Now})

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("first two calls should be allowed")
	}
	if rl.Allow() {
		t.Fatal("third call should be limited")
	}

	clock.Advance(30 * time.Second)
	if !rl.Allow() {
		t.Fatal("one token should refill after half the period")
	}
	if rl.Allow() {
		t.Fatal("only one token should have refilled")
	}

	clock.Advance(time.Hour)
	if got := rl.Tokens(); got != 2 {
		t.Errorf("Tokens() = %v, want capped at 2", got)
	}

	rl.Allow()
	rl.Reset()
	if got := rl.Tokens(); got != 2 {
		t.Errorf("Tokens() after Reset = %v, want 2", got)
	}
}

func TestRateLimiter_Execute(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Limit: 1, Per: time.Hour})
	ctx := context.Background()

	if err := rl.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	called := false
	err := rl.Execute(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != ErrRateLimited || called {
		t.Errorf("Execute() err=%v called=%v, want ErrRateLimited without call", err, called)
	}
}

func TestExecutor_NoGuards(t *testing.T) {
	e := NewExecutor()
	if e.CircuitBreaker() != nil {
		t.Error("default executor should have no breaker")
	}

	executed := false
	if err := e.Execute(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	}); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if !executed {
		t.Error("op was not executed")
	}
}

func TestExecutor_TimeoutTripsBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, CoolDown: time.Hour})
	e := NewExecutor(WithCircuitBreaker(cb), WithTimeout(10*time.Millisecond))

	err := e.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != ErrTimeout {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
	if e.CircuitBreaker().State() != StateOpen {
		t.Errorf("breaker state = %v, want open", e.CircuitBreaker().State())
	}
}

func TestExecutor_RateLimitDoesNotTripBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1})
	e := NewExecutor(
		WithRateLimiter(NewRateLimiter(RateLimiterConfig{Limit: 1, Per: time.Hour})),
		WithCircuitBreaker(cb),
	)
	ctx := context.Background()
	op := func(ctx context.Context) error { return nil }

	_ = e.Execute(ctx, op)
	if err := e.Execute(ctx, op); err != ErrRateLimited {
		t.Fatalf("Execute() error = %v, want ErrRateLimited", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("breaker state = %v, want closed", cb.State())
	}
}
