package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a generation call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout guard.
type TimeoutConfig struct {
	// Timeout is the maximum duration of one call.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds calls with a deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout guard.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

// Execute runs op with a derived deadline.
//
// The call returns as soon as op returns or the deadline passes, whichever
// comes first; an op that ignores its context keeps running in the
// background but its result is discarded. Expiry of this guard's own
// deadline yields ErrTimeout; cancellation of the parent context yields the
// parent's error.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(callCtx)
	}()

	select {
	case err := <-done:
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrTimeout
		}
		return err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTimeout
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
