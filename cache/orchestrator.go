package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/generate"
	"github.com/jonwraymond/dailypuzzle/observe"
	"github.com/jonwraymond/dailypuzzle/puzzle"
	"github.com/jonwraymond/dailypuzzle/store"
)

// Orchestrator serves today's puzzle from the cheapest tier that has it.
type Orchestrator struct {
	tier    Tier
	durable Durable
	gen     Generator
	keyer   daykey.Keyer
	policy  Policy

	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	flight singleflight.Group
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithKeyer sets the day key function. Default: daykey.UTC()
func WithKeyer(k daykey.Keyer) Option {
	return func(o *Orchestrator) { o.keyer = k }
}

// WithPolicy sets the consistency policy. Default: DefaultPolicy()
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer sets the tracer.
func WithTracer(t observe.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// NewOrchestrator creates an Orchestrator. A nil tier gets a fresh MemoryTier.
func NewOrchestrator(tier Tier, durable Durable, gen Generator, opts ...Option) (*Orchestrator, error) {
	if durable == nil {
		return nil, ErrNilDurable
	}
	if gen == nil {
		return nil, ErrNilGenerator
	}
	if tier == nil {
		tier = NewMemoryTier()
	}

	o := &Orchestrator{
		tier:    tier,
		durable: durable,
		gen:     gen,
		keyer:   daykey.UTC(),
		policy:  DefaultPolicy(),
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		tracer:  observe.NopTracer(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(observe.F("component", "cache"))
	return o, nil
}

// Keyer returns the day key function in use.
func (o *Orchestrator) Keyer() daykey.Keyer {
	return o.keyer
}

type fillResult struct {
	puzzle puzzle.Puzzle
	source observe.Source
}

// TodaysPuzzle returns the puzzle for the day containing now.
//
// Errors wrap generate.ErrGenerationUnavailable, puzzle.ErrMalformedOutput,
// puzzle.ErrSchemaViolation or store.ErrStoreUnavailable. A failed durable
// read never falls back to generation. A failed durable write after a
// successful generation is logged and the puzzle is still returned.
func (o *Orchestrator) TodaysPuzzle(ctx context.Context, now time.Time) (puzzle.Puzzle, error) {
	key := o.keyer.Key(now)
	start := time.Now()

	ctx, span := o.tracer.StartSpan(ctx, observe.SpanMeta{Name: "lookup", Day: key.String()})
	res, err := o.lookup(ctx, key)
	o.tracer.EndSpan(span, err)
	o.metrics.RecordLookup(ctx, res.source, time.Since(start), err)

	if err != nil {
		return puzzle.Puzzle{}, err
	}
	return res.puzzle, nil
}

func (o *Orchestrator) lookup(ctx context.Context, key daykey.Key) (fillResult, error) {
	if e, ok := o.tier.Load(ctx); ok && e.Key == key {
		return fillResult{puzzle: e.Puzzle, source: observe.SourceMemory}, nil
	}

	if !o.policy.SingleFlight {
		return o.fill(ctx, key)
	}

	// The shared fill outlives any one caller so a cancelled first caller
	// does not fail the others; it is still bounded by the generator's and
	// the store's own timeouts.
	ch := o.flight.DoChan(key.String(), func() (any, error) {
		return o.fill(context.WithoutCancel(ctx), key)
	})

	select {
	case <-ctx.Done():
		return fillResult{source: observe.SourceNone}, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(fillResult)
		if r.Shared {
			o.logger.Debug(ctx, "joined in-flight fill", observe.F("day", key.String()))
		}
		return res, r.Err
	}
}

// fill serves key from the durable tier or generates it.
func (o *Orchestrator) fill(ctx context.Context, key daykey.Key) (fillResult, error) {
	// A fill that finished while this one was waiting to start.
	if e, ok := o.tier.Load(ctx); ok && e.Key == key {
		return fillResult{puzzle: e.Puzzle, source: observe.SourceMemory}, nil
	}

	p, found, err := o.readDurable(ctx, key)
	if err != nil {
		return fillResult{source: observe.SourceNone}, err
	}
	if found {
		o.tier.Store(ctx, Entry{Puzzle: p, Key: key})
		o.logger.Info(ctx, "served puzzle from durable store", observe.F("day", key.String()))
		return fillResult{puzzle: p, source: observe.SourceStore}, nil
	}

	p, err = o.generate(ctx, key)
	if err != nil {
		return fillResult{source: observe.SourceNone}, err
	}

	o.writeDurable(ctx, key, p)
	o.tier.Store(ctx, Entry{Puzzle: p, Key: key})
	return fillResult{puzzle: p, source: observe.SourceGenerated}, nil
}

// readDurable returns the stored puzzle for key, if any.
func (o *Orchestrator) readDurable(ctx context.Context, key daykey.Key) (puzzle.Puzzle, bool, error) {
	ctx, span := o.tracer.StartSpan(ctx, observe.SpanMeta{Name: "store.read", Day: key.String(), Kind: trace.SpanKindClient})

	p, found, err := func() (puzzle.Puzzle, bool, error) {
		sctx, cancel := o.storeContext(ctx)
		defer cancel()

		exists, err := o.durable.Exists(sctx, key)
		if err != nil {
			return puzzle.Puzzle{}, false, storeErr("exists", key, err)
		}
		if !exists {
			return puzzle.Puzzle{}, false, nil
		}

		data, err := o.durable.Read(sctx, key)
		if errors.Is(err, store.ErrNotFound) {
			return puzzle.Puzzle{}, false, nil
		}
		if err != nil {
			return puzzle.Puzzle{}, false, storeErr("read", key, err)
		}

		p, err := puzzle.Normalize(string(data))
		if err != nil {
			return puzzle.Puzzle{}, false, fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
		}
		return p, true, nil
	}()

	o.tracer.EndSpan(span, err)
	if err != nil {
		o.logger.Error(ctx, "durable read failed", observe.F("day", key.String()), observe.Err(err))
	}
	return p, found, err
}

func (o *Orchestrator) generate(ctx context.Context, key daykey.Key) (puzzle.Puzzle, error) {
	ctx, span := o.tracer.StartSpan(ctx, observe.SpanMeta{Name: "generate", Day: key.String(), Kind: trace.SpanKindClient})
	start := time.Now()

	raw, err := o.gen.Generate(ctx)
	o.metrics.RecordGeneration(ctx, time.Since(start), err)
	if err != nil {
		if !errors.Is(err, generate.ErrGenerationUnavailable) {
			err = fmt.Errorf("%w: %w", generate.ErrGenerationUnavailable, err)
		}
		o.tracer.EndSpan(span, err)
		o.logger.Error(ctx, "generation failed", observe.F("day", key.String()), observe.Err(err))
		return puzzle.Puzzle{}, err
	}

	p, shape, err := puzzle.NormalizeShape(raw)
	o.tracer.EndSpan(span, err)
	if err != nil {
		o.logger.Error(ctx, "generator output rejected",
			observe.F("day", key.String()),
			observe.F("raw_output", raw),
			observe.Err(err))
		return puzzle.Puzzle{}, err
	}

	o.logger.Info(ctx, "generated puzzle",
		observe.F("day", key.String()),
		observe.F("shape", shape.String()),
		observe.F("words", p.Len()),
		observe.F("duration_ms", float64(time.Since(start).Milliseconds())))
	return p, nil
}

// writeDurable persists p. Failures are logged, not returned.
func (o *Orchestrator) writeDurable(ctx context.Context, key daykey.Key, p puzzle.Puzzle) {
	ctx, span := o.tracer.StartSpan(ctx, observe.SpanMeta{Name: "store.write", Day: key.String(), Kind: trace.SpanKindClient})

	err := func() error {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		sctx, cancel := o.storeContext(ctx)
		defer cancel()
		return o.durable.Write(sctx, key, data)
	}()

	o.tracer.EndSpan(span, err)
	if err != nil {
		o.logger.Warn(ctx, "failed to persist puzzle; serving it anyway",
			observe.F("day", key.String()), observe.Err(err))
	}
}

// Archived returns the stored puzzle for a past (or the current) day. It
// never generates.
func (o *Orchestrator) Archived(ctx context.Context, key daykey.Key) (puzzle.Puzzle, error) {
	if e, ok := o.tier.Load(ctx); ok && e.Key == key {
		return e.Puzzle, nil
	}

	sctx, cancel := o.storeContext(ctx)
	defer cancel()

	data, err := o.durable.Read(sctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return puzzle.Puzzle{}, err
		}
		return puzzle.Puzzle{}, storeErr("read", key, err)
	}
	p, err := puzzle.Normalize(string(data))
	if err != nil {
		return puzzle.Puzzle{}, fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
	}
	return p, nil
}

// Days lists the day keys held in the durable tier, oldest first.
func (o *Orchestrator) Days(ctx context.Context) ([]daykey.Key, error) {
	sctx, cancel := o.storeContext(ctx)
	defer cancel()

	keys, err := o.durable.List(sctx)
	if err != nil {
		return nil, storeErr("list", "", err)
	}
	return keys, nil
}

func (o *Orchestrator) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.policy.StoreTimeout > 0 {
		return context.WithTimeout(ctx, o.policy.StoreTimeout)
	}
	return context.WithCancel(ctx)
}

// storeErr ensures durable failures carry store.ErrStoreUnavailable.
func storeErr(op string, key daykey.Key, err error) error {
	if errors.Is(err, store.ErrStoreUnavailable) {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: %s: %w", store.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s %s: %w", store.ErrStoreUnavailable, op, key, err)
}
