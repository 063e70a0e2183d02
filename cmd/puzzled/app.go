package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/dailypuzzle/api"
	"github.com/jonwraymond/dailypuzzle/cache"
	"github.com/jonwraymond/dailypuzzle/config"
	"github.com/jonwraymond/dailypuzzle/generate"
	"github.com/jonwraymond/dailypuzzle/health"
	"github.com/jonwraymond/dailypuzzle/observe"
)

// app is the wired service.
type app struct {
	handler http.Handler
	obs     observe.Observer
	logger  observe.Logger
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	obs, err := observe.NewObserver(ctx, cfg.ObserverConfig(version))
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, fmt.Errorf("middleware: %w", err)
	}
	logger := obs.Logger()

	keyer, err := cfg.Keyer()
	if err != nil {
		return nil, err
	}

	durable, err := cfg.Store.OpenStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	gen, err := generate.New(cfg.GeneratorConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	tier := cache.NewMemoryTier()
	orch, err := cache.NewOrchestrator(tier, durable, gen,
		cache.WithKeyer(keyer),
		cache.WithPolicy(cfg.Policy()),
		cache.WithLogger(logger),
		cache.WithMetrics(mw.Metrics()),
		cache.WithTracer(mw.Tracer()),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	agg := health.NewAggregator()
	agg.Register(health.NewStoreChecker("store", durable))
	agg.Register(health.NewBreakerChecker("generator", gen.Breaker()))
	agg.Register(health.NewFreshnessChecker("today", keyer, tier, durable))

	mux := http.NewServeMux()
	api.RegisterHandlers(mux, api.NewPuzzleHandler(orch, api.WithLogger(logger)), mw)
	health.RegisterHandlers(mux, agg)
	if cfg.Observe.MetricsExporter == "prometheus" {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	logger.Info(ctx, "configured",
		observe.F("store", cfg.Store.Backend),
		observe.F("timezone", cfg.Timezone),
		observe.F("single_flight", cfg.SingleFlight),
		observe.F("model", cfg.OpenAI.Model))

	return &app{handler: mux, obs: obs, logger: logger}, nil
}
