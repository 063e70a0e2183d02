package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/observe"
	"github.com/jonwraymond/dailypuzzle/store"
)

const spaceRaw = `{"theme":"Space","words":["orbit","comet"],"clues":{"ORBIT":"Path around a star","COMET":"Icy body with a tail"}}`

const oceanRaw = "```json\n" + `{"theme":"Ocean","words":[{"word":"coral","clue":"Reef builder"},{"word":"squid","clue":"Inky swimmer"}]}` + "\n```"

var (
	day1 = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
)

// fakeDurable wraps store.MemoryStore with call counters and injected errors.
type fakeDurable struct {
	*store.MemoryStore

	exists, reads, writes, lists atomic.Int32

	existsErr, readErr, writeErr, listErr error
}

func newFakeDurable() *fakeDurable {
	return &fakeDurable{MemoryStore: store.NewMemoryStore()}
}

func (f *fakeDurable) Exists(ctx context.Context, key daykey.Key) (bool, error) {
	f.exists.Add(1)
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.MemoryStore.Exists(ctx, key)
}

func (f *fakeDurable) Read(ctx context.Context, key daykey.Key) ([]byte, error) {
	f.reads.Add(1)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.MemoryStore.Read(ctx, key)
}

func (f *fakeDurable) Write(ctx context.Context, key daykey.Key, data []byte) error {
	f.writes.Add(1)
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.MemoryStore.Write(ctx, key, data)
}

func (f *fakeDurable) List(ctx context.Context) ([]daykey.Key, error) {
	f.lists.Add(1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryStore.List(ctx)
}

func (f *fakeDurable) calls() int32 {
	return f.exists.Load() + f.reads.Load() + f.writes.Load() + f.lists.Load()
}

// fakeGenerator returns outputs in order, repeating the last one.
type fakeGenerator struct {
	mu      sync.Mutex
	outputs []string
	err     error
	calls   atomic.Int32

	// started, when set, receives once per call before gate is awaited.
	started chan struct{}
	gate    chan struct{}
}

func newFakeGenerator(outputs ...string) *fakeGenerator {
	return &fakeGenerator{outputs: outputs}
}

func (g *fakeGenerator) Generate(ctx context.Context) (string, error) {
	n := g.calls.Add(1)
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	i := min(int(n)-1, len(g.outputs)-1)
	return g.outputs[i], nil
}

// fakeMetrics records lookup sources.
type fakeMetrics struct {
	mu          sync.Mutex
	sources     []observe.Source
	generations int
}

func (m *fakeMetrics) RecordLookup(_ context.Context, source observe.Source, _ time.Duration, _ error) {
	m.mu.Lock()
	m.sources = append(m.sources, source)
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordGeneration(context.Context, time.Duration, error) {
	m.mu.Lock()
	m.generations++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordRequest(context.Context, string, int, time.Duration) {}
