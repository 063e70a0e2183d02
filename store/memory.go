package store

import (
	"context"
	"slices"
	"sync"

	"github.com/jonwraymond/dailypuzzle/daykey"
)

// MemoryStore keeps objects in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[daykey.Key][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[daykey.Key][]byte)}
}

func (m *MemoryStore) Exists(ctx context.Context, key daykey.Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable("exists", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MemoryStore) Read(ctx context.Context, key daykey.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("read", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, notFound(key)
	}
	return slices.Clone(data), nil
}

func (m *MemoryStore) Write(ctx context.Context, key daykey.Key, data []byte) error {
	if err := ctx.Err(); err != nil {
		return unavailable("write", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = slices.Clone(data)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]daykey.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	m.mu.RLock()
	keys := make([]daykey.Key, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
