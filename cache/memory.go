package cache

import (
	"context"
	"sync"
)

// MemoryTier holds a single Entry in process memory.
type MemoryTier struct {
	mu    sync.RWMutex
	entry Entry
	ok    bool
}

// NewMemoryTier creates an empty memory tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{}
}

// Load returns the current entry.
func (t *MemoryTier) Load(_ context.Context) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entry, t.ok
}

// Store replaces the current entry.
func (t *MemoryTier) Store(_ context.Context, e Entry) {
	t.mu.Lock()
	t.entry, t.ok = e, true
	t.mu.Unlock()
}

// Ensure MemoryTier implements Tier
var _ Tier = (*MemoryTier)(nil)
