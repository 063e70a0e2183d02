package cache

import (
	"context"

	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/puzzle"
)

// Entry is the memory tier's record: a puzzle and the day it was produced for.
type Entry struct {
	Puzzle puzzle.Puzzle
	Key    daykey.Key
}

// Tier is the process-local memory tier.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Store replaces the whole entry; Load observes either the old or the
//     new entry, never a mix.
//   - Load returns (Entry{}, false) when nothing has been stored.
type Tier interface {
	Load(ctx context.Context) (Entry, bool)
	Store(ctx context.Context, e Entry)
}

// Durable is the cross-process tier. store.Store satisfies it.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: failures should wrap store.ErrStoreUnavailable; Read of a
//     missing day should return store.ErrNotFound.
type Durable interface {
	Exists(ctx context.Context, key daykey.Key) (bool, error)
	Read(ctx context.Context, key daykey.Key) ([]byte, error)
	Write(ctx context.Context, key daykey.Key, data []byte) error
	List(ctx context.Context) ([]daykey.Key, error)
}

// Generator produces raw, unvalidated puzzle text. *generate.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}
