package store

import (
	"context"

	"github.com/jonwraymond/dailypuzzle/daykey"
)

// ContentType is the content type of every stored object.
const ContentType = "application/json"

// Store persists one serialized puzzle per day.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: all methods honor cancellation and deadlines.
//   - Errors: backend failures wrap ErrStoreUnavailable; Read of a missing
//     day returns ErrNotFound.
//   - Ownership: Read returns a fresh slice; Write does not retain data.
type Store interface {
	// Exists reports whether an object exists for key.
	Exists(ctx context.Context, key daykey.Key) (bool, error)

	// Read returns the stored bytes for key.
	Read(ctx context.Context, key daykey.Key) ([]byte, error)

	// Write stores data for key, replacing any existing object.
	Write(ctx context.Context, key daykey.Key, data []byte) error

	// List returns the stored day keys in ascending order.
	List(ctx context.Context) ([]daykey.Key, error)

	// Ping checks that the backend and its bucket are reachable.
	Ping(ctx context.Context) error
}
