package store

import (
	"fmt"

	"github.com/jonwraymond/dailypuzzle/daykey"
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func notFound(key daykey.Key) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}
