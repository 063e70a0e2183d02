package cache

import "errors"

var (
	// ErrNilDurable indicates NewOrchestrator was given no durable tier.
	ErrNilDurable = errors.New("cache: durable tier is nil")

	// ErrNilGenerator indicates NewOrchestrator was given no generator.
	ErrNilGenerator = errors.New("cache: generator is nil")

	// ErrCorruptRecord indicates a stored puzzle failed normalisation.
	ErrCorruptRecord = errors.New("cache: stored puzzle is corrupt")
)
