package puzzle

import "errors"

// Normalisation errors.
var (
	// ErrMalformedOutput indicates the input could not be parsed as a JSON
	// object after sanitisation.
	ErrMalformedOutput = errors.New("puzzle: malformed generator output")

	// ErrSchemaViolation indicates parsed data does not satisfy the puzzle
	// invariants (theme, words and clues must line up exactly).
	ErrSchemaViolation = errors.New("puzzle: schema violation")
)
