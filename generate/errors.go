package generate

import "errors"

var (
	// ErrGenerationUnavailable indicates the generation call failed, timed
	// out, was refused locally, or returned no content.
	ErrGenerationUnavailable = errors.New("generate: generation unavailable")

	// ErrEmptyResponse indicates the endpoint answered without any text.
	ErrEmptyResponse = errors.New("generate: empty response")

	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("generate: api key is required")
)
