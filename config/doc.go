// Package config loads the service configuration from environment
// variables, resolves secret references and validates the result.
package config
