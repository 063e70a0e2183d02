// Package secret resolves secret references in configuration values.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable providers: environment variables (EnvProvider) and files
//     such as mounted Docker or Kubernetes secrets (FileProvider)
//   - Resolving references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:file:/run/secrets/openai_api_key
//   - Inline use:  Bearer secretref:env:OPENAI_TOKEN
//
// Resolved values must never be logged.
package secret
