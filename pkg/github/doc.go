// Package github manages GitHub Actions environment configuration for a
// single repository through the GitHub REST API.
//
// The package includes:
// - Client, an authenticated go-github client that resolves repositories
//   and ensures deployment environments exist
// - VariableManager for plain-text environment variables
// - SecretManager for sealed environment secrets
// - APIError and UsageError, the error taxonomy surfaced to the CLI
//
// Every operation is a short, synchronous sequence of at most two requests.
// Nothing is cached and nothing is retried.
package github
