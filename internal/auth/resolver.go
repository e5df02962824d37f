// Package auth resolves the GitHub credential from the configured sources in
// priority order. It only locates an existing token; acquiring one (device
// flow, browser login) is out of scope.
package auth

import (
	"fmt"
	"os"
	"strings"
)

// Source indicates where a token was found
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceSession Source = "session"
	SourceCLI     Source = "cli"
	SourceNone    Source = "none"
)

// Result contains the resolved token and its source
type Result struct {
	Token  string
	Source Source
	Name   string // The specific source name (e.g., "GITHUB_TOKEN", "gh")
}

// TokenProvider is a function that attempts to provide a token.
// Returns the token and source name if found, or empty string if not available.
// Returns an error only for unexpected failures (not for missing token).
type TokenProvider func() (token string, sourceName string, err error)

// Resolver resolves tokens from multiple sources in priority order
type Resolver struct {
	providers   []TokenProvider
	helpMessage string
}

// NewResolver creates a new token resolver
func NewResolver() *Resolver {
	return &Resolver{providers: make([]TokenProvider, 0)}
}

// WithFlag adds a flag-provided token as a source (highest priority).
// The flag value is evaluated at resolution time.
func (r *Resolver) WithFlag(flagValue *string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		if flagValue != nil && *flagValue != "" {
			return *flagValue, "flag", nil
		}
		return "", "", nil
	})
	return r
}

// WithEnvs adds environment variables as token sources (checked in order)
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		name := envVar
		r.providers = append(r.providers, func() (string, string, error) {
			if token := os.Getenv(name); token != "" {
				return token, name, nil
			}
			return "", "", nil
		})
	}
	return r
}

// WithProvider adds a custom token provider
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	r.providers = append(r.providers, provider)
	return r
}

// WithHelpMessage sets the help message shown when no token is found
func (r *Resolver) WithHelpMessage(msg string) *Resolver {
	r.helpMessage = msg
	return r
}

// Resolve attempts to find a token from all configured sources in order.
// Returns the first successful token found, or an error if no token is available.
func (r *Resolver) Resolve() (*Result, error) {
	for _, provider := range r.providers {
		token, sourceName, err := provider()
		if err != nil {
			return nil, fmt.Errorf("token provider error: %w", err)
		}
		if token != "" {
			return &Result{
				Token:  token,
				Source: categorizeSource(sourceName),
				Name:   sourceName,
			}, nil
		}
	}

	if r.helpMessage != "" {
		return nil, fmt.Errorf("GitHub token required\n\n%s", r.helpMessage)
	}
	return nil, fmt.Errorf("GitHub token required")
}

// categorizeSource determines the Source category from a source name
func categorizeSource(name string) Source {
	switch {
	case name == "flag":
		return SourceFlag
	case name == "session":
		return SourceSession
	case strings.HasPrefix(name, "gh"):
		return SourceCLI
	case strings.Contains(name, "TOKEN"):
		return SourceEnv
	default:
		return SourceNone
	}
}
