package config

import (
	"fmt"
	"os"
	"strings"
)

// Resolver expands environment variable references in config values.
// Values like "$OPENAI_API_KEY" or "${OPENAI_API_KEY}" are replaced with
// the variable's value; literal values pass through unchanged.
type Resolver struct {
	lookup func(string) (string, bool)
}

// NewResolver creates a resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.LookupEnv}
}

// NewResolverFromMap creates a resolver backed by a fixed map, for testing.
func NewResolverFromMap(env map[string]string) *Resolver {
	return &Resolver{
		lookup: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
	}
}

// Resolve expands environment variable references in value.
// Referencing an unset variable is an error so that a missing API key
// fails loudly instead of silently authenticating with an empty string.
func (r *Resolver) Resolve(value string) (string, error) {
	if !strings.Contains(value, "$") {
		return value, nil
	}

	var missing string
	resolved := os.Expand(value, func(name string) string {
		if v, ok := r.lookup(name); ok {
			return v
		}
		if missing == "" {
			missing = name
		}
		return ""
	})

	if missing != "" {
		return "", fmt.Errorf("environment variable %q not set", missing)
	}

	return resolved, nil
}
