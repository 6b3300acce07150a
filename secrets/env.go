package secrets

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvPrefix is prepended to upper-cased keys by EnvSource.
const DefaultEnvPrefix = "GITSYNC_"

// EnvSource reads secrets from environment variables named PREFIX + upper-cased key,
// e.g. GITSYNC_TOKEN_FLOW_TOKEN.
type EnvSource struct {
	// Prefix defaults to DefaultEnvPrefix when empty.
	Prefix string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// NewEnvSource creates an EnvSource reading the process environment.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{Prefix: prefix}
}

// Name returns the source identifier.
func (s *EnvSource) Name() string {
	return "env"
}

// Lookup reads the environment variable for key.
func (s *EnvSource) Lookup(_ context.Context, key string) (string, bool, error) {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	v, ok := lookup(s.VarName(key))
	return v, ok, nil
}

// VarName returns the environment variable name used for key.
func (s *EnvSource) VarName(key string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return prefix + strings.ToUpper(key)
}
