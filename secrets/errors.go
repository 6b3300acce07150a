// Package secrets loads the credential bundle used by the auth flows.
//
// Error handling follows Go best practices with wrapped errors for context preservation.
// All errors defined here can be unwrapped using errors.Is() and errors.As().
package secrets

import (
	"errors"
	"fmt"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// Standard error types for secret loading.
var (
	// ErrSecretNotFound indicates that the backing secret document does not exist.
	ErrSecretNotFound = gserrors.New(gserrors.CodeNotFound, "secret not found")

	// ErrAccessDenied indicates that the process is not allowed to read the secret.
	ErrAccessDenied = gserrors.New(gserrors.CodeForbidden, "access denied")

	// ErrUnknownSource indicates that no source with the requested name exists.
	ErrUnknownSource = gserrors.New(gserrors.CodeInvalidConfig, "unknown secrets source")
)

// SourceError wraps a backend failure with the source and key it occurred for.
// It never carries the secret value.
type SourceError struct {
	Source string // Name of the source where the error occurred
	Key    string // The key being looked up
	Err    error  // The underlying error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q error for key %q: %v", e.Source, e.Key, e.Err)
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, key string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Key:    key,
		Err:    err,
	}
}

// IsSourceError checks if an error is a SourceError or contains one in its chain.
func IsSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}
