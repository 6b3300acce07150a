package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Common sentinel errors that can be checked with errors.Is().
// These wrap underlying go-git errors while providing a stable API for consumers.

// ErrAlreadyUpToDate is returned when a pull results in no changes because the
// local and remote states are already synchronized.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrAuthRequired is returned when the remote demands authentication but no
// credentials were supplied.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthFailed is returned when credentials were supplied but the remote rejected
// them (invalid credentials, expired tokens, etc.).
var ErrAuthFailed = errors.New("authentication failed")

// ErrRepositoryNotFound is returned when the remote repository does not exist or
// is hidden from the supplied credentials.
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrNoRepository is returned by Open when the filesystem holds no repository.
var ErrNoRepository = errors.New("no repository")

// ErrNotFastForward is returned when a pull cannot be performed as a fast-forward.
var ErrNotFastForward = errors.New("not a fast-forward")

// ErrInvalidOptions is returned when Options are missing required values.
var ErrInvalidOptions = errors.New("invalid options")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// translateTransportError maps go-git transport failures onto the package sentinels.
// withAuth reports whether credentials were sent; a 401 after sending credentials
// means they were rejected rather than missing.
func translateTransportError(err error, withAuth bool, msg string) error {
	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired):
		if withAuth {
			return WrapError(ErrAuthFailed, msg)
		}
		return WrapError(ErrAuthRequired, msg)
	case errors.Is(err, transport.ErrAuthorizationFailed):
		return WrapError(ErrAuthFailed, msg)
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return WrapError(ErrRepositoryNotFound, msg)
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return WrapError(ErrNotFastForward, msg)
	default:
		return WrapError(err, msg)
	}
}
