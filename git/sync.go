package git

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Pull fetches the tracked branch from the default remote and fast-forwards the
// worktree. ErrAlreadyUpToDate is returned when nothing changed and
// ErrNotFastForward when local history diverged.
//
// Authentication is resolved for the remote URL on every call so that callbacks
// see fresh secrets.
func (r *Repo) Pull(ctx context.Context) error {
	if r.worktree == nil {
		return WrapError(ErrInvalidOptions, "pull requires a worktree")
	}

	remoteURL, err := r.RemoteURL()
	if err != nil {
		return err
	}

	method, err := resolveAuth(r.options.Auth, remoteURL)
	if err != nil {
		return err
	}

	pullOpts := &git.PullOptions{
		RemoteName:   DefaultRemoteName,
		Auth:         method,
		Depth:        r.options.ShallowDepth,
		SingleBranch: r.options.ShallowDepth > 0 || r.options.Branch != "",
		Progress:     r.options.Progress,
	}
	if r.options.Branch != "" {
		pullOpts.ReferenceName = plumbing.NewBranchReferenceName(r.options.Branch)
	}

	if err := r.worktree.PullContext(ctx, pullOpts); err != nil {
		return translateTransportError(err, method != nil, "failed to pull")
	}

	if head, err := r.Head(ctx); err == nil {
		r.options.Logger.Info("pulled repository",
			"url", redactURL(remoteURL),
			"branch", head.Branch,
			"commit", head.Hash,
		)
	}
	return nil
}

// Sync makes opts.FS hold an up-to-date checkout of remoteURL. It clones when the
// filesystem holds no repository and fast-forwards an existing clone otherwise.
// An existing repository tracking a different remote is rejected.
func Sync(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidOptions, "remote URL cannot be empty")
	}

	r, err := Open(ctx, opts)
	switch {
	case errors.Is(err, ErrNoRepository):
		return Clone(ctx, remoteURL, opts)
	case err != nil:
		return nil, err
	}

	current, err := r.RemoteURL()
	if err != nil {
		return nil, err
	}
	if current != remoteURL {
		return nil, WrapErrorf(ErrInvalidOptions, "existing repository tracks %s, not %s",
			redactURL(current), redactURL(remoteURL))
	}

	if err := r.Pull(ctx); err != nil && !errors.Is(err, ErrAlreadyUpToDate) {
		return nil, err
	}
	return r, nil
}
