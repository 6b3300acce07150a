package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultRemoteName is the default remote name used for operations.
	DefaultRemoteName = "origin"
)

// Options configures repository discovery/creation and performance.
type Options struct {
	// FS is the REQUIRED filesystem root (OS or in-memory).
	// All repository state lives within this filesystem.
	FS billy.Filesystem

	// Bare indicates if this should be a bare repository (.git only, no worktree).
	Bare bool

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth is an optional provider that resolves per-URL AuthMethod.
	// If nil, no authentication will be available.
	Auth auth.AuthProvider

	// Branch restricts clone and pull to a single branch. Empty follows the remote HEAD.
	Branch string

	// ShallowDepth sets the depth for shallow clone/pull operations.
	// If 0, full operations are performed.
	ShallowDepth int

	// Logger receives operational logs. Nil disables logging.
	Logger *slog.Logger

	// Progress receives the sideband progress output of the remote.
	Progress io.Writer
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o == nil {
		return WrapError(ErrInvalidOptions, "options are nil")
	}

	if o.FS == nil {
		return WrapError(ErrInvalidOptions, "FS is required")
	}

	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidOptions, "StorerCacheSize cannot be negative")
	}

	if o.ShallowDepth < 0 {
		return WrapError(ErrInvalidOptions, "ShallowDepth cannot be negative")
	}

	return nil
}

func (o *Options) applyDefaults() {
	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// Repo represents a synchronized git repository.
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	options  Options
}

// Head describes the commit currently checked out.
type Head struct {
	// Hash is the full commit hash.
	Hash string

	// Branch is the short branch name, empty for a detached HEAD.
	Branch string
}

// Clone creates a new repository by cloning from a remote URL.
//
// Authentication is resolved through opts.Auth before any network access, so an
// authentication misconfiguration fails without contacting the remote.
//
// Context timeout/cancellation is honored during the clone operation.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidOptions, "remote URL cannot be empty")
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	opts.applyDefaults()

	method, err := resolveAuth(opts.Auth, remoteURL)
	if err != nil {
		return nil, err
	}

	storage, worktreeFS, err := fsbridge.Layout(opts.FS, opts.Bare, opts.StorerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create .git directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL:          remoteURL,
		Auth:         method,
		RemoteName:   DefaultRemoteName,
		Depth:        opts.ShallowDepth,
		SingleBranch: opts.ShallowDepth > 0 || opts.Branch != "",
		Progress:     opts.Progress,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
	}

	opts.Logger.Debug("cloning repository",
		"url", redactURL(remoteURL),
		"branch", opts.Branch,
		"depth", opts.ShallowDepth,
		"authenticated", method != nil,
	)

	repo, err := git.CloneContext(ctx, storage, worktreeFS, cloneOpts)
	if err != nil {
		return nil, translateTransportError(err, method != nil, "failed to clone repository")
	}

	r, err := newRepo(repo, *opts)
	if err != nil {
		return nil, err
	}

	if head, err := r.Head(ctx); err == nil {
		opts.Logger.Info("cloned repository",
			"url", redactURL(remoteURL),
			"branch", head.Branch,
			"commit", head.Hash,
		)
	}

	return r, nil
}

// Open opens an existing git repository in opts.FS.
// ErrNoRepository is returned when the filesystem holds no repository.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.applyDefaults()

	storage, worktreeFS, err := fsbridge.Layout(opts.FS, opts.Bare, opts.StorerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to access .git directory: %w", err)
	}

	repo, err := git.Open(storage, worktreeFS)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, WrapError(ErrNoRepository, "failed to open repository")
		}
		return nil, WrapError(err, "failed to open repository")
	}

	return newRepo(repo, *opts)
}

func newRepo(repo *git.Repository, opts Options) (*Repo, error) {
	r := &Repo{
		repo:    repo,
		options: opts,
	}

	if !opts.Bare {
		worktree, err := repo.Worktree()
		if err != nil {
			return nil, WrapError(err, "failed to get worktree")
		}
		r.worktree = worktree
	}

	return r, nil
}

// Head returns the commit currently referenced by HEAD.
func (r *Repo) Head(ctx context.Context) (Head, error) {
	if err := ctx.Err(); err != nil {
		return Head{}, err
	}

	ref, err := r.repo.Head()
	if err != nil {
		return Head{}, WrapError(err, "failed to resolve HEAD")
	}

	head := Head{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, nil
}

// RemoteURL returns the first URL configured for the default remote.
func (r *Repo) RemoteURL() (string, error) {
	remote, err := r.repo.Remote(DefaultRemoteName)
	if err != nil {
		return "", WrapErrorf(err, "failed to get remote %s", DefaultRemoteName)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", WrapErrorf(ErrInvalidOptions, "remote %s has no URL", DefaultRemoteName)
	}
	return urls[0], nil
}

func resolveAuth(provider auth.AuthProvider, remoteURL string) (transport.AuthMethod, error) {
	if provider == nil {
		return nil, nil
	}

	method, err := provider.Method(remoteURL)
	if err != nil {
		return nil, WrapError(err, "failed to get authentication method")
	}
	return method, nil
}

// redactURL strips any password embedded in a remote URL before it is logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
