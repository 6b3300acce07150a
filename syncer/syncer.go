// Package syncer wires configuration, secrets, the auth flow registry and the git
// layer into a single clone-or-pull run.
package syncer

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/config"
	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/git"
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/secrets"
)

// Syncer keeps the configured local path in step with the configured remote.
type Syncer struct {
	cfg        *config.Config
	logger     *slog.Logger
	registry   *auth.Registry
	source     secrets.Source
	fs         billy.Filesystem
	progress   io.Writer
	awsOptions []secrets.AWSOption
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry replaces the default flow registry.
func WithRegistry(registry *auth.Registry) Option {
	return func(s *Syncer) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithSource uses src instead of the source described by the configuration.
func WithSource(src secrets.Source) Option {
	return func(s *Syncer) {
		s.source = src
	}
}

// WithFilesystem replaces the OS filesystem rooted at LocalRepositoryPath.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(s *Syncer) {
		s.fs = fs
	}
}

// WithProgress streams remote progress output to w.
func WithProgress(w io.Writer) Option {
	return func(s *Syncer) {
		s.progress = w
	}
}

// WithAWSOptions passes options to the AWS Secrets Manager source.
func WithAWSOptions(opts ...secrets.AWSOption) Option {
	return func(s *Syncer) {
		s.awsOptions = append(s.awsOptions, opts...)
	}
}

// New creates a Syncer for cfg.
func New(cfg *config.Config, opts ...Option) (*Syncer, error) {
	if cfg == nil {
		return nil, gserrors.New(gserrors.CodeInvalidInput, "configuration is nil")
	}

	s := &Syncer{
		cfg:      cfg,
		logger:   slog.New(slog.DiscardHandler),
		registry: auth.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Callback loads the secrets and selects the authentication callback. A nil
// callback with a nil error means the configured flow needs no credentials.
// No git remote is contacted.
func (s *Syncer) Callback(ctx context.Context) (auth.Callback, error) {
	authCfg, err := s.cfg.Auth()
	if err != nil {
		return nil, err
	}

	bundle := auth.Secrets{}
	if authCfg.AuthFlow != auth.AuthFlowNone {
		bundle, err = s.loadSecrets(ctx)
		if err != nil {
			return nil, err
		}
	}

	cb, err := s.registry.Select(authCfg, bundle)
	if err != nil {
		s.logger.Error("authentication misconfigured",
			"provider", authCfg.Provider,
			"auth_flow", authCfg.AuthFlow,
			"error", err,
		)
		return nil, err
	}

	s.logger.Debug("selected authentication flow",
		"provider", authCfg.Provider,
		"auth_flow", authCfg.AuthFlow,
		"secrets", bundle.String(),
	)
	return cb, nil
}

// Run clones the repository, or fast-forwards an existing clone, and returns the
// resulting HEAD.
func (s *Syncer) Run(ctx context.Context) (git.Head, error) {
	cb, err := s.Callback(ctx)
	if err != nil {
		return git.Head{}, err
	}

	provider := auth.NewCallbackProvider(cb)
	if len(s.cfg.AllowedHosts) > 0 {
		provider = provider.WithAllowedHosts(s.cfg.AllowedHosts...)
	}

	fs := s.fs
	if fs == nil {
		fs = osfs.New(s.cfg.LocalRepositoryPath)
	}

	repo, err := git.Sync(ctx, s.cfg.RepositoryURL, &git.Options{
		FS:           fs,
		Auth:         provider,
		Branch:       s.cfg.Branch,
		ShallowDepth: s.cfg.Depth,
		Logger:       s.logger,
		Progress:     s.progress,
	})
	if err != nil {
		return git.Head{}, err
	}

	return repo.Head(ctx)
}

func (s *Syncer) loadSecrets(ctx context.Context) (auth.Secrets, error) {
	src := s.source
	if src == nil {
		created, err := secrets.NewSource(ctx, s.cfg.SecretsSettings(), s.awsSourceOptions()...)
		if err != nil {
			return auth.Secrets{}, err
		}
		if closer, ok := created.(io.Closer); ok {
			defer func() { _ = closer.Close() }()
		}
		src = created
	}

	s.logger.Debug("loading secrets", "source", src.Name())
	return secrets.Load(ctx, src)
}

func (s *Syncer) awsSourceOptions() []secrets.AWSOption {
	return append([]secrets.AWSOption{secrets.WithLogger(s.logger)}, s.awsOptions...)
}
