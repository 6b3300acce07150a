package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/config"
	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/syncer"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	// overridable in tests
	loadOptions   config.LoadOptions
	syncerOptions []syncer.Option

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitsync",
		Short: "Clone a git repository and keep it in sync",
		Long: `gitsync clones a repository into a local path and fast-forwards it on later runs.

Credentials are produced by the configured auth flow (none, password or token)
from secrets held in environment variables, mounted secret files or AWS Secrets Manager.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to the configuration file (default: $XDG_CONFIG_HOME/"+config.DefaultConfigFile+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(newCloneCmd(opts), newValidateCmd(opts))
	return cmd
}

func newCloneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clone",
		Short: "Clone the configured repository, or pull it if already cloned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cfg, err := opts.newSyncer()
			if err != nil {
				return err
			}

			head, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("%s is at %s (%s)\n", cfg.LocalRepositoryPath, head.Hash, displayBranch(head.Branch))
			return nil
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and secrets without contacting the remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cfg, err := opts.newSyncer()
			if err != nil {
				return err
			}

			cb, err := s.Callback(cmd.Context())
			if err != nil {
				if gserrors.HasCode(err, gserrors.CodeAuthMisconfigured) {
					return fmt.Errorf("authentication misconfigured: %w", err)
				}
				return err
			}

			if cb == nil {
				cmd.Printf("configuration is valid: %s provider, no authentication\n", cfg.Provider)
				return nil
			}

			cmd.Printf("configuration is valid: %s provider, %s flow, %s\n",
				cfg.Provider, cfg.AuthFlow, cb())
			return nil
		},
	}
}

func (o *rootOptions) newSyncer() (*syncer.Syncer, *config.Config, error) {
	cfg, err := config.Load(o.configPath, o.loadOptions)
	if err != nil {
		return nil, nil, err
	}

	authCfg, err := cfg.Auth()
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debug("loaded configuration",
		"local_path", cfg.LocalRepositoryPath,
		"provider", authCfg.Provider,
		"auth_flow", authCfg.AuthFlow,
		"secrets_source", cfg.Secrets.Source,
	)

	s, err := syncer.New(cfg, append([]syncer.Option{syncer.WithLogger(o.logger)}, o.syncerOptions...)...)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, gserrors.Wrap(err, gserrors.CodeInvalidInput, "invalid --log-level")
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, gserrors.New(gserrors.CodeInvalidInput,
			fmt.Sprintf("invalid --log-format %q, expected text or json", format))
	}
}

func displayBranch(branch string) string {
	if branch == "" {
		return "detached"
	}
	return branch
}
