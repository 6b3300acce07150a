// Package config provides loading, validation, and convenient access to the gitsync
// service configuration.
//
// Configuration is read from a YAML file and then overridden by GITSYNC_* environment
// variables. When no file path is given the file is looked up in the XDG config
// directories as gitsync/config.yaml; a missing default file is not an error.
//
// # Basic Usage
//
//	cfg, err := config.Load("", config.LoadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	authCfg, err := cfg.Auth()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
	"github.com/input-output-hk/catalyst-forge-libs/gitsync/secrets"
)

// Config is the service configuration.
type Config struct {
	// RepositoryURL is the remote to clone.
	RepositoryURL string `yaml:"repositoryUrl" validate:"required"`

	// LocalRepositoryPath is where the repository is cloned to.
	LocalRepositoryPath string `yaml:"localRepositoryPath" validate:"required"`

	// Branch to check out. Empty means the remote HEAD.
	Branch string `yaml:"branch"`

	// Depth limits the clone depth. Zero clones full history.
	Depth int `yaml:"depth" validate:"gte=0"`

	// Provider names the git-hosting backend.
	Provider string `yaml:"provider" validate:"provider"`

	// AuthFlow selects how credentials are supplied.
	AuthFlow string `yaml:"authFlow" validate:"authflow"`

	// AllowedHosts restricts which hosts receive credentials.
	AllowedHosts []string `yaml:"allowedHosts"`

	// Secrets selects where credential material is loaded from.
	Secrets SecretsConfig `yaml:"secrets"`
}

// SecretsConfig selects the secrets source.
type SecretsConfig struct {
	Source      string `yaml:"source" validate:"omitempty,oneof=env files aws"`
	Prefix      string `yaml:"prefix"`
	Dir         string `yaml:"dir"`
	AWSSecretID string `yaml:"awsSecretId" validate:"required_if=Source aws"`
	AWSRegion   string `yaml:"awsRegion"`
	AWSEndpoint string `yaml:"awsEndpoint" validate:"omitempty,url"`
}

// Default returns the configuration used before the file and environment are applied.
func Default() *Config {
	return &Config{
		Provider: string(auth.ProviderGeneric),
		AuthFlow: string(auth.AuthFlowNone),
		Secrets: SecretsConfig{
			Source: secrets.SourceEnv,
			Prefix: secrets.DefaultEnvPrefix,
			Dir:    secrets.DefaultSecretsDir,
		},
	}
}

// Auth converts the configuration to the auth flow configuration.
func (c *Config) Auth() (auth.Config, error) {
	provider, err := auth.ParseProvider(c.Provider)
	if err != nil {
		return auth.Config{}, err
	}

	flow, err := auth.ParseAuthFlow(c.AuthFlow)
	if err != nil {
		return auth.Config{}, err
	}

	return auth.Config{Provider: provider, AuthFlow: flow}, nil
}

// SecretsSettings returns the settings for secrets.NewSource.
func (c *Config) SecretsSettings() secrets.Settings {
	return secrets.Settings{
		Source:      c.Secrets.Source,
		Prefix:      c.Secrets.Prefix,
		Dir:         c.Secrets.Dir,
		AWSSecretID: c.Secrets.AWSSecretID,
		AWSRegion:   c.Secrets.AWSRegion,
		AWSEndpoint: c.Secrets.AWSEndpoint,
	}
}
