package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// DefaultConfigFile is the path searched in the XDG config directories.
const DefaultConfigFile = "gitsync/config.yaml"

// Environment variables overriding file values.
const (
	EnvRepositoryURL       = "GITSYNC_REPOSITORY_URL"
	EnvLocalRepositoryPath = "GITSYNC_LOCAL_REPOSITORY_PATH"
	EnvBranch              = "GITSYNC_BRANCH"
	EnvDepth               = "GITSYNC_DEPTH"
	EnvProvider            = "GITSYNC_PROVIDER"
	EnvAuthFlow            = "GITSYNC_AUTH_FLOW"
	EnvSecretsSource       = "GITSYNC_SECRETS_SOURCE"
	EnvSecretsPrefix       = "GITSYNC_SECRETS_PREFIX"
	EnvSecretsDir          = "GITSYNC_SECRETS_DIR"
	EnvAWSSecretID         = "GITSYNC_AWS_SECRET_ID"
	EnvAWSRegion           = "GITSYNC_AWS_REGION"
	EnvAWSEndpoint         = "GITSYNC_AWS_ENDPOINT"
)

// LoadOptions configures the behavior of configuration loading.
type LoadOptions struct {
	// SkipValidation disables automatic validation after loading.
	SkipValidation bool

	// LookupEnv overrides os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// SearchConfigFile overrides xdg.SearchConfigFile for the default path.
	SearchConfigFile func(relPath string) (string, error)
}

// Load reads the configuration at path, applies environment overrides and validates
// the result. An empty path searches DefaultConfigFile in the XDG config directories
// and falls back to defaults when nothing is found.
func Load(path string, opts LoadOptions) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = opts.defaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			code := gserrors.CodeInvalidConfig
			if errors.Is(err, fs.ErrNotExist) {
				code = gserrors.CodeNotFound
			}
			return nil, gserrors.WrapWithContext(err, code, "failed to read configuration",
				map[string]any{"path": path})
		}

		if err := Parse(data, cfg); err != nil {
			return nil, gserrors.WrapWithContext(err, gserrors.CodeInvalidConfig, "failed to parse configuration",
				map[string]any{"path": path})
		}
	}

	if err := applyEnv(cfg, opts.lookupEnv()); err != nil {
		return nil, err
	}

	if !opts.SkipValidation {
		if err := Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values of cfg for keys absent in data.
// Unknown keys are rejected. Input without a document, such as a file holding
// only comments, leaves cfg unchanged.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (o LoadOptions) lookupEnv() func(string) (string, bool) {
	if o.LookupEnv != nil {
		return o.LookupEnv
	}
	return os.LookupEnv
}

func (o LoadOptions) defaultPath() string {
	search := o.SearchConfigFile
	if search == nil {
		search = xdg.SearchConfigFile
	}

	path, err := search(DefaultConfigFile)
	if err != nil {
		return ""
	}
	return path
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvRepositoryURL:       &cfg.RepositoryURL,
		EnvLocalRepositoryPath: &cfg.LocalRepositoryPath,
		EnvBranch:              &cfg.Branch,
		EnvProvider:            &cfg.Provider,
		EnvAuthFlow:            &cfg.AuthFlow,
		EnvSecretsSource:       &cfg.Secrets.Source,
		EnvSecretsPrefix:       &cfg.Secrets.Prefix,
		EnvSecretsDir:          &cfg.Secrets.Dir,
		EnvAWSSecretID:         &cfg.Secrets.AWSSecretID,
		EnvAWSRegion:           &cfg.Secrets.AWSRegion,
		EnvAWSEndpoint:         &cfg.Secrets.AWSEndpoint,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvDepth); ok {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return gserrors.WrapWithContext(err, gserrors.CodeInvalidConfig, "invalid depth",
				map[string]any{"env": EnvDepth})
		}
		cfg.Depth = depth
	}

	return nil
}
