package secrets

import (
	"context"
)

// Source kinds accepted by NewSource.
const (
	SourceEnv   = "env"
	SourceFiles = "files"
	SourceAWS   = "aws"
)

// Settings selects and parameterizes a Source.
type Settings struct {
	// Source is one of SourceEnv, SourceFiles or SourceAWS. Empty means SourceEnv.
	Source string

	// Prefix is the environment variable prefix for SourceEnv.
	Prefix string

	// Dir is the secrets directory for SourceFiles.
	Dir string

	// AWSSecretID names the secret for SourceAWS.
	AWSSecretID string

	// AWSRegion optionally overrides the AWS region for SourceAWS.
	AWSRegion string

	// AWSEndpoint optionally overrides the Secrets Manager endpoint for SourceAWS.
	AWSEndpoint string
}

// NewSource builds the Source described by settings.
//
//nolint:ireturn // the concrete source depends on settings
func NewSource(ctx context.Context, settings Settings, opts ...AWSOption) (Source, error) {
	switch settings.Source {
	case "", SourceEnv:
		return NewEnvSource(settings.Prefix), nil
	case SourceFiles:
		return NewFileSource(settings.Dir), nil
	case SourceAWS:
		if settings.AWSRegion != "" {
			opts = append(opts, WithRegion(settings.AWSRegion))
		}
		if settings.AWSEndpoint != "" {
			opts = append(opts, WithEndpoint(settings.AWSEndpoint))
		}
		return NewAWSSource(ctx, settings.AWSSecretID, opts...)
	default:
		return nil, ErrUnknownSource.WithContext("source", settings.Source)
	}
}
