package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// AWS error code constants
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// DefaultAWSCacheTTL bounds how long a fetched document is reused.
const DefaultAWSCacheTTL = time.Minute

// ManagerAPI is the subset of the AWS Secrets Manager client used by AWSSource.
type ManagerAPI interface {
	// GetSecretValue retrieves the value of a secret from AWS Secrets Manager.
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSource reads credentials from a single AWS Secrets Manager secret whose value is a
// flat JSON object, e.g. {"token_flow_username": "bot", "token_flow_token": "..."}.
//
// Thread Safety: AWSSource is safe for concurrent use. The AWS SDK v2 client is
// thread-safe and the document cache is guarded by a mutex.
type AWSSource struct {
	api      ManagerAPI
	secretID string
	logger   *slog.Logger
	cache    *documentCache
}

// awsOptions holds configuration options for AWSSource.
type awsOptions struct {
	logger   *slog.Logger
	region   string
	endpoint string
	cacheTTL time.Duration
}

// AWSOption is a functional option for configuring AWSSource.
type AWSOption func(*awsOptions)

// WithLogger configures a logger. If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) AWSOption {
	return func(opts *awsOptions) {
		opts.logger = logger
	}
}

// WithRegion overrides the region from the default AWS configuration chain.
func WithRegion(region string) AWSOption {
	return func(opts *awsOptions) {
		opts.region = region
	}
}

// WithEndpoint sends requests to a custom Secrets Manager endpoint, such as a VPC
// endpoint or LocalStack.
func WithEndpoint(endpoint string) AWSOption {
	return func(opts *awsOptions) {
		opts.endpoint = endpoint
	}
}

// WithCacheTTL sets how long a fetched document is reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) AWSOption {
	return func(opts *awsOptions) {
		opts.cacheTTL = ttl
	}
}

func defaultAWSOptions() *awsOptions {
	return &awsOptions{
		cacheTTL: DefaultAWSCacheTTL,
	}
}

// NewAWSSource creates an AWSSource using the default AWS configuration chain.
func NewAWSSource(ctx context.Context, secretID string, opts ...AWSOption) (*AWSSource, error) {
	options := defaultAWSOptions()
	for _, opt := range opts {
		opt(options)
	}

	var loadOpts []func(*config.LoadOptions) error
	if options.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(options.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		if options.endpoint != "" {
			o.BaseEndpoint = aws.String(options.endpoint)
		}
	})
	return newAWSSource(api, secretID, options)
}

// NewAWSSourceWithAPI creates an AWSSource on top of an existing client.
// This is useful for testing with mocks or LocalStack.
func NewAWSSourceWithAPI(api ManagerAPI, secretID string, opts ...AWSOption) (*AWSSource, error) {
	options := defaultAWSOptions()
	for _, opt := range opts {
		opt(options)
	}
	return newAWSSource(api, secretID, options)
}

func newAWSSource(api ManagerAPI, secretID string, options *awsOptions) (*AWSSource, error) {
	if api == nil {
		return nil, gserrors.New(gserrors.CodeInvalidInput, "secrets manager client cannot be nil")
	}
	if secretID == "" {
		return nil, gserrors.New(gserrors.CodeInvalidConfig, "AWS secret id cannot be empty")
	}

	return &AWSSource{
		api:      api,
		secretID: secretID,
		logger:   options.logger,
		cache:    newDocumentCache(options.cacheTTL),
	}, nil
}

// Name returns the source identifier.
func (s *AWSSource) Name() string {
	return "aws"
}

// Lookup returns key from the secret's JSON document.
func (s *AWSSource) Lookup(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return "", false, NewSourceError(s.Name(), key, err)
	}

	v, ok := doc[key]
	return v, ok, nil
}

// Close drops cached documents.
func (s *AWSSource) Close() error {
	s.cache.clear()
	return nil
}

func (s *AWSSource) document(ctx context.Context) (map[string]string, error) {
	if doc, ok := s.cache.get(s.secretID); ok {
		return doc, nil
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "retrieving secret", "secret_id", s.secretID)
	}

	output, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case ResourceNotFoundException:
				return nil, ErrSecretNotFound.WithContext("secret_id", s.secretID)
			case AccessDeniedException:
				return nil, ErrAccessDenied.WithContext("secret_id", s.secretID)
			}
		}

		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to retrieve secret",
				"secret_id", s.secretID,
				"error", err)
		}
		return nil, gserrors.Wrap(err, gserrors.CodeUnavailable, "GetSecretValue operation failed")
	}

	var raw []byte
	switch {
	case output.SecretString != nil:
		raw = []byte(*output.SecretString)
	case output.SecretBinary != nil:
		raw = output.SecretBinary
	default:
		return nil, gserrors.New(gserrors.CodeNotFound, "secret value is empty").
			WithContext("secret_id", s.secretID)
	}

	doc := make(map[string]string)
	if err := json.Unmarshal(raw, &doc); err != nil {
		// The decoder error can quote the payload, so it is not wrapped.
		return nil, gserrors.New(gserrors.CodeInvalidConfig, "secret value is not a flat JSON object of strings").
			WithContext("secret_id", s.secretID)
	}

	s.cache.set(s.secretID, doc)
	return doc, nil
}
