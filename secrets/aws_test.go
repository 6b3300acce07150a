package secrets

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// mockManagerAPI is a hand-written ManagerAPI for tests.
type mockManagerAPI struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
	calls  int
	lastID string
}

func (m *mockManagerAPI) GetSecretValue(
	_ context.Context,
	params *secretsmanager.GetSecretValueInput,
	_ ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	m.calls++
	m.lastID = aws.ToString(params.SecretId)
	return m.output, m.err
}

func secretOutput(s string) *secretsmanager.GetSecretValueOutput {
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s)}
}

func TestNewAWSSourceWithAPI_Validation(t *testing.T) {
	_, err := NewAWSSourceWithAPI(nil, "id")
	require.Error(t, err)
	assert.True(t, gserrors.HasCode(err, gserrors.CodeInvalidInput))

	_, err = NewAWSSourceWithAPI(&mockManagerAPI{}, "")
	require.Error(t, err)
	assert.True(t, gserrors.HasCode(err, gserrors.CodeInvalidConfig))
}

func TestAWSSource_Load(t *testing.T) {
	api := &mockManagerAPI{
		output: secretOutput(`{"token_flow_username":"bot","token_flow_token":"token"}`),
	}
	src, err := NewAWSSourceWithAPI(api, "gitsync/credentials")
	require.NoError(t, err)

	s, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, &auth.TokenFlowOptions{Username: "bot", Token: "token"}, s.TokenFlow)
	assert.Nil(t, s.PasswordFlow)

	assert.Equal(t, "gitsync/credentials", api.lastID)
	assert.Equal(t, 1, api.calls, "document should be fetched once per load")
}

func TestAWSSource_CacheDisabled(t *testing.T) {
	api := &mockManagerAPI{output: secretOutput(`{"password_flow_username":"user"}`)}
	src, err := NewAWSSourceWithAPI(api, "id", WithCacheTTL(0))
	require.NoError(t, err)

	_, err = Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 4, api.calls)
}

func TestAWSSource_CacheExpiry(t *testing.T) {
	api := &mockManagerAPI{output: secretOutput(`{"password_flow_username":"user"}`)}
	src, err := NewAWSSourceWithAPI(api, "id", WithCacheTTL(time.Minute))
	require.NoError(t, err)

	now := time.Now()
	src.cache.now = func() time.Time { return now }

	_, _, err = src.Lookup(context.Background(), KeyPasswordFlowUsername)
	require.NoError(t, err)
	_, _, err = src.Lookup(context.Background(), KeyPasswordFlowUsername)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)

	now = now.Add(2 * time.Minute)
	_, _, err = src.Lookup(context.Background(), KeyPasswordFlowUsername)
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)

	require.NoError(t, src.Close())
	_, _, err = src.Lookup(context.Background(), KeyPasswordFlowUsername)
	require.NoError(t, err)
	assert.Equal(t, 3, api.calls)
}

func TestAWSSource_Errors(t *testing.T) {
	tests := []struct {
		name     string
		api      *mockManagerAPI
		target   error
		wantCode gserrors.ErrorCode
	}{
		{
			name:     "not found",
			api:      &mockManagerAPI{err: &smithy.GenericAPIError{Code: ResourceNotFoundException, Message: "nope"}},
			target:   ErrSecretNotFound,
			wantCode: gserrors.CodeNotFound,
		},
		{
			name:     "access denied",
			api:      &mockManagerAPI{err: &smithy.GenericAPIError{Code: AccessDeniedException, Message: "nope"}},
			target:   ErrAccessDenied,
			wantCode: gserrors.CodeForbidden,
		},
		{
			name:     "throttled",
			api:      &mockManagerAPI{err: &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}},
			wantCode: gserrors.CodeUnavailable,
		},
		{
			name:     "empty value",
			api:      &mockManagerAPI{output: &secretsmanager.GetSecretValueOutput{}},
			wantCode: gserrors.CodeNotFound,
		},
		{
			name:     "not JSON",
			api:      &mockManagerAPI{output: secretOutput("hunter2")},
			wantCode: gserrors.CodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewAWSSourceWithAPI(tt.api, "id")
			require.NoError(t, err)

			_, err = Load(context.Background(), src)
			require.Error(t, err)
			assert.True(t, IsSourceError(err))
			assert.Equal(t, tt.wantCode, gserrors.CodeOf(err))
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
			assert.NotContains(t, err.Error(), "hunter2")
		})
	}
}

func TestAWSSource_BinarySecret(t *testing.T) {
	api := &mockManagerAPI{output: &secretsmanager.GetSecretValueOutput{
		SecretBinary: []byte(`{"password_flow_username":"user","password_flow_password":"password"}`),
	}}
	src, err := NewAWSSourceWithAPI(api, "id")
	require.NoError(t, err)

	s, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, &auth.PasswordFlowOptions{Username: "user", Password: "password"}, s.PasswordFlow)
}

func TestAWSSource_LogsWithoutValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	api := &mockManagerAPI{output: secretOutput(`{"token_flow_token":"ghp_secret"}`)}
	src, err := NewAWSSourceWithAPI(api, "gitsync/credentials", WithLogger(logger))
	require.NoError(t, err)

	_, err = Load(context.Background(), src)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "gitsync/credentials")
	assert.NotContains(t, buf.String(), "ghp_secret")
}
