package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"", ProviderGeneric, false},
		{"generic", ProviderGeneric, false},
		{"GitHub", ProviderGitHub, false},
		{" gitea ", ProviderGitea, false},
		{"gitlab", ProviderGitLab, false},
		{"bitbucket", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, gserrors.HasCode(err, gserrors.CodeInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAuthFlow(t *testing.T) {
	tests := []struct {
		in      string
		want    AuthFlow
		wantErr bool
	}{
		{"", AuthFlowNone, false},
		{"none", AuthFlowNone, false},
		{"Password", AuthFlowPassword, false},
		{"token", AuthFlowToken, false},
		{"PAT", AuthFlowToken, false},
		{"ssh", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAuthFlow(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, gserrors.HasCode(err, gserrors.CodeInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedaction(t *testing.T) {
	creds := Credentials{Username: "user", Password: "hunter2"}
	assert.NotContains(t, creds.String(), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%v", creds), "hunter2")
	assert.Contains(t, creds.String(), "user")

	secrets := Secrets{
		PasswordFlow: &PasswordFlowOptions{Username: "user", Password: "hunter2"},
		TokenFlow:    &TokenFlowOptions{Username: "user", Token: "ghp_secret"},
	}
	assert.NotContains(t, secrets.String(), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%v", secrets), "ghp_secret")
}

func TestCredentials_BasicAuth(t *testing.T) {
	ba := Credentials{Username: "user", Password: "token"}.BasicAuth()
	assert.Equal(t, "user", ba.Username)
	assert.Equal(t, "token", ba.Password)
}
