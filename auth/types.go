// Package auth selects and builds the credential callback handed to the git transport.
//
// Given a Config (which provider, which auth flow) and a Secrets bundle, the Flow Registry
// dispatches on the provider to a FlowBuilder, which dispatches on the auth flow and returns
// a Callback or an AuthenticationMisconfigured error. All validation happens while the
// callback is built; a Callback never fails when invoked.
package auth

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport/http"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// Provider identifies the git-hosting backend.
type Provider string

const (
	// ProviderGeneric is any plain git server reachable over HTTP(S).
	ProviderGeneric Provider = "generic"

	// ProviderGitHub is github.com or GitHub Enterprise.
	ProviderGitHub Provider = "github"

	// ProviderGitea is a self-hosted Gitea instance.
	ProviderGitea Provider = "gitea"

	// ProviderGitLab is gitlab.com or a self-hosted GitLab.
	ProviderGitLab Provider = "gitlab"
)

// Providers lists every known provider.
var Providers = []Provider{ProviderGeneric, ProviderGitHub, ProviderGitea, ProviderGitLab}

// ParseProvider parses a provider name case-insensitively. An empty name is ProviderGeneric.
func ParseProvider(s string) (Provider, error) {
	if strings.TrimSpace(s) == "" {
		return ProviderGeneric, nil
	}

	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}

	return "", gserrors.Newf(gserrors.CodeInvalidConfig, "unknown provider %q", s).
		WithContext("field", "provider")
}

// AuthFlow is the strategy used to obtain credentials.
type AuthFlow string

const (
	// AuthFlowNone performs no authentication.
	AuthFlowNone AuthFlow = "none"

	// AuthFlowPassword authenticates with a username and password.
	AuthFlowPassword AuthFlow = "password"

	// AuthFlowToken authenticates with a username and personal access token.
	AuthFlowToken AuthFlow = "token"
)

// ParseAuthFlow parses an auth flow name case-insensitively. "pat" is accepted as an
// alias of "token" and an empty name is AuthFlowNone.
func ParseAuthFlow(s string) (AuthFlow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AuthFlowNone):
		return AuthFlowNone, nil
	case string(AuthFlowPassword):
		return AuthFlowPassword, nil
	case string(AuthFlowToken), "pat":
		return AuthFlowToken, nil
	default:
		return "", gserrors.Newf(gserrors.CodeInvalidConfig, "unknown authFlow %q", s).
			WithContext("field", "authFlow")
	}
}

// Config describes how to authenticate against the remote. It is supplied once per
// operation and never mutated.
type Config struct {
	Provider Provider
	AuthFlow AuthFlow
}

// PasswordFlowOptions holds the secrets for AuthFlowPassword.
type PasswordFlowOptions struct {
	Username string
	Password string
}

// TokenFlowOptions holds the secrets for AuthFlowToken. Username is optional in the
// bundle, but every provider served by GenericFlow requires it.
type TokenFlowOptions struct {
	Username string
	Token    string
}

// Secrets is the credential material available to the process, partitioned by flow.
// A nil sub-record is absent. Only the sub-record matching the configured flow is read.
type Secrets struct {
	PasswordFlow *PasswordFlowOptions
	TokenFlow    *TokenFlowOptions
}

// String reports which sub-records are present without printing any of their values.
func (s Secrets) String() string {
	return fmt.Sprintf("Secrets{passwordFlow: %t, tokenFlow: %t}", s.PasswordFlow != nil, s.TokenFlow != nil)
}

// Credentials is the pair handed to the transport for a single authentication challenge.
// For the token flow Password carries the token.
type Credentials struct {
	Username string
	Password string
}

// String redacts the password.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{username: %q, password: <redacted>}", c.Username)
}

// BasicAuth converts the pair into go-git's HTTP basic auth method.
func (c Credentials) BasicAuth() *http.BasicAuth {
	return &http.BasicAuth{
		Username: c.Username,
		Password: c.Password,
	}
}

// Callback produces credentials on demand. It holds no mutable state and is safe to call
// repeatedly and concurrently; every call returns the same pair.
type Callback func() Credentials
