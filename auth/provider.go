package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// AuthProvider resolves authentication methods for git operations.
type AuthProvider interface {
	// Method returns the appropriate transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	// Returns an error if authentication setup fails.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// CallbackProvider exposes a Callback to go-git as HTTP basic auth.
type CallbackProvider struct {
	// callback produces the credentials; nil means no authentication.
	callback Callback

	// AllowedHosts restricts authentication to specific host patterns.
	// If empty, authentication is allowed for all HTTP(S) URLs.
	// Supports glob patterns like "*.github.com" or "gitea.*".
	AllowedHosts []string
}

// NewCallbackProvider wraps cb. A nil cb is valid and yields no authentication,
// which is what Registry.Select returns for AuthFlowNone.
func NewCallbackProvider(cb Callback) *CallbackProvider {
	return &CallbackProvider{callback: cb}
}

// WithAllowedHosts sets the allowed hosts for this provider.
// Only URLs matching these patterns will be authenticated.
func (p *CallbackProvider) WithAllowedHosts(hosts ...string) *CallbackProvider {
	p.AllowedHosts = hosts
	return p
}

// Method invokes the callback once and returns its credentials as basic auth.
// Local repositories (file:// or plain paths) never get credentials, and other
// schemes such as ssh:// are rejected.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *CallbackProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	parsedURL, err := url.Parse(remoteURL)
	if err != nil {
		return nil, gserrors.Wrap(err, gserrors.CodeInvalidInput, "invalid remote URL")
	}

	switch parsedURL.Scheme {
	case "", "file":
		return nil, nil
	case "http", "https":
	default:
		return nil, gserrors.New(gserrors.CodeInvalidInput,
			fmt.Sprintf("only http:// and https:// remotes support credential callbacks, got %s://", parsedURL.Scheme))
	}

	if p.callback == nil {
		return nil, nil
	}

	if len(p.AllowedHosts) > 0 && !p.isHostAllowed(parsedURL.Hostname()) {
		return nil, nil
	}

	return p.callback().BasicAuth(), nil
}

// isHostAllowed checks if the given host matches any of the allowed host patterns.
func (p *CallbackProvider) isHostAllowed(host string) bool {
	for _, pattern := range p.AllowedHosts {
		if matchesPattern(host, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a host matches a pattern with a single "*" wildcard.
func matchesPattern(host, pattern string) bool {
	if host == pattern {
		return true
	}

	if strings.Count(pattern, "*") != 1 {
		return false
	}

	if strings.HasPrefix(pattern, "*.") {
		suffix := strings.TrimPrefix(pattern, "*.")
		return host == suffix || strings.HasSuffix(host, "."+suffix)
	}

	if strings.HasSuffix(pattern, ".*") {
		prefix := strings.TrimSuffix(pattern, ".*")
		return strings.HasPrefix(host, prefix+".")
	}

	return false
}
