package auth_test

import (
	"errors"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
)

// ExampleSelectFlow shows how a callback is selected for a password flow.
func ExampleSelectFlow() {
	cb, err := auth.SelectFlow(
		auth.Config{Provider: auth.ProviderGitea, AuthFlow: auth.AuthFlowPassword},
		auth.Secrets{PasswordFlow: &auth.PasswordFlowOptions{Username: "user", Password: "password"}},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	creds := cb()
	fmt.Println(creds.Username, creds.Password)
	// Output: user password
}

// ExampleSelectFlow_misconfigured shows the error reported when the secrets do not
// match the configured flow.
func ExampleSelectFlow_misconfigured() {
	_, err := auth.SelectFlow(
		auth.Config{Provider: auth.ProviderGitea, AuthFlow: auth.AuthFlowToken},
		auth.Secrets{TokenFlow: &auth.TokenFlowOptions{Token: "tok"}},
	)

	fmt.Println(errors.Is(err, auth.ErrAuthenticationMisconfigured))
	fmt.Println(err)
	// Output:
	// true
	// the gitea git provider requires a username to be set when using the token flow (authFlow=token, field=tokenFlowOptions.username, provider=gitea)
}

// ExampleRegistry_Register shows a provider-specific builder taking precedence over
// the generic flow.
func ExampleRegistry_Register() {
	registry := auth.DefaultRegistry()
	err := registry.Register(auth.ProviderGitHub, auth.FlowBuilderFunc(
		func(_ auth.Config, secrets auth.Secrets) (auth.Callback, error) {
			if secrets.TokenFlow == nil {
				return nil, auth.ErrAuthenticationMisconfigured
			}
			token := secrets.TokenFlow.Token
			return func() auth.Credentials {
				return auth.Credentials{Username: "x-access-token", Password: token}
			}, nil
		},
	))
	if err != nil {
		fmt.Println(err)
		return
	}

	cb, err := registry.Select(
		auth.Config{Provider: auth.ProviderGitHub, AuthFlow: auth.AuthFlowToken},
		auth.Secrets{TokenFlow: &auth.TokenFlowOptions{Token: "ghs_123"}},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cb())
	// Output: Credentials{username: "x-access-token", password: <redacted>}
}
