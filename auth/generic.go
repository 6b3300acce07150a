package auth

import "fmt"

// GenericFlow builds callbacks for providers that accept HTTP basic auth with either a
// password or a personal access token.
type GenericFlow struct{}

// Build validates that secrets satisfy cfg.AuthFlow and returns a callback over a copy of
// the matching sub-record. AuthFlowNone has no branch here: Registry.Select handles it
// before a builder is consulted, so reaching Build with it is an invalid flow.
func (GenericFlow) Build(cfg Config, secrets Secrets) (Callback, error) {
	switch cfg.AuthFlow {
	case AuthFlowPassword:
		if secrets.PasswordFlow == nil {
			return nil, misconfigured(cfg, "passwordFlowOptions",
				"passwordFlowOptions need to be set in order to use the password flow")
		}

		opts := *secrets.PasswordFlow
		return func() Credentials {
			return Credentials{
				Username: opts.Username,
				Password: opts.Password,
			}
		}, nil

	case AuthFlowToken:
		if secrets.TokenFlow == nil {
			return nil, misconfigured(cfg, "tokenFlowOptions",
				"tokenFlowOptions need to be set in order to use the token flow")
		}
		if secrets.TokenFlow.Username == "" {
			return nil, misconfigured(cfg, "tokenFlowOptions.username",
				fmt.Sprintf("the %s git provider requires a username to be set when using the token flow", cfg.Provider))
		}

		opts := *secrets.TokenFlow
		return func() Credentials {
			return Credentials{
				Username: opts.Username,
				Password: opts.Token,
			}
		}, nil

	default:
		return nil, misconfigured(cfg, "authFlow", fmt.Sprintf("invalid authFlow %q", cfg.AuthFlow))
	}
}
