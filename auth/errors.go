package auth

import (
	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// ErrAuthenticationMisconfigured is the sentinel for every failure to build a callback.
// Match it with errors.Is; the concrete error carries the provider, flow and field in
// its Context.
var ErrAuthenticationMisconfigured = gserrors.New(gserrors.CodeAuthMisconfigured, "authentication misconfigured")

// misconfigured builds an AuthenticationMisconfigured error for cfg.
func misconfigured(cfg Config, field, msg string) *gserrors.Error {
	err := ErrAuthenticationMisconfigured.WithMessage(msg).
		WithContext("provider", string(cfg.Provider)).
		WithContext("authFlow", string(cfg.AuthFlow))
	if field != "" {
		err = err.WithContext("field", field)
	}
	return err
}
