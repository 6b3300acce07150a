package secrets

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/gitsync/auth"
)

// Load reads every credential key from src and assembles an auth.Secrets bundle.
// A flow's sub-record is present when at least one of its keys is present; whether
// the record is complete enough for the configured flow is decided by the flow builder.
func Load(ctx context.Context, src Source) (auth.Secrets, error) {
	values := make(map[string]string, 4)
	for _, key := range []string{
		KeyPasswordFlowUsername,
		KeyPasswordFlowPassword,
		KeyTokenFlowUsername,
		KeyTokenFlowToken,
	} {
		v, ok, err := src.Lookup(ctx, key)
		if err != nil {
			return auth.Secrets{}, err
		}
		if ok {
			values[key] = v
		}
	}

	var s auth.Secrets

	user, hasUser := values[KeyPasswordFlowUsername]
	pass, hasPass := values[KeyPasswordFlowPassword]
	if hasUser || hasPass {
		s.PasswordFlow = &auth.PasswordFlowOptions{Username: user, Password: pass}
	}

	user, hasUser = values[KeyTokenFlowUsername]
	token, hasToken := values[KeyTokenFlowToken]
	if hasUser || hasToken {
		s.TokenFlow = &auth.TokenFlowOptions{Username: user, Token: token}
	}

	return s, nil
}
