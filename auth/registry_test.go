package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

func TestRegistry_SelectDispatchesToFallback(t *testing.T) {
	r := NewRegistry(nil)

	for _, provider := range Providers {
		t.Run(string(provider), func(t *testing.T) {
			cb, err := r.Select(
				Config{Provider: provider, AuthFlow: AuthFlowPassword},
				Secrets{PasswordFlow: &PasswordFlowOptions{Username: "user", Password: "password"}},
			)
			require.NoError(t, err)
			assert.Equal(t, Credentials{Username: "user", Password: "password"}, cb())
		})
	}
}

func TestRegistry_SelectNoneFlow(t *testing.T) {
	cb, err := NewRegistry(nil).Select(Config{Provider: ProviderGitea, AuthFlow: AuthFlowNone}, Secrets{})
	require.NoError(t, err)
	assert.Nil(t, cb)
}

func TestRegistry_SelectForwardsErrorsUnchanged(t *testing.T) {
	sentinel := gserrors.New(gserrors.CodeAuthMisconfigured, "custom failure")
	r := NewRegistry(FlowBuilderFunc(func(Config, Secrets) (Callback, error) {
		return nil, sentinel
	}))

	cb, err := r.Select(Config{Provider: ProviderGeneric, AuthFlow: AuthFlowToken}, Secrets{})
	assert.Nil(t, cb)
	assert.Same(t, sentinel, err)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(nil)
	override := FlowBuilderFunc(func(Config, Secrets) (Callback, error) {
		return func() Credentials { return Credentials{Username: "x-access-token", Password: "app"} }, nil
	})

	require.NoError(t, r.Register(ProviderGitHub, override))

	t.Run("override is used for its provider", func(t *testing.T) {
		cb, err := r.Select(Config{Provider: ProviderGitHub, AuthFlow: AuthFlowToken}, Secrets{})
		require.NoError(t, err)
		assert.Equal(t, "x-access-token", cb().Username)
	})

	t.Run("other providers keep the fallback", func(t *testing.T) {
		_, err := r.Select(Config{Provider: ProviderGitea, AuthFlow: AuthFlowToken}, Secrets{})
		assert.True(t, errors.Is(err, ErrAuthenticationMisconfigured))
	})

	t.Run("duplicate registration", func(t *testing.T) {
		err := r.Register(ProviderGitHub, override)
		require.Error(t, err)
		assert.True(t, gserrors.HasCode(err, gserrors.CodeAlreadyExists))
	})

	t.Run("nil builder", func(t *testing.T) {
		err := r.Register(ProviderGitLab, nil)
		require.Error(t, err)
		assert.True(t, gserrors.HasCode(err, gserrors.CodeInvalidInput))
	})
}

func TestSelectFlow_Default(t *testing.T) {
	_, isGeneric := DefaultRegistry().Builder(ProviderGitea).(GenericFlow)
	assert.True(t, isGeneric)

	cb, err := SelectFlow(
		Config{Provider: ProviderGitea, AuthFlow: AuthFlowToken},
		Secrets{TokenFlow: &TokenFlowOptions{Username: "user", Token: "token"}},
	)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "user", Password: "token"}, cb())

	_, err = SelectFlow(Config{Provider: ProviderGitea, AuthFlow: AuthFlowToken}, Secrets{})
	assert.True(t, errors.Is(err, ErrAuthenticationMisconfigured))
}
