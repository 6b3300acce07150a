package auth

import (
	"sync"

	gserrors "github.com/input-output-hk/catalyst-forge-libs/gitsync/errors"
)

// FlowBuilder turns a Config and Secrets into a Callback for one provider family.
type FlowBuilder interface {
	// Build returns a callback or an AuthenticationMisconfigured error.
	Build(cfg Config, secrets Secrets) (Callback, error)
}

// FlowBuilderFunc adapts a function to FlowBuilder.
type FlowBuilderFunc func(cfg Config, secrets Secrets) (Callback, error)

// Build calls f.
func (f FlowBuilderFunc) Build(cfg Config, secrets Secrets) (Callback, error) {
	return f(cfg, secrets)
}

// Registry maps providers to flow builders. Providers without an entry use the fallback
// builder, so adding a provider-specific flow never touches callers or other builders.
type Registry struct {
	// builders holds provider-specific overrides.
	builders map[Provider]FlowBuilder

	// fallback serves every provider without an entry.
	fallback FlowBuilder

	// mu protects builders.
	mu sync.RWMutex
}

// NewRegistry creates a registry that uses fallback for unregistered providers.
// A nil fallback is replaced by GenericFlow.
func NewRegistry(fallback FlowBuilder) *Registry {
	if fallback == nil {
		fallback = GenericFlow{}
	}

	return &Registry{
		builders: make(map[Provider]FlowBuilder),
		fallback: fallback,
	}
}

// Register adds a builder for provider. It fails if the builder is nil or the provider
// already has one.
func (r *Registry) Register(provider Provider, builder FlowBuilder) error {
	if builder == nil {
		return gserrors.New(gserrors.CodeInvalidInput, "flow builder cannot be nil").
			WithContext("provider", string(provider))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[provider]; exists {
		return gserrors.Newf(gserrors.CodeAlreadyExists, "flow builder for provider %q already registered", provider)
	}

	r.builders[provider] = builder
	return nil
}

// Builder returns the builder responsible for provider.
//
//nolint:ireturn // builders are pluggable by design of the registry
func (r *Registry) Builder(provider Provider) FlowBuilder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.builders[provider]; ok {
		return b
	}
	return r.fallback
}

// Select returns the callback for cfg. When cfg.AuthFlow is AuthFlowNone it returns a nil
// callback and a nil error: no credentials are needed and the transport should not
// authenticate. Any error from the provider's builder is returned unchanged.
func (r *Registry) Select(cfg Config, secrets Secrets) (Callback, error) {
	if cfg.AuthFlow == AuthFlowNone {
		return nil, nil
	}

	return r.Builder(cfg.Provider).Build(cfg, secrets)
}

var defaultRegistry = NewRegistry(GenericFlow{})

// DefaultRegistry returns the process-wide registry used by SelectFlow.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// SelectFlow selects a callback using the default registry. See Registry.Select.
func SelectFlow(cfg Config, secrets Secrets) (Callback, error) {
	return defaultRegistry.Select(cfg, secrets)
}
