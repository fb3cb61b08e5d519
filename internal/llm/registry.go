package llm

import (
	"sync"
)

// Factory creates provider instances of one type.
type Factory interface {
	// Create creates a new provider instance with the given config.
	Create(config *ProviderConfig) (Provider, error)

	// Type returns the provider type this factory creates.
	Type() string

	// ValidateConfig validates configuration for this provider type.
	ValidateConfig(config *ProviderConfig) error

	// DefaultConfig returns a default configuration.
	DefaultConfig() *ProviderConfig
}

// Registry manages provider factories and the instances built from them.
type Registry struct {
	mu              sync.RWMutex
	factories       map[string]Factory
	providers       map[string]Provider
	configs         map[string]*ProviderConfig
	defaultProvider string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		providers: make(map[string]Provider),
		configs:   make(map[string]*ProviderConfig),
	}
}

// Register adds a provider factory under the given name.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return &ProviderError{
			Type:     ErrTypeRegistration,
			Message:  "provider already registered",
			Provider: name,
		}
	}

	r.factories[name] = factory
	return nil
}

// Get retrieves a provider by name, creating it with its stored or default
// configuration if necessary.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	if provider, exists := r.providers[name]; exists {
		r.mu.RUnlock()
		return provider, nil
	}

	factory, exists := r.factories[name]
	config := r.configs[name]
	r.mu.RUnlock()

	if !exists {
		return nil, &ProviderError{
			Type:     ErrTypeNotFound,
			Message:  "provider not registered",
			Provider: name,
		}
	}

	if config == nil {
		config = factory.DefaultConfig()
	}

	return r.GetWithConfig(name, config)
}

// GetWithConfig creates (or recreates) a provider with a specific
// configuration and caches the instance.
func (r *Registry) GetWithConfig(name string, config *ProviderConfig) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, &ProviderError{
			Type:     ErrTypeNotFound,
			Message:  "provider not registered",
			Provider: name,
		}
	}

	if err := factory.ValidateConfig(config); err != nil {
		return nil, err
	}

	provider, err := factory.Create(config)
	if err != nil {
		return nil, err
	}

	r.providers[name] = provider
	r.configs[name] = config

	return provider, nil
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks whether a provider factory is registered.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// SetDefault sets the default provider name.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return &ProviderError{
			Type:     ErrTypeNotFound,
			Message:  "provider not registered",
			Provider: name,
		}
	}

	r.defaultProvider = name
	return nil
}

// Default returns the default provider.
func (r *Registry) Default() (Provider, error) {
	r.mu.RLock()
	defaultName := r.defaultProvider
	r.mu.RUnlock()

	if defaultName == "" {
		return nil, &ProviderError{
			Type:    ErrTypeConfiguration,
			Message: "no default provider set",
		}
	}

	return r.Get(defaultName)
}

// Close shuts down all instantiated providers.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			lastErr = err
		}
		delete(r.providers, name)
	}

	return lastErr
}

// Global registry instance shared by the CLI wiring.
var globalRegistry = NewRegistry()

// GlobalRegistry returns the global provider registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}

// RegisterProvider registers a factory in the global registry.
func RegisterProvider(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}
