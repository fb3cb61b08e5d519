package openai

import (
	"github.com/ecagl/ragent/internal/llm"
)

// Factory creates OpenAI provider instances.
type Factory struct{}

// NewFactory returns a new factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds a provider from the generic configuration.
func (f *Factory) Create(config *llm.ProviderConfig) (llm.Provider, error) {
	return New(FromProviderConfig(config))
}

// Type returns the provider type this factory creates.
func (f *Factory) Type() string {
	return "openai"
}

// ValidateConfig validates configuration for this provider type.
func (f *Factory) ValidateConfig(config *llm.ProviderConfig) error {
	if config == nil {
		return llm.NewConfigurationError("openai", "config", "configuration is required")
	}
	return FromProviderConfig(config).Validate()
}

// DefaultConfig returns a default configuration.
func (f *Factory) DefaultConfig() *llm.ProviderConfig {
	return DefaultConfig().ToProviderConfig()
}

// Register registers this factory in the global provider registry.
func Register() error {
	return llm.RegisterProvider("openai", NewFactory())
}
