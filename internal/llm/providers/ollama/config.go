package ollama

import (
	"net/url"
	"time"

	"github.com/ecagl/ragent/internal/llm"
)

const (
	// DefaultBaseURL is the default Ollama API endpoint.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the default chat model.
	DefaultModel = "qwen3:0.6b"

	// DefaultEmbeddingModel is the default embedding model.
	DefaultEmbeddingModel = "nomic-embed-text"

	// DefaultMaxTokens is the default context window size.
	DefaultMaxTokens = 4096

	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.7

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 120 * time.Second
)

// Config holds Ollama provider configuration.
type Config struct {
	BaseURL            string        `json:"base_url"`
	DefaultModel       string        `json:"default_model"`
	EmbeddingModel     string        `json:"embedding_model"`
	MaxTokens          int           `json:"max_tokens"`
	DefaultTemperature float64       `json:"default_temperature"`
	Timeout            time.Duration `json:"timeout"`
}

// DefaultConfig returns a configuration with sensible defaults for a local
// Ollama instance.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		DefaultModel:       DefaultModel,
		EmbeddingModel:     DefaultEmbeddingModel,
		MaxTokens:          DefaultMaxTokens,
		DefaultTemperature: DefaultTemperature,
		Timeout:            DefaultTimeout,
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return llm.NewConfigurationError("ollama", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return llm.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	if c.DefaultModel == "" {
		return llm.NewConfigurationError("ollama", "default_model", "default model is required")
	}

	if c.MaxTokens <= 0 {
		return llm.NewConfigurationError("ollama", "max_tokens", "max tokens must be positive")
	}

	if c.Timeout <= 0 {
		return llm.NewConfigurationError("ollama", "timeout", "timeout must be positive")
	}

	return nil
}

// FromProviderConfig converts a generic provider config, filling defaults.
func FromProviderConfig(config *llm.ProviderConfig) *Config {
	if config == nil {
		return DefaultConfig()
	}

	c := &Config{
		BaseURL:            config.BaseURL,
		DefaultModel:       config.DefaultModel,
		EmbeddingModel:     config.EmbeddingModel,
		MaxTokens:          config.MaxTokens,
		DefaultTemperature: config.DefaultTemperature,
		Timeout:            config.Timeout,
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModel
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = DefaultEmbeddingModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.DefaultTemperature == 0 {
		c.DefaultTemperature = DefaultTemperature
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	return c
}

// ToProviderConfig converts back to the generic provider config form.
func (c *Config) ToProviderConfig() *llm.ProviderConfig {
	return &llm.ProviderConfig{
		Name:               "ollama",
		Type:               "ollama",
		BaseURL:            c.BaseURL,
		DefaultModel:       c.DefaultModel,
		EmbeddingModel:     c.EmbeddingModel,
		MaxTokens:          c.MaxTokens,
		DefaultTemperature: c.DefaultTemperature,
		Timeout:            c.Timeout,
	}
}
