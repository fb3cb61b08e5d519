package openai

import (
	"net/url"
	"time"

	"github.com/ecagl/ragent/internal/llm"
)

const (
	// DefaultBaseURL is the default OpenAI API endpoint. Any
	// OpenAI-compatible server (Azure gateways, local inference servers)
	// works by overriding it.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultModel is the default chat model.
	DefaultModel = "gpt-4o-mini"

	// DefaultEmbeddingModel is the default embedding model.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultMaxTokens is the default context window size.
	DefaultMaxTokens = 4096

	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.7

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds OpenAI provider configuration.
type Config struct {
	APIKey             string        `json:"api_key"`
	BaseURL            string        `json:"base_url"`
	DefaultModel       string        `json:"default_model"`
	EmbeddingModel     string        `json:"embedding_model"`
	MaxTokens          int           `json:"max_tokens"`
	DefaultTemperature float64       `json:"default_temperature"`
	Timeout            time.Duration `json:"timeout"`
	OrganizationID     string        `json:"organization_id,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
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
	if c.APIKey == "" {
		return llm.NewConfigurationError("openai", "api_key", "API key is required")
	}

	if c.BaseURL == "" {
		return llm.NewConfigurationError("openai", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return llm.NewConfigurationError("openai", "base_url", "invalid base URL: "+err.Error())
	}

	if c.DefaultModel == "" {
		return llm.NewConfigurationError("openai", "default_model", "default model is required")
	}

	if c.MaxTokens <= 0 {
		return llm.NewConfigurationError("openai", "max_tokens", "max tokens must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return llm.NewConfigurationError("openai", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return llm.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}

	return nil
}

// FromProviderConfig converts a generic provider config, filling defaults.
func FromProviderConfig(config *llm.ProviderConfig) *Config {
	if config == nil {
		return DefaultConfig()
	}

	c := &Config{
		APIKey:             config.APIKey,
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

	if config.Headers != nil {
		if orgID, ok := config.Headers["OpenAI-Organization"]; ok {
			c.OrganizationID = orgID
		}
	}

	return c
}

// ToProviderConfig converts back to the generic provider config form.
func (c *Config) ToProviderConfig() *llm.ProviderConfig {
	headers := map[string]string{
		"Authorization": "Bearer " + c.APIKey,
		"Content-Type":  "application/json",
	}

	if c.OrganizationID != "" {
		headers["OpenAI-Organization"] = c.OrganizationID
	}

	return &llm.ProviderConfig{
		Name:               "openai",
		Type:               "openai",
		APIKey:             c.APIKey,
		BaseURL:            c.BaseURL,
		DefaultModel:       c.DefaultModel,
		EmbeddingModel:     c.EmbeddingModel,
		MaxTokens:          c.MaxTokens,
		DefaultTemperature: c.DefaultTemperature,
		Timeout:            c.Timeout,
		Headers:            headers,
	}
}
