// Package config holds the application configuration: which model backend
// to talk to, where the dataset and documents live, and how output renders.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	LLM       LLMConfig       `yaml:"llm" json:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding"`
	Dataset   DatasetConfig   `yaml:"dataset" json:"dataset"`
	Documents DocumentsConfig `yaml:"documents" json:"documents"`
	Agent     AgentConfig     `yaml:"agent" json:"agent"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// LLMConfig configures the chat model backend
type LLMConfig struct {
	Provider    string        `yaml:"provider" json:"provider"`       // ollama|openai
	Model       string        `yaml:"model" json:"model"`             // chat model identifier
	Endpoint    string        `yaml:"endpoint" json:"endpoint"`       // API endpoint URL
	APIKey      string        `yaml:"api_key" json:"api_key"`         // API key, supports ${ENV_VAR}
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`         // request timeout
	Temperature float64       `yaml:"temperature" json:"temperature"` // sampling temperature
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`   // context window size
}

// EmbeddingConfig configures the embedding model used for index builds and
// query embedding. It must match across build and search.
type EmbeddingConfig struct {
	Model     string `yaml:"model" json:"model"`           // embedding model identifier
	BatchSize int    `yaml:"batch_size" json:"batch_size"` // texts per embedding request
}

// DatasetConfig locates the posting collection and its indexes
type DatasetConfig struct {
	Path     string `yaml:"path" json:"path"`           // JSON array of postings
	IndexDir string `yaml:"index_dir" json:"index_dir"` // where index files are written
	Watch    bool   `yaml:"watch" json:"watch"`         // warn in chat when the file changes
}

// DocumentsConfig locates the document knowledge base
type DocumentsConfig struct {
	Paths             []string `yaml:"paths" json:"paths"`                             // plain-text documents to index
	Segmenter         string   `yaml:"segmenter" json:"segmenter"`                     // sentence|lines|auto
	SentencesPerChunk int      `yaml:"sentences_per_chunk" json:"sentences_per_chunk"` // sentence segmenter chunk size
	LinesPerChunk     int      `yaml:"lines_per_chunk" json:"lines_per_chunk"`         // line segmenter chunk size
}

// AgentConfig configures the tool-call loop
type AgentConfig struct {
	MaxTurns   int `yaml:"max_turns" json:"max_turns"`     // model round-trips per question
	MaxResults int `yaml:"max_results" json:"max_results"` // default search result cap
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	Format  string `yaml:"format" json:"format"`       // text|json
	NoColor bool   `yaml:"no_color" json:"no_color"`   // disable ANSI colors
	NoEmoji bool   `yaml:"no_emoji" json:"no_emoji"`   // disable emoji in output
	Verbose bool   `yaml:"verbose" json:"verbose"`     // default verbosity
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "qwen3:0.6b",
			Endpoint:    "http://localhost:11434",
			Timeout:     120 * time.Second,
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Embedding: EmbeddingConfig{
			Model:     "nomic-embed-text",
			BatchSize: 32,
		},
		Dataset: DatasetConfig{
			Path:     "./data/postings.json",
			IndexDir: "./index",
			Watch:    true,
		},
		Documents: DocumentsConfig{
			Segmenter:         "auto",
			SentencesPerChunk: 5,
			LinesPerChunk:     20,
		},
		Agent: AgentConfig{
			MaxTurns:   8,
			MaxResults: 5,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "ollama", "openai":
	case "":
		return fmt.Errorf("llm.provider is required")
	default:
		return fmt.Errorf("unsupported llm.provider %q (ollama or openai)", c.LLM.Provider)
	}

	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required for the openai provider")
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	if c.Embedding.BatchSize < 0 {
		return fmt.Errorf("embedding.batch_size must not be negative")
	}

	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}

	if c.Dataset.IndexDir == "" {
		return fmt.Errorf("dataset.index_dir is required")
	}

	switch c.Documents.Segmenter {
	case "", "sentence", "lines", "auto":
	default:
		return fmt.Errorf("unsupported documents.segmenter %q (sentence, lines or auto)", c.Documents.Segmenter)
	}

	if c.Documents.SentencesPerChunk < 0 {
		return fmt.Errorf("documents.sentences_per_chunk must not be negative")
	}

	if c.Documents.LinesPerChunk < 0 {
		return fmt.Errorf("documents.lines_per_chunk must not be negative")
	}

	if c.Agent.MaxTurns < 0 {
		return fmt.Errorf("agent.max_turns must not be negative")
	}

	if c.Agent.MaxResults < 0 {
		return fmt.Errorf("agent.max_results must not be negative")
	}

	switch c.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported output.format %q (text or json)", c.Output.Format)
	}

	return nil
}
