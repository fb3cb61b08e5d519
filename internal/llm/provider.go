package llm

import (
	"context"
)

// Provider defines the chat-completion boundary to an LLM backend.
//
// Implementations are synchronous: one request blocks until the backend
// answers. Cancellation and timeouts come from the caller's context and the
// provider's own HTTP client configuration.
type Provider interface {
	// Name returns the provider identifier (e.g. "ollama", "openai").
	Name() string

	// Chat sends a conversation plus advertised tool definitions and returns
	// the assistant's next message, which may carry tool calls instead of
	// (or alongside) plain content.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// CountTokens estimates the token count for the given text.
	CountTokens(text string) (int, error)

	// MaxTokens returns the maximum context window size.
	MaxTokens() int

	// ValidateConfig validates the provider configuration.
	ValidateConfig() error

	// Close cleans up provider resources.
	Close() error
}

// Embedder converts a batch of texts into dense vectors.
//
// The output dimension is fixed per model, and the mapping is deterministic:
// identical input with an identical model version yields identical vectors.
// Vector i corresponds to texts[i]; implementations must never reorder.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbeddingModel returns the model identifier used for embedding.
	EmbeddingModel() string
}
