package llm

import (
	"time"
)

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// Name identifies the tool that produced a role:"tool" message.
	Name string `json:"name,omitempty"`

	// ToolCallID links a role:"tool" message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls reports whether the message requests tool execution.
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// ToolCall is a single function-call request emitted by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the tool and carries its arguments as raw JSON text.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition advertises a callable tool to the model.
type ToolDefinition struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes the function half of a tool definition.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolParameters is the JSON-schema-shaped parameter object.
type ToolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

// ToolProperty describes one advertised parameter.
type ToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ChatRequest is a provider-agnostic chat completion request.
type ChatRequest struct {
	// Model overrides the provider's default model when set.
	Model string `json:"model,omitempty"`

	// Messages is the full conversation so far, oldest first.
	Messages []Message `json:"messages"`

	// Tools advertises the callable capabilities for this turn.
	Tools []ToolDefinition `json:"tools,omitempty"`

	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0).
	Temperature float64 `json:"temperature,omitempty"`

	// RequestID for request tracking.
	RequestID string `json:"request_id,omitempty"`
}

// ChatResponse is the assistant's reply for one request.
type ChatResponse struct {
	// Message is the assistant message, possibly carrying tool calls.
	Message Message `json:"message"`

	// FinishReason indicates why the completion finished
	// ("stop", "tool_calls", "length", ...).
	FinishReason string `json:"finish_reason"`

	// Usage contains token usage information when the backend reports it.
	Usage *TokenUsage `json:"usage,omitempty"`

	// Model indicates which model answered.
	Model string `json:"model"`

	// RequestID matches the original request.
	RequestID string `json:"request_id,omitempty"`

	// CreatedAt timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// HasToolCalls reports whether the assistant requested tool execution.
func (r *ChatResponse) HasToolCalls() bool {
	return r.Message.HasToolCalls()
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig contains configuration for a provider instance.
type ProviderConfig struct {
	// Name is the provider identifier.
	Name string `json:"name"`

	// Type is the provider type (ollama, openai).
	Type string `json:"type"`

	// APIKey for authentication.
	APIKey string `json:"api_key,omitempty"`

	// BaseURL for the API endpoint.
	BaseURL string `json:"base_url,omitempty"`

	// DefaultModel is the chat model to use when requests don't name one.
	DefaultModel string `json:"default_model,omitempty"`

	// EmbeddingModel is the model used for the Embedder side of the provider.
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// MaxTokens is the maximum context window.
	MaxTokens int `json:"max_tokens,omitempty"`

	// DefaultTemperature for requests.
	DefaultTemperature float64 `json:"default_temperature,omitempty"`

	// Timeout for requests.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Headers adds custom headers to every request.
	Headers map[string]string `json:"headers,omitempty"`
}
