package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ecagl/ragent/internal/llm"
)

// Provider implements llm.Provider and llm.Embedder against a local or
// remote Ollama instance using its native API.
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

// New creates a new Ollama provider instance.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, llm.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ollama"
}

// Chat sends a conversation to /api/chat and converts the reply.
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if req == nil {
		return nil, llm.NewValidationError("request", "nil", "chat request is required")
	}

	startTime := time.Now()

	ollamaReq, err := p.buildChatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.sendChatRequest(ctx, ollamaReq)
	if err != nil {
		return nil, err
	}

	message := llm.Message{
		Role:    resp.Message.Role,
		Content: resp.Message.Content,
	}

	for i, call := range resp.Message.ToolCalls {
		args, err := json.Marshal(call.Function.Arguments)
		if err != nil {
			return nil, llm.NewProviderErrorWithCause(llm.ErrTypeInternal,
				"failed to encode tool call arguments", "ollama", err)
		}
		message.ToolCalls = append(message.ToolCalls, llm.ToolCall{
			ID:   fmt.Sprintf("call_%d", i),
			Type: "function",
			Function: llm.FunctionCall{
				Name:      call.Function.Name,
				Arguments: string(args),
			},
		})
	}

	finishReason := resp.DoneReason
	if finishReason == "" {
		finishReason = "stop"
	}
	if len(message.ToolCalls) > 0 {
		finishReason = "tool_calls"
	}

	return &llm.ChatResponse{
		Message:      message,
		FinishReason: finishReason,
		Usage: &llm.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
		Model:     resp.Model,
		RequestID: req.RequestID,
		CreatedAt: startTime,
	}, nil
}

// Embed computes one embedding per text via /api/embeddings. Ollama's
// embeddings endpoint takes a single prompt, so batches are sent as
// sequential requests in input order.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for i, text := range texts {
		embReq := &EmbeddingsRequest{
			Model:  p.config.EmbeddingModel,
			Prompt: text,
		}

		var embResp EmbeddingsResponse
		if err := p.post(ctx, "/api/embeddings", embReq, &embResp); err != nil {
			return nil, llm.NewProviderErrorWithCause(llm.ErrTypeEmbedding,
				fmt.Sprintf("embedding text %d failed", i), "ollama", err)
		}

		if len(embResp.Embedding) == 0 {
			return nil, llm.NewProviderError(llm.ErrTypeEmbedding,
				fmt.Sprintf("empty embedding returned for text %d", i), "ollama")
		}

		vector := make([]float32, len(embResp.Embedding))
		for j, v := range embResp.Embedding {
			vector[j] = float32(v)
		}
		vectors = append(vectors, vector)
	}

	return vectors, nil
}

// EmbeddingModel returns the configured embedding model identifier.
func (p *Provider) EmbeddingModel() string {
	return p.config.EmbeddingModel
}

// CountTokens estimates token count (roughly 4 characters per token).
func (p *Provider) CountTokens(text string) (int, error) {
	return len(text) / 4, nil
}

// MaxTokens returns the maximum context window size.
func (p *Provider) MaxTokens() int {
	return p.config.MaxTokens
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close cleans up provider resources.
func (p *Provider) Close() error {
	// No persistent connections to close for the HTTP client.
	return nil
}

func (p *Provider) buildChatRequest(req *llm.ChatRequest) (*ChatRequest, error) {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	options := &Options{Temperature: temperature}
	if req.MaxTokens > 0 {
		options.NumPredict = req.MaxTokens
	}

	messages := make([]ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msg := ChatMessage{
			Role:    m.Role,
			Content: m.Content,
		}
		if m.Role == llm.RoleTool {
			msg.ToolName = m.Name
		}
		for _, call := range m.ToolCalls {
			var args map[string]interface{}
			if call.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
					return nil, llm.NewProviderErrorWithCause(llm.ErrTypeInternal,
						"failed to decode tool call arguments", "ollama", err)
				}
			}
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				Function: ToolCallFunction{
					Name:      call.Function.Name,
					Arguments: args,
				},
			})
		}
		messages = append(messages, msg)
	}

	tools := make([]Tool, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, Tool{
			Type: t.Type,
			Function: ToolFunction{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		})
	}

	return &ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Tools:    tools,
		Options:  options,
	}, nil
}

func (p *Provider) sendChatRequest(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := p.post(ctx, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *Provider) post(ctx context.Context, path string, body, out interface{}) error {
	endpoint := p.baseURL.JoinPath(path)

	data, err := json.Marshal(body)
	if err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeInternal, "failed to marshal request", "ollama", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(data))
	if err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeInternal, "failed to create request", "ollama", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return llm.NewProviderErrorWithCause(llm.ErrTypeTimeout, "request canceled", "ollama", err)
		}
		return llm.NewProviderErrorWithCause(llm.ErrTypeNetwork, "request failed", "ollama", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeNetwork, "failed to read response", "ollama", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if json.Unmarshal(payload, &errResp) == nil && errResp.Error != "" {
			return &llm.ProviderError{
				Type:       llm.ErrTypeProvider,
				Message:    errResp.Error,
				Provider:   "ollama",
				StatusCode: httpResp.StatusCode,
			}
		}
		return &llm.ProviderError{
			Type:       llm.ErrTypeProvider,
			Message:    fmt.Sprintf("unexpected status %d", httpResp.StatusCode),
			Provider:   "ollama",
			StatusCode: httpResp.StatusCode,
		}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeProvider, "failed to decode response", "ollama", err)
	}

	return nil
}
