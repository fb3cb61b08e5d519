package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/ecagl/ragent/internal/llm"
)

// Provider implements llm.Provider and llm.Embedder against the OpenAI API
// or any OpenAI-compatible endpoint.
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

// New creates a new OpenAI provider instance.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, llm.NewConfigurationError("openai", "base_url", "invalid base URL: "+err.Error())
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// Chat sends a conversation to /v1/chat/completions and converts the reply.
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if req == nil {
		return nil, llm.NewValidationError("request", "nil", "chat request is required")
	}

	chatReq := p.buildChatRequest(req)

	var chatResp ChatCompletionResponse
	if err := p.post(ctx, "/v1/chat/completions", chatReq, &chatResp); err != nil {
		return nil, err
	}

	if len(chatResp.Choices) == 0 {
		return nil, llm.NewProviderError(llm.ErrTypeProvider, "response contains no choices", "openai")
	}

	return chatResp.ToChatResponse(req.RequestID), nil
}

// Embed computes embeddings for a batch of texts via /v1/embeddings.
// The endpoint accepts the whole batch in one request; results are
// reassembled by index so vector i always matches texts[i].
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embReq := &EmbeddingsRequest{
		Model: p.config.EmbeddingModel,
		Input: texts,
	}

	var embResp EmbeddingsResponse
	if err := p.post(ctx, "/v1/embeddings", embReq, &embResp); err != nil {
		return nil, llm.NewProviderErrorWithCause(llm.ErrTypeEmbedding,
			"embeddings request failed", "openai", err)
	}

	if len(embResp.Data) != len(texts) {
		return nil, llm.NewProviderError(llm.ErrTypeEmbedding,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(embResp.Data)), "openai")
	}

	sort.Slice(embResp.Data, func(i, j int) bool {
		return embResp.Data[i].Index < embResp.Data[j].Index
	})

	vectors := make([][]float32, len(embResp.Data))
	for i, row := range embResp.Data {
		vector := make([]float32, len(row.Embedding))
		for j, v := range row.Embedding {
			vector[j] = float32(v)
		}
		vectors[i] = vector
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
	return nil
}

func (p *Provider) buildChatRequest(req *llm.ChatRequest) *ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens / 2
	}

	messages := make([]ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ChatMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
			ToolCalls:  m.ToolCalls,
		})
	}

	chatReq := &ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		User:        req.RequestID,
	}

	if len(req.Tools) > 0 {
		chatReq.Tools = req.Tools
		chatReq.ToolChoice = "auto"
	}

	return chatReq
}

func (p *Provider) post(ctx context.Context, path string, body, out interface{}) error {
	endpoint := p.baseURL.JoinPath(path)

	data, err := json.Marshal(body)
	if err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeInternal, "failed to marshal request", "openai", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(data))
	if err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeInternal, "failed to create request", "openai", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	if p.config.OrganizationID != "" {
		httpReq.Header.Set("OpenAI-Organization", p.config.OrganizationID)
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return llm.NewProviderErrorWithCause(llm.ErrTypeTimeout, "request canceled", "openai", err)
		}
		return llm.NewProviderErrorWithCause(llm.ErrTypeNetwork, "request failed", "openai", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeNetwork, "failed to read response", "openai", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return p.classifyHTTPError(httpResp.StatusCode, payload)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return llm.NewProviderErrorWithCause(llm.ErrTypeProvider, "failed to decode response", "openai", err)
	}

	return nil
}

func (p *Provider) classifyHTTPError(status int, payload []byte) error {
	message := fmt.Sprintf("unexpected status %d", status)

	var errResp ErrorResponse
	if json.Unmarshal(payload, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	errType := llm.ErrTypeProvider
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		errType = llm.ErrTypeAuthentication
	case status == http.StatusTooManyRequests || status >= 500:
		errType = llm.ErrTypeNetwork
	}

	return &llm.ProviderError{
		Type:       errType,
		Message:    message,
		Provider:   "openai",
		StatusCode: status,
		Retryable:  errType == llm.ErrTypeNetwork,
	}
}
