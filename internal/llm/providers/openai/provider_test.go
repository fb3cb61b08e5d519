package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecagl/ragent/internal/llm"
)

func testConfig(baseURL string) *Config {
	config := DefaultConfig()
	config.APIKey = "sk-test"
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return config
}

func TestProvider_New(t *testing.T) {
	provider, err := New(testConfig(""))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("Expected provider name 'openai', got '%s'", provider.Name())
	}
}

func TestProvider_NewRequiresAPIKey(t *testing.T) {
	config := DefaultConfig()
	if _, err := New(config); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestProvider_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path '/v1/chat/completions', got '%s'", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Expected bearer auth, got %q", auth)
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Tools) != 1 || req.ToolChoice != "auto" {
			t.Errorf("Expected tools with auto tool choice, got %+v", req)
		}

		resp := ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: req.Model,
			Choices: []ChatCompletionChoice{{
				Message: ChatMessage{
					Role: "assistant",
					ToolCalls: []llm.ToolCall{{
						ID:   "call_abc",
						Type: "function",
						Function: llm.FunctionCall{
							Name:      "match",
							Arguments: `{"key word": "engineer"}`,
						},
					}},
				},
				FinishReason: "tool_calls",
			}},
			Usage: ChatCompletionUsage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := provider.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "find engineers"}},
		Tools: []llm.ToolDefinition{{
			Type:     "function",
			Function: llm.ToolFunction{Name: "match"},
		}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if !resp.Message.HasToolCalls() {
		t.Fatal("Expected a tool call")
	}
	if resp.Message.ToolCalls[0].ID != "call_abc" {
		t.Errorf("Tool call ID = %q", resp.Message.ToolCalls[0].ID)
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("Total tokens = %d, want 16", resp.Usage.TotalTokens)
	}
}

func TestProvider_ChatNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ChatCompletionResponse{ID: "empty"})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = provider.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Error("Expected error for a response without choices")
	}
}

func TestProvider_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("Expected path '/v1/embeddings', got '%s'", r.URL.Path)
		}

		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("Expected batch of 2, got %d", len(req.Input))
		}

		// Return rows out of order; the provider must reassemble by index.
		resp := EmbeddingsResponse{
			Data: []EmbeddingData{
				{Index: 1, Embedding: []float64{2, 2}},
				{Index: 0, Embedding: []float64{1, 1}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	vectors, err := provider.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][0] != 2 {
		t.Errorf("Vectors not reassembled by index: %v", vectors)
	}
}

func TestProvider_EmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := EmbeddingsResponse{Data: []EmbeddingData{{Index: 0, Embedding: []float64{1}}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = provider.Embed(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for embedding count mismatch")
	}
	if !llm.IsEmbeddingError(err) {
		t.Errorf("Expected an embedding-typed error, got %v", err)
	}
}

func TestProvider_AuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Message: "invalid api key"}})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = provider.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})

	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if perr.Type != llm.ErrTypeAuthentication {
		t.Errorf("Expected authentication error, got %s", perr.Type)
	}
	if perr.Retryable {
		t.Error("Authentication errors must not be retryable")
	}
}

func TestProvider_RateLimitRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Message: "rate limited"}})
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = provider.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if !llm.IsRetryableError(err) {
		t.Errorf("Rate limit errors should be retryable, got %v", err)
	}
}
