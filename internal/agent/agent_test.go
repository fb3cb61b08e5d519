package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/ecagl/ragent/internal/llm"
	"github.com/ecagl/ragent/internal/tool"
)

// scriptedProvider replays a fixed sequence of responses and records the
// requests it saw.
type scriptedProvider struct {
	responses []*llm.ChatResponse
	requests  []*llm.ChatRequest
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return nil, llm.NewProviderError(llm.ErrTypeProvider, "script exhausted", "scripted")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *scriptedProvider) CountTokens(text string) (int, error) { return len(text) / 4, nil }
func (s *scriptedProvider) MaxTokens() int                       { return 4096 }
func (s *scriptedProvider) ValidateConfig() error                { return nil }
func (s *scriptedProvider) Close() error                         { return nil }

func textResponse(content string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message:      llm.Message{Role: llm.RoleAssistant, Content: content},
		FinishReason: "stop",
	}
}

func toolCallResponse(name, arguments string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message: llm.Message{
			Role: llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{{
				ID:   "call_1",
				Type: "function",
				Function: llm.FunctionCall{
					Name:      name,
					Arguments: arguments,
				},
			}},
		},
		FinishReason: "tool_calls",
	}
}

func searchRegistry(t *testing.T) *tool.Registry {
	t.Helper()

	searcher, err := tool.New("search", "finds things", tool.Schema{
		"key word": {Type: tool.TypeString, Required: true},
	}, func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		return []string{"found: " + args["key word"].(string)}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	reg := tool.NewRegistry()
	if err := reg.Register(searcher); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestAskDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		textResponse("Go is a programming language."),
	}}

	a, err := New(provider, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	answer, err := a.Ask(context.Background(), "What is Go?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "Go is a programming language." {
		t.Errorf("answer = %q", answer)
	}

	// The request advertises the registered tool.
	if len(provider.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(provider.requests))
	}
	req := provider.requests[0]
	if len(req.Tools) != 1 || req.Tools[0].Function.Name != "search" {
		t.Errorf("tools = %+v, want the search tool", req.Tools)
	}
	if req.Messages[0].Role != llm.RoleSystem {
		t.Error("first message should be the system prompt")
	}
}

func TestAskRunsToolCall(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("search", `{"key word": "gopher"}`),
		textResponse("The search found a gopher."),
	}}

	a, err := New(provider, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	answer, err := a.Ask(context.Background(), "Find gophers")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "The search found a gopher." {
		t.Errorf("answer = %q", answer)
	}

	// The second request must carry the tool envelope back to the model.
	if len(provider.requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(provider.requests))
	}
	last := provider.requests[1].Messages[len(provider.requests[1].Messages)-1]
	if last.Role != llm.RoleTool || last.ToolCallID != "call_1" {
		t.Fatalf("last message = %+v, want a tool result", last)
	}
	if !strings.Contains(last.Content, `"status":"success"`) {
		t.Errorf("tool content = %q, want a success envelope", last.Content)
	}
	if !strings.Contains(last.Content, "found: gopher") {
		t.Errorf("tool content = %q, want the search result", last.Content)
	}
}

func TestAskFeedsDispatcherErrorsBack(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("search", `{}`),
		textResponse("I need a keyword to search."),
	}}

	a, err := New(provider, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	answer, err := a.Ask(context.Background(), "Find things")
	if err != nil {
		t.Fatalf("Ask() error = %v, dispatcher errors should not abort", err)
	}
	if answer == "" {
		t.Error("expected an answer after the error envelope")
	}

	last := provider.requests[1].Messages[len(provider.requests[1].Messages)-1]
	if !strings.Contains(last.Content, "MissingParameters") {
		t.Errorf("tool content = %q, want MissingParameters envelope", last.Content)
	}
}

func TestAskUnknownToolEnvelope(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("ghost", `{}`),
		textResponse("That tool does not exist."),
	}}

	a, err := New(provider, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Ask(context.Background(), "Use the ghost tool"); err != nil {
		t.Fatalf("Ask() error = %v, unknown tools should round-trip as envelopes", err)
	}

	last := provider.requests[1].Messages[len(provider.requests[1].Messages)-1]
	if !strings.Contains(last.Content, "ToolNotFound") {
		t.Errorf("tool content = %q, want ToolNotFound envelope", last.Content)
	}
}

func TestAskMalformedArguments(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("search", `not json`),
		textResponse("Let me retry with valid arguments."),
	}}

	a, err := New(provider, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Ask(context.Background(), "Search"); err != nil {
		t.Fatalf("Ask() error = %v, malformed arguments should round-trip", err)
	}

	last := provider.requests[1].Messages[len(provider.requests[1].Messages)-1]
	if !strings.Contains(last.Content, "InvalidArguments") {
		t.Errorf("tool content = %q, want InvalidArguments envelope", last.Content)
	}
}

func TestAskMaxTurns(t *testing.T) {
	// The model keeps calling tools forever.
	var responses []*llm.ChatResponse
	for i := 0; i < 10; i++ {
		responses = append(responses, toolCallResponse("search", `{"key word": "x"}`))
	}
	provider := &scriptedProvider{responses: responses}

	a, err := New(provider, searchRegistry(t), WithMaxTurns(3))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Ask(context.Background(), "Loop forever"); err == nil {
		t.Error("Ask() should fail after exhausting the turn budget")
	}
	if len(provider.requests) != 3 {
		t.Errorf("made %d requests, want 3", len(provider.requests))
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	a, err := New(&scriptedProvider{}, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Ask(context.Background(), "  "); err == nil {
		t.Error("Ask() with a blank question should fail")
	}
}

func TestResetClearsHistory(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		textResponse("first"),
		textResponse("second"),
	}}

	a, err := New(provider, searchRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Ask(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	a.Reset()
	if _, err := a.Ask(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}

	// After a reset the second conversation starts fresh: system + user.
	req := provider.requests[1]
	if len(req.Messages) != 2 {
		t.Errorf("second conversation has %d messages, want 2", len(req.Messages))
	}
}
