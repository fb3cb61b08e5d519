// Package agent runs the tool-calling conversation loop: it sends the
// question and the tool advertisement to the model, executes the tool
// calls it asks for, feeds the envelopes back, and returns the final
// answer once the model stops calling tools.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yildizm/go-promptfmt"

	"github.com/ecagl/ragent/internal/llm"
	"github.com/ecagl/ragent/internal/logger"
	"github.com/ecagl/ragent/internal/tool"
)

// DefaultMaxTurns bounds how many model round-trips one question may take.
// Each tool call and its follow-up is one turn.
const DefaultMaxTurns = 8

// Dispatcher routes tool calls by name. *tool.Registry satisfies it.
type Dispatcher interface {
	Definitions() []llm.ToolDefinition
	Dispatch(ctx context.Context, name string, args map[string]interface{}) (tool.Result, error)
}

// Agent holds one conversation with the model. Calls are synchronous and
// single-threaded: one question runs to completion before the next starts.
type Agent struct {
	provider llm.Provider
	tools    Dispatcher
	model    string
	maxTurns int
	history  []llm.Message
	log      *logger.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel overrides the provider's default chat model.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithMaxTurns bounds the tool-call loop.
func WithMaxTurns(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *Agent) {
		if log != nil {
			a.log = log.WithComponent("agent")
		}
	}
}

// New creates an agent over a provider and a tool dispatcher.
func New(provider llm.Provider, tools Dispatcher, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, fmt.Errorf("agent: provider is required")
	}
	if tools == nil {
		return nil, fmt.Errorf("agent: tool dispatcher is required")
	}

	a := &Agent{
		provider: provider,
		tools:    tools,
		maxTurns: DefaultMaxTurns,
		log:      logger.New("agent", nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// systemPrompt builds the standing instructions, naming the available
// tools so the model prefers retrieval over guessing.
func (a *Agent) systemPrompt() string {
	var names []string
	for _, def := range a.tools.Definitions() {
		names = append(names, def.Function.Name)
	}

	prompt := promptfmt.New().
		System("You are a research assistant that answers questions about a job posting collection and a document knowledge base. Use the provided tools to look up facts before answering; do not invent postings or passages.").
		User("Available tools: %s. Call a tool whenever the question concerns postings or documents, then answer from the returned results. If a tool reports an error, correct the arguments and try again.",
			strings.Join(names, ", ")).
		Build()

	return prompt.SystemPrompt + "\n\n" + prompt.String()
}

// Ask runs one question through the tool-call loop and returns the model's
// final text answer. Conversation history carries across calls until Reset.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("agent: question is empty")
	}

	if len(a.history) == 0 {
		a.history = append(a.history, llm.Message{Role: llm.RoleSystem, Content: a.systemPrompt()})
	}
	a.history = append(a.history, llm.Message{Role: llm.RoleUser, Content: question})

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.provider.Chat(ctx, &llm.ChatRequest{
			Model:    a.model,
			Messages: a.history,
			Tools:    a.tools.Definitions(),
		})
		if err != nil {
			return "", fmt.Errorf("agent: chat failed: %w", err)
		}

		a.history = append(a.history, resp.Message)

		if !resp.Message.HasToolCalls() {
			return resp.Message.Content, nil
		}

		if err := a.runToolCalls(ctx, resp.Message.ToolCalls); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("agent: no final answer after %d turns", a.maxTurns)
}

// runToolCalls executes each requested call and appends its envelope as a
// tool message. Dispatcher-level errors (missing parameters, unknown tool)
// go back to the model as envelopes so it can retry; infrastructure
// failures abort the question.
func (a *Agent) runToolCalls(ctx context.Context, calls []llm.ToolCall) error {
	for _, call := range calls {
		args := map[string]interface{}{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				a.appendToolResult(call, tool.Failure("InvalidArguments",
					"arguments are not a JSON object: "+err.Error()))
				continue
			}
		}

		a.log.Debug("tool call: %s(%s)", call.Function.Name, call.Function.Arguments)

		res, err := a.tools.Dispatch(ctx, call.Function.Name, args)
		if err != nil {
			return fmt.Errorf("agent: tool %s failed: %w", call.Function.Name, err)
		}

		a.appendToolResult(call, res)
	}
	return nil
}

func (a *Agent) appendToolResult(call llm.ToolCall, res tool.Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		payload = []byte(`{"error":"Internal","message":"result not serializable","status":"error"}`)
	}

	a.history = append(a.history, llm.Message{
		Role:       llm.RoleTool,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
		Content:    string(payload),
	})
}

// Reset drops the conversation history.
func (a *Agent) Reset() {
	a.history = nil
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []llm.Message {
	out := make([]llm.Message, len(a.history))
	copy(out, a.history)
	return out
}
