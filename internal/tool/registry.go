package tool

import (
	"context"
	"fmt"
	"sort"

	"github.com/ecagl/ragent/internal/llm"
)

// Registry holds the tools one agent session can call. It is built once at
// startup and read-only afterwards; the agent loop is single-threaded.
type Registry struct {
	tools map[string]*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool. Duplicate names are a programming error.
func (r *Registry) Register(t *Tool) error {
	if t == nil {
		return fmt.Errorf("tool: cannot register nil tool")
	}
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool: %s is already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names lists registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions renders every tool for the chat request, in name order so
// the advertisement is stable across runs.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.tools))
	for _, name := range r.Names() {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Dispatch routes one call by name. An unknown name comes back as a
// ToolNotFound envelope rather than a Go error, so the model can correct
// itself.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]interface{}) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Failure(ErrCodeToolNotFound, fmt.Sprintf("no tool named %q is registered", name)), nil
	}
	return t.Call(ctx, args)
}
