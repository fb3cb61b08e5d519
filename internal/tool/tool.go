package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecagl/ragent/internal/llm"
)

// Error codes carried in the error envelope. These are protocol values the
// model sees and reacts to, not Go error identities.
const (
	ErrCodeMissingParameters = "MissingParameters"
	ErrCodeToolNotFound      = "ToolNotFound"
)

// Result is the envelope every call returns to the model. Exactly one of
// Result or Error/Message is populated, discriminated by Status.
type Result struct {
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Status  string      `json:"status"`
}

// Success wraps a capability output in a success envelope.
func Success(v interface{}) Result {
	return Result{Result: v, Status: "success"}
}

// Failure builds an error envelope with a protocol error code.
func Failure(code, message string) Result {
	return Result{Error: code, Message: message, Status: "error"}
}

// RunFunc executes a capability with already-validated arguments. Returning
// an error signals an infrastructure failure; argument-level problems
// should come back as an error envelope instead so the model can retry.
type RunFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool is one registered capability.
type Tool struct {
	name        string
	description string
	schema      Schema
	run         RunFunc
}

// New creates a tool, validating its schema up front.
func New(name, description string, schema Schema, run RunFunc) (*Tool, error) {
	if name == "" {
		return nil, fmt.Errorf("tool: name is required")
	}
	if run == nil {
		return nil, fmt.Errorf("tool: %s has no run function", name)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	return &Tool{
		name:        name,
		description: description,
		schema:      schema,
		run:         run,
	}, nil
}

// Name returns the tool name the model calls it by.
func (t *Tool) Name() string {
	return t.name
}

// Definition renders the tool in the function-calling wire format.
func (t *Tool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        t.name,
			Description: t.description,
			Parameters:  t.schema.toParameters(),
		},
	}
}

// Call dispatches one invocation. Missing required parameters produce an
// error envelope without running the capability. Infrastructure failures
// from the capability surface as a Go error; everything else comes back in
// the envelope.
func (t *Tool) Call(ctx context.Context, args map[string]interface{}) (Result, error) {
	if args == nil {
		args = map[string]interface{}{}
	}

	if missing := t.schema.missing(args); len(missing) > 0 {
		return Failure(ErrCodeMissingParameters,
			"Missing required parameters: "+strings.Join(missing, ", ")), nil
	}

	out, err := t.run(ctx, args)
	if err != nil {
		var mpe *MissingParamError
		if errors.As(err, &mpe) {
			return Failure(ErrCodeMissingParameters,
				"Missing required parameters: "+strings.Join(mpe.Names, ", ")), nil
		}
		return Result{}, fmt.Errorf("tool %s: %w", t.name, err)
	}

	return Success(out), nil
}

// MissingParamError lets a capability report an argument that was present
// but unusable, such as a blank keyword, in the same envelope shape as an
// absent one.
type MissingParamError struct {
	Names []string
}

func (e *MissingParamError) Error() string {
	return "missing required parameters: " + strings.Join(e.Names, ", ")
}
