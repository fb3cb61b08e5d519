// Package tool exposes capabilities to the model through declarative
// schemas and a uniform call contract. The dispatcher checks only that
// required parameters are present; value types and enum membership are the
// capability's business.
package tool

import (
	"fmt"
	"sort"

	"github.com/ecagl/ragent/internal/llm"
)

// ParamType is the JSON-schema type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param declares one tool parameter.
type Param struct {
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Schema maps parameter names to their declarations.
type Schema map[string]Param

// Validate checks the schema at registration time so a malformed tool
// never reaches the model.
func (s Schema) Validate() error {
	for name, p := range s {
		if name == "" {
			return fmt.Errorf("tool: schema has a parameter with an empty name")
		}
		switch p.Type {
		case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		default:
			return fmt.Errorf("tool: parameter %q has unknown type %q", name, p.Type)
		}
		if len(p.Enum) > 0 && p.Type != TypeString {
			return fmt.Errorf("tool: parameter %q declares an enum but is not a string", name)
		}
	}
	return nil
}

// missing returns the sorted names of required parameters absent from args.
func (s Schema) missing(args map[string]interface{}) []string {
	var names []string
	for name, p := range s {
		if !p.Required {
			continue
		}
		if _, ok := args[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// toParameters renders the schema in function-calling form. Only required
// parameters are advertised; optional ones stay callable but invisible,
// which keeps the advertisement minimal for the model.
func (s Schema) toParameters() llm.ToolParameters {
	params := llm.ToolParameters{
		Type:       "object",
		Properties: make(map[string]llm.ToolProperty),
	}

	names := make([]string, 0, len(s))
	for name, p := range s {
		if p.Required {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		p := s[name]
		params.Properties[name] = llm.ToolProperty{
			Type:        string(p.Type),
			Description: p.Description,
			Enum:        p.Enum,
		}
	}
	params.Required = names

	return params
}
