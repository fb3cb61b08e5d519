package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecagl/ragent/internal/dataset"
	"github.com/ecagl/ragent/internal/match"
)

// MatchToolName is what the model calls the posting search by.
const MatchToolName = "match"

const matchToolDescription = "Search the job posting collection. Finds postings whose " +
	"position names or descriptions are semantically similar to the key word, or whose " +
	"other fields contain it as text."

// NewMatchTool wraps a posting search engine as a callable tool. The
// engine's indexes are built here; a build failure means the tool cannot
// function and it is not created.
func NewMatchTool(ctx context.Context, engine *match.Engine) (*Tool, error) {
	if engine == nil {
		return nil, fmt.Errorf("tool: match engine is required")
	}
	if err := engine.BuildIndexes(ctx); err != nil {
		return nil, err
	}

	schema := Schema{
		"key word": {
			Type:        TypeString,
			Description: "Text to search for.",
			Required:    true,
		},
		"categories": {
			Type:        TypeString,
			Description: "Posting field to search in.",
			Enum:        dataset.Fields(),
		},
		"reference_entries": {
			Type:        TypeInteger,
			Description: "How many results to return.",
		},
	}

	run := func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		q := match.Query{
			Keyword:    stringArg(args, "key word"),
			Category:   stringArg(args, "categories"),
			MaxResults: intArg(args, "reference_entries"),
		}

		values, err := engine.Search(ctx, q)
		if errors.Is(err, match.ErrEmptyKeyword) {
			return nil, &MissingParamError{Names: []string{"key word"}}
		}
		if err != nil {
			return nil, err
		}
		if values == nil {
			values = []string{}
		}
		return values, nil
	}

	return New(MatchToolName, matchToolDescription, schema, run)
}

// stringArg reads a string argument leniently: non-strings render via fmt
// because the dispatcher does no type validation.
func stringArg(args map[string]interface{}, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// intArg reads an integer argument. JSON numbers decode as float64; other
// shapes fall back to zero, which callers treat as unset.
func intArg(args map[string]interface{}, name string) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
