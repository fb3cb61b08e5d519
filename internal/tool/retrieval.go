package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecagl/ragent/internal/match"
)

// RetrievalToolName is what the model calls the document search by.
const RetrievalToolName = "retrieval"

const retrievalToolDescription = "Retrieve passages from the document knowledge base " +
	"that are semantically relevant to the query."

// NewRetrievalTool wraps a document chunk engine as a callable tool. The
// chunk index is built here; a build failure is fatal for the tool.
func NewRetrievalTool(ctx context.Context, engine *match.DocEngine) (*Tool, error) {
	if engine == nil {
		return nil, fmt.Errorf("tool: document engine is required")
	}
	if err := engine.BuildIndex(ctx); err != nil {
		return nil, err
	}

	schema := Schema{
		"query": {
			Type:        TypeString,
			Description: "Question or phrase to retrieve passages for.",
			Required:    true,
		},
		"reference_entries": {
			Type:        TypeInteger,
			Description: "How many passages to return.",
		},
	}

	run := func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		chunks, err := engine.Search(ctx, stringArg(args, "query"), intArg(args, "reference_entries"))
		if errors.Is(err, match.ErrEmptyKeyword) {
			return nil, &MissingParamError{Names: []string{"query"}}
		}
		if err != nil {
			return nil, err
		}
		if chunks == nil {
			chunks = []string{}
		}
		return chunks, nil
	}

	return New(RetrievalToolName, retrievalToolDescription, schema, run)
}
