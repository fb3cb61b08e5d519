package match

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ecagl/ragent/internal/index"
	"github.com/ecagl/ragent/internal/llm"
	"github.com/ecagl/ragent/internal/logger"
	"github.com/ecagl/ragent/internal/vecstore"
)

// DocEngine retrieves document chunks by embedding similarity. It serves
// the knowledge-base side of search: chunk texts come from the segmenter
// and are indexed positionally, like posting fields.
type DocEngine struct {
	chunks     []string
	embedder   llm.Embedder
	builder    *index.Builder
	path       string
	maxResults int
	loaded     *vecstore.FlatIndex
	log        *logger.Logger
}

// DocOption configures a DocEngine.
type DocOption func(*DocEngine)

// WithDocMaxResults sets the chunk count used when a search does not name one.
func WithDocMaxResults(n int) DocOption {
	return func(e *DocEngine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// NewDocEngine creates an engine over document chunks. The index is stored
// at indexDir/baseName_chunks.index.
func NewDocEngine(chunks []string, builder *index.Builder, indexDir, baseName string, log *logger.Logger, opts ...DocOption) (*DocEngine, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("match: no document chunks to search")
	}
	if builder == nil {
		return nil, fmt.Errorf("match: index builder is required")
	}
	if baseName == "" {
		return nil, fmt.Errorf("match: base name is required")
	}
	if log == nil {
		log = logger.New("match", nil)
	}

	e := &DocEngine{
		chunks:     chunks,
		embedder:   builder.Embedder(),
		builder:    builder,
		path:       filepath.Join(indexDir, baseName+"_chunks.index"),
		maxResults: DefaultMaxResults,
		log:        log.WithComponent("match-docs"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// IndexPath returns where the chunk index lives on disk.
func (e *DocEngine) IndexPath() string {
	return e.path
}

// BuildIndex builds the chunk index, keeping an existing file as-is.
func (e *DocEngine) BuildIndex(ctx context.Context) error {
	if err := e.builder.Build(ctx, e.chunks, e.path); err != nil {
		return fmt.Errorf("match: build chunk index: %w", err)
	}
	return nil
}

// Search returns the k chunks most similar to query, best first.
func (e *DocEngine) Search(ctx context.Context, query string, k int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyKeyword
	}
	if k <= 0 {
		k = e.maxResults
	}

	if e.loaded == nil {
		ix, err := vecstore.Load(e.path)
		if err != nil {
			return nil, fmt.Errorf("match: load chunk index: %w", err)
		}
		if ix.Len() != len(e.chunks) {
			return nil, fmt.Errorf("match: chunk index has %d vectors for %d chunks; rebuild it",
				ix.Len(), len(e.chunks))
		}
		e.loaded = ix
	}

	vectors, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("match: embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("match: embedder returned %d vectors for one query", len(vectors))
	}

	if k > e.loaded.Len() {
		k = e.loaded.Len()
	}

	_, ids, err := e.loaded.Search(vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("match: search chunk index: %w", err)
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = e.chunks[id]
	}

	e.log.Debug("chunk search %q: %d results", query, len(out))
	return out, nil
}
