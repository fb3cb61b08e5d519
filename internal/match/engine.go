package match

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecagl/ragent/internal/dataset"
	"github.com/ecagl/ragent/internal/index"
	"github.com/ecagl/ragent/internal/llm"
	"github.com/ecagl/ragent/internal/logger"
	"github.com/ecagl/ragent/internal/vecstore"
)

// Engine searches the posting collection. Indexed categories resolve
// through vector similarity; other categories scan record fields directly.
// The engine is built once and used from a single goroutine.
type Engine struct {
	records    []dataset.Record
	embedder   llm.Embedder
	builder    *index.Builder
	indexDir   string
	baseName   string
	maxResults int
	loaded     map[dataset.Category]*vecstore.FlatIndex
	log        *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxResults sets the result cap used when a query does not name one.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// NewEngine creates an engine over records. baseName keys the index files,
// typically the dataset file name without extension, so several datasets
// can share one index directory.
func NewEngine(records []dataset.Record, builder *index.Builder, indexDir, baseName string, log *logger.Logger, opts ...Option) (*Engine, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("match: no records to search")
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

	e := &Engine{
		records:    records,
		embedder:   builder.Embedder(),
		builder:    builder,
		indexDir:   indexDir,
		baseName:   baseName,
		maxResults: DefaultMaxResults,
		loaded:     make(map[dataset.Category]*vecstore.FlatIndex),
		log:        log.WithComponent("match"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// IndexPath returns where the index for a category lives on disk.
func (e *Engine) IndexPath(cat dataset.Category) string {
	return filepath.Join(e.indexDir, e.baseName+"_"+cat.Field()+".index")
}

// BuildIndexes builds the vector index of every indexed category. Existing
// index files are kept as-is. Any failure is fatal for the engine's vector
// path, so callers should not serve queries after an error.
func (e *Engine) BuildIndexes(ctx context.Context) error {
	for _, cat := range dataset.IndexedCategories() {
		texts := make([]string, len(e.records))
		for i, r := range e.records {
			texts[i] = r.Field(cat.Field())
		}

		if err := e.builder.Build(ctx, texts, e.IndexPath(cat)); err != nil {
			return fmt.Errorf("match: build %s index: %w", cat.Field(), err)
		}
	}
	return nil
}

// Search runs one query and returns the matching field values, best first.
func (e *Engine) Search(ctx context.Context, q Query) ([]string, error) {
	keyword := strings.TrimSpace(q.Keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = e.maxResults
	}

	cat := dataset.ParseCategory(q.Category)
	if cat.Indexed() {
		return e.vectorSearch(ctx, keyword, cat, maxResults)
	}
	return e.substringSearch(keyword, strings.TrimSpace(q.Category), maxResults), nil
}

// result pairs a record id with a normalized relevance in (0, 1], where 1
// is an exact embedding match.
type result struct {
	id        int
	relevance float64
}

func (e *Engine) vectorSearch(ctx context.Context, keyword string, cat dataset.Category, maxResults int) ([]string, error) {
	ix, err := e.ensureLoaded(cat)
	if err != nil {
		return nil, err
	}

	vectors, err := e.embedder.Embed(ctx, []string{keyword})
	if err != nil {
		return nil, fmt.Errorf("match: embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("match: embedder returned %d vectors for one query", len(vectors))
	}

	k := maxResults
	if k > ix.Len() {
		k = ix.Len()
	}

	dists, ids, err := ix.Search(vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("match: search %s index: %w", cat.Field(), err)
	}

	results := make([]result, len(ids))
	for i, id := range ids {
		results[i] = result{id: id, relevance: 1 / (1 + float64(dists[i]))}
	}

	// Index results arrive distance-ascending, which is already relevance
	// descending, but the ordering contract is on relevance so sort on it.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].relevance > results[j].relevance
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	values := make([]string, len(results))
	for i, r := range results {
		values[i] = e.records[r.id].Field(cat.Field())
	}

	e.log.Debug("vector search %q in %s: %d results", keyword, cat.Field(), len(values))
	return values, nil
}

// substringSearch scans records for the keyword, case-insensitively. A
// known non-indexed field name restricts the scan to that field; anything
// else scans every field. Each record contributes at most one value.
func (e *Engine) substringSearch(keyword, field string, maxResults int) []string {
	needle := strings.ToLower(keyword)

	fields := dataset.Fields()
	if field != "" {
		for _, f := range fields {
			if strings.EqualFold(f, field) {
				fields = []string{f}
				break
			}
		}
	}

	var values []string
	for _, r := range e.records {
		for _, f := range fields {
			v := r.Field(f)
			if v != "" && strings.Contains(strings.ToLower(v), needle) {
				values = append(values, v)
				break
			}
		}
		if len(values) >= maxResults {
			break
		}
	}

	e.log.Debug("substring search %q (field %q): %d results", keyword, field, len(values))
	return values
}

func (e *Engine) ensureLoaded(cat dataset.Category) (*vecstore.FlatIndex, error) {
	if ix, ok := e.loaded[cat]; ok {
		return ix, nil
	}

	ix, err := vecstore.Load(e.IndexPath(cat))
	if err != nil {
		return nil, fmt.Errorf("match: load %s index: %w", cat.Field(), err)
	}
	if ix.Len() != len(e.records) {
		return nil, fmt.Errorf("match: %s index has %d vectors for %d records; rebuild it",
			cat.Field(), ix.Len(), len(e.records))
	}

	e.loaded[cat] = ix
	return ix, nil
}
