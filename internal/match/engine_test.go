package match

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecagl/ragent/internal/dataset"
	"github.com/ecagl/ragent/internal/index"
)

// mapEmbedder returns fixed vectors for known texts and a zero-adjacent
// vector for anything else, so tests control distances exactly.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := m.vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{99, 99}
	}
	return out, nil
}

func (m *mapEmbedder) EmbeddingModel() string { return "map-embed" }

func testRecords() []dataset.Record {
	return []dataset.Record{
		{"positionName": "Data Engineer", "description": "Builds data pipelines.", "company": "Acme Corp", "location": "Berlin", "salary": "$120k"},
		{"positionName": "Machine Learning Engineer", "description": "Trains production models.", "company": "Beta Labs", "location": "Remote", "jobType": "full-time"},
		{"positionName": "Data Analyst", "description": "Writes SQL reports.", "company": "Acme Corp", "location": "Munich", "rating": 4.5},
		{"positionName": "Frontend Developer", "description": "Ships web interfaces.", "company": "Gamma Inc", "location": "Berlin"},
	}
}

func testEmbedder() *mapEmbedder {
	return &mapEmbedder{vectors: map[string][]float32{
		// positionName space
		"Data Engineer":             {1, 0},
		"Machine Learning Engineer": {2, 0},
		"Data Analyst":              {1.5, 0},
		"Frontend Developer":        {10, 0},
		// description space
		"Builds data pipelines.":    {0, 1},
		"Trains production models.": {0, 2},
		"Writes SQL reports.":       {0, 3},
		"Ships web interfaces.":     {0, 10},
		// queries
		"data roles":       {1.1, 0},
		"model training":   {0, 1.9},
		"something remote": {50, 50},
	}}
}

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()

	builder, err := index.NewBuilder(testEmbedder())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	engine, err := NewEngine(testRecords(), builder, dir, "postings", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.BuildIndexes(context.Background()); err != nil {
		t.Fatal(err)
	}
	return engine, dir
}

func TestBuildIndexesCreatesFiles(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, cat := range dataset.IndexedCategories() {
		if _, err := os.Stat(engine.IndexPath(cat)); err != nil {
			t.Errorf("index for %s missing: %v", cat.Field(), err)
		}
	}
}

func TestIndexPathNaming(t *testing.T) {
	engine, dir := newTestEngine(t)

	want := filepath.Join(dir, "postings_positionName.index")
	if got := engine.IndexPath(dataset.CategoryPositionName); got != want {
		t.Errorf("IndexPath() = %q, want %q", got, want)
	}
}

func TestVectorSearchOrdering(t *testing.T) {
	engine, _ := newTestEngine(t)

	// Query (1.1, 0): nearest positionName vectors are Data Engineer (1,0),
	// then Data Analyst (1.5,0), then Machine Learning Engineer (2,0).
	got, err := engine.Search(context.Background(), Query{
		Keyword:    "data roles",
		Category:   "positionName",
		MaxResults: 3,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"Data Engineer", "Data Analyst", "Machine Learning Engineer"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVectorSearchDescriptionCategory(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:    "model training",
		Category:   "description",
		MaxResults: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Trains production models." {
		t.Errorf("got %q, want the model-training description", got)
	}
}

func TestSearchDefaultMaxResults(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:  "data roles",
		Category: "positionName",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Four records, default cap five: everything comes back.
	if len(got) != 4 {
		t.Errorf("got %d results, want all 4", len(got))
	}
}

func TestSearchConfiguredMaxResults(t *testing.T) {
	builder, err := index.NewBuilder(testEmbedder())
	if err != nil {
		t.Fatal(err)
	}

	engine, err := NewEngine(testRecords(), builder, t.TempDir(), "postings", nil, WithMaxResults(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.BuildIndexes(context.Background()); err != nil {
		t.Fatal(err)
	}

	// No per-query cap: the engine default applies on both search paths.
	got, err := engine.Search(context.Background(), Query{
		Keyword:  "data roles",
		Category: "positionName",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("vector search returned %d results, want the configured 2", len(got))
	}

	got, err = engine.Search(context.Background(), Query{Keyword: "e"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("substring search returned %d results, want the configured 2", len(got))
	}
}

func TestSearchMaxResultsTruncates(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:    "data roles",
		Category:   "positionName",
		MaxResults: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d results, want 2", len(got))
	}
}

func TestSearchEmptyKeyword(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, kw := range []string{"", "   ", "\t\n"} {
		_, err := engine.Search(context.Background(), Query{Keyword: kw})
		if !errors.Is(err, ErrEmptyKeyword) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyKeyword", kw, err)
		}
	}
}

func TestUnknownCategoryFallsBackToSubstring(t *testing.T) {
	engine, _ := newTestEngine(t)

	// "definitely-not-a-field" is not a known category, so the keyword is
	// matched as a substring across all fields instead of erroring.
	got, err := engine.Search(context.Background(), Query{
		Keyword:  "Acme",
		Category: "definitely-not-a-field",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2: %q", len(got), got)
	}
	for _, v := range got {
		if v != "Acme Corp" {
			t.Errorf("result = %q, want %q", v, "Acme Corp")
		}
	}
}

func TestSubstringSearchNamedField(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:  "berlin",
		Category: "location",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2: %q", len(got), got)
	}
	for _, v := range got {
		if v != "Berlin" {
			t.Errorf("result = %q, want %q", v, "Berlin")
		}
	}
}

func TestSubstringSearchCaseInsensitive(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:  "ACME",
		Category: "company",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d results, want 2: %q", len(got), got)
	}
}

func TestSubstringSearchHonorsMaxResults(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:    "e",
		MaxResults: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d results, want 2: %q", len(got), got)
	}
}

func TestSubstringSearchNoMatches(t *testing.T) {
	engine, _ := newTestEngine(t)

	got, err := engine.Search(context.Background(), Query{
		Keyword:  "zzz-no-such-thing",
		Category: "company",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results, want none: %q", len(got), got)
	}
}

func TestDocEngineSearch(t *testing.T) {
	chunks := []string{
		"Builds data pipelines.",
		"Trains production models.",
		"Writes SQL reports.",
	}

	builder, err := index.NewBuilder(testEmbedder())
	if err != nil {
		t.Fatal(err)
	}

	engine, err := NewDocEngine(chunks, builder, t.TempDir(), "handbook", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.BuildIndex(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, err := engine.Search(context.Background(), "model training", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0] != "Trains production models." {
		t.Errorf("best chunk = %q, want the model-training chunk", got[0])
	}
}

func TestDocEngineConfiguredMaxResults(t *testing.T) {
	chunks := []string{
		"Builds data pipelines.",
		"Trains production models.",
		"Writes SQL reports.",
	}

	builder, err := index.NewBuilder(testEmbedder())
	if err != nil {
		t.Fatal(err)
	}

	engine, err := NewDocEngine(chunks, builder, t.TempDir(), "handbook", nil, WithDocMaxResults(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.BuildIndex(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, err := engine.Search(context.Background(), "model training", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d chunks, want the configured 1", len(got))
	}
}

func TestDocEngineEmptyQuery(t *testing.T) {
	builder, err := index.NewBuilder(testEmbedder())
	if err != nil {
		t.Fatal(err)
	}
	engine, err := NewDocEngine([]string{"chunk"}, builder, t.TempDir(), "doc", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Search(context.Background(), "  ", 3); !errors.Is(err, ErrEmptyKeyword) {
		t.Errorf("error = %v, want ErrEmptyKeyword", err)
	}
}
