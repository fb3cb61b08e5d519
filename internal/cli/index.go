package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecagl/ragent/internal/dataset"
	"github.com/ecagl/ragent/internal/formatter"
	"github.com/ecagl/ragent/internal/index"
	"github.com/ecagl/ragent/internal/match"
)

var indexForce bool

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector indexes for the dataset and documents",
		Long: `Embed the indexed dataset fields and the document chunks, and write their
index files. Existing index files are kept untouched; pass --force to delete
and rebuild them, which is required after the dataset or documents change.`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}

	cmd.Flags().BoolVar(&indexForce, "force", false, "delete existing index files and rebuild")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger("cli", cfg)

	_, embedder, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	records, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Dataset.IndexDir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	builder, err := index.NewBuilder(embedder,
		index.WithBatchSize(cfg.Embedding.BatchSize),
		index.WithLogger(log))
	if err != nil {
		return err
	}

	engine, err := match.NewEngine(records, builder, cfg.Dataset.IndexDir, datasetBaseName(cfg.Dataset.Path), log)
	if err != nil {
		return err
	}

	var docEngine *match.DocEngine
	if len(cfg.Documents.Paths) > 0 {
		docEngine, err = buildDocEngine(cfg, builder, log)
		if err != nil {
			return err
		}
	}

	if indexForce {
		if err := removeIndexFiles(indexFilePaths(engine, docEngine)); err != nil {
			return err
		}
	}

	if err := engine.BuildIndexes(ctx); err != nil {
		return err
	}
	if docEngine != nil {
		if err := docEngine.BuildIndex(ctx); err != nil {
			return err
		}
	}

	facts := []formatter.Fact{
		{Label: "Records", Value: fmt.Sprintf("%d", len(records))},
	}
	for _, cat := range dataset.IndexedCategories() {
		facts = append(facts, formatter.Fact{Label: cat.Field(), Value: engine.IndexPath(cat)})
	}
	if docEngine != nil {
		facts = append(facts, formatter.Fact{Label: "documents", Value: docEngine.IndexPath()})
	}

	out, err := newFormatter(cfg).Format(&formatter.Report{
		Title: "Indexes built",
		Facts: facts,
	})
	if err != nil {
		return err
	}

	fmt.Print(string(out))
	return nil
}

// indexFilePaths lists every index file a session would use, so a forced
// rebuild removes all of them.
func indexFilePaths(engine *match.Engine, docEngine *match.DocEngine) []string {
	var paths []string
	for _, cat := range dataset.IndexedCategories() {
		paths = append(paths, engine.IndexPath(cat))
	}
	if docEngine != nil {
		paths = append(paths, docEngine.IndexPath())
	}
	return paths
}

func removeIndexFiles(paths []string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
