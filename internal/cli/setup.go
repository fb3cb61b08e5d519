package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecagl/ragent/internal/agent"
	"github.com/ecagl/ragent/internal/config"
	"github.com/ecagl/ragent/internal/dataset"
	"github.com/ecagl/ragent/internal/extract"
	"github.com/ecagl/ragent/internal/formatter"
	"github.com/ecagl/ragent/internal/index"
	"github.com/ecagl/ragent/internal/llm"
	"github.com/ecagl/ragent/internal/llm/providers/ollama"
	"github.com/ecagl/ragent/internal/llm/providers/openai"
	"github.com/ecagl/ragent/internal/logger"
	"github.com/ecagl/ragent/internal/match"
	"github.com/ecagl/ragent/internal/segment"
	"github.com/ecagl/ragent/internal/tool"
)

// session holds everything a command needs after wiring: the config, the
// loaded records, the tool registry, and the agent.
type session struct {
	cfg      *config.Config
	provider llm.Provider
	records  []dataset.Record
	tools    *tool.Registry
	agent    *agent.Agent
	log      *logger.Logger
}

func newLogger(component string, cfg *config.Config) *logger.Logger {
	return logger.NewWithCallback(component, func() bool { return cfg.Output.Verbose })
}

func newFormatter(cfg *config.Config) formatter.Formatter {
	return formatter.New(cfg.Output.Format, !cfg.Output.NoColor, !cfg.Output.NoEmoji)
}

// loadConfig reads the configuration and layers the global flags on top,
// so flags beat the file and the file beats the defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.NoColor = true
	}
	if outputFmt != "" {
		cfg.Output.Format = outputFmt
	}

	// Flag values go through the same validation as file values.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// registerProviders makes both provider factories available. Repeat calls
// within one process are fine; re-registration errors are ignored.
func registerProviders() {
	for _, register := range []func() error{ollama.Register, openai.Register} {
		if err := register(); err != nil {
			var perr *llm.ProviderError
			if errors.As(err, &perr) && perr.Type == llm.ErrTypeRegistration {
				continue
			}
		}
	}
}

func buildProvider(cfg *config.Config) (llm.Provider, llm.Embedder, error) {
	registerProviders()

	pc := &llm.ProviderConfig{
		Name:               cfg.LLM.Provider,
		Type:               cfg.LLM.Provider,
		APIKey:             cfg.LLM.APIKey,
		BaseURL:            cfg.LLM.Endpoint,
		DefaultModel:       cfg.LLM.Model,
		EmbeddingModel:     cfg.Embedding.Model,
		MaxTokens:          cfg.LLM.MaxTokens,
		DefaultTemperature: cfg.LLM.Temperature,
		Timeout:            cfg.LLM.Timeout,
	}

	provider, err := llm.GlobalRegistry().GetWithConfig(cfg.LLM.Provider, pc)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s provider: %w", cfg.LLM.Provider, err)
	}

	embedder, ok := provider.(llm.Embedder)
	if !ok {
		return nil, nil, fmt.Errorf("provider %s cannot embed text", cfg.LLM.Provider)
	}

	return provider, embedder, nil
}

// newSession wires the full stack: provider, dataset, indexes, tools,
// agent. Index builds happen inside tool construction, so a session is
// ready to answer as soon as this returns.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger("cli", cfg)

	provider, embedder, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	records, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	log.Info("loaded %d records from %s", len(records), cfg.Dataset.Path)

	if err := os.MkdirAll(cfg.Dataset.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	builder, err := index.NewBuilder(embedder,
		index.WithBatchSize(cfg.Embedding.BatchSize),
		index.WithLogger(log))
	if err != nil {
		return nil, err
	}

	engine, err := match.NewEngine(records, builder, cfg.Dataset.IndexDir, datasetBaseName(cfg.Dataset.Path), log,
		match.WithMaxResults(cfg.Agent.MaxResults))
	if err != nil {
		return nil, err
	}

	registry := tool.NewRegistry()

	matchTool, err := tool.NewMatchTool(ctx, engine)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(matchTool); err != nil {
		return nil, err
	}

	if len(cfg.Documents.Paths) > 0 {
		docEngine, err := buildDocEngine(cfg, builder, log)
		if err != nil {
			return nil, err
		}
		retrievalTool, err := tool.NewRetrievalTool(ctx, docEngine)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(retrievalTool); err != nil {
			return nil, err
		}
	}

	ag, err := agent.New(provider, registry,
		agent.WithModel(cfg.LLM.Model),
		agent.WithMaxTurns(cfg.Agent.MaxTurns),
		agent.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		provider: provider,
		records:  records,
		tools:    registry,
		agent:    ag,
		log:      log,
	}, nil
}

// docSegmenter picks a segmenter per the config. The auto setting decides
// per document from the text shape.
func docSegmenter(cfg *config.Config, text string) segment.Segmenter {
	switch cfg.Documents.Segmenter {
	case "lines":
		return segment.NewLineGroupSegmenter(cfg.Documents.LinesPerChunk)
	case "sentence":
		return segment.NewSentenceSegmenter(
			segment.WithSentencesPerChunk(cfg.Documents.SentencesPerChunk))
	default:
		return segment.ForContent(text)
	}
}

// buildDocEngine extracts and segments the configured documents into one
// chunk collection.
func buildDocEngine(cfg *config.Config, builder *index.Builder, log *logger.Logger) (*match.DocEngine, error) {
	var chunks []string
	for _, path := range cfg.Documents.Paths {
		extractor, err := extract.ForFile(path)
		if err != nil {
			return nil, err
		}
		text, err := extractor.Extract(path)
		if err != nil {
			return nil, err
		}
		cs, err := docSegmenter(cfg, text).Segment(text)
		if err != nil {
			return nil, err
		}
		log.Debug("segmented %s into %d chunks", path, len(cs))
		chunks = append(chunks, cs...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("documents produced no chunks")
	}

	return match.NewDocEngine(chunks, builder, cfg.Dataset.IndexDir, "documents", log,
		match.WithDocMaxResults(cfg.Agent.MaxResults))
}

// datasetBaseName derives the index file prefix from the dataset file name.
func datasetBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
