// Package index builds persisted vector indexes from text collections.
// Vector i of every built index embeds text i, and search results are
// resolved back to records by that position.
package index

import (
	"context"
	"fmt"
	"os"

	"github.com/ecagl/ragent/internal/llm"
	"github.com/ecagl/ragent/internal/logger"
	"github.com/ecagl/ragent/internal/vecstore"
)

// DefaultBatchSize is how many texts go into one embedding request.
const DefaultBatchSize = 32

// Builder turns ordered text collections into on-disk vector indexes.
type Builder struct {
	embedder  llm.Embedder
	batchSize int
	log       *logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBuilder creates a Builder backed by the given embedder.
func NewBuilder(embedder llm.Embedder, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("index: embedder is required")
	}

	b := &Builder{
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		log:       logger.New("index", nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build embeds texts in order and writes the index to path. If path already
// exists it is left untouched and Build returns nil, so repeated builds
// against the same file are free. Remove the file to force a rebuild.
func (b *Builder) Build(ctx context.Context, texts []string, path string) error {
	if _, err := os.Stat(path); err == nil {
		b.log.Debug("index exists, skipping build: %s", path)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("index: stat %s: %w", path, err)
	}

	if len(texts) == 0 {
		return fmt.Errorf("index: no texts to index for %s", path)
	}

	b.log.Info("building index %s from %d texts", path, len(texts))

	var ix *vecstore.FlatIndex
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		vectors, err := b.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("index: embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != end-start {
			return fmt.Errorf("index: embedder returned %d vectors for %d texts", len(vectors), end-start)
		}

		if ix == nil {
			if len(vectors[0]) == 0 {
				return fmt.Errorf("index: embedder returned empty vectors")
			}
			ix, err = vecstore.New(len(vectors[0]))
			if err != nil {
				return err
			}
		}

		if err := ix.Add(vectors); err != nil {
			return err
		}
	}

	if err := vecstore.Save(ix, path); err != nil {
		return err
	}

	b.log.Info("index written: %s (%d vectors, dim %d)", path, ix.Len(), ix.Dimension())
	return nil
}

// Embedder exposes the builder's embedder so callers can embed queries
// with the same model the index was built with.
func (b *Builder) Embedder() llm.Embedder {
	return b.embedder
}
