// Package indexer builds the searchable vector index from the raw
// corpus text: chunking, embedding, and population of a fresh index
// instance. A build either completes fully or fails; a partial index
// is never exposed to retrieval.
package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
	"github.com/sagarpimpale/weather-rag-agent/internal/repository/vectorindex"
)

// Service turns document text into a populated vector index.
type Service struct {
	chunker    Chunker
	embedder   domain.Embedder
	dimensions int
	logger     *zap.Logger
}

// New creates an indexer service. The embedder must be the same one
// used for query embedding so the vector space stays consistent.
func New(chunker Chunker, embedder domain.Embedder, dimensions int, logger *zap.Logger) *Service {
	return &Service{
		chunker:    chunker,
		embedder:   embedder,
		dimensions: dimensions,
		logger:     logger,
	}
}

// Build chunks text, embeds every chunk, and returns a fully-populated
// index. Any embedding failure aborts the build with
// domain.ErrIndexBuild. An empty document yields an empty index, which
// retrieval handles as "no context available".
func (s *Service) Build(ctx context.Context, docID, text string) (*vectorindex.Index, error) {
	start := time.Now()
	chunks := s.chunker.Split(docID, text)

	index := vectorindex.New(s.dimensions)
	if len(chunks) == 0 {
		s.logger.Warn("Corpus document is empty, built empty index", zap.String("document_id", docID))
		return index, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	result, err := s.batchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks: %w: %w", len(chunks), err, domain.ErrIndexBuild)
	}
	if len(result.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks: %w",
			len(result.Embeddings), len(chunks), domain.ErrIndexBuild)
	}

	for i, ch := range chunks {
		if err := index.Insert(ch, result.Embeddings[i]); err != nil {
			return nil, fmt.Errorf("insert chunk %d: %w: %w", i, err, domain.ErrIndexBuild)
		}
	}

	s.logger.Info("Index built",
		zap.String("document_id", docID),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimensions", s.dimensions),
		zap.Int("embedding_tokens", result.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	return index, nil
}

func (s *Service) batchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, s.embedder, texts)
}
