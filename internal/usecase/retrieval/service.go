// Package retrieval embeds a query and finds the most similar chunks
// in the current index snapshot.
package retrieval

import (
	"context"
	"fmt"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// DefaultTopK is the number of chunks retrieved per query when the
// config does not override it.
const DefaultTopK = 3

// Service handles top-K retrieval against the current index.
type Service struct {
	provider IndexProvider
	embedder Embedder
	topK     int
}

// New creates a retrieval service. topK <= 0 falls back to DefaultTopK.
func New(provider IndexProvider, embedder Embedder, topK int) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{provider: provider, embedder: embedder, topK: topK}
}

// Retrieve embeds the query and searches the index snapshot. An
// embedding failure surfaces as domain.ErrRetrieval so callers can
// distinguish "no answer in corpus" from "could not attempt
// retrieval". An empty index yields an empty result, not an error.
func (s *Service) Retrieve(ctx context.Context, query string) (domain.RetrievalResult, error) {
	index := s.provider.Current()
	if index == nil {
		return nil, domain.ErrIndexNotReady
	}

	embRes, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", err, domain.ErrRetrieval)
	}

	result, err := index.Search(embRes.Embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w: %w", err, domain.ErrRetrieval)
	}
	return result, nil
}
