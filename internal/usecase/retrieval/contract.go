package retrieval

import (
	"context"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// Embedder vectorizes query text. Must be backed by the same model as
// the indexer's embedder.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// IndexProvider returns the current index snapshot, or nil before the
// first successful build.
type IndexProvider interface {
	Current() domain.VectorIndex
}
