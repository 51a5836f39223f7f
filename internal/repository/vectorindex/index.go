// Package vectorindex implements an in-memory cosine-similarity index
// over document chunks. An exact linear scan is sufficient at the
// corpus scale this assistant serves (one document, hundreds of chunks).
package vectorindex

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// entry owns one embedding vector plus its originating chunk. Entries
// are never mutated after insertion.
type entry struct {
	chunk domain.Chunk
	vec   []float32
	norm  float64
}

// Index stores (vector, chunk) entries and answers top-K similarity
// queries. Safe for concurrent use; the indexer builds a fresh Index
// per rebuild and swaps it in atomically, so serving instances are
// effectively read-only.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	entries    []entry // insertion order preserved for stable ties
}

// New creates an empty index for vectors of the given dimensionality.
func New(dimensions int) *Index {
	return &Index{dimensions: dimensions}
}

// Dimensions returns the vector dimensionality the index accepts.
func (ix *Index) Dimensions() int { return ix.dimensions }

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Insert adds a chunk with its embedding vector.
func (ix *Index) Insert(chunk domain.Chunk, vec []float32) error {
	if len(vec) != ix.dimensions {
		return fmt.Errorf("insert chunk %d: got %d dimensions, index has %d: %w",
			chunk.Index, len(vec), ix.dimensions, domain.ErrVectorDimMismatch)
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = append(ix.entries, entry{chunk: chunk, vec: vec, norm: norm(vec)})
	return nil
}

// Search returns the top-k entries by descending cosine similarity to
// vec. Ties keep insertion order. An empty index yields an empty
// result, not an error; callers must handle "no context available".
func (ix *Index) Search(vec []float32, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search: k must be positive, got %d", k)
	}
	if len(vec) != ix.dimensions {
		return nil, fmt.Errorf("search: got %d dimensions, index has %d: %w",
			len(vec), ix.dimensions, domain.ErrVectorDimMismatch)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 {
		return domain.RetrievalResult{}, nil
	}

	queryNorm := norm(vec)
	scored := make([]domain.ScoredChunk, len(ix.entries))
	for i, e := range ix.entries {
		scored[i] = domain.ScoredChunk{Chunk: e.chunk, Score: cosine(vec, e.vec, queryNorm, e.norm)}
	}

	// Stable: equal scores keep insertion order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return domain.RetrievalResult(scored[:k]), nil
}

// cosine computes dot(a,b)/(|a||b|) with precomputed norms. A zero
// vector has no direction and scores 0 against everything.
func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
