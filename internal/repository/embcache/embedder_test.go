package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/db"
	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// --- Mocks ---

type memStore struct {
	data map[string][]byte
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 7}, nil
}

func newCached(inner domain.Embedder, s store) *CachedEmbedder {
	return New(inner, s, "all-minilm", time.Hour, nil, zap.NewNop())
}

// --- Tests ---

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	cached := newCached(inner, newMemStore())

	first, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss must report real token usage, got %d", first.TotalTokens)
	}

	second, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("hit must not call inner, calls = %d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit consumes no tokens, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[1] != 0.2 {
		t.Errorf("cached vector mismatch: %v", second.Embedding)
	}
}

func TestEmbed_DifferentTextsDifferentKeys(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	cached := newCached(inner, newMemStore())

	_, _ = cached.Embed(context.Background(), "one")
	_, _ = cached.Embed(context.Background(), "two")
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

// Switching models must never serve a vector from the old space.
func TestEmbed_ModelQualifiedKeys(t *testing.T) {
	s := newMemStore()
	innerA := &countingEmbedder{vec: []float32{1}}
	innerB := &countingEmbedder{vec: []float32{2}}

	a := New(innerA, s, "model-a", time.Hour, nil, zap.NewNop())
	b := New(innerB, s, "model-b", time.Hour, nil, zap.NewNop())

	_, _ = a.Embed(context.Background(), "text")
	res, err := b.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerB.calls != 1 {
		t.Errorf("model-b must miss, inner calls = %d", innerB.calls)
	}
	if res.Embedding[0] != 2 {
		t.Errorf("got vector from the wrong model: %v", res.Embedding)
	}
}

func TestEmbed_InnerErrorPropagates(t *testing.T) {
	inner := &countingEmbedder{err: domain.ErrEmbeddingProviderError}
	cached := newCached(inner, newMemStore())

	_, err := cached.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

// Cache failures degrade to pass-through, they never fail the request.
func TestEmbed_StoreErrorFallsThrough(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2}}
	s := newMemStore()
	s.err = errors.New("redis down")
	cached := newCached(inner, s)

	res, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if len(res.Embedding) != 2 {
		t.Errorf("vector = %v", res.Embedding)
	}
}

func TestBatchEmbed_PopulatesCache(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2}}
	s := newMemStore()
	cached := newCached(inner, s)

	res, err := cached.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("got %d embeddings, want 3", len(res.Embeddings))
	}
	if len(s.data) != 3 {
		t.Errorf("cache holds %d entries, want 3", len(s.data))
	}

	// Subsequent single embeds hit the cache.
	calls := inner.calls
	if _, err := cached.Embed(context.Background(), "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != calls {
		t.Error("expected cache hit after batch populate")
	}
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: %v != %v", i, in[i], out[i])
		}
	}
}

func TestBytesToVector_InvalidLength(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for non-multiple-of-4 data")
	}
}
