package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	dims     int
	failFrom int // fail when batch index >= failFrom; -1 never fails
	calls    int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.failFrom >= 0 && m.calls > m.failFrom {
		return domain.EmbeddingResult{}, errors.New("provider down")
	}
	vec := make([]float32, m.dims)
	vec[0] = float32(len(text))
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: len(text)}, nil
}

// --- Tests ---

func TestBuild_EmptyDocumentYieldsEmptyIndex(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: -1}, 4, zap.NewNop())

	ix, err := svc.Build(context.Background(), "doc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", ix.Len())
	}
}

func TestBuild_PopulatesAllChunks(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: -1}, 4, zap.NewNop())

	ix, err := svc.Build(context.Background(), "doc", "abcdefghijklmnopqrstuvwxyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := len(chunker.Split("doc", "abcdefghijklmnopqrstuvwxyz"))
	if ix.Len() != want {
		t.Errorf("index has %d entries, want %d", ix.Len(), want)
	}
}

// A failed embed aborts the whole build; no partial index escapes.
func TestBuild_EmbedFailureAborts(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: 2}, 4, zap.NewNop())

	ix, err := svc.Build(context.Background(), "doc", "abcdefghijklmnopqrstuvwxyz")
	if !errors.Is(err, domain.ErrIndexBuild) {
		t.Errorf("expected ErrIndexBuild, got %v", err)
	}
	if ix != nil {
		t.Error("failed build must not return a partial index")
	}
}

func TestBuild_DimensionMismatchAborts(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	// Embedder emits 4-dim vectors, index expects 8.
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: -1}, 8, zap.NewNop())

	_, err := svc.Build(context.Background(), "doc", "abcdefghijklmnopqrstuvwxyz")
	if !errors.Is(err, domain.ErrIndexBuild) {
		t.Errorf("expected ErrIndexBuild, got %v", err)
	}
}

func TestManager_CurrentNilBeforeFirstBuild(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: -1}, 4, zap.NewNop())
	m := NewManager(svc, "does-not-matter.txt", zap.NewNop())

	if m.Current() != nil {
		t.Error("expected nil index before first build")
	}
}

func TestManager_RebuildSwapsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("some corpus text for indexing"), 0o600); err != nil {
		t.Fatal(err)
	}

	chunker, _ := NewChunker(10, 2)
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: -1}, 4, zap.NewNop())
	m := NewManager(svc, path, zap.NewNop())

	if err := m.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ix := m.Current()
	if ix == nil {
		t.Fatal("expected index after rebuild")
	}
	if ix.Len() == 0 {
		t.Error("expected populated index")
	}
}

func TestManager_FailedRebuildKeepsPreviousIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("some corpus text for indexing"), 0o600); err != nil {
		t.Fatal(err)
	}

	chunker, _ := NewChunker(10, 2)
	emb := &mockEmbedder{dims: 4, failFrom: -1}
	svc := New(chunker, emb, 4, zap.NewNop())
	m := NewManager(svc, path, zap.NewNop())

	if err := m.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := m.Current()

	emb.failFrom = 0 // next rebuild fails
	err := m.Rebuild(context.Background())
	if !errors.Is(err, domain.ErrIndexBuild) {
		t.Errorf("expected ErrIndexBuild, got %v", err)
	}
	if m.Current() != before {
		t.Error("failed rebuild must leave the previous index serving")
	}
}

func TestManager_MissingCorpusFile(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	svc := New(chunker, &mockEmbedder{dims: 4, failFrom: -1}, 4, zap.NewNop())
	m := NewManager(svc, filepath.Join(t.TempDir(), "nope.txt"), zap.NewNop())

	err := m.Rebuild(context.Background())
	if !errors.Is(err, domain.ErrIndexBuild) {
		t.Errorf("expected ErrIndexBuild, got %v", err)
	}
	if m.Current() != nil {
		t.Error("expected nil index after failed first build")
	}
}
