package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
	"github.com/sagarpimpale/weather-rag-agent/internal/repository/vectorindex"
)

// Manager owns the current index and the corpus it is built from.
// Rebuild produces a new index instance and swaps the reference
// atomically: in-flight queries keep the snapshot they started with,
// and a failed rebuild leaves the previous index serving.
type Manager struct {
	svc    *Service
	path   string
	logger *zap.Logger

	rebuildMu sync.Mutex // serializes rebuilds, not reads
	current   atomic.Pointer[vectorindex.Index]
}

// NewManager creates a manager for the corpus file at path.
func NewManager(svc *Service, path string, logger *zap.Logger) *Manager {
	return &Manager{svc: svc, path: path, logger: logger}
}

// Rebuild reads the corpus file, builds a fresh index, and swaps it in.
func (m *Manager) Rebuild(ctx context.Context) error {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("read corpus %s: %w: %w", m.path, err, domain.ErrIndexBuild)
	}

	docID := filepath.Base(m.path)
	index, err := m.svc.Build(ctx, docID, string(data))
	if err != nil {
		return fmt.Errorf("build index for %s: %w", docID, err)
	}

	m.current.Store(index)
	m.logger.Info("Index swapped in", zap.String("document_id", docID), zap.Int("entries", index.Len()))
	return nil
}

// Current returns the serving index snapshot, or nil before the first
// successful build. The nil check happens before conversion so callers
// get a nil interface, not an interface wrapping a typed nil pointer.
func (m *Manager) Current() domain.VectorIndex {
	ix := m.current.Load()
	if ix == nil {
		return nil
	}
	return ix
}
