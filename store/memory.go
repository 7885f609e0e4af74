package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the catalog in process memory. Catalogs are immutable, so the
// stored pointer is shared with callers without copying.
type Memory struct {
	mu   sync.RWMutex
	cat  *catalog.Catalog
	info CatalogInfo
}

func NewMemory() *Memory {
	return &Memory{}
}

// SaveCatalog replaces the catalog.
func (m *Memory) SaveCatalog(_ context.Context, cat *catalog.Catalog, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cat = cat
	m.info = CatalogInfo{Source: source, SeededAt: time.Now().UTC(), Plans: cat.Len()}
	return nil
}

func (m *Memory) HasCatalog(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cat != nil, nil
}

func (m *Memory) CatalogInfo(_ context.Context) (*CatalogInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cat == nil {
		return nil, notStored()
	}
	info := m.info
	return &info, nil
}

func (m *Memory) LoadCatalog(_ context.Context) (*catalog.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cat == nil {
		return nil, notStored()
	}
	return m.cat, nil
}

func (m *Memory) Close() error { return nil }

func notStored() error {
	return &generic.NotFoundError{Level: generic.LevelCatalog, Key: "stored"}
}
