/*
Package store defines catalog persistence and an in-memory implementation.

PURPOSE:
  The server seeds a catalog once and reloads it on restart; the API can
  replace it at runtime. CatalogStore is the contract both backends meet.

KEY INTERFACES:
  CatalogReader: HasCatalog, CatalogInfo, LoadCatalog
  CatalogWriter: SaveCatalog (whole-catalog replace)
  CatalogStore:  both, plus Close

REPLACE-ONLY CONTRACT:
  There are no per-plan updates. A catalog is always written whole, so a
  reader never sees a mix of two versions.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite, survives restarts
  - store/memory.go: In-memory, for tests and throwaway servers

SEE ALSO:
  - api/reloader.go: Polls CatalogInfo for changes
  - cmd/server/main.go: Picks the backend from database.driver
*/
package store

import (
	"context"
	"time"

	"github.com/warp/schedule-engine/catalog"
)

// CatalogInfo describes the stored catalog.
type CatalogInfo struct {
	Source   string
	SeededAt time.Time
	Plans    int
}

// CatalogReader reads the stored catalog.
type CatalogReader interface {
	// HasCatalog reports whether a catalog has been saved.
	HasCatalog(ctx context.Context) (bool, error)

	// CatalogInfo returns metadata, or a NotFoundError when nothing is stored.
	CatalogInfo(ctx context.Context) (*CatalogInfo, error)

	// LoadCatalog returns the stored catalog in its saved order, or a
	// NotFoundError when nothing is stored.
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogWriter replaces the stored catalog.
type CatalogWriter interface {
	SaveCatalog(ctx context.Context, cat *catalog.Catalog, source string) error
}

// CatalogStore is a full catalog backend.
type CatalogStore interface {
	CatalogReader
	CatalogWriter
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)
