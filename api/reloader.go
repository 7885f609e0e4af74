/*
reloader.go - Periodic catalog reload

PURPOSE:
  Several server processes may share one SQLite file. When one of them
  accepts PUT /api/catalog (or an operator reseeds with schedulectl), the
  others notice the new seed time on their next check and swap the catalog
  in, flushing their caches.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Compares CatalogInfo.SeededAt with the last seen value
  - Only loads the full catalog when the seed time moved

USAGE:
  reloader := api.NewCatalogReloader(store, handler, time.Minute)
  reloader.Start()
  // ... later
  reloader.Stop()

SEE ALSO:
  - handlers.go: ReplaceCatalog (the writer side)
  - store/store.go: CatalogReader
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/schedule-engine/store"
)

// CatalogReloader keeps a Handler's catalog in step with the store.
type CatalogReloader struct {
	Source        store.CatalogReader
	Handler       *Handler
	CheckInterval time.Duration

	lastSeeded time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCatalogReloader creates a reloader. A non-positive interval disables it.
func NewCatalogReloader(source store.CatalogReader, handler *Handler, interval time.Duration) *CatalogReloader {
	return &CatalogReloader{
		Source:        source,
		Handler:       handler,
		CheckInterval: interval,
		stop:          make(chan struct{}),
	}
}

// Start begins periodic checks.
func (cr *CatalogReloader) Start() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.CheckInterval <= 0 {
		cr.Handler.Logger.Infow("catalog reloader disabled")
		return
	}

	if info, err := cr.Source.CatalogInfo(context.Background()); err == nil {
		cr.lastSeeded = info.SeededAt
	}

	cr.ticker = time.NewTicker(cr.CheckInterval)
	cr.wg.Add(1)

	go cr.run()

	cr.Handler.Logger.Infow("catalog reloader started", "interval", cr.CheckInterval)
}

// Stop stops the reloader and waits for an in-flight check.
func (cr *CatalogReloader) Stop() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.ticker != nil {
		cr.ticker.Stop()
		close(cr.stop)
		cr.wg.Wait()
		cr.ticker = nil
		cr.Handler.Logger.Infow("catalog reloader stopped")
	}
}

func (cr *CatalogReloader) run() {
	defer cr.wg.Done()

	for {
		select {
		case <-cr.ticker.C:
			cr.Check(context.Background())
		case <-cr.stop:
			return
		}
	}
}

// Check reloads the catalog if the stored one changed since the last check.
// It reports whether a reload happened.
func (cr *CatalogReloader) Check(ctx context.Context) bool {
	log := cr.Handler.Logger

	info, err := cr.Source.CatalogInfo(ctx)
	if err != nil {
		log.Warnw("catalog check failed", "error", err)
		return false
	}
	if !info.SeededAt.After(cr.lastSeeded) {
		return false
	}

	cat, err := cr.Source.LoadCatalog(ctx)
	if err != nil {
		log.Errorw("catalog reload failed", "error", err)
		return false
	}

	cr.Handler.SetCatalog(ctx, cat)
	cr.lastSeeded = info.SeededAt
	log.Infow("catalog reloaded", "source", info.Source, "plans", info.Plans)
	return true
}
