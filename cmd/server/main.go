/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the schedule engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, config.yaml, .env, SCHEDULE_* env vars)
  2. Apply command-line flags on top
  3. Open the catalog store (sqlite or memory); seed it on first start or
     on reseed
  4. Load the catalog, pick a cache backend, build the handler
  5. Start the catalog reloader and the HTTP server
  6. Graceful shutdown on SIGINT/SIGTERM

COMMAND-LINE FLAGS:
  -config  Config file path (default: search ./, ./config, /etc/schedule-engine)
  -port    HTTP server port (overrides server.port)
  -db      SQLite database path (overrides database.path)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the reloader, close the database
  4. Exit

EXAMPLES:
  ./server -db="./data/schedule.db"
  SCHEDULE_CATALOG_SOURCE=./pricing.json SCHEDULE_CATALOG_RESEED=true ./server
  SCHEDULE_CACHE_BACKEND=redis SCHEDULE_REDIS_ADDR=redis:6379 ./server

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Router configuration
  - store/store.go: Catalog store contract and memory driver
  - store/sqlite/sqlite.go: Catalog persistence
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/schedule-engine/api"
	"github.com/warp/schedule-engine/cache"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/config"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/logger"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store"
	"github.com/warp/schedule-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "Config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize store
	catalogStore, err := openStore(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer catalogStore.Close()

	ctx := context.Background()
	cat, err := bootstrapCatalog(ctx, catalogStore, cfg.Catalog, log)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	responseCache, err := cache.New(cache.Options{
		Backend:       cfg.Cache.Backend,
		TTL:           cfg.Cache.TTL,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	if rc, ok := responseCache.(*cache.Redis); ok {
		if err := rc.Ping(ctx); err != nil {
			log.Warnw("redis unreachable, responses will not be cached until it is", "addr", cfg.Redis.Addr, "error", err)
		}
		defer rc.Close()
	}

	// Initialize handler
	opts := schedule.DefaultOptions()
	opts.RejectUnscheduled = cfg.Schedule.RejectUnscheduled

	handler := api.NewHandler(cat, schedule.NewCalculator(opts))
	handler.Store = catalogStore
	handler.Cache = responseCache
	handler.Logger = log.With("component", "api")
	handler.Today = cfg.StartDate
	handler.DefaultDuration = cfg.Schedule.DefaultDuration

	reloader := api.NewCatalogReloader(catalogStore, handler, cfg.Catalog.ReloadInterval)
	reloader.Start()
	defer reloader.Stop()

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting",
			"addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
			"store", cfg.Database.Driver,
			"cache", cfg.Cache.Backend,
			"programs", len(cat.Programs()),
			"plans", cat.Len(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

func openStore(cfg config.DatabaseConfig) (store.CatalogStore, error) {
	if cfg.Driver == store.DriverMemory {
		return store.NewMemory(), nil
	}
	return sqlite.New(cfg.Path)
}

// bootstrapCatalog seeds the store from the configured source when it is
// empty (or when a reseed is requested) and returns the stored catalog.
func bootstrapCatalog(ctx context.Context, cs store.CatalogStore, cfg config.CatalogConfig, log *logger.Logger) (*catalog.Catalog, error) {
	seeded, err := cs.HasCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if !seeded || cfg.Reseed {
		cat, err := factory.NewCatalogFactory().Load(cfg.Source)
		if err != nil {
			return nil, err
		}
		if err := cs.SaveCatalog(ctx, cat, cfg.Source); err != nil {
			return nil, err
		}
		log.Infow("catalog seeded", "source", cfg.Source, "plans", cat.Len())
	}

	return cs.LoadCatalog(ctx)
}
