/*
Package sqlite provides a SQLite-backed catalog store.

PURPOSE:
  Persists the pricing catalog so the server can be seeded once (from a
  preset or a JSON document) and reload the same catalog on every restart.
  Schedules themselves are never stored; they are recomputed per request.

KEY TABLES:
  programs:     One row per program, ordered by ordinal
  plans:        One row per payment plan, ordered by (program, frequency, plan)
                ordinals. Frequencies are implicit in the plan rows.
  catalog_meta: Source name and seed time of the stored catalog

ORDER PRESERVATION:
  The catalog is ordered at every level. Ordinals are written on save and
  every read sorts by them, so LoadCatalog rebuilds the exact insertion order.

REPLACE SEMANTICS:
  SaveCatalog replaces the whole catalog inside one transaction. A failure
  half way leaves the previous catalog intact.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block the
  single writer.

USAGE:
  store, err := sqlite.New("./data/schedule.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  if ok, _ := store.HasCatalog(ctx); !ok {
      store.SaveCatalog(ctx, catalog.Default(), "default")
  }
  cat, err := store.LoadCatalog(ctx)

SEE ALSO:
  - store/store.go: CatalogStore contract
  - catalog/builder.go: Used to rebuild the catalog on load
  - factory/catalog.go: The JSON form of the same data
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/store"
)

var _ store.CatalogStore = (*Store)(nil)

// Store persists a catalog in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS programs (
		ordinal INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		display TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		program_ordinal INTEGER NOT NULL REFERENCES programs(ordinal) ON DELETE CASCADE,
		frequency_ordinal INTEGER NOT NULL,
		plan_ordinal INTEGER NOT NULL,
		frequency_label TEXT NOT NULL,
		label TEXT NOT NULL,
		price TEXT NOT NULL,
		cadence_unit TEXT NOT NULL,
		cadence_every INTEGER NOT NULL,
		duration_months INTEGER NOT NULL,
		occurrence_count INTEGER NOT NULL,
		labels_json TEXT,
		PRIMARY KEY (program_ordinal, frequency_ordinal, plan_ordinal)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_plans_selection
		ON plans(program_ordinal, frequency_label, label);

	CREATE TABLE IF NOT EXISTS catalog_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		source TEXT NOT NULL,
		seeded_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CATALOG STORE
// =============================================================================

// SaveCatalog replaces the stored catalog. source is a free-form note such
// as "default" or a file path.
func (s *Store) SaveCatalog(ctx context.Context, cat *catalog.Catalog, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer sqlTx.Rollback()

	for _, table := range []string{"plans", "programs", "catalog_meta"} {
		if _, err := sqlTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "failed to clear %s", table)
		}
	}

	for pi, program := range cat.Programs() {
		if _, err := sqlTx.ExecContext(ctx,
			"INSERT INTO programs (ordinal, name, display) VALUES (?, ?, ?)",
			pi, program.Name, string(program.Display),
		); err != nil {
			return errors.Wrapf(err, "failed to save program %q", program.Name)
		}

		for fi, freq := range program.Frequencies() {
			for li, plan := range freq.Plans() {
				if err := insertPlan(ctx, sqlTx, pi, fi, li, freq.Label, plan); err != nil {
					return errors.Wrapf(err, "failed to save plan %s / %s / %s", program.Name, freq.Label, plan.Label)
				}
			}
		}
	}

	if _, err := sqlTx.ExecContext(ctx,
		"INSERT INTO catalog_meta (id, source, seeded_at) VALUES (1, ?, ?)",
		source, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return errors.Wrap(err, "failed to save catalog metadata")
	}

	return sqlTx.Commit()
}

func insertPlan(ctx context.Context, tx *sql.Tx, pi, fi, li int, freqLabel string, plan catalog.PaymentPlan) error {
	rec := plan.Record

	var labelsJSON sql.NullString
	if len(rec.OccurrenceLabels) > 0 {
		data, err := json.Marshal(rec.OccurrenceLabels)
		if err != nil {
			return err
		}
		labelsJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO plans (program_ordinal, frequency_ordinal, plan_ordinal, frequency_label, label,
		                   price, cadence_unit, cadence_every, duration_months, occurrence_count, labels_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pi, fi, li, freqLabel, plan.Label,
		rec.PricePerOccurrence.Value.String(), string(rec.Cadence.Unit), rec.Cadence.Every,
		rec.DurationMonths, rec.OccurrenceCount, labelsJSON,
	)
	return err
}

// HasCatalog reports whether a catalog has been saved.
func (s *Store) HasCatalog(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_meta").Scan(&count)
	return count > 0, err
}

// CatalogInfo returns metadata about the stored catalog, or a NotFoundError
// if none has been saved.
func (s *Store) CatalogInfo(ctx context.Context) (*store.CatalogInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info store.CatalogInfo
	var seededAt string
	err := s.db.QueryRowContext(ctx, "SELECT source, seeded_at FROM catalog_meta WHERE id = 1").
		Scan(&info.Source, &seededAt)
	if err == sql.ErrNoRows {
		return nil, &generic.NotFoundError{Level: generic.LevelCatalog, Key: "stored"}
	}
	if err != nil {
		return nil, err
	}
	info.SeededAt, _ = time.Parse(time.RFC3339Nano, seededAt)

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plans").Scan(&info.Plans); err != nil {
		return nil, err
	}
	return &info, nil
}

// LoadCatalog rebuilds the stored catalog in its saved order.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, p.display, pl.frequency_label, pl.label, pl.price, pl.cadence_unit,
		       pl.cadence_every, pl.duration_months, pl.occurrence_count, pl.labels_json
		FROM programs p
		JOIN plans pl ON pl.program_ordinal = p.ordinal
		ORDER BY p.ordinal, pl.frequency_ordinal, pl.plan_ordinal
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query catalog")
	}
	defer rows.Close()

	b := catalog.NewBuilder()
	found := false
	for rows.Next() {
		var (
			program, display, freqLabel, label, price, unit string
			every, duration, count                          int
			labelsJSON                                      sql.NullString
		)
		if err := rows.Scan(&program, &display, &freqLabel, &label, &price, &unit,
			&every, &duration, &count, &labelsJSON); err != nil {
			return nil, err
		}

		rec, err := planRecord(price, unit, every, duration, count, labelsJSON)
		if err != nil {
			return nil, errors.Wrapf(err, "stored plan %s / %s / %s", program, freqLabel, label)
		}
		b.Program(program, catalog.DisplayMode(display)).Frequency(freqLabel).Plan(label, rec)
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, &generic.NotFoundError{Level: generic.LevelCatalog, Key: "stored"}
	}

	return b.Build()
}

func planRecord(price, unit string, every, duration, count int, labelsJSON sql.NullString) (catalog.PlanRecord, error) {
	money, err := generic.NewMoneyFromString(price)
	if err != nil {
		return catalog.PlanRecord{}, err
	}
	rec := catalog.PlanRecord{
		PricePerOccurrence: money,
		Cadence:            catalog.Cadence{Unit: catalog.CadenceUnit(unit), Every: every},
		DurationMonths:     duration,
		OccurrenceCount:    count,
	}
	if labelsJSON.Valid {
		if err := json.Unmarshal([]byte(labelsJSON.String), &rec.OccurrenceLabels); err != nil {
			return catalog.PlanRecord{}, err
		}
	}
	return rec, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"plans", "programs", "catalog_meta"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
