/*
handlers.go - HTTP API handlers for the schedule engine

PURPOSE:
  Exposes the catalog and the schedule calculator via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to catalog.Resolve and
  schedule.Calculator.

ENDPOINTS:
  GET  /api/health            Liveness
  GET  /api/programs          Ordered catalog tree for the selection UI
  GET  /api/catalog           Catalog as a JSON document (factory schema)
  PUT  /api/catalog           Replace the catalog, persist it, flush the cache
  GET  /api/schedule          Timeline for one (program, frequency, plan)
  GET  /api/schedule/table    Tabular rows; format=csv returns text/csv

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: catalog persistence (optional; PUT /api/catalog needs it)
  - Calculator: pure, shared by all requests
  - Cache: encoded bodies keyed by catalog version plus the full query
  The catalog and its version are swapped together under a RWMutex on PUT.

REQUEST FLOW:
  1. Parse and validate the query (validator/v10)
  2. Resolve the plan record in the catalog
  3. Compute the schedule
  4. Serialize, cache, respond

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid configuration, invalid catalog
  - 404: Unknown program, frequency or payment plan
  - 413: Catalog body over 1 MiB
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/warp/schedule-engine/cache"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/logger"
	"github.com/warp/schedule-engine/render"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store"
)

// DefaultDuration is the pay-as-you-go duration when none is requested.
const DefaultDuration = 12

// maxCatalogBytes bounds PUT /api/catalog bodies.
const maxCatalogBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          store.CatalogWriter
	CatalogFactory *factory.CatalogFactory
	Calculator     *schedule.Calculator
	Cache          cache.Cache
	Logger         *logger.Logger

	// Today returns the start date used when a request names none.
	Today func() generic.TimePoint

	// DefaultDuration applies to pay-as-you-go plans without ?duration.
	DefaultDuration int

	validate *validator.Validate

	mu         sync.RWMutex
	catalog    *catalog.Catalog
	version    string
	generation uint64
}

// NewHandler creates a handler serving cat. Optional dependencies can be set
// on the returned struct before routing.
func NewHandler(cat *catalog.Catalog, calc *schedule.Calculator) *Handler {
	h := &Handler{
		CatalogFactory:  factory.NewCatalogFactory(),
		Calculator:      calc,
		Cache:           cache.Noop{},
		Logger:          logger.NewNop(),
		Today:           generic.Today,
		DefaultDuration: DefaultDuration,
		validate:        validator.New(),
		catalog:         cat,
	}
	h.version = h.catalogVersion(cat)
	return h
}

// Catalog returns the catalog currently served.
func (h *Handler) Catalog() *catalog.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog
}

// SetCatalog swaps the served catalog and drops every cached response.
// Cache keys carry the catalog version, so a response computed from the
// previous catalog and stored after the flush is never read back.
func (h *Handler) SetCatalog(ctx context.Context, cat *catalog.Catalog) {
	h.mu.Lock()
	h.generation++
	h.catalog = cat
	h.version = h.catalogVersion(cat)
	h.mu.Unlock()
	h.Cache.Flush(ctx)
}

// snapshot returns the served catalog and its version as one pair.
func (h *Handler) snapshot() (*catalog.Catalog, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog, h.version
}

// catalogVersion fingerprints cat. If that fails the version is local to
// this process and this swap. Callers hold mu for writing or own h.
func (h *Handler) catalogVersion(cat *catalog.Catalog) string {
	v, err := h.CatalogFactory.Fingerprint(cat)
	if err != nil {
		h.Logger.Warnw("catalog fingerprint failed", "error", err)
		return fmt.Sprintf("local-%p-%d", h, h.generation)
	}
	return v
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPrograms returns the catalog tree in display order.
// GET /api/programs
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	cat, version := h.snapshot()

	key := cache.GenerateKey(cache.PrefixPrograms, version)
	if body, ok := h.Cache.Get(r.Context(), key); ok {
		writeBody(w, "application/json", body, true)
		return
	}

	body, err := json.Marshal(toProgramDTOs(cat))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to encode programs", err)
		return
	}
	h.Cache.Set(r.Context(), key, body, 0)
	writeBody(w, "application/json", body, false)
}

// GetCatalog returns the catalog as a factory JSON document.
// GET /api/catalog
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.CatalogFactory.ToJSON(h.Catalog()))
}

// ReplaceCatalog validates and installs a new catalog.
// PUT /api/catalog
func (h *Handler) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCatalogBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("Catalog exceeds %d bytes", tooLarge.Limit), nil)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body", err)
		return
	}

	cat, err := h.CatalogFactory.ParseCatalog(string(body))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveCatalog(r.Context(), cat, "api"); err != nil {
			h.Logger.Errorw("failed to persist catalog", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "Failed to save catalog", err)
			return
		}
	}

	h.SetCatalog(r.Context(), cat)
	h.Logger.Infow("catalog replaced", "programs", len(cat.Programs()), "plans", cat.Len())
	writeJSON(w, http.StatusOK, toProgramDTOs(cat))
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetSchedule computes the timeline for one selection.
// GET /api/schedule?program=&frequency=&plan=&duration=&start=
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cat, version := h.snapshot()

	key := cache.GenerateKey(cache.PrefixSchedule, version, q.Program, q.Frequency, q.Plan, q.Duration, q.Start)
	if body, ok := h.Cache.Get(r.Context(), key); ok {
		writeBody(w, "application/json", body, true)
		return
	}

	display, res, err := h.compute(cat, q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body, err := json.Marshal(toScheduleDTO(q, display, res))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to encode schedule", err)
		return
	}
	h.Cache.Set(r.Context(), key, body, 0)
	writeBody(w, "application/json", body, false)
}

// GetScheduleTable returns the tabular view.
// GET /api/schedule/table?...&format=csv
func (h *Handler) GetScheduleTable(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	contentType := "application/json"
	if q.Format == "csv" {
		contentType = "text/csv"
	}

	cat, version := h.snapshot()

	key := cache.GenerateKey(cache.PrefixTable, version, q.Program, q.Frequency, q.Plan, q.Duration, q.Start, q.Format)
	if body, ok := h.Cache.Get(r.Context(), key); ok {
		writeBody(w, contentType, body, true)
		return
	}

	_, res, err := h.compute(cat, q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var body []byte
	if q.Format == "csv" {
		var buf bytes.Buffer
		if err := render.WriteCSV(&buf, res.Rows()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "Failed to encode table", err)
			return
		}
		body = buf.Bytes()
	} else {
		body, err = json.Marshal(toRowDTOs(res.Rows()))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "Failed to encode table", err)
			return
		}
	}

	h.Cache.Set(r.Context(), key, body, 0)
	writeBody(w, contentType, body, false)
}

// parseQuery reads and validates the selection. Duration and start are
// normalized so equivalent requests share a cache key.
func (h *Handler) parseQuery(r *http.Request) (ScheduleQuery, error) {
	v := r.URL.Query()
	q := ScheduleQuery{
		Program:   v.Get("program"),
		Frequency: v.Get("frequency"),
		Plan:      v.Get("plan"),
		Start:     v.Get("start"),
		Format:    strings.ToLower(v.Get("format")),
	}
	if raw := v.Get("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.Mark(errors.Wrapf(err, "duration %q", raw), errBadRequest)
		}
		q.Duration = d
		if d == 0 {
			return q, errors.Mark(errors.New("duration must be between 1 and 24"), errBadRequest)
		}
	}

	if err := h.validate.Struct(q); err != nil {
		return q, errors.Mark(err, errBadRequest)
	}

	if catalog.IsPayAsYouGo(q.Plan) {
		if q.Duration == 0 {
			q.Duration = h.DefaultDuration
		}
	} else {
		q.Duration = 0
	}
	if q.Start == "" {
		q.Start = schedule.ISODate(h.Today())
	}
	return q, nil
}

func (h *Handler) compute(cat *catalog.Catalog, q ScheduleQuery) (catalog.DisplayMode, *schedule.Result, error) {
	program, err := cat.Program(q.Program)
	if err != nil {
		return "", nil, err
	}
	record, err := cat.Resolve(q.Program, q.Frequency, q.Plan)
	if err != nil {
		return "", nil, err
	}

	start, err := schedule.ParseISODate(q.Start)
	if err != nil {
		return "", nil, errors.Mark(err, errBadRequest)
	}

	res, err := h.Calculator.Compute(record, start, q.Duration)
	if err != nil {
		return "", nil, err
	}
	return program.Display, res, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// errBadRequest marks request-parsing failures.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeBody sends an already-encoded body. X-Cache tells clients and tests
// whether it came from the cache.
func writeBody(w http.ResponseWriter, contentType string, body []byte, hit bool) {
	w.Header().Set("Content-Type", contentType)
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case generic.IsInvalidConfiguration(err):
		writeError(w, http.StatusBadRequest, "invalid_configuration", err.Error(), nil)
	case errors.Is(err, generic.ErrInvalidCatalog):
		writeError(w, http.StatusBadRequest, "invalid_catalog", "Invalid catalog", err)
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", "Internal error", err)
	}
}
