/*
errors.go - Centralized error types for the schedule engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Catalog, calculator and API layers wrap or match these errors.

ERROR CATEGORIES:
  1. Lookup errors - a catalog path that does not resolve
  2. Configuration errors - a plan whose schedule cannot be determined
  3. Catalog errors - a catalog document that cannot be built

USAGE:
    if generic.IsNotFound(err) {
        // 404
    }
    var cfgErr *generic.InvalidConfigurationError
    if errors.As(err, &cfgErr) { ... }

SEE ALSO:
  - catalog/catalog.go: returns NotFoundError
  - schedule/calculator.go: returns InvalidConfigurationError
  - api/handlers.go: maps errors to HTTP status codes
*/
package generic

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a program, frequency or payment plan key
	// is absent from the catalog.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration is returned when a plan cannot produce a
	// schedule, e.g. no duration and no override.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidCatalog is returned when a catalog definition is malformed
	// (duplicate keys, conflicting cadence fields).
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CatalogLevel names the level of the catalog hierarchy a key belongs to.
type CatalogLevel string

const (
	LevelProgram     CatalogLevel = "program"
	LevelFrequency   CatalogLevel = "frequency"
	LevelPaymentPlan CatalogLevel = "payment plan"

	// LevelCatalog is used when a whole catalog is missing, e.g. an
	// unseeded store.
	LevelCatalog CatalogLevel = "catalog"
)

// NotFoundError reports which key failed to resolve and at which level.
type NotFoundError struct {
	Level CatalogLevel
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Level, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidConfigurationError explains why a schedule could not be computed.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewInvalidConfiguration builds an InvalidConfigurationError from a format string.
func NewInvalidConfiguration(format string, args ...any) error {
	return &InvalidConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidCatalogf wraps ErrInvalidCatalog with a formatted message.
func InvalidCatalogf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidCatalog, format, args...)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates an unresolvable catalog path.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidConfiguration returns true if a schedule could not be determined.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsClientError returns true if the error is due to the caller's selection
// or input rather than a server fault.
func IsClientError(err error) bool {
	return IsNotFound(err) || IsInvalidConfiguration(err) || errors.Is(err, ErrInvalidCatalog)
}
