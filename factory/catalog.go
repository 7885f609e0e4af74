/*
Package factory provides JSON to Go catalog conversion.

PURPOSE:
  Converts JSON catalog documents into catalog.Catalog values and back. This
  lets pricing be edited without code changes: the server seeds its store from
  a JSON file, and the CLI accepts one with --catalog.

WHY ARRAYS?
  Option order in the selection UI follows catalog order, and JSON objects
  do not guarantee key order once decoded into Go maps. Every level is
  therefore an array of named entries.

JSON SCHEMA:
  {
    "programs": [
      {
        "name": "Ultimate Program",
        "display": "price_and_detail",
        "frequencies": [
          {
            "label": "Every 6 weeks",
            "plans": [
              {
                "label": "6-month plan",
                "price_per_panel": "99",
                "period_weeks": 6,
                "duration_months": 6,
                "tests_included": 4,
                "test_details": ["Thyroid + Core Health", "Hormones"]
              }
            ]
          }
        ]
      }
    ]
  }

KEY FEATURES:
  - period_months and period_weeks are mutually exclusive
  - duration_months may be omitted for pay-as-you-go plans
  - price accepts a JSON number or a decimal string
  - Duplicate labels and non-positive prices are rejected by catalog.Builder

USAGE:
  f := factory.NewCatalogFactory()
  cat, err := f.ParseCatalog(jsonString)
  doc := f.ToJSON(cat)

SEE ALSO:
  - catalog/catalog.go: Catalog type definition
  - catalog/presets.go: Go-defined catalogs
  - store/sqlite/sqlite.go: Persists plans in the same shape
*/
package factory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of a catalog.
type CatalogJSON struct {
	Programs []ProgramJSON `json:"programs"`
}

// ProgramJSON represents one program and its frequency groups.
type ProgramJSON struct {
	Name        string          `json:"name"`
	Display     string          `json:"display,omitempty"` // price_only, price_and_detail
	Frequencies []FrequencyJSON `json:"frequencies"`
}

// FrequencyJSON represents a frequency label and its payment plans.
type FrequencyJSON struct {
	Label string     `json:"label"`
	Plans []PlanJSON `json:"plans"`
}

// PlanJSON represents one payment plan record.
type PlanJSON struct {
	Label          string        `json:"label"`
	PricePerPanel  generic.Money `json:"price_per_panel"`
	PeriodMonths   *int          `json:"period_months,omitempty"`
	PeriodWeeks    *int          `json:"period_weeks,omitempty"`
	DurationMonths int           `json:"duration_months,omitempty"`
	TestsIncluded  int           `json:"tests_included,omitempty"`
	TestDetails    []string      `json:"test_details,omitempty"`
}

// =============================================================================
// CATALOG FACTORY
// =============================================================================

// CatalogFactory converts JSON catalogs to Go structs.
type CatalogFactory struct{}

// NewCatalogFactory creates a new catalog factory.
func NewCatalogFactory() *CatalogFactory {
	return &CatalogFactory{}
}

// ParseCatalog parses a JSON string into a Catalog.
func (f *CatalogFactory) ParseCatalog(jsonStr string) (*catalog.Catalog, error) {
	var doc CatalogJSON
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return nil, generic.InvalidCatalogf("failed to parse catalog JSON: %v", err)
	}
	return f.FromJSON(doc)
}

// FromJSON converts CatalogJSON to a Catalog.
func (f *CatalogFactory) FromJSON(doc CatalogJSON) (*catalog.Catalog, error) {
	if len(doc.Programs) == 0 {
		return nil, generic.InvalidCatalogf("catalog has no programs")
	}

	b := catalog.NewBuilder()
	for _, pj := range doc.Programs {
		display, err := parseDisplay(pj.Display)
		if err != nil {
			return nil, errors.Wrapf(err, "program %q", pj.Name)
		}
		pb := b.Program(pj.Name, display)
		for _, fj := range pj.Frequencies {
			fb := pb.Frequency(fj.Label)
			for _, plan := range fj.Plans {
				rec, err := f.PlanFromJSON(plan)
				if err != nil {
					return nil, errors.Wrapf(err, "%s / %s / %s", pj.Name, fj.Label, plan.Label)
				}
				fb.Plan(plan.Label, rec)
			}
		}
	}
	return b.Build()
}

// PlanFromJSON converts one PlanJSON to a PlanRecord.
func (f *CatalogFactory) PlanFromJSON(pj PlanJSON) (catalog.PlanRecord, error) {
	rec := catalog.PlanRecord{
		PricePerOccurrence: pj.PricePerPanel,
		DurationMonths:     pj.DurationMonths,
		OccurrenceCount:    pj.TestsIncluded,
		OccurrenceLabels:   pj.TestDetails,
	}

	switch {
	case pj.PeriodMonths != nil && pj.PeriodWeeks != nil:
		return catalog.PlanRecord{}, generic.InvalidCatalogf("period_months and period_weeks are mutually exclusive")
	case pj.PeriodMonths != nil:
		rec.Cadence = catalog.EveryMonths(*pj.PeriodMonths)
	case pj.PeriodWeeks != nil:
		rec.Cadence = catalog.EveryWeeks(*pj.PeriodWeeks)
	}
	return rec, nil
}

// ToJSON converts a Catalog to CatalogJSON, preserving order.
func (f *CatalogFactory) ToJSON(cat *catalog.Catalog) CatalogJSON {
	doc := CatalogJSON{}
	for _, p := range cat.Programs() {
		pj := ProgramJSON{Name: p.Name, Display: string(p.Display)}
		for _, fr := range p.Frequencies() {
			fj := FrequencyJSON{Label: fr.Label}
			for _, plan := range fr.Plans() {
				fj.Plans = append(fj.Plans, f.PlanToJSON(plan.Label, plan.Record))
			}
			pj.Frequencies = append(pj.Frequencies, fj)
		}
		doc.Programs = append(doc.Programs, pj)
	}
	return doc
}

// PlanToJSON converts a PlanRecord to PlanJSON.
func (f *CatalogFactory) PlanToJSON(label string, rec catalog.PlanRecord) PlanJSON {
	pj := PlanJSON{
		Label:          label,
		PricePerPanel:  rec.PricePerOccurrence,
		DurationMonths: rec.DurationMonths,
		TestsIncluded:  rec.OccurrenceCount,
		TestDetails:    rec.OccurrenceLabels,
	}
	every := rec.Cadence.Every
	switch rec.Cadence.Unit {
	case catalog.CadenceMonths:
		pj.PeriodMonths = &every
	case catalog.CadenceWeeks:
		pj.PeriodWeeks = &every
	}
	return pj
}

// Marshal renders a catalog as indented JSON.
func (f *CatalogFactory) Marshal(cat *catalog.Catalog) (string, error) {
	data, err := json.MarshalIndent(f.ToJSON(cat), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Fingerprint identifies a catalog by content. Equal catalogs share a
// fingerprint across processes, so it can scope shared cache entries.
func (f *CatalogFactory) Fingerprint(cat *catalog.Catalog) (string, error) {
	data, err := json.Marshal(f.ToJSON(cat))
	if err != nil {
		return "", errors.Wrap(err, "failed to encode catalog")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseDisplay(s string) (catalog.DisplayMode, error) {
	switch catalog.DisplayMode(s) {
	case "", catalog.DisplayPriceOnly:
		return catalog.DisplayPriceOnly, nil
	case catalog.DisplayPriceAndDetail:
		return catalog.DisplayPriceAndDetail, nil
	default:
		return "", generic.InvalidCatalogf("unknown display mode %q", s)
	}
}

// =============================================================================
// SOURCES
// =============================================================================

// Load resolves a catalog source: a preset name ("default", "legacy") or a
// path to a JSON catalog document.
func (f *CatalogFactory) Load(source string) (*catalog.Catalog, error) {
	if cat, ok := catalog.Preset(source); ok {
		return cat, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog source %q is neither a preset nor a readable file", source)
	}
	cat, err := f.ParseCatalog(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "catalog file %s", source)
	}
	return cat, nil
}
