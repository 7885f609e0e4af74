/*
Package catalog holds the immutable plan catalog.

PURPOSE:
  A catalog maps Program -> Frequency label -> Payment-plan label -> PlanRecord.
  It is built once at startup (from a preset, a JSON document or the SQLite
  store) and then only read. Insertion order is preserved at every level
  because it drives the order options are offered in.

KEY CONCEPTS:
  - PlanRecord: price, cadence, duration, fixed count, per-occurrence labels
  - Cadence: months, weeks or none; its presence is what the calculator
    dispatches on
  - DisplayMode: per-program rendering hint (price marker only, or price plus
    occurrence detail)

USAGE:
  cat := catalog.Default()
  rec, err := cat.Resolve("CORE HEALTH", "Test Monthly", "12-month plan")
  if generic.IsNotFound(err) { ... }

SEE ALSO:
  - presets.go: Built-in catalogs
  - factory/catalog.go: JSON documents
  - schedule/calculator.go: Consumes PlanRecord
*/
package catalog

import (
	"strings"

	"github.com/samber/lo"
	"github.com/warp/schedule-engine/generic"
)

// =============================================================================
// PLAN RECORD
// =============================================================================

// CadenceUnit is the unit a plan recurs in.
type CadenceUnit string

const (
	CadenceNone   CadenceUnit = ""
	CadenceMonths CadenceUnit = "months"
	CadenceWeeks  CadenceUnit = "weeks"
)

// Cadence is the interval between consecutive occurrences.
// Every == 0 means a single occurrence with no recurrence.
type Cadence struct {
	Unit  CadenceUnit
	Every int
}

func EveryMonths(n int) Cadence { return Cadence{Unit: CadenceMonths, Every: n} }
func EveryWeeks(n int) Cadence  { return Cadence{Unit: CadenceWeeks, Every: n} }

// IsOnce reports whether the cadence produces exactly one occurrence.
func (c Cadence) IsOnce() bool { return c.Unit != CadenceNone && c.Every == 0 }

// PlanRecord is the unit of pricing configuration.
type PlanRecord struct {
	PricePerOccurrence generic.Money
	Cadence            Cadence

	// DurationMonths is zero for pay-as-you-go plans; the caller must then
	// supply an override.
	DurationMonths int

	// OccurrenceCount fixes the number of occurrences instead of deriving it
	// from duration and cadence. Zero means unset.
	OccurrenceCount int

	// OccurrenceLabels describe each occurrence by index.
	OccurrenceLabels []string
}

func (r PlanRecord) HasFixedDuration() bool { return r.DurationMonths > 0 }
func (r PlanRecord) HasFixedCount() bool    { return r.OccurrenceCount > 0 }

// Label returns the description of occurrence i, or "" past the end of the list.
func (r PlanRecord) Label(i int) string {
	if i < 0 || i >= len(r.OccurrenceLabels) {
		return ""
	}
	return r.OccurrenceLabels[i]
}

func (r PlanRecord) clone() PlanRecord {
	r.OccurrenceLabels = append([]string(nil), r.OccurrenceLabels...)
	return r
}

// validate checks the structural rules a catalog entry must follow.
func (r PlanRecord) validate() error {
	if !r.PricePerOccurrence.IsPositive() {
		return generic.InvalidCatalogf("price per occurrence must be positive, got %s", r.PricePerOccurrence.Value)
	}
	if r.Cadence.Every < 0 {
		return generic.InvalidCatalogf("cadence must not be negative, got %d", r.Cadence.Every)
	}
	if r.DurationMonths < 0 {
		return generic.InvalidCatalogf("duration must not be negative, got %d", r.DurationMonths)
	}
	if r.OccurrenceCount < 0 {
		return generic.InvalidCatalogf("occurrence count must not be negative, got %d", r.OccurrenceCount)
	}
	return nil
}

// =============================================================================
// CATALOG TREE
// =============================================================================

// DisplayMode tells a renderer what to draw on each occurrence marker.
type DisplayMode string

const (
	DisplayPriceOnly      DisplayMode = "price_only"
	DisplayPriceAndDetail DisplayMode = "price_and_detail"
)

// PaymentPlan is a labelled plan record.
type PaymentPlan struct {
	Label  string
	Record PlanRecord
}

// PayAsYouGo reports whether the plan solicits an override duration.
func (p PaymentPlan) PayAsYouGo() bool { return IsPayAsYouGo(p.Label) }

// Frequency groups payment plans under a cadence label such as "Test Monthly".
type Frequency struct {
	Label string
	plans []PaymentPlan
}

// Plans returns the payment plans in insertion order.
func (f Frequency) Plans() []PaymentPlan {
	return lo.Map(f.plans, func(p PaymentPlan, _ int) PaymentPlan {
		return PaymentPlan{Label: p.Label, Record: p.Record.clone()}
	})
}

func (f Frequency) plan(label string) (PaymentPlan, bool) {
	return lo.Find(f.plans, func(p PaymentPlan) bool { return p.Label == label })
}

// Program is the top level of the catalog.
type Program struct {
	Name        string
	Display     DisplayMode
	frequencies []Frequency
}

// Frequencies returns the frequency groups in insertion order.
func (p Program) Frequencies() []Frequency {
	return append([]Frequency(nil), p.frequencies...)
}

func (p Program) frequency(label string) (Frequency, bool) {
	return lo.Find(p.frequencies, func(f Frequency) bool { return f.Label == label })
}

// Catalog is immutable after Build; all accessors return copies.
type Catalog struct {
	programs []Program
}

// Programs returns the programs in insertion order.
func (c *Catalog) Programs() []Program {
	return append([]Program(nil), c.programs...)
}

// ProgramNames returns program names in insertion order.
func (c *Catalog) ProgramNames() []string {
	return lo.Map(c.programs, func(p Program, _ int) string { return p.Name })
}

// Program looks up a program by name.
func (c *Catalog) Program(name string) (Program, error) {
	p, ok := lo.Find(c.programs, func(p Program) bool { return p.Name == name })
	if !ok {
		return Program{}, &generic.NotFoundError{Level: generic.LevelProgram, Key: name}
	}
	return p, nil
}

// Resolve walks the three catalog levels and returns the plan record.
func (c *Catalog) Resolve(program, frequency, paymentPlan string) (PlanRecord, error) {
	p, err := c.Program(program)
	if err != nil {
		return PlanRecord{}, err
	}
	f, ok := p.frequency(frequency)
	if !ok {
		return PlanRecord{}, &generic.NotFoundError{Level: generic.LevelFrequency, Key: frequency}
	}
	plan, ok := f.plan(paymentPlan)
	if !ok {
		return PlanRecord{}, &generic.NotFoundError{Level: generic.LevelPaymentPlan, Key: paymentPlan}
	}
	return plan.Record.clone(), nil
}

// Len returns the number of plan records in the catalog.
func (c *Catalog) Len() int {
	n := 0
	for _, p := range c.programs {
		for _, f := range p.frequencies {
			n += len(f.plans)
		}
	}
	return n
}

// Walk visits every plan in insertion order.
func (c *Catalog) Walk(fn func(program Program, frequency Frequency, plan PaymentPlan)) {
	for _, p := range c.programs {
		for _, f := range p.frequencies {
			for _, plan := range f.plans {
				fn(p, f, PaymentPlan{Label: plan.Label, Record: plan.Record.clone()})
			}
		}
	}
}

// IsPayAsYouGo reports whether a payment-plan label denotes an unfixed
// duration variant.
func IsPayAsYouGo(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), "pay as you go")
}
