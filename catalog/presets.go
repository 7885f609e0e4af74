/*
presets.go - Built-in plan catalogs

PURPOSE:
  Ready-to-use catalogs for the panel-testing programs. The server seeds its
  store from one of these on first start, and the CLI uses them directly.

AVAILABLE CATALOGS:
  Default: Current pricing. Ultimate Program plans carry rotating panel
           descriptions and are displayed with price + detail markers.
  Legacy:  Earlier pricing sheet. Same plans, Ultimate Program without
           panel descriptions.

PLAN SHAPES:
  Month-based recurring:  "Test Monthly", "Test Quarterly", "Every 6 months"
  One-time:               "Just once" (period 0, 1-month display window)
  Week-based bundle:      "Every 6 weeks" with a fixed number of panels

SEE ALSO:
  - catalog.go: Catalog and PlanRecord types
  - factory/catalog.go: JSON equivalent of these tables
*/
package catalog

import "github.com/warp/schedule-engine/generic"

const (
	ProgramCoreHealth     = "CORE HEALTH"
	ProgramHeartMetabolic = "Heart & Metabolic Program"
	ProgramUltimate       = "Ultimate Program"

	PlanPayAsYouGo = "Pay as you go"
	PlanOneTime    = "One-time"
)

// UltimatePanels is the rotating panel sequence of the Ultimate Program.
var UltimatePanels = []string{
	"Thyroid + Core Health",
	"Hormones",
	"Metabolic + Core Health",
	"Minerals",
}

func price(v int64) generic.Money { return generic.NewMoney(v) }

func monthly(p int64, every, duration int) PlanRecord {
	return PlanRecord{PricePerOccurrence: price(p), Cadence: EveryMonths(every), DurationMonths: duration}
}

// Default returns the current catalog.
func Default() *Catalog {
	b := NewBuilder()
	addMonthPrograms(b)

	b.Program(ProgramUltimate, DisplayPriceAndDetail).Frequency("Every 6 weeks").
		Plan("6-month plan", PlanRecord{
			PricePerOccurrence: price(99),
			Cadence:            EveryWeeks(6),
			DurationMonths:     6,
			OccurrenceCount:    4,
			OccurrenceLabels:   rotate(UltimatePanels, 4),
		}).
		Plan("12-month plan", PlanRecord{
			PricePerOccurrence: price(85),
			Cadence:            EveryWeeks(6),
			DurationMonths:     12,
			OccurrenceCount:    8,
			OccurrenceLabels:   rotate(UltimatePanels, 8),
		})

	return b.MustBuild()
}

// Legacy returns the earlier pricing sheet without panel descriptions.
func Legacy() *Catalog {
	b := NewBuilder()
	addMonthPrograms(b)

	b.Program(ProgramUltimate, DisplayPriceOnly).Frequency("Every 6 weeks").
		Plan("6-month plan", PlanRecord{PricePerOccurrence: price(99), Cadence: EveryWeeks(6), DurationMonths: 6, OccurrenceCount: 4}).
		Plan("12-month plan", PlanRecord{PricePerOccurrence: price(85), Cadence: EveryWeeks(6), DurationMonths: 12, OccurrenceCount: 8})

	return b.MustBuild()
}

// Preset returns a built-in catalog by name ("default" or "legacy").
func Preset(name string) (*Catalog, bool) {
	switch name {
	case "", "default":
		return Default(), true
	case "legacy":
		return Legacy(), true
	default:
		return nil, false
	}
}

func addMonthPrograms(b *Builder) {
	core := b.Program(ProgramCoreHealth, DisplayPriceOnly)
	core.Frequency("Test Monthly").
		Plan(PlanPayAsYouGo, monthly(225, 1, 0)).
		Plan("6-month plan", monthly(115, 1, 6)).
		Plan("12-month plan", monthly(99, 1, 12))
	core.Frequency("Test Quarterly").
		Plan(PlanPayAsYouGo, monthly(225, 3, 0)).
		Plan("6-month plan", monthly(165, 3, 6)).
		Plan("12-month plan", monthly(135, 3, 12))
	core.Frequency("Every 6 months").
		Plan(PlanPayAsYouGo, monthly(225, 6, 0)).
		Plan("12-month plan", monthly(185, 6, 12)).
		Plan("24-month plan", monthly(149, 6, 24))
	core.Frequency("Just once").
		Plan(PlanOneTime, monthly(295, 0, 1))

	heart := b.Program(ProgramHeartMetabolic, DisplayPriceOnly)
	heart.Frequency("Test Quarterly").
		Plan(PlanPayAsYouGo, monthly(297, 3, 0)).
		Plan("6-month plan", monthly(225, 3, 6)).
		Plan("12-month plan", monthly(195, 3, 12))
	heart.Frequency("Every 6 months").
		Plan(PlanPayAsYouGo, monthly(297, 6, 0)).
		Plan("12-month plan", monthly(245, 6, 12)).
		Plan("24-month plan", monthly(220, 6, 24))
	heart.Frequency("Just once").
		Plan(PlanOneTime, monthly(345, 0, 1))
}

// rotate repeats labels cyclically to length n.
func rotate(labels []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = labels[i%len(labels)]
	}
	return out
}
