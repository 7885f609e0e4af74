/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the catalog and schedule types from the external API contract, so field
  names can change internally without breaking the frontend.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Query: Validated request parameters

TYPES:
  Catalog:
    ProgramDTO, FrequencyDTO, PlanDTO

  Schedule:
    ScheduleQuery, ScheduleDTO, OccurrenceDTO, YearBoundaryDTO, RowDTO

  Errors:
    ErrorResponse

VALIDATION:
  ScheduleQuery carries validator/v10 struct tags; handlers call
  validate.Struct before touching the catalog.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/catalog.go: CatalogJSON, returned as-is by GET /api/catalog
*/
package api

import (
	"github.com/samber/lo"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/render"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// ProgramDTO is one program with its selectable options, in catalog order.
type ProgramDTO struct {
	Name        string         `json:"name"`
	Display     string         `json:"display"`
	Frequencies []FrequencyDTO `json:"frequencies"`
}

// FrequencyDTO is one frequency group.
type FrequencyDTO struct {
	Label string    `json:"label"`
	Plans []PlanDTO `json:"plans"`
}

// PlanDTO describes a payment plan.
type PlanDTO struct {
	Label            string        `json:"label"`
	PricePerPanel    generic.Money `json:"price_per_panel"`
	CadenceUnit      string        `json:"cadence_unit,omitempty"` // months, weeks
	CadenceEvery     int           `json:"cadence_every"`
	DurationMonths   int           `json:"duration_months,omitempty"`
	OccurrenceCount  int           `json:"occurrence_count,omitempty"`
	OccurrenceLabels []string      `json:"occurrence_labels,omitempty"`
	PayAsYouGo       bool          `json:"pay_as_you_go"`
}

// =============================================================================
// SCHEDULE TYPES
// =============================================================================

// ScheduleQuery is the parsed query string of the schedule endpoints.
type ScheduleQuery struct {
	Program   string `validate:"required"`
	Frequency string `validate:"required"`
	Plan      string `validate:"required"`
	Duration  int    `validate:"omitempty,min=1,max=24"`
	Start     string `validate:"omitempty,datetime=2006-01-02"`
	Format    string `validate:"omitempty,oneof=json csv"`
}

// ScheduleDTO is everything a client needs to draw the timeline.
type ScheduleDTO struct {
	Title                   string            `json:"title"`
	Program                 string            `json:"program"`
	Frequency               string            `json:"frequency"`
	Plan                    string            `json:"plan"`
	Display                 string            `json:"display"`
	Start                   string            `json:"start"`
	End                     string            `json:"end"`
	EffectiveDurationMonths int               `json:"effective_duration_months"`
	PricePerPanel           generic.Money     `json:"price_per_panel"`
	TotalCost               generic.Money     `json:"total_cost"`
	OccurrenceCount         int               `json:"occurrence_count"`
	MonthLabels             []string          `json:"month_labels"`
	YearBoundaries          []YearBoundaryDTO `json:"year_boundaries"`
	Occurrences             []OccurrenceDTO   `json:"occurrences"`
	Summary                 string            `json:"summary"`
	PriceLine               string            `json:"price_line"`
}

// OccurrenceDTO is one marker on the timeline.
type OccurrenceDTO struct {
	Index      int     `json:"index"`
	Date       string  `json:"date"`
	HoverDate  string  `json:"hover_date"`
	Offset     float64 `json:"offset"`
	Detail     string  `json:"detail,omitempty"`
	MarkerText string  `json:"marker_text"`
}

// YearBoundaryDTO places a year separator on the month axis.
type YearBoundaryDTO struct {
	Offset      int     `json:"offset"`
	SeparatorAt float64 `json:"separator_at"`
	Year        int     `json:"year"`
}

// RowDTO is one line of the tabular view.
type RowDTO struct {
	Date   string        `json:"date"`
	Cost   generic.Money `json:"cost"`
	Detail string        `json:"detail"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toProgramDTOs(cat *catalog.Catalog) []ProgramDTO {
	return lo.Map(cat.Programs(), func(p catalog.Program, _ int) ProgramDTO {
		return ProgramDTO{
			Name:    p.Name,
			Display: string(p.Display),
			Frequencies: lo.Map(p.Frequencies(), func(f catalog.Frequency, _ int) FrequencyDTO {
				return FrequencyDTO{
					Label: f.Label,
					Plans: lo.Map(f.Plans(), func(pp catalog.PaymentPlan, _ int) PlanDTO {
						return toPlanDTO(pp)
					}),
				}
			}),
		}
	})
}

func toPlanDTO(pp catalog.PaymentPlan) PlanDTO {
	rec := pp.Record
	return PlanDTO{
		Label:            pp.Label,
		PricePerPanel:    rec.PricePerOccurrence,
		CadenceUnit:      string(rec.Cadence.Unit),
		CadenceEvery:     rec.Cadence.Every,
		DurationMonths:   rec.DurationMonths,
		OccurrenceCount:  rec.OccurrenceCount,
		OccurrenceLabels: rec.OccurrenceLabels,
		PayAsYouGo:       pp.PayAsYouGo(),
	}
}

func toScheduleDTO(q ScheduleQuery, display catalog.DisplayMode, res *schedule.Result) ScheduleDTO {
	return ScheduleDTO{
		Title:                   render.Title(q.Program, q.Frequency, q.Plan),
		Program:                 q.Program,
		Frequency:               q.Frequency,
		Plan:                    q.Plan,
		Display:                 string(display),
		Start:                   schedule.ISODate(res.Start),
		End:                     schedule.ISODate(res.Window().End),
		EffectiveDurationMonths: res.EffectiveDurationMonths,
		PricePerPanel:           res.PricePerOccurrence,
		TotalCost:               res.TotalCost(),
		OccurrenceCount:         res.Count(),
		MonthLabels:             res.MonthLabels(),
		YearBoundaries: lo.Map(res.YearBoundaries(), func(b schedule.YearBoundary, _ int) YearBoundaryDTO {
			return YearBoundaryDTO{Offset: b.Offset, SeparatorAt: b.SeparatorAt(), Year: b.Year}
		}),
		Occurrences: lo.Map(res.Occurrences, func(o schedule.Occurrence, _ int) OccurrenceDTO {
			return OccurrenceDTO{
				Index:      o.Index,
				Date:       schedule.ISODate(o.Date),
				HoverDate:  schedule.HoverDate(o.Date),
				Offset:     o.Offset,
				Detail:     o.Detail,
				MarkerText: render.MarkerText(display, res.PricePerOccurrence, o.Detail),
			}
		}),
		Summary:   render.Summary(display, res),
		PriceLine: render.PriceLine(res.PricePerOccurrence),
	}
}

func toRowDTOs(rows []schedule.Row) []RowDTO {
	return lo.Map(rows, func(r schedule.Row, _ int) RowDTO {
		return RowDTO{Date: r.Date, Cost: r.Cost, Detail: r.Detail}
	})
}
