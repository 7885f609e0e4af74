package schedule

import (
	"github.com/warp/schedule-engine/generic"
)

// Occurrence is one scheduled test/billing event.
type Occurrence struct {
	Index  int
	Date   generic.TimePoint
	Offset float64 // position on the month axis
	Detail string  // "" when the plan has no label for this index
}

// Result is the output of one Compute call. It is owned by the caller and
// not shared.
type Result struct {
	Start                   generic.TimePoint
	Occurrences             []Occurrence
	PricePerOccurrence      generic.Money
	EffectiveDurationMonths int
	Timeline                *Timeline
}

// Dates returns the occurrence dates in chronological order.
func (r *Result) Dates() []generic.TimePoint {
	out := make([]generic.TimePoint, len(r.Occurrences))
	for i, o := range r.Occurrences {
		out[i] = o.Date
	}
	return out
}

// Details returns the per-occurrence descriptions, parallel to Dates.
func (r *Result) Details() []string {
	out := make([]string, len(r.Occurrences))
	for i, o := range r.Occurrences {
		out[i] = o.Detail
	}
	return out
}

func (r *Result) MonthLabels() []string { return r.Timeline.Labels() }

func (r *Result) YearBoundaries() []YearBoundary { return r.Timeline.YearBoundaries() }

func (r *Result) Count() int { return len(r.Occurrences) }

// TotalCost is price per occurrence times the number of occurrences.
func (r *Result) TotalCost() generic.Money {
	return r.PricePerOccurrence.Times(len(r.Occurrences))
}

// Window is the date range every occurrence falls in.
func (r *Result) Window() generic.Period {
	return generic.MonthSpan(r.Start, r.EffectiveDurationMonths)
}

// Row is one line of the tabular export.
type Row struct {
	Date   string // YYYY-MM-DD
	Cost   generic.Money
	Detail string
}

// Rows returns the tabular export of the schedule.
func (r *Result) Rows() []Row {
	rows := make([]Row, len(r.Occurrences))
	for i, o := range r.Occurrences {
		rows[i] = Row{Date: ISODate(o.Date), Cost: r.PricePerOccurrence, Detail: o.Detail}
	}
	return rows
}
