package schedule

import (
	"github.com/warp/schedule-engine/generic"
)

// =============================================================================
// START POLICY - Where the first occurrence of a recurring plan falls
// =============================================================================

// StartPolicy decides whether a recurring plan's first occurrence is on the
// start date or one period after it.
type StartPolicy string

const (
	// StartAtAnchor places occurrences at start + i*period for i = 0..n-1.
	StartAtAnchor StartPolicy = "at_anchor"

	// StartAfterPeriod places occurrences at start + i*period for i = 1..n.
	StartAfterPeriod StartPolicy = "after_period"
)

// firstIndex returns the first multiplier applied to the period.
func (p StartPolicy) firstIndex() int {
	if p == StartAfterPeriod {
		return 1
	}
	return 0
}

// =============================================================================
// OFFSET STRATEGY - How a date maps onto the month axis
// =============================================================================

// AverageDaysPerMonth is 365.25 / 12.
const AverageDaysPerMonth = 30.4375

// AverageWeeksPerMonth is 365.25 / 12 / 7, used to estimate how many
// week-periodic occurrences fit in a duration given in months.
const AverageWeeksPerMonth = 365.25 / 12 / 7

// OffsetStrategy converts a date into a month offset from the start date.
type OffsetStrategy string

const (
	// OffsetCalendarMonths counts calendar-month boundaries crossed. Exact for
	// month-periodic schedules whose dates share the start's day of month.
	OffsetCalendarMonths OffsetStrategy = "calendar_months"

	// OffsetAverageDays divides elapsed days by AverageDaysPerMonth. Week
	// periods do not align with months, so the result is fractional.
	OffsetAverageDays OffsetStrategy = "average_days"
)

// Offset returns the position of date on the month axis anchored at start.
func (s OffsetStrategy) Offset(start, date generic.TimePoint) float64 {
	if s == OffsetAverageDays {
		return float64(generic.DaysBetween(start, date)) / AverageDaysPerMonth
	}
	return float64(generic.MonthsBetween(start, date))
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options pins the per-shape policies of a Calculator.
type Options struct {
	MonthStart   StartPolicy
	WeekStart    StartPolicy
	MonthOffsets OffsetStrategy
	WeekOffsets  OffsetStrategy

	// RejectUnscheduled turns a record with no cadence into an
	// InvalidConfigurationError instead of an empty schedule.
	RejectUnscheduled bool
}

// DefaultOptions: month plans bill on the start date, week bundles ship one
// period after it; month offsets are exact, week offsets are averaged.
func DefaultOptions() Options {
	return Options{
		MonthStart:   StartAtAnchor,
		WeekStart:    StartAfterPeriod,
		MonthOffsets: OffsetCalendarMonths,
		WeekOffsets:  OffsetAverageDays,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MonthStart == "" {
		o.MonthStart = d.MonthStart
	}
	if o.WeekStart == "" {
		o.WeekStart = d.WeekStart
	}
	if o.MonthOffsets == "" {
		o.MonthOffsets = d.MonthOffsets
	}
	if o.WeekOffsets == "" {
		o.WeekOffsets = d.WeekOffsets
	}
	return o
}
