package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var oct10 = generic.NewTimePoint(2024, time.October, 10)

func date(y int, m time.Month, d int) generic.TimePoint { return generic.NewTimePoint(y, m, d) }

func months(price int64, every, duration int) catalog.PlanRecord {
	return catalog.PlanRecord{
		PricePerOccurrence: generic.NewMoney(price),
		Cadence:            catalog.EveryMonths(every),
		DurationMonths:     duration,
	}
}

func weeks(price int64, every, duration, count int, labels ...string) catalog.PlanRecord {
	return catalog.PlanRecord{
		PricePerOccurrence: generic.NewMoney(price),
		Cadence:            catalog.EveryWeeks(every),
		DurationMonths:     duration,
		OccurrenceCount:    count,
		OccurrenceLabels:   labels,
	}
}

func compute(t *testing.T, rec catalog.PlanRecord, start generic.TimePoint, override int) *schedule.Result {
	t.Helper()
	res, err := schedule.NewCalculator(schedule.DefaultOptions()).Compute(rec, start, override)
	require.NoError(t, err)
	return res
}

func isoDates(res *schedule.Result) []string {
	out := make([]string, 0, res.Count())
	for _, d := range res.Dates() {
		out = append(out, schedule.ISODate(d))
	}
	return out
}

// =============================================================================
// MONTH-PERIODIC PLANS
// =============================================================================

func TestCompute_MonthlyTwelveMonthPlan(t *testing.T) {
	// GIVEN: $99 monthly for 12 months starting 2024-10-10
	// WHEN: Computing with the default (start-inclusive) policy
	// THEN: 12 occurrences from 2024-10-10 to 2025-09-10, total $1188

	res := compute(t, months(99, 1, 12), oct10, 0)

	require.Equal(t, 12, res.Count())
	assert.Equal(t, "2024-10-10", schedule.ISODate(res.Dates()[0]))
	assert.Equal(t, "2025-09-10", schedule.ISODate(res.Dates()[11]))
	assert.True(t, res.TotalCost().Equal(generic.NewMoney(1188)), "total was %s", res.TotalCost())
	assert.Equal(t, 12, res.EffectiveDurationMonths)
	assert.Len(t, res.MonthLabels(), 13)
	assert.Equal(t, "OCT", res.MonthLabels()[0])
	assert.Equal(t, "OCT", res.MonthLabels()[12])
}

func TestCompute_MonthStartPolicies(t *testing.T) {
	// GIVEN: The same quarterly plan under both start policies
	// WHEN: Computing 12 months
	// THEN: Both yield floor(12/3) = 4 occurrences, shifted by one period

	rec := months(135, 3, 12)

	tests := []struct {
		name   string
		policy schedule.StartPolicy
		want   []string
	}{
		{"at anchor", schedule.StartAtAnchor, []string{"2024-10-10", "2025-01-10", "2025-04-10", "2025-07-10"}},
		{"after period", schedule.StartAfterPeriod, []string{"2025-01-10", "2025-04-10", "2025-07-10", "2025-10-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := schedule.NewCalculator(schedule.Options{MonthStart: tt.policy})
			res, err := calc.Compute(rec, oct10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, isoDates(res))
		})
	}
}

func TestCompute_MonthCountIsDurationOverPeriod(t *testing.T) {
	for _, policy := range []schedule.StartPolicy{schedule.StartAtAnchor, schedule.StartAfterPeriod} {
		calc := schedule.NewCalculator(schedule.Options{MonthStart: policy})
		for p := 1; p <= 6; p++ {
			for d := 1; d <= 24; d++ {
				res, err := calc.Compute(months(10, p, d), oct10, 0)
				require.NoError(t, err)
				assert.Equal(t, d/p, res.Count(), "policy=%s p=%d d=%d", policy, p, d)
			}
		}
	}
}

func TestCompute_OverrideDuration(t *testing.T) {
	// GIVEN: A pay-as-you-go quarterly plan without a duration
	// WHEN: Overriding the duration with 18 months
	// THEN: 6 occurrences and 19 month labels

	rec := months(225, 3, 0)

	res := compute(t, rec, oct10, 18)

	assert.Equal(t, 6, res.Count())
	assert.Len(t, res.MonthLabels(), 19)
	assert.Equal(t, 18, res.EffectiveDurationMonths)
}

func TestCompute_OverrideWinsOverFixedDuration(t *testing.T) {
	res := compute(t, months(99, 1, 12), oct10, 3)

	assert.Equal(t, 3, res.Count())
	assert.Equal(t, 3, res.EffectiveDurationMonths)
}

func TestCompute_OneTime(t *testing.T) {
	// GIVEN: A one-time panel (period 0) with a 1-month display window
	// THEN: Exactly one occurrence on the start date, 2 month labels

	res := compute(t, months(295, 0, 1), oct10, 0)

	assert.Equal(t, []string{"2024-10-10"}, isoDates(res))
	assert.Len(t, res.MonthLabels(), 2)
	assert.True(t, res.TotalCost().Equal(generic.NewMoney(295)))
}

func TestCompute_EndOfMonthClamping(t *testing.T) {
	// GIVEN: A monthly plan starting on Jan 31 of a leap year
	// THEN: Dates clamp to month end without drifting

	res := compute(t, months(10, 1, 4), date(2024, time.January, 31), 0)

	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, isoDates(res))
}

func TestCompute_MonthOffsetsAreCalendarMonths(t *testing.T) {
	res := compute(t, months(10, 3, 12), oct10, 0)

	var offsets []float64
	for _, o := range res.Occurrences {
		offsets = append(offsets, o.Offset)
	}
	assert.Equal(t, []float64{0, 3, 6, 9}, offsets)
}

// =============================================================================
// WEEK-PERIODIC PLANS
// =============================================================================

func TestCompute_WeekBundleWithLabels(t *testing.T) {
	// GIVEN: Every 6 weeks, 6 months, 4 panels labelled A-D
	// WHEN: Computing from 2024-10-10
	// THEN: Occurrences at +6, +12, +18, +24 weeks, details zipped by index

	rec := weeks(99, 6, 6, 4, "A", "B", "C", "D")

	res := compute(t, rec, oct10, 0)

	require.Equal(t, 4, res.Count())
	for i, o := range res.Occurrences {
		assert.Equal(t, oct10.AddWeeks(6*(i+1)), o.Date)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, res.Details())
	assert.Equal(t, "2025-03-27", schedule.ISODate(res.Dates()[3]))
}

func TestCompute_WeekOffsetsUseAverageMonth(t *testing.T) {
	res := compute(t, weeks(99, 6, 6, 4), oct10, 0)

	require.NotEmpty(t, res.Occurrences)
	assert.InDelta(t, 42/schedule.AverageDaysPerMonth, res.Occurrences[0].Offset, 1e-9)
	assert.InDelta(t, 168/schedule.AverageDaysPerMonth, res.Occurrences[3].Offset, 1e-9)
}

func TestCompute_WeekLabelsShorterThanOccurrences(t *testing.T) {
	res := compute(t, weeks(99, 6, 12, 4, "only"), oct10, 0)

	assert.Equal(t, []string{"only", "", "", ""}, res.Details())
}

func TestCompute_WeekCountEstimatedFromDuration(t *testing.T) {
	// GIVEN: Every 2 weeks for 3 months, no fixed count
	// THEN: floor(3 * 365.25/12/7 / 2) = 6 occurrences

	res := compute(t, weeks(50, 2, 3, 0), oct10, 0)

	assert.Equal(t, 6, res.Count())
	assert.Equal(t, 6, schedule.OccurrenceCount(weeks(50, 2, 3, 0), 3))
}

func TestCompute_WeekDatesBeyondWindowDropped(t *testing.T) {
	// GIVEN: A fixed count of 10 that overruns a 6-month window
	// THEN: Only dates up to start + 6 months survive

	res := compute(t, weeks(99, 6, 6, 10), oct10, 0)

	assert.Equal(t, 4, res.Count())
}

func TestCompute_WeekStartPolicies(t *testing.T) {
	rec := weeks(99, 6, 6, 4)

	atAnchor, err := schedule.NewCalculator(schedule.Options{WeekStart: schedule.StartAtAnchor}).Compute(rec, oct10, 0)
	require.NoError(t, err)
	assert.Equal(t, oct10, atAnchor.Dates()[0])

	afterPeriod := compute(t, rec, oct10, 0)
	assert.Equal(t, oct10.AddWeeks(6), afterPeriod.Dates()[0])
}

func TestCompute_ZeroWeekPeriod(t *testing.T) {
	res := compute(t, weeks(99, 0, 6, 0), oct10, 0)

	assert.Equal(t, []string{"2024-10-10"}, isoDates(res))
}

// =============================================================================
// DEGENERATE AND INVALID PLANS
// =============================================================================

func TestCompute_NoCadenceIsEmpty(t *testing.T) {
	rec := catalog.PlanRecord{PricePerOccurrence: generic.NewMoney(10), DurationMonths: 6}

	res := compute(t, rec, oct10, 0)

	assert.Empty(t, res.Occurrences)
	assert.Len(t, res.MonthLabels(), 7)
	assert.True(t, res.TotalCost().IsZero())
}

func TestCompute_NoCadenceRejectedWhenConfigured(t *testing.T) {
	rec := catalog.PlanRecord{PricePerOccurrence: generic.NewMoney(10), DurationMonths: 6}

	_, err := schedule.NewCalculator(schedule.Options{RejectUnscheduled: true}).Compute(rec, oct10, 0)

	assert.True(t, generic.IsInvalidConfiguration(err))
}

func TestCompute_MissingDuration(t *testing.T) {
	// GIVEN: A pay-as-you-go plan
	// WHEN: No override is supplied
	// THEN: InvalidConfigurationError, never a silent default

	_, err := schedule.NewCalculator(schedule.DefaultOptions()).Compute(months(225, 1, 0), oct10, 0)

	require.Error(t, err)
	var cfgErr *generic.InvalidConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)
}

func TestCompute_NegativeOverride(t *testing.T) {
	_, err := schedule.NewCalculator(schedule.DefaultOptions()).Compute(months(99, 1, 12), oct10, -1)

	assert.True(t, generic.IsInvalidConfiguration(err))
}

// =============================================================================
// PROPERTIES OVER THE WHOLE CATALOG
// =============================================================================

func TestCompute_EveryCatalogPlan(t *testing.T) {
	calc := schedule.NewCalculator(schedule.DefaultOptions())
	starts := []generic.TimePoint{oct10, date(2024, time.January, 31), date(2023, time.December, 31)}

	catalog.Default().Walk(func(p catalog.Program, f catalog.Frequency, plan catalog.PaymentPlan) {
		overrides := []int{0}
		if plan.PayAsYouGo() {
			overrides = []int{1, 5, 12, 24}
		}
		for _, start := range starts {
			for _, override := range overrides {
				res, err := calc.Compute(plan.Record, start, override)
				require.NoError(t, err, "%s / %s / %s", p.Name, f.Label, plan.Label)

				d := res.EffectiveDurationMonths
				end := start.AddMonths(d)
				for _, o := range res.Occurrences {
					assert.True(t, o.Date.BeforeOrEqual(end), "%s after window end %s", o.Date, end)
					assert.True(t, res.Timeline.Covers(o.Offset))
				}
				assert.Len(t, res.MonthLabels(), d+1)

				var want []int
				for m := 1; m <= d; m++ {
					if start.AddMonths(m).Month() == time.January {
						want = append(want, m)
					}
				}
				var got []int
				for _, b := range res.YearBoundaries() {
					got = append(got, b.Offset)
				}
				assert.Equal(t, want, got)
				assert.Len(t, res.Details(), res.Count())
			}
		}
	})
}

func TestCompute_IsDeterministic(t *testing.T) {
	rec := weeks(85, 6, 12, 8, catalog.UltimatePanels...)

	a := compute(t, rec, oct10, 0)
	b := compute(t, rec, oct10, 0)

	assert.Equal(t, a.Rows(), b.Rows())
	assert.Equal(t, a.MonthLabels(), b.MonthLabels())
}

func TestResult_RowsAndWindow(t *testing.T) {
	res := compute(t, weeks(99, 6, 6, 4, "A", "B"), oct10, 0)

	rows := res.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-11-21", rows[0].Date)
	assert.Equal(t, "A", rows[0].Detail)
	assert.Equal(t, "", rows[2].Detail)
	assert.True(t, rows[0].Cost.Equal(generic.NewMoney(99)))

	w := res.Window()
	assert.Equal(t, oct10, w.Start)
	assert.Equal(t, date(2025, time.April, 10), w.End)
}
