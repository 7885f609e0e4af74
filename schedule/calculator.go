/*
Package schedule computes occurrence schedules from plan records.

PURPOSE:
  Given a catalog.PlanRecord, a start date and an optional duration override,
  produce the ordered occurrence dates, the month axis they sit on (labels and
  year boundaries) and the cost figures a renderer needs. Computation is pure:
  the same (record, start, override) triple always yields the same Result, and
  a Calculator is safe for concurrent use.

ALGORITHM:
  1. Effective duration = override if given, else the record's duration.
     Neither -> InvalidConfigurationError.
  2. Month cadence: n = duration / period occurrences at start + i*period
     months (end-of-month clamped), i per Options.MonthStart.
  3. Week cadence: fixed count, or duration * 365.25/12/7 / period, at
     start + i*period weeks, i per Options.WeekStart. Labels are zipped by
     index.
  4. Period 0 in either unit: one occurrence on the start date.
  5. No cadence: empty schedule (or an error with Options.RejectUnscheduled).
  Every candidate after start + duration months is dropped. Before an
  occurrence is placed the timeline is extended to cover its month offset.

EXAMPLE:
  calc := schedule.NewCalculator(schedule.DefaultOptions())
  res, err := calc.Compute(record, generic.NewTimePoint(2024, 10, 10), 0)
  res.TotalCost()     // $1188.00 for 12 x $99
  res.MonthLabels()   // OCT NOV ... OCT

SEE ALSO:
  - options.go: Start policies and offset strategies
  - timeline.go: Month axis and year boundaries
  - format.go: Date formats for hover text and export
*/
package schedule

import (
	"math"

	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
)

// Calculator turns plan records into schedules.
type Calculator struct {
	opts Options
}

// NewCalculator fills unset options with DefaultOptions.
func NewCalculator(opts Options) *Calculator {
	return &Calculator{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (c *Calculator) Options() Options { return c.opts }

// Compute builds the schedule. overrideMonths == 0 means "no override";
// a negative override is rejected.
func (c *Calculator) Compute(record catalog.PlanRecord, start generic.TimePoint, overrideMonths int) (*Result, error) {
	duration, err := EffectiveDuration(record, overrideMonths)
	if err != nil {
		return nil, err
	}
	if record.Cadence.Unit == catalog.CadenceNone && c.opts.RejectUnscheduled {
		return nil, generic.NewInvalidConfiguration("plan has neither a month nor a week period")
	}

	res := &Result{
		Start:                   start,
		PricePerOccurrence:      record.PricePerOccurrence,
		EffectiveDurationMonths: duration,
		Timeline:                NewTimeline(start, duration),
		Occurrences:             []Occurrence{},
	}

	end := start.AddMonths(duration)
	strategy := c.offsetStrategy(record.Cadence.Unit)
	for _, date := range c.candidates(record, start, duration) {
		if date.After(end) {
			continue
		}
		idx := len(res.Occurrences)
		offset := strategy.Offset(start, date)
		res.Timeline.EnsureCovers(offset)
		res.Occurrences = append(res.Occurrences, Occurrence{
			Index:  idx,
			Date:   date,
			Offset: offset,
			Detail: record.Label(idx),
		})
	}
	return res, nil
}

// EffectiveDuration resolves the duration a schedule spans.
func EffectiveDuration(record catalog.PlanRecord, overrideMonths int) (int, error) {
	if overrideMonths < 0 {
		return 0, generic.NewInvalidConfiguration("override duration must be positive, got %d", overrideMonths)
	}
	if overrideMonths > 0 {
		return overrideMonths, nil
	}
	if record.HasFixedDuration() {
		return record.DurationMonths, nil
	}
	return 0, generic.NewInvalidConfiguration("plan has no duration and no override was supplied")
}

// OccurrenceCount is how many candidates a record generates before the
// end-of-window filter.
func OccurrenceCount(record catalog.PlanRecord, durationMonths int) int {
	c := record.Cadence
	switch {
	case c.Unit == catalog.CadenceNone:
		return 0
	case c.Every == 0:
		return 1
	case c.Unit == catalog.CadenceMonths:
		return durationMonths / c.Every
	case record.HasFixedCount():
		return record.OccurrenceCount
	default:
		return int(math.Floor(float64(durationMonths) * AverageWeeksPerMonth / float64(c.Every)))
	}
}

func (c *Calculator) candidates(record catalog.PlanRecord, start generic.TimePoint, duration int) []generic.TimePoint {
	cad := record.Cadence
	n := OccurrenceCount(record, duration)
	if n <= 0 {
		return nil
	}
	if cad.IsOnce() {
		return []generic.TimePoint{start}
	}

	policy := c.opts.MonthStart
	step := func(i int) generic.TimePoint { return start.AddMonths(i * cad.Every) }
	if cad.Unit == catalog.CadenceWeeks {
		policy = c.opts.WeekStart
		step = func(i int) generic.TimePoint { return start.AddWeeks(i * cad.Every) }
	}

	first := policy.firstIndex()
	dates := make([]generic.TimePoint, 0, n)
	for i := first; i < first+n; i++ {
		dates = append(dates, step(i))
	}
	return dates
}

func (c *Calculator) offsetStrategy(unit catalog.CadenceUnit) OffsetStrategy {
	if unit == catalog.CadenceWeeks {
		return c.opts.WeekOffsets
	}
	return c.opts.MonthOffsets
}
