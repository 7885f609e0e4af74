package schedule

import (
	"time"

	"github.com/warp/schedule-engine/generic"
)

// YearBoundary marks the month offset at which the calendar year increments.
type YearBoundary struct {
	Offset int // month offset of the January
	Year   int // the year that starts there
}

// SeparatorAt is the axis position of the separator, halfway between
// December and January.
func (b YearBoundary) SeparatorAt() float64 {
	return float64(b.Offset) - 0.5
}

// Timeline is the month axis of a schedule: one label per month offset from
// the start date, plus the year boundaries within it. It only grows.
type Timeline struct {
	start      generic.TimePoint
	labels     []string
	boundaries []YearBoundary
}

// NewTimeline covers month offsets 0..months inclusive.
func NewTimeline(start generic.TimePoint, months int) *Timeline {
	if months < 0 {
		months = 0
	}
	t := &Timeline{start: start, labels: make([]string, 0, months+1)}
	for i := 0; i <= months; i++ {
		t.labels = append(t.labels, MonthLabel(start.AddMonths(i)))
	}
	t.recomputeBoundaries()
	return t
}

// EnsureCovers extends the axis one month at a time until offset falls on
// it, i.e. until Len() > offset. It is idempotent and returns how many
// months were appended.
func (t *Timeline) EnsureCovers(offset float64) int {
	added := 0
	for float64(len(t.labels)) <= offset {
		t.labels = append(t.labels, MonthLabel(t.start.AddMonths(len(t.labels))))
		added++
	}
	if added > 0 {
		t.recomputeBoundaries()
	}
	return added
}

// Covers reports whether offset falls on the axis.
func (t *Timeline) Covers(offset float64) bool {
	return offset >= 0 && offset < float64(len(t.labels))
}

// Len is the number of month labels.
func (t *Timeline) Len() int { return len(t.labels) }

// Span is the last month offset on the axis.
func (t *Timeline) Span() int { return len(t.labels) - 1 }

func (t *Timeline) Start() generic.TimePoint { return t.start }

// Labels returns a copy of the month labels.
func (t *Timeline) Labels() []string {
	return append([]string(nil), t.labels...)
}

// YearBoundaries returns a copy of the year boundaries, ascending by offset.
func (t *Timeline) YearBoundaries() []YearBoundary {
	return append([]YearBoundary(nil), t.boundaries...)
}

func (t *Timeline) recomputeBoundaries() {
	t.boundaries = YearBoundaries(t.start, t.Span())
}

// YearBoundaries lists every offset m in [1, months] where start + m months
// is in January.
func YearBoundaries(start generic.TimePoint, months int) []YearBoundary {
	var out []YearBoundary
	for m := 1; m <= months; m++ {
		d := start.AddMonths(m)
		if d.Month() == time.January {
			out = append(out, YearBoundary{Offset: m, Year: d.Year()})
		}
	}
	return out
}
