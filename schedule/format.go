package schedule

import (
	"strings"

	"github.com/warp/schedule-engine/generic"
)

// Layouts used when presenting occurrence dates.
const (
	HoverLayout = "January 02, 2006"
	MonthLayout = "Jan"
)

// HoverDate formats a date as "January 15, 2025".
func HoverDate(d generic.TimePoint) string { return d.Format(HoverLayout) }

// ISODate formats a date as "2025-01-15".
func ISODate(d generic.TimePoint) string { return d.Format(generic.DateLayout) }

// ParseISODate is the inverse of ISODate.
func ParseISODate(s string) (generic.TimePoint, error) { return generic.ParseDate(s) }

// MonthLabel is the upper-case short month name, e.g. "JAN".
func MonthLabel(d generic.TimePoint) string {
	return strings.ToUpper(d.Format(MonthLayout))
}
