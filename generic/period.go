package generic

// =============================================================================
// PERIOD - The span a schedule covers
// =============================================================================

// Period is a closed calendar-date range [Start, End].
//
// Examples:
//   - 12-month plan starting 2024-10-10: [2024-10-10, 2025-10-10]
//   - One-time panel with a 1-month window: [2024-10-10, 2024-11-10]
type Period struct {
	Start TimePoint
	End   TimePoint
}

// MonthSpan returns the period starting at start and ending months calendar
// months later (end-of-month clamped).
func MonthSpan(start TimePoint, months int) Period {
	return Period{Start: start, End: start.AddMonths(months)}
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
