package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/schedule"
)

// cellWidth is the width of one month column.
const cellWidth = 6

// View bundles what the terminal renderer needs besides the result.
type View struct {
	Title   string
	Display catalog.DisplayMode
	Result  *schedule.Result
}

// Timeline renders the month strip:
//
//	2024                   2025
//	OCT   NOV   DEC   │JAN   FEB
//	🧰    🧰    🧰    │🧰    🧰
//
// followed by a numbered occurrence list and the summary.
func Timeline(v View) string {
	res := v.Result
	labels := res.MonthLabels()
	boundaries := res.YearBoundaries()

	isBoundary := make(map[int]int, len(boundaries))
	for _, b := range boundaries {
		isBoundary[b.Offset] = b.Year
	}

	markers := make([]int, len(labels))
	for _, o := range res.Occurrences {
		col := column(o.Offset, len(labels))
		markers[col]++
	}

	var years, months, marks strings.Builder
	for i, label := range labels {
		sep := ""
		if _, ok := isBoundary[i]; ok {
			sep = "│"
		}

		yearText := ""
		if i == 0 {
			yearText = fmt.Sprint(res.Start.Year())
		} else if y, ok := isBoundary[i]; ok {
			yearText = fmt.Sprint(y)
		}

		years.WriteString(cell(sep, StyleYear.Render(yearText)))
		months.WriteString(cell(StyleDim.Render(sep), StyleFg.Render(label)))
		marks.WriteString(cell(StyleDim.Render(sep), StyleMarker.Render(markerCell(markers[i]))))
	}

	var b strings.Builder
	if v.Title != "" {
		b.WriteString(StyleHeader.Render(v.Title))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimRight(years.String(), " "))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(months.String(), " "))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(marks.String(), " "))
	b.WriteString("\n\n")

	for _, o := range res.Occurrences {
		line := fmt.Sprintf("%2d. %s", o.Index+1, schedule.HoverDate(o.Date))
		if v.Display == catalog.DisplayPriceAndDetail {
			line += "  " + StyleMoney.Render(res.PricePerOccurrence.Short())
			if o.Detail != "" {
				line += "  " + o.Detail
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if res.Count() == 0 {
		b.WriteString(StyleDim.Render("No occurrences scheduled."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleMoney.Render(Summary(v.Display, res)))
	b.WriteString("\n")
	return b.String()
}

// column maps an axis offset to the nearest month column.
func column(offset float64, n int) int {
	col := int(math.Round(offset))
	if col < 0 {
		return 0
	}
	if col >= n {
		return n - 1
	}
	return col
}

func markerCell(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return Marker
	default:
		return fmt.Sprintf("%s×%d", Marker, n)
	}
}

func cell(sep, content string) string {
	w := cellWidth - lipgloss.Width(sep)
	return sep + lipgloss.NewStyle().Width(w).Render(content)
}
