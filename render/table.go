package render

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/schedule-engine/schedule"
)

// TableHeaders are the column names of the tabular export.
var TableHeaders = []string{"Date", "Cost", "Detail"}

// Table renders schedule rows as an aligned terminal table.
func Table(rows []schedule.Row) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Date, r.Cost.String(), r.Detail}
	}
	return RenderTable(TableHeaders, cells)
}

// RenderTable renders a simple aligned table with a header separator line.
// Columns are padded to the widest visible cell.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	var b strings.Builder

	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := 0; i < cols; i++ {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			pad := widths[i] - lipgloss.Width(c)
			if style != nil {
				c = style.Render(c)
			}
			b.WriteString(c)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, &StyleHeader)
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, nil)
	}

	return b.String()
}

// WriteCSV writes rows as CSV with a header line. Cost is a plain decimal.
func WriteCSV(w io.Writer, rows []schedule.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Date, r.Cost.Value.StringFixed(2), r.Detail}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
