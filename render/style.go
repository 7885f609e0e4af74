package render

import "github.com/charmbracelet/lipgloss"

var (
	ColorMarker = lipgloss.Color("#fabd2f")
	ColorYear   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorMoney  = lipgloss.Color("#8ec07c")
)

var (
	StyleMarker = lipgloss.NewStyle().Foreground(ColorMarker)
	StyleYear   = lipgloss.NewStyle().Foreground(ColorYear).Bold(true)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleMoney  = lipgloss.NewStyle().Foreground(ColorMoney).Bold(true)
)
