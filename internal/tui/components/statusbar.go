package components

import (
	"github.com/finkpi/finkpi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. filter describes the
// active department and date-range filters.
func RenderStatusBar(width int, filter string) string {
	t := theme.Active

	style := lipgloss.NewStyle().Foreground(t.TextMuted).Width(width)

	left := " [f]ilter dept  [r]ange  [?]help  [q]uit"
	right := ""
	if filter != "" {
		right = filter + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
