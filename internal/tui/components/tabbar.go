package components

import (
	"strings"

	"github.com/finkpi/finkpi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available dashboard tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Departments", Key: 'd'},
	{Name: "Variance", Key: 'v'},
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var parts []string
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		// Highlight the shortcut letter, always the first one here.
		parts = append(parts,
			dimStyle.Render("[")+keyStyle.Render(string(tab.Name[0]))+dimStyle.Render("]")+
				inactiveStyle.Render(tab.Name[1:]))
	}

	return " " + strings.Join(parts, "  ")
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
