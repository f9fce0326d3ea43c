package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette (Flexoki Dark).
var (
	ColorBorder    = lipgloss.Color("#403E3C")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#878580")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// Table is a bordered text table for CLI output. A row consisting of the
// single cell "---" renders as a separator line.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return box.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table. The first column is left-aligned,
// the rest right-aligned (they hold numbers).
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	writeRule("╭", "┬", "╮")

	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("│"))
		}
	}
	b.WriteString(dimStyle.Render("│"))
	b.WriteString("\n")
	writeRule("├", "┼", "┤")

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			writeRule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	writeRule("╰", "┴", "╯")

	return b.String()
}

// RenderSparkline generates a unicode block sparkline from a series.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a bar proportional to value/maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 1 {
		barLen = 1
	}
	if barLen > maxWidth {
		barLen = maxWidth
	}
	return strings.Repeat("█", barLen)
}
