package components

import (
	"fmt"
	"strings"

	"github.com/finkpi/finkpi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode block sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
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

	style := lipgloss.NewStyle().Foreground(color)

	var buf strings.Builder
	buf.Grow(len(values) * 3) // block runes are 3 bytes in UTF-8
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarRow is one labeled entry in a horizontal bar chart.
type BarRow struct {
	Label string
	Value float64
	Text  string // formatted value shown after the bar
}

// HorizontalBars renders labeled horizontal bars scaled to the largest
// value. Negative values render as a red bar scaled by magnitude.
func HorizontalBars(rows []BarRow, color lipgloss.Color, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	textW := 0
	var peak float64
	for _, r := range rows {
		if len(r.Label) > labelW {
			labelW = len(r.Label)
		}
		if len(r.Text) > textW {
			textW = len(r.Text)
		}
		mag := r.Value
		if mag < 0 {
			mag = -mag
		}
		if mag > peak {
			peak = mag
		}
	}
	if peak == 0 {
		peak = 1
	}

	barW := width - labelW - textW - 4
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	barStyle := lipgloss.NewStyle().Foreground(color)
	negStyle := lipgloss.NewStyle().Foreground(t.Red)

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}

		mag := r.Value
		style := barStyle
		if mag < 0 {
			mag = -mag
			style = negStyle
		}
		n := int(mag / peak * float64(barW))
		if n < 1 && mag > 0 {
			n = 1
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, r.Label)))
		b.WriteString("  ")
		b.WriteString(style.Render(strings.Repeat("█", n)))
		b.WriteString(strings.Repeat(" ", barW-n))
		b.WriteString("  ")
		b.WriteString(textStyle.Render(fmt.Sprintf("%*s", textW, r.Text)))
	}

	return b.String()
}
