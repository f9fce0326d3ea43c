package tui

import (
	"fmt"
	"strings"

	"github.com/finkpi/finkpi/internal/cli"
	"github.com/finkpi/finkpi/internal/tui/components"
	"github.com/finkpi/finkpi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(width int) string {
	t := theme.Active

	var totalRevenue, totalProfit float64
	var marginSum float64
	var marginN int
	for _, r := range a.filtered {
		totalRevenue += r.Revenue
		totalProfit += r.Profit
		if r.GrossMargin != nil {
			marginSum += *r.GrossMargin
			marginN++
		}
	}

	avgMargin := "-"
	if marginN > 0 {
		m := marginSum / float64(marginN)
		avgMargin = cli.FormatRatio(&m)
	}

	cards := []struct{ Label, Value, Sub string }{
		{"Total Revenue", cli.FormatCurrency(totalRevenue), ""},
		{"Total Profit", cli.FormatCurrency(totalProfit), ""},
		{"Avg Margin", avgMargin, ""},
		{"Departments", fmt.Sprintf("%d", len(a.summaries)), fmt.Sprintf("%d rows", len(a.filtered))},
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(strings.ReplaceAll(components.MetricCardRow(cards, width), "\n", "\n "))
	b.WriteString("\n")

	if len(a.trend) > 0 {
		revenues := make([]float64, len(a.trend))
		profits := make([]float64, len(a.trend))
		for i, p := range a.trend {
			revenues[i] = p.Revenue
			profits[i] = p.Profit
		}
		first := a.trend[0].Date.Format("2006-01-02")
		last := a.trend[len(a.trend)-1].Date.Format("2006-01-02")

		dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		body := dimStyle.Render("Revenue ") + components.Sparkline(revenues, t.Blue) + "\n" +
			dimStyle.Render("Profit  ") + components.Sparkline(profits, t.Green) + "\n" +
			dimStyle.Render(first+" .. "+last)

		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(components.ContentCard("Daily Trend", body, width), "\n", "\n "))
		b.WriteString("\n")
	}

	return b.String()
}

func (a App) renderDepartmentsTab(width int) string {
	t := theme.Active

	if len(a.summaries) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("  No data for the current filter.")
	}

	revRows := make([]components.BarRow, len(a.summaries))
	profitRows := make([]components.BarRow, len(a.summaries))
	for i, s := range a.summaries {
		revRows[i] = components.BarRow{
			Label: s.Department,
			Value: s.TotalRevenue,
			Text:  cli.FormatCurrency(s.TotalRevenue),
		}
		profitRows[i] = components.BarRow{
			Label: s.Department,
			Value: s.TotalProfit,
			Text:  cli.FormatCurrency(s.TotalProfit),
		}
	}

	inner := components.CardInnerWidth(width)

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(strings.ReplaceAll(
		components.ContentCard("Revenue by Department",
			components.HorizontalBars(revRows, t.Blue, inner), width),
		"\n", "\n "))
	b.WriteString("\n ")
	b.WriteString(strings.ReplaceAll(
		components.ContentCard("Profit by Department",
			components.HorizontalBars(profitRows, t.Green, inner), width),
		"\n", "\n "))
	b.WriteString("\n")

	rows := make([][]string, len(a.summaries))
	for i, s := range a.summaries {
		rows[i] = []string{
			s.Department,
			cli.FormatCurrency(s.TotalRevenue),
			cli.FormatCurrency(s.TotalProfit),
			cli.FormatRatio(s.AvgMargin),
			cli.FormatRatio(s.AvgPayrollRatio),
		}
	}
	table := cli.RenderTable(cli.Table{
		Headers: []string{"Department", "Revenue", "Profit", "Avg Margin", "Avg Payroll"},
		Rows:    rows,
	})

	b.WriteString(" ")
	b.WriteString(strings.ReplaceAll(components.ContentCard("Summary", table, width), "\n", "\n "))
	b.WriteString("\n")

	return b.String()
}

func (a App) renderVarianceTab(width int) string {
	t := theme.Active

	if len(a.monthly) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("  No data for the current filter.")
	}

	rows := make([][]string, len(a.monthly))
	for i, m := range a.monthly {
		rows[i] = []string{
			m.Month,
			cli.FormatCurrency(m.Revenue),
			cli.FormatChange(m.RevenueMoMChange),
			cli.FormatCurrency(m.Profit),
			cli.FormatChange(m.ProfitMoMChange),
		}
	}
	table := cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Revenue", "Rev Δ", "Profit", "Profit Δ"},
		Rows:    rows,
	})

	revenues := make([]float64, len(a.monthly))
	for i, m := range a.monthly {
		revenues[i] = m.Revenue
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(strings.ReplaceAll(
		components.ContentCard("Monthly Revenue",
			components.Sparkline(revenues, t.Blue), width),
		"\n", "\n "))
	b.WriteString("\n ")
	b.WriteString(strings.ReplaceAll(
		components.ContentCard("Month-over-Month", table, width), "\n", "\n "))
	b.WriteString("\n")

	return b.String()
}
