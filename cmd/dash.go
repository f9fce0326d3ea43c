package cmd

import (
	"fmt"

	"github.com/finkpi/finkpi/internal/config"
	"github.com/finkpi/finkpi/internal/tui"
	"github.com/finkpi/finkpi/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Launch the interactive dashboard",
	RunE:  runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so styling always produces ANSI codes; lipgloss may
	// otherwise fall back to the Ascii profile.
	lipgloss.SetColorProfile(termenv.TrueColor)

	dept := flagDepartment
	if dept == "" {
		dept = cfg.Dashboard.Department
	}

	app := tui.NewApp(flagInput, flagDB, flagNoCache, dept, cfg.Dashboard.RangeMonths)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	return nil
}
