package cmd

import (
	"fmt"
	"strconv"

	"github.com/finkpi/finkpi/internal/config"
	"github.com/finkpi/finkpi/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	rangeStr := strconv.Itoa(cfg.Dashboard.RangeMonths)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Input CSV").
				Description("Path to the raw financials CSV").
				Value(&cfg.General.InputCSV),
			huh.NewInput().
				Title("Output directory").
				Description("Where stage CSVs are written").
				Value(&cfg.General.OutputDir),
			huh.NewInput().
				Title("Database path").
				Description("SQLite file for the load and cache steps").
				Value(&cfg.General.Database),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dashboard date range").
				Options(
					huh.NewOption("All data", "0"),
					huh.NewOption("Last 12 months", "12"),
					huh.NewOption("Last 6 months", "6"),
					huh.NewOption("Last 3 months", "3"),
				).
				Value(&rangeStr),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&cfg.Appearance.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if months, err := strconv.Atoi(rangeStr); err == nil {
		cfg.Dashboard.RangeMonths = months
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `finkpi setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
