// Package cmd wires up the finkpi command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/finkpi/finkpi/internal/cli"
	"github.com/finkpi/finkpi/internal/config"
	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagInput      string
	flagOutDir     string
	flagDB         string
	flagDepartment string
	flagFrom       string
	flagTo         string
	flagNoCache    bool
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "finkpi",
	Short: "Financial KPI pipeline and dashboard",
	Long:  "Clean department-level financial CSVs, derive margin and variance KPIs, and explore them in the terminal.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := zerolog.InfoLevel
		if flagQuiet {
			level = zerolog.WarnLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
	RunE: runOverview,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cfg, _ := config.Load()

	defaultDB := cfg.General.Database
	if defaultDB == "" {
		defaultDB = pipeline.CachePath()
	}

	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", cfg.General.InputCSV, "Input CSV file")
	rootCmd.PersistentFlags().StringVarP(&flagOutDir, "out-dir", "o", cfg.General.OutputDir, "Directory for stage CSV outputs")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", defaultDB, "SQLite database path")
	rootCmd.PersistentFlags().StringVarP(&flagDepartment, "department", "d", "", "Filter to a single department")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache, reparse the CSV")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
}

// loadRecords is the shared data loading path used by the reporting
// commands. Uses the SQLite cache unless --no-cache is set, falling back to
// a full parse when the cache cannot be opened.
func loadRecords() ([]model.Record, error) {
	if !flagNoCache {
		db, err := store.Open(flagDB)
		if err != nil {
			log.Warn().Err(err).Msg("cache unavailable, doing full parse")
		} else {
			defer func() { _ = db.Close() }()

			cr, err := pipeline.LoadWithCache(flagInput, db)
			if err == nil {
				if cr.FromCache {
					log.Info().Int("rows", len(cr.Records)).Msg("loaded from cache")
				} else {
					logCleanStats(cr.Stats)
				}
				return cr.Records, nil
			}
			if errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			log.Warn().Err(err).Msg("cache error, falling back to full parse")
		}
	}

	res, err := pipeline.Run(flagInput)
	if err != nil {
		return nil, err
	}
	logCleanStats(res.Stats)
	return res.Records, nil
}

func logCleanStats(stats pipeline.CleanStats) {
	ev := log.Info().
		Int("input", stats.Input).
		Int("kept", stats.Kept)
	if stats.Dropped() > 0 {
		ev = ev.
			Int("dropped_date", stats.DroppedDate).
			Int("dropped_dept", stats.DroppedDept).
			Int("dropped_amount", stats.DroppedAmount)
	}
	ev.Msg("cleaned dataset")
}

// applyFilters narrows records to the department and date range flags.
func applyFilters(records []model.Record) ([]model.Record, error) {
	filtered := pipeline.FilterByDepartment(records, flagDepartment)

	var from, to model.Date
	var err error
	if flagFrom != "" {
		from, err = model.ParseDate(flagFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date %q: %w", flagFrom, err)
		}
	}
	if flagTo != "" {
		to, err = model.ParseDate(flagTo)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date %q: %w", flagTo, err)
		}
	}
	if flagFrom != "" || flagTo != "" {
		filtered = pipeline.FilterByDateRange(filtered, from, to)
	}

	return filtered, nil
}

// runOverview renders the executive summary. This is the root command.
func runOverview(_ *cobra.Command, _ []string) error {
	records, err := loadRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\n  No valid rows in the dataset.")
		return nil
	}

	filtered, err := applyFilters(records)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		fmt.Println("\n  No rows match the current filters.")
		return nil
	}

	var totalRevenue, totalProfit, marginSum float64
	var marginN int
	for _, r := range filtered {
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

	summaries := pipeline.Summarize(filtered)

	fmt.Println()
	fmt.Println(cli.RenderTitle("FINANCIAL OVERVIEW"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Records", cli.FormatNumber(int64(len(filtered)))},
			{"Departments", cli.FormatNumber(int64(len(summaries)))},
			{"---"},
			{"Total Revenue", cli.FormatCurrency(totalRevenue)},
			{"Total Profit", cli.FormatCurrency(totalProfit)},
			{"Avg Gross Margin", avgMargin},
		},
	}))

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Department,
			cli.FormatCurrency(s.TotalRevenue),
			cli.FormatCurrency(s.TotalProfit),
			cli.FormatRatio(s.AvgMargin),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Department",
		Headers: []string{"Department", "Revenue", "Profit", "Avg Margin"},
		Rows:    rows,
	}))

	return nil
}
