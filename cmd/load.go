package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finkpi/finkpi/internal/cli"
	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/source"
	"github.com/finkpi/finkpi/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load the SQLite database (full replace)",
	Long:  "Loads financials and department summaries into SQLite. Prefers the enriched stage output in the output dir; falls back to processing the raw input CSV.",
	RunE:  runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(_ *cobra.Command, _ []string) error {
	records, summaries, sourcePath, err := loadInput()
	if err != nil {
		return err
	}

	if err := loadStore(records, summaries, sourcePath); err != nil {
		return err
	}

	// Read back what actually landed.
	db, err := store.Open(flagDB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	count, err := db.FinancialRowCount()
	if err != nil {
		return err
	}
	stored, err := db.LoadSummaries()
	if err != nil {
		return err
	}

	fmt.Println()
	rows := make([][]string, 0, len(stored))
	for _, s := range stored {
		rows = append(rows, []string{
			s.Department,
			cli.FormatCurrency(s.TotalRevenue),
			cli.FormatCurrency(s.TotalProfit),
			cli.FormatRatio(s.AvgMargin),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Loaded Summaries",
		Headers: []string{"Department", "Revenue", "Profit", "Avg Margin"},
		Rows:    rows,
	}))

	fmt.Printf("\n  Loaded %d rows from %s into %s.\n", count, sourcePath, flagDB)
	return nil
}

// loadInput prefers the enriched stage output over re-deriving from raw, so
// `run` followed by `load` does not repeat the pipeline.
func loadInput() ([]model.Record, []model.DepartmentSummary, string, error) {
	kpiPath := filepath.Join(flagOutDir, kpiFileName)
	if _, err := os.Stat(kpiPath); err == nil {
		records, err := source.ReadEnriched(kpiPath)
		if err != nil {
			return nil, nil, "", err
		}
		log.Info().Str("input", kpiPath).Int("rows", len(records)).Msg("loading enriched stage output")
		return records, pipeline.Summarize(records), kpiPath, nil
	}

	res, err := pipeline.Run(flagInput)
	if err != nil {
		return nil, nil, "", err
	}
	logCleanStats(res.Stats)
	return res.Records, res.Summaries, flagInput, nil
}
