package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/source"
	"github.com/finkpi/finkpi/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: clean, derive KPIs, aggregate, write outputs",
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

const (
	cleanFileName   = "financials_clean.csv"
	kpiFileName     = "financials_kpi.csv"
	summaryFileName = "department_summary.csv"
)

func runPipeline(_ *cobra.Command, _ []string) error {
	res, err := pipeline.Run(flagInput)
	if err != nil {
		return err
	}
	logCleanStats(res.Stats)

	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	cleanPath := filepath.Join(flagOutDir, cleanFileName)
	kpiPath := filepath.Join(flagOutDir, kpiFileName)
	summaryPath := filepath.Join(flagOutDir, summaryFileName)

	if err := source.WriteClean(cleanPath, res.Records); err != nil {
		return err
	}
	if err := source.WriteRecords(kpiPath, res.Records); err != nil {
		return err
	}
	if err := source.WriteSummaries(summaryPath, res.Summaries); err != nil {
		return err
	}

	log.Info().
		Str("clean", cleanPath).
		Str("kpi", kpiPath).
		Str("summary", summaryPath).
		Msg("wrote stage outputs")

	if flagDB != "" {
		if err := loadStore(res.Records, res.Summaries, flagInput); err != nil {
			return err
		}
	}

	fmt.Printf("\n  Processed %d rows (%d dropped) across %d departments.\n",
		res.Stats.Kept, res.Stats.Dropped(), len(res.Summaries))

	return nil
}

// loadStore fully replaces the SQLite tables, tracking the stat of the file
// the records came from.
func loadStore(records []model.Record, summaries []model.DepartmentSummary, sourcePath string) error {
	db, err := store.Open(flagDB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	if err := db.ReplaceFinancials(records, sourcePath, info.ModTime().UnixNano(), info.Size()); err != nil {
		return err
	}
	if err := db.ReplaceSummaries(summaries); err != nil {
		return err
	}

	log.Info().Str("db", flagDB).Int("rows", len(records)).Msg("loaded database")
	return nil
}
