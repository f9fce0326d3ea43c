package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/source"

	"github.com/spf13/cobra"
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Clean the raw CSV and write the KPI-enriched table",
	RunE:  runKPI,
}

func init() {
	rootCmd.AddCommand(kpiCmd)
}

func runKPI(_ *cobra.Command, _ []string) error {
	rows, err := source.ReadRaw(flagInput)
	if err != nil {
		return err
	}

	records, stats := pipeline.Clean(rows)
	logCleanStats(stats)
	records = pipeline.DeriveKPIs(records)

	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	outPath := filepath.Join(flagOutDir, kpiFileName)
	if err := source.WriteRecords(outPath, records); err != nil {
		return err
	}

	fmt.Printf("\n  Wrote %d enriched rows to %s.\n", len(records), outPath)
	return nil
}
