package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/source"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw CSV and write the validated table",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(_ *cobra.Command, _ []string) error {
	rows, err := source.ReadRaw(flagInput)
	if err != nil {
		return err
	}

	records, stats := pipeline.Clean(rows)
	logCleanStats(stats)

	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	outPath := filepath.Join(flagOutDir, cleanFileName)
	if err := source.WriteClean(outPath, records); err != nil {
		return err
	}

	fmt.Printf("\n  Wrote %d rows to %s (%d dropped).\n", stats.Kept, outPath, stats.Dropped())
	return nil
}
