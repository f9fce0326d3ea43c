package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finkpi/finkpi/internal/cli"
	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/source"

	"github.com/spf13/cobra"
)

var flagSummaryCSV bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-department summary table",
	RunE:  runDeptSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&flagSummaryCSV, "csv", false, "Also write department_summary.csv to the output dir")
	rootCmd.AddCommand(summaryCmd)
}

func runDeptSummary(_ *cobra.Command, _ []string) error {
	records, err := loadRecords()
	if err != nil {
		return err
	}

	filtered, err := applyFilters(records)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		fmt.Println("\n  No rows match the current filters.")
		return nil
	}

	summaries := pipeline.Summarize(filtered)

	fmt.Println()
	fmt.Println(cli.RenderTitle("DEPARTMENT SUMMARY"))
	fmt.Println()

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Department,
			cli.FormatCurrency(s.TotalRevenue),
			cli.FormatCurrency(s.TotalProfit),
			cli.FormatRatio(s.AvgMargin),
			cli.FormatRatio(s.AvgPayrollRatio),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Department", "Revenue", "Profit", "Avg Margin", "Avg Payroll"},
		Rows:    rows,
	}))

	// Revenue comparison bars
	var maxRevenue float64
	deptWidth := 0
	for _, s := range summaries {
		if s.TotalRevenue > maxRevenue {
			maxRevenue = s.TotalRevenue
		}
		if len(s.Department) > deptWidth {
			deptWidth = len(s.Department)
		}
	}
	fmt.Println()
	for _, s := range summaries {
		fmt.Printf("  %-*s  %-20s  %s\n",
			deptWidth, s.Department,
			cli.RenderHorizontalBar(s.TotalRevenue, maxRevenue, 20),
			cli.FormatCurrency(s.TotalRevenue))
	}

	if flagSummaryCSV {
		if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		outPath := filepath.Join(flagOutDir, summaryFileName)
		if err := source.WriteSummaries(outPath, summaries); err != nil {
			return err
		}
		fmt.Printf("\n  Wrote %s\n", outPath)
	}

	return nil
}
