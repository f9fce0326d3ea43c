package cmd

import (
	"fmt"

	"github.com/finkpi/finkpi/internal/cli"
	"github.com/finkpi/finkpi/internal/pipeline"

	"github.com/spf13/cobra"
)

var momCmd = &cobra.Command{
	Use:   "mom",
	Short: "Month-over-month revenue and profit variance",
	RunE:  runMoM,
}

func init() {
	rootCmd.AddCommand(momCmd)
}

func runMoM(_ *cobra.Command, _ []string) error {
	records, err := loadRecords()
	if err != nil {
		return err
	}

	filtered, err := applyFilters(records)
	if err != nil {
		return err
	}

	monthly := pipeline.AggregateMonthly(filtered)
	if len(monthly) == 0 {
		fmt.Println("\n  No rows match the current filters.")
		return nil
	}

	title := "MONTHLY VARIANCE"
	if flagDepartment != "" {
		title += "  " + flagDepartment
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		rows = append(rows, []string{
			m.Month,
			cli.FormatCurrency(m.Revenue),
			cli.FormatChange(m.RevenueMoMChange),
			cli.FormatCurrency(m.Profit),
			cli.FormatChange(m.ProfitMoMChange),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Revenue", "Rev MoM", "Profit", "Profit MoM"},
		Rows:    rows,
	}))

	revenues := make([]float64, len(monthly))
	for i, m := range monthly {
		revenues[i] = m.Revenue
	}
	fmt.Printf("\n  Revenue trend  %s  %s .. %s\n",
		cli.RenderSparkline(revenues), monthly[0].Month, monthly[len(monthly)-1].Month)

	return nil
}
