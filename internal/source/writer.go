package source

import (
	"fmt"
	"os"

	"github.com/finkpi/finkpi/internal/model"

	"github.com/gocarina/gocsv"
)

// cleanRow is the output schema of the cleaning stage: base columns plus
// profit, without the KPI columns that are derived later.
type cleanRow struct {
	Date          model.Date `csv:"date"`
	Department    string     `csv:"department"`
	Revenue       float64    `csv:"revenue"`
	OperatingCost float64    `csv:"operating_cost"`
	PayrollCost   float64    `csv:"payroll_cost"`
	Profit        float64    `csv:"profit"`
}

// WriteClean writes the cleaned table (base columns + profit).
func WriteClean(path string, records []model.Record) error {
	rows := make([]cleanRow, len(records))
	for i, r := range records {
		rows[i] = cleanRow{
			Date:          r.Date,
			Department:    r.Department,
			Revenue:       r.Revenue,
			OperatingCost: r.OperatingCost,
			PayrollCost:   r.PayrollCost,
			Profit:        r.Profit,
		}
	}
	return writeCSV(path, &rows)
}

// WriteRecords writes the full KPI-enriched table. Undefined ratios become
// empty cells, so writing and re-reading a table is lossless.
func WriteRecords(path string, records []model.Record) error {
	return writeCSV(path, &records)
}

// WriteSummaries writes the department summary table.
func WriteSummaries(path string, summaries []model.DepartmentSummary) error {
	return writeCSV(path, &summaries)
}

func writeCSV(path string, out interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := gocsv.MarshalFile(out, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
