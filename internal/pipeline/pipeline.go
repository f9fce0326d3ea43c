package pipeline

import (
	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/source"
)

// Result holds the output of a full pipeline pass: cleaned and enriched
// records sorted by (department, date), the department summaries, and the
// cleaning counters.
type Result struct {
	Records   []model.Record
	Summaries []model.DepartmentSummary
	Stats     CleanStats
}

// Run executes the full pipeline against a raw CSV: read, clean, derive
// KPIs, summarize. Each stage takes and returns the table value explicitly;
// nothing is handed off through the filesystem.
func Run(inputPath string) (*Result, error) {
	rows, err := source.ReadRaw(inputPath)
	if err != nil {
		return nil, err
	}

	records, stats := Clean(rows)
	records = DeriveKPIs(records)

	return &Result{
		Records:   records,
		Summaries: Summarize(records),
		Stats:     stats,
	}, nil
}
