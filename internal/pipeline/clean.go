// Package pipeline implements the KPI derivation pipeline: cleaning raw
// rows, deriving margin and variance metrics, and folding records into
// summaries. Every stage is a pure function over in-memory slices; the
// orchestrator in pipeline.go composes them.
package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/source"
)

// CleanStats counts what cleaning kept and dropped. Dropped rows are never
// reported individually, only as these totals.
type CleanStats struct {
	Input         int
	Kept          int
	DroppedDate   int // unparseable or empty date
	DroppedDept   int // empty department
	DroppedAmount int // non-numeric or negative amount
}

// Dropped returns the total number of discarded rows.
func (s CleanStats) Dropped() int {
	return s.DroppedDate + s.DroppedDept + s.DroppedAmount
}

// Clean coerces raw rows into records, drops invalid ones, derives profit,
// and sorts by (department, date). The sort is stable: rows sharing a
// department and date keep their input order, which fixes the
// month-over-month tie-break downstream.
func Clean(rows []*source.RawRow) ([]model.Record, CleanStats) {
	stats := CleanStats{Input: len(rows)}
	records := make([]model.Record, 0, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.Date) == "" {
			stats.DroppedDate++
			continue
		}
		date, err := model.ParseDate(strings.TrimSpace(row.Date))
		if err != nil {
			stats.DroppedDate++
			continue
		}

		dept := strings.TrimSpace(row.Department)
		if dept == "" {
			stats.DroppedDept++
			continue
		}

		revenue, ok := parseAmount(row.Revenue)
		if !ok {
			stats.DroppedAmount++
			continue
		}
		operating, ok := parseAmount(row.OperatingCost)
		if !ok {
			stats.DroppedAmount++
			continue
		}
		payroll, ok := parseAmount(row.PayrollCost)
		if !ok {
			stats.DroppedAmount++
			continue
		}

		records = append(records, model.Record{
			Date:          date,
			Department:    dept,
			Revenue:       revenue,
			OperatingCost: operating,
			PayrollCost:   payroll,
			Profit:        revenue - operating - payroll,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Department != records[j].Department {
			return records[i].Department < records[j].Department
		}
		return records[i].Date.Before(records[j].Date)
	})

	stats.Kept = len(records)
	return records, stats
}

// parseAmount coerces a currency cell. Non-numeric and negative values are
// rejected; the inputs are constrained non-negative even though derived
// profit may go negative.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
