// Package source reads and writes the CSV tables that flow between pipeline
// stages.
package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/finkpi/finkpi/internal/model"

	"github.com/gocarina/gocsv"
)

// RawRow is one uncoerced row of the raw financials table. Every field is a
// string so malformed values survive decoding and can be dropped during
// cleaning instead of failing the whole read.
type RawRow struct {
	Date          string `csv:"date"`
	Department    string `csv:"department"`
	Revenue       string `csv:"revenue"`
	OperatingCost string `csv:"operating_cost"`
	PayrollCost   string `csv:"payroll_cost"`
}

// rawColumns is the minimum header the raw table must carry. The enriched
// superset is accepted; extra columns are ignored.
var rawColumns = []string{"date", "department", "revenue", "operating_cost", "payroll_cost"}

// enrichedColumns is the full header of the KPI-enriched table.
var enrichedColumns = []string{
	"date", "department", "revenue", "operating_cost", "payroll_cost", "profit",
	"gross_margin", "payroll_ratio", "operating_cost_ratio",
	"revenue_mom_change", "profit_mom_change",
}

// ReadRaw reads the raw financials table. A missing file surfaces the
// underlying not-found error; a header missing any expected column is a
// schema-mismatch error. No cleaning happens here.
func ReadRaw(path string) ([]*RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := checkHeader(data, path, rawColumns); err != nil {
		return nil, err
	}

	rows := []*RawRow{}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rows, nil
}

// ReadEnriched reads a KPI-enriched table written by WriteRecords. Undefined
// ratio cells come back as nil pointers.
func ReadEnriched(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := checkHeader(data, path, enrichedColumns); err != nil {
		return nil, err
	}

	records := []model.Record{}
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

// checkHeader validates that the first CSV line contains every required
// column. Column names here are plain identifiers, so a comma split is
// sufficient; quoted headers never occur in this schema.
func checkHeader(data []byte, path string, required []string) error {
	header := string(data)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	header = strings.TrimPrefix(strings.TrimRight(header, "\r"), "\ufeff")

	present := make(map[string]struct{})
	for _, col := range strings.Split(header, ",") {
		present[strings.TrimSpace(col)] = struct{}{}
	}

	for _, col := range required {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("schema mismatch in %s: missing column %q", path, col)
		}
	}
	return nil
}
