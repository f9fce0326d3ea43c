package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finkpi/finkpi/internal/model"
)

func writeCSVFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "financials.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRaw_Basic(t *testing.T) {
	path := writeCSVFile(t, "date,department,revenue,operating_cost,payroll_cost\n"+
		"2024-01-01,Sales,1000,200,300\n"+
		"bad-date,Ops,abc,-1,\n")

	rows, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	// Malformed values must survive the read untouched; cleaning decides.
	if rows[1].Date != "bad-date" || rows[1].Revenue != "abc" || rows[1].PayrollCost != "" {
		t.Errorf("row 1 = %+v, malformed values were not preserved", *rows[1])
	}
}

func TestReadRaw_MissingFile(t *testing.T) {
	_, err := ReadRaw(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}
}

func TestReadRaw_SchemaMismatch(t *testing.T) {
	path := writeCSVFile(t, "date,department,revenue\n2024-01-01,Sales,1000\n")

	_, err := ReadRaw(path)
	if err == nil {
		t.Fatal("expected schema mismatch error")
	}
	if !strings.Contains(err.Error(), "operating_cost") {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestReadRaw_AcceptsEnrichedSuperset(t *testing.T) {
	path := writeCSVFile(t, "date,department,revenue,operating_cost,payroll_cost,profit,gross_margin,payroll_ratio,operating_cost_ratio,revenue_mom_change,profit_mom_change\n"+
		"2024-01-01,Sales,1000,200,300,500,0.5,0.3,0.2,,\n")

	rows, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Revenue != "1000" {
		t.Errorf("rows = %+v, want one row with revenue 1000", rows)
	}
}

func TestReadRaw_BOMAndCRLF(t *testing.T) {
	path := writeCSVFile(t, "\ufeffdate,department,revenue,operating_cost,payroll_cost\r\n"+
		"2024-01-01,Sales,1000,200,300\r\n")

	rows, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
}

func TestWriteRecords_RoundTrip(t *testing.T) {
	records := []model.Record{
		{
			Date:               model.NewDate(2024, time.January, 1),
			Department:         "Sales",
			Revenue:            1000,
			OperatingCost:      200,
			PayrollCost:        300,
			Profit:             500,
			GrossMargin:        model.Float(0.5),
			PayrollRatio:       model.Float(0.3),
			OperatingCostRatio: model.Float(0.2),
		},
		{
			Date:          model.NewDate(2024, time.February, 1),
			Department:    "Ops",
			Revenue:       0,
			OperatingCost: 100,
			PayrollCost:   50,
			Profit:        -150,
			// nil ratios: zero revenue
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "kpi.csv")
	if err := WriteRecords(path, records); err != nil {
		t.Fatal(err)
	}

	got, err := ReadEnriched(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if !got[0].Date.Equal(records[0].Date) || got[0].Profit != 500 {
		t.Errorf("record 0 = %+v, want %+v", got[0], records[0])
	}
	if got[0].GrossMargin == nil || *got[0].GrossMargin != 0.5 {
		t.Errorf("GrossMargin did not round-trip: %v", got[0].GrossMargin)
	}
	if got[1].GrossMargin != nil {
		t.Errorf("nil GrossMargin came back as %v", *got[1].GrossMargin)
	}

	// A second write of the re-read table must be byte-identical.
	path2 := filepath.Join(dir, "kpi2.csv")
	if err := WriteRecords(path2, got); err != nil {
		t.Fatal(err)
	}
	a, _ := os.ReadFile(path)
	b, _ := os.ReadFile(path2)
	if string(a) != string(b) {
		t.Error("write -> read -> write is not byte-identical")
	}
}

func TestWriteClean_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")
	records := []model.Record{
		{
			Date:          model.NewDate(2024, time.January, 1),
			Department:    "Sales",
			Revenue:       1000,
			OperatingCost: 200,
			PayrollCost:   300,
			Profit:        500,
		},
	}
	if err := WriteClean(path, records); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "date,department,revenue,operating_cost,payroll_cost,profit" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 2 {
		t.Errorf("line count = %d, want 2", len(lines))
	}
}

func TestWriteSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	summaries := []model.DepartmentSummary{
		{Department: "Sales", TotalRevenue: 2500, TotalProfit: 1400, AvgMargin: model.Float(0.55)},
		{Department: "Ops", TotalRevenue: 0, TotalProfit: -150}, // nil averages
	}
	if err := WriteSummaries(path, summaries); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "department,total_revenue,total_profit,avg_margin,avg_payroll_ratio" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Ops,0,-150,,") {
		t.Errorf("nil averages did not serialize as empty cells: %q", lines[2])
	}
}
