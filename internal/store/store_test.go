package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/finkpi/finkpi/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecords() []model.Record {
	return []model.Record{
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
			Department:    "Sales",
			Revenue:       0,
			OperatingCost: 100,
			PayrollCost:   50,
			Profit:        -150,
			// nil derived columns
		},
	}
}

func TestReplaceAndLoadFinancials(t *testing.T) {
	s := newTestStore(t)

	if err := s.ReplaceFinancials(testRecords(), "/data/in.csv", 123, 456); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadFinancials()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if first.Department != "Sales" || first.Revenue != 1000 || first.Profit != 500 {
		t.Errorf("first record = %+v", first)
	}
	if !first.Date.Equal(model.NewDate(2024, time.January, 1)) {
		t.Errorf("Date = %s, want 2024-01-01", first.Date.Format(model.DateLayout))
	}
	if first.GrossMargin == nil || *first.GrossMargin != 0.5 {
		t.Errorf("GrossMargin = %v, want 0.5", first.GrossMargin)
	}

	second := got[1]
	if second.GrossMargin != nil {
		t.Errorf("nil GrossMargin came back as %v", *second.GrossMargin)
	}
	if second.RevenueMoMChange != nil {
		t.Errorf("nil RevenueMoMChange came back as %v", *second.RevenueMoMChange)
	}
	if second.Profit != -150 {
		t.Errorf("Profit = %v, want -150", second.Profit)
	}
}

func TestReplaceFinancials_FullReplace(t *testing.T) {
	s := newTestStore(t)

	if err := s.ReplaceFinancials(testRecords(), "/data/in.csv", 1, 1); err != nil {
		t.Fatal(err)
	}

	// A second load with fewer rows must leave nothing behind.
	if err := s.ReplaceFinancials(testRecords()[:1], "/data/in.csv", 2, 2); err != nil {
		t.Fatal(err)
	}

	count, err := s.FinancialRowCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestSourceTracker(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.Source("/data/in.csv"); err != nil || ok {
		t.Fatalf("Source before load: ok=%v err=%v, want false/nil", ok, err)
	}

	if err := s.ReplaceFinancials(testRecords(), "/data/in.csv", 123, 456); err != nil {
		t.Fatal(err)
	}

	info, ok, err := s.Source("/data/in.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Source after load: not tracked")
	}
	if info.MtimeNs != 123 || info.SizeBytes != 456 {
		t.Errorf("SourceInfo = %+v, want {123 456}", info)
	}

	// A replace from a different path supersedes the old tracker entry.
	if err := s.ReplaceFinancials(testRecords(), "/data/other.csv", 7, 8); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Source("/data/in.csv"); ok {
		t.Error("old source path still tracked after replace")
	}
	if _, ok, _ := s.Source("/data/other.csv"); !ok {
		t.Error("new source path not tracked after replace")
	}
}

func TestReplaceAndLoadSummaries(t *testing.T) {
	s := newTestStore(t)

	summaries := []model.DepartmentSummary{
		{Department: "Sales", TotalRevenue: 2500, TotalProfit: 1400, AvgMargin: model.Float(0.55)},
		{Department: "Ops", TotalRevenue: 500, TotalProfit: 300},
	}
	if err := s.ReplaceSummaries(summaries); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSummaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	// LoadSummaries orders by department.
	if got[0].Department != "Ops" || got[1].Department != "Sales" {
		t.Errorf("order = [%s, %s], want [Ops, Sales]", got[0].Department, got[1].Department)
	}
	if got[0].AvgMargin != nil {
		t.Errorf("nil AvgMargin came back as %v", *got[0].AvgMargin)
	}
	if got[1].AvgMargin == nil || *got[1].AvgMargin != 0.55 {
		t.Errorf("AvgMargin = %v, want 0.55", got[1].AvgMargin)
	}

	if err := s.ReplaceSummaries(summaries[:1]); err != nil {
		t.Fatal(err)
	}
	got, err = s.LoadSummaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("len after replace = %d, want 1", len(got))
	}
}
