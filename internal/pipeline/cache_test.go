package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/finkpi/finkpi/internal/store"
)

const cacheTestCSV = `date,department,revenue,operating_cost,payroll_cost
2024-01-01,Sales,1000,200,300
2024-02-01,Sales,1500,250,350
2024-01-01,Ops,500,100,100
`

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "financials.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWithCache_HitAndMiss(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, cacheTestCSV)

	db, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	first, err := LoadWithCache(input, db)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first load reported FromCache = true")
	}
	if len(first.Records) != 3 {
		t.Fatalf("first load: %d records, want 3", len(first.Records))
	}

	second, err := LoadWithCache(input, db)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("second load reported FromCache = false")
	}

	if len(second.Records) != len(first.Records) {
		t.Fatalf("cached load: %d records, want %d", len(second.Records), len(first.Records))
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.Department != b.Department || !a.Date.Equal(b.Date) || a.Revenue != b.Revenue || a.Profit != b.Profit {
			t.Errorf("record %d differs between parse and cache", i)
		}
		if !samePtr(a.GrossMargin, b.GrossMargin) || !samePtr(a.RevenueMoMChange, b.RevenueMoMChange) {
			t.Errorf("record %d derived columns differ between parse and cache", i)
		}
	}
}

func TestLoadWithCache_MtimeInvalidation(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, cacheTestCSV)

	db, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := LoadWithCache(input, db); err != nil {
		t.Fatal(err)
	}

	// Same size, newer mtime: the cache must be invalidated.
	later := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(input, later, later); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadWithCache(input, db)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.FromCache {
		t.Error("load after mtime change reported FromCache = true")
	}
}

func TestLoadWithCache_MissingInput(t *testing.T) {
	dir := t.TempDir()

	db, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := LoadWithCache(filepath.Join(dir, "nope.csv"), db); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, cacheTestCSV)

	res, err := Run(input)
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.Kept != 3 {
		t.Errorf("Kept = %d, want 3", res.Stats.Kept)
	}
	if len(res.Summaries) != 2 {
		t.Errorf("len(Summaries) = %d, want 2", len(res.Summaries))
	}

	// Sorted by department: Ops first, then the two Sales rows by date.
	if res.Records[0].Department != "Ops" {
		t.Errorf("records[0].Department = %s, want Ops", res.Records[0].Department)
	}
	wantFloat(t, "Sales Feb RevenueMoMChange", res.Records[2].RevenueMoMChange, 0.5)
}
