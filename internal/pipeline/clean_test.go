package pipeline

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/source"
)

func rawRow(date, dept, revenue, operating, payroll string) *source.RawRow {
	return &source.RawRow{
		Date:          date,
		Department:    dept,
		Revenue:       revenue,
		OperatingCost: operating,
		PayrollCost:   payroll,
	}
}

func TestClean_DropRules(t *testing.T) {
	rows := []*source.RawRow{
		rawRow("2024-01-01", "Sales", "1000", "200", "300"), // kept
		rawRow("not-a-date", "Sales", "1000", "200", "300"), // bad date
		rawRow("", "Sales", "1000", "200", "300"),           // empty date
		rawRow("2024-01-02", "", "1000", "200", "300"),      // empty dept
		rawRow("2024-01-03", "Sales", "oops", "200", "300"), // non-numeric
		rawRow("2024-01-04", "Sales", "-50", "200", "300"),  // negative
		rawRow("2024-01-05", "Sales", "1000", "", "300"),    // empty amount
		rawRow("2024-01-06", "Ops", "500", "100", "100"),    // kept
	}

	records, stats := Clean(rows)

	if stats.Input != 8 {
		t.Errorf("Input = %d, want 8", stats.Input)
	}
	if stats.Kept != 2 || len(records) != 2 {
		t.Fatalf("Kept = %d (len %d), want 2", stats.Kept, len(records))
	}
	if stats.DroppedDate != 2 {
		t.Errorf("DroppedDate = %d, want 2", stats.DroppedDate)
	}
	if stats.DroppedDept != 1 {
		t.Errorf("DroppedDept = %d, want 1", stats.DroppedDept)
	}
	if stats.DroppedAmount != 3 {
		t.Errorf("DroppedAmount = %d, want 3", stats.DroppedAmount)
	}
	if stats.Dropped() != 6 {
		t.Errorf("Dropped() = %d, want 6", stats.Dropped())
	}
}

func TestClean_Profit(t *testing.T) {
	records, _ := Clean([]*source.RawRow{
		rawRow("2024-01-01", "Sales", "1000", "200", "300"),
		rawRow("2024-01-02", "Sales", "100", "300", "50"),
	})
	if len(records) != 2 {
		t.Fatalf("kept %d records, want 2", len(records))
	}

	if records[0].Profit != 500 {
		t.Errorf("Profit = %v, want 500", records[0].Profit)
	}
	// Profit may go negative even though inputs are non-negative.
	if records[1].Profit != -250 {
		t.Errorf("Profit = %v, want -250", records[1].Profit)
	}
}

func TestClean_SortsByDepartmentThenDate(t *testing.T) {
	records, _ := Clean([]*source.RawRow{
		rawRow("2024-02-01", "Sales", "1", "0", "0"),
		rawRow("2024-01-01", "Ops", "2", "0", "0"),
		rawRow("2024-01-01", "Sales", "3", "0", "0"),
		rawRow("2024-02-01", "Ops", "4", "0", "0"),
	})

	want := []struct {
		dept string
		date model.Date
	}{
		{"Ops", model.NewDate(2024, time.January, 1)},
		{"Ops", model.NewDate(2024, time.February, 1)},
		{"Sales", model.NewDate(2024, time.January, 1)},
		{"Sales", model.NewDate(2024, time.February, 1)},
	}

	for i, w := range want {
		if records[i].Department != w.dept || !records[i].Date.Equal(w.date) {
			t.Errorf("records[%d] = (%s, %s), want (%s, %s)",
				i, records[i].Department, records[i].Date.Format(model.DateLayout),
				w.dept, w.date.Format(model.DateLayout))
		}
	}
}

func TestClean_StableTieBreak(t *testing.T) {
	// Two Sales rows on the same date must keep input order.
	records, _ := Clean([]*source.RawRow{
		rawRow("2024-01-01", "Sales", "100", "0", "0"),
		rawRow("2024-01-01", "Sales", "200", "0", "0"),
	})
	if len(records) != 2 {
		t.Fatalf("kept %d records, want 2", len(records))
	}

	if records[0].Revenue != 100 || records[1].Revenue != 200 {
		t.Errorf("tie order = [%v, %v], want [100, 200]", records[0].Revenue, records[1].Revenue)
	}
}

func TestClean_TrimsWhitespace(t *testing.T) {
	records, stats := Clean([]*source.RawRow{
		rawRow(" 2024-01-01 ", " Sales ", " 1000 ", "200", "300"),
	})
	if stats.Kept != 1 {
		t.Fatalf("Kept = %d, want 1", stats.Kept)
	}
	if records[0].Department != "Sales" {
		t.Errorf("Department = %q, want Sales", records[0].Department)
	}
	if records[0].Revenue != 1000 {
		t.Errorf("Revenue = %v, want 1000", records[0].Revenue)
	}
}

func FuzzParseAmount(f *testing.F) {
	f.Add("1000")
	f.Add("0")
	f.Add("-1")
	f.Add("1e10")
	f.Add("NaN")
	f.Add("+Inf")
	f.Add("")
	f.Add("  12.5  ")

	f.Fuzz(func(t *testing.T, s string) {
		v, ok := parseAmount(s)
		if !ok {
			if v != 0 {
				t.Errorf("parseAmount(%q) rejected with non-zero value %v", s, v)
			}
			return
		}
		if v < 0 {
			t.Errorf("parseAmount(%q) accepted negative %v", s, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("parseAmount(%q) accepted non-finite %v", s, v)
		}
		// Anything accepted must be re-parseable the same way.
		again, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', -1, 64), 64)
		if err != nil || again != v {
			t.Errorf("parseAmount(%q) = %v does not round-trip", s, v)
		}
	})
}
