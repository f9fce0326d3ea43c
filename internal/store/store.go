// Package store persists the enriched financials and department summaries
// in SQLite. Loads are full-replace: each load wipes the table inside the
// same transaction that refills it, so a reader never sees rows from two
// different loads.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finkpi/finkpi/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the SQLite database holding financials and summaries.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SourceInfo holds the tracked stat of the CSV a load came from.
type SourceInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Source returns the tracked source info for a file path, if any.
func (s *Store) Source(path string) (SourceInfo, bool, error) {
	var info SourceInfo
	err := s.db.QueryRow(
		"SELECT mtime_ns, size_bytes FROM source_tracker WHERE file_path = ?", path,
	).Scan(&info.MtimeNs, &info.SizeBytes)
	if err == sql.ErrNoRows {
		return SourceInfo{}, false, nil
	}
	if err != nil {
		return SourceInfo{}, false, err
	}
	return info, true, nil
}

// ReplaceFinancials replaces the financials table with the given records and
// records which source file (and stat) they came from. Record order is
// preserved through row_idx.
func (s *Store) ReplaceFinancials(records []model.Record, sourcePath string, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM financials"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO financials
		(row_idx, date, department, revenue, operating_cost, payroll_cost, profit,
		 gross_margin, payroll_ratio, operating_cost_ratio,
		 revenue_mom_change, profit_mom_change)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		dateStr, _ := r.Date.MarshalCSV()
		_, err := stmt.Exec(
			i, dateStr, r.Department, r.Revenue, r.OperatingCost, r.PayrollCost, r.Profit,
			toNull(r.GrossMargin), toNull(r.PayrollRatio), toNull(r.OperatingCostRatio),
			toNull(r.RevenueMoMChange), toNull(r.ProfitMoMChange),
		)
		if err != nil {
			return err
		}
	}

	// One tracked source per database; the replace covers the tracker too.
	if _, err := tx.Exec("DELETE FROM source_tracker"); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		"INSERT INTO source_tracker (file_path, mtime_ns, size_bytes, loaded_at) VALUES (?, ?, ?, ?)",
		sourcePath, mtimeNs, sizeBytes, now,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceSummaries replaces the department_summary table.
func (s *Store) ReplaceSummaries(summaries []model.DepartmentSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM department_summary"); err != nil {
		return err
	}

	for _, sum := range summaries {
		_, err := tx.Exec(`INSERT INTO department_summary
			(department, total_revenue, total_profit, avg_margin, avg_payroll_ratio)
			VALUES (?, ?, ?, ?, ?)`,
			sum.Department, sum.TotalRevenue, sum.TotalProfit,
			toNull(sum.AvgMargin), toNull(sum.AvgPayrollRatio),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadFinancials reads back all records in stored order.
func (s *Store) LoadFinancials() ([]model.Record, error) {
	rows, err := s.db.Query(`SELECT
		date, department, revenue, operating_cost, payroll_cost, profit,
		gross_margin, payroll_ratio, operating_cost_ratio,
		revenue_mom_change, profit_mom_change
		FROM financials ORDER BY row_idx`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		var dateStr string
		var margin, payroll, operating, revChange, profChange sql.NullFloat64

		err := rows.Scan(
			&dateStr, &r.Department, &r.Revenue, &r.OperatingCost, &r.PayrollCost, &r.Profit,
			&margin, &payroll, &operating, &revChange, &profChange,
		)
		if err != nil {
			return nil, err
		}

		if err := r.Date.UnmarshalCSV(dateStr); err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		r.GrossMargin = fromNull(margin)
		r.PayrollRatio = fromNull(payroll)
		r.OperatingCostRatio = fromNull(operating)
		r.RevenueMoMChange = fromNull(revChange)
		r.ProfitMoMChange = fromNull(profChange)

		records = append(records, r)
	}
	return records, rows.Err()
}

// LoadSummaries reads back all department summaries.
func (s *Store) LoadSummaries() ([]model.DepartmentSummary, error) {
	rows, err := s.db.Query(`SELECT
		department, total_revenue, total_profit, avg_margin, avg_payroll_ratio
		FROM department_summary ORDER BY department`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var summaries []model.DepartmentSummary
	for rows.Next() {
		var sum model.DepartmentSummary
		var margin, payroll sql.NullFloat64
		if err := rows.Scan(&sum.Department, &sum.TotalRevenue, &sum.TotalProfit, &margin, &payroll); err != nil {
			return nil, err
		}
		sum.AvgMargin = fromNull(margin)
		sum.AvgPayrollRatio = fromNull(payroll)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// FinancialRowCount returns the number of stored financial rows.
func (s *Store) FinancialRowCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM financials").Scan(&count)
	return count, err
}

func toNull(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func fromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
