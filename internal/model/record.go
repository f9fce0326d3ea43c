// Package model defines domain types for finkpi financial records and summaries.
package model

// Record is one department-date observation with its derived KPI columns.
// The base columns (date through payroll_cost) come from the raw dataset;
// everything after profit is computed by the pipeline. Ratio and variance
// columns are pointers so an undefined value serializes as an empty CSV cell
// instead of a fake zero.
type Record struct {
	Date          Date    `csv:"date"`
	Department    string  `csv:"department"`
	Revenue       float64 `csv:"revenue"`
	OperatingCost float64 `csv:"operating_cost"`
	PayrollCost   float64 `csv:"payroll_cost"`
	Profit        float64 `csv:"profit"`

	GrossMargin        *float64 `csv:"gross_margin"`
	PayrollRatio       *float64 `csv:"payroll_ratio"`
	OperatingCostRatio *float64 `csv:"operating_cost_ratio"`
	RevenueMoMChange   *float64 `csv:"revenue_mom_change"`
	ProfitMoMChange    *float64 `csv:"profit_mom_change"`
}

// DepartmentSummary is the per-department fold over the enriched records.
// The averages skip records whose ratio is undefined; a department where
// every record has zero revenue ends up with nil averages.
type DepartmentSummary struct {
	Department      string   `csv:"department"`
	TotalRevenue    float64  `csv:"total_revenue"`
	TotalProfit     float64  `csv:"total_profit"`
	AvgMargin       *float64 `csv:"avg_margin"`
	AvgPayrollRatio *float64 `csv:"avg_payroll_ratio"`
}

// MonthlyVariance holds revenue and profit summed over one calendar month,
// with fractional month-over-month changes. The first month has nil changes.
type MonthlyVariance struct {
	Month            string // "2006-01"
	Revenue          float64
	Profit           float64
	RevenueMoMChange *float64
	ProfitMoMChange  *float64
}

// TrendPoint is revenue and profit summed over all departments for one date.
type TrendPoint struct {
	Date    Date
	Revenue float64
	Profit  float64
}

// Float returns a pointer to v. Convenience for building defined ratio values.
func Float(v float64) *float64 {
	return &v
}
