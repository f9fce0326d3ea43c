package pipeline

import "github.com/finkpi/finkpi/internal/model"

// DeriveKPIs computes the ratio and month-over-month columns over cleaned
// records. The input must already be sorted by (department, date); Clean
// guarantees that. Existing derived values are overwritten, so re-deriving
// an already-enriched table reproduces it exactly.
func DeriveKPIs(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)

	for i := range out {
		r := &out[i]

		r.GrossMargin = ratio(r.Profit, r.Revenue)
		r.PayrollRatio = ratio(r.PayrollCost, r.Revenue)
		r.OperatingCostRatio = ratio(r.OperatingCost, r.Revenue)

		// First record of each department group has undefined variance.
		if i == 0 || out[i-1].Department != r.Department {
			r.RevenueMoMChange = nil
			r.ProfitMoMChange = nil
			continue
		}

		prev := out[i-1]
		r.RevenueMoMChange = pctChange(prev.Revenue, r.Revenue)
		r.ProfitMoMChange = pctChange(prev.Profit, r.Profit)
	}

	return out
}

// ratio divides num by revenue, returning nil when revenue is zero. Zero
// revenue is an undefined ratio, never a fault.
func ratio(num, revenue float64) *float64 {
	if revenue == 0 {
		return nil
	}
	return model.Float(num / revenue)
}

// pctChange is the fractional change from prev to cur. A zero previous value
// makes the change undefined; infinities would not round-trip through CSV.
func pctChange(prev, cur float64) *float64 {
	if prev == 0 {
		return nil
	}
	return model.Float(cur/prev - 1)
}
