package pipeline

import (
	"sort"

	"github.com/finkpi/finkpi/internal/model"
)

// Summarize folds enriched records into one summary row per department, in
// first-seen order. Undefined ratios are skipped by the averages.
func Summarize(records []model.Record) []model.DepartmentSummary {
	type acc struct {
		revenue    float64
		profit     float64
		marginSum  float64
		marginN    int
		payrollSum float64
		payrollN   int
	}

	byDept := make(map[string]*acc)
	var order []string

	for _, r := range records {
		a, ok := byDept[r.Department]
		if !ok {
			a = &acc{}
			byDept[r.Department] = a
			order = append(order, r.Department)
		}
		a.revenue += r.Revenue
		a.profit += r.Profit
		if r.GrossMargin != nil {
			a.marginSum += *r.GrossMargin
			a.marginN++
		}
		if r.PayrollRatio != nil {
			a.payrollSum += *r.PayrollRatio
			a.payrollN++
		}
	}

	summaries := make([]model.DepartmentSummary, 0, len(order))
	for _, dept := range order {
		a := byDept[dept]
		s := model.DepartmentSummary{
			Department:   dept,
			TotalRevenue: a.revenue,
			TotalProfit:  a.profit,
		}
		if a.marginN > 0 {
			s.AvgMargin = model.Float(a.marginSum / float64(a.marginN))
		}
		if a.payrollN > 0 {
			s.AvgPayrollRatio = model.Float(a.payrollSum / float64(a.payrollN))
		}
		summaries = append(summaries, s)
	}

	return summaries
}

// AggregateMonthly buckets records by calendar month, sums revenue and
// profit, and chains month-over-month changes across the sorted months.
func AggregateMonthly(records []model.Record) []model.MonthlyVariance {
	type sums struct {
		revenue float64
		profit  float64
	}

	byMonth := make(map[string]*sums)
	for _, r := range records {
		key := r.Date.MonthKey()
		s, ok := byMonth[key]
		if !ok {
			s = &sums{}
			byMonth[key] = s
		}
		s.revenue += r.Revenue
		s.profit += r.Profit
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]model.MonthlyVariance, 0, len(months))
	for i, m := range months {
		s := byMonth[m]
		mv := model.MonthlyVariance{Month: m, Revenue: s.revenue, Profit: s.profit}
		if i > 0 {
			prev := byMonth[months[i-1]]
			mv.RevenueMoMChange = pctChange(prev.revenue, s.revenue)
			mv.ProfitMoMChange = pctChange(prev.profit, s.profit)
		}
		out = append(out, mv)
	}

	return out
}

// AggregateTrend sums revenue and profit per date across all departments,
// ordered by date ascending. The dashboard's trend charts consume this.
func AggregateTrend(records []model.Record) []model.TrendPoint {
	byDate := make(map[string]*model.TrendPoint)
	for _, r := range records {
		key := r.Date.Format(model.DateLayout)
		p, ok := byDate[key]
		if !ok {
			p = &model.TrendPoint{Date: r.Date}
			byDate[key] = p
		}
		p.Revenue += r.Revenue
		p.Profit += r.Profit
	}

	points := make([]model.TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// Departments returns the distinct department values in first-seen order.
func Departments(records []model.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Department]; !ok {
			seen[r.Department] = struct{}{}
			out = append(out, r.Department)
		}
	}
	return out
}
