package pipeline

import "github.com/finkpi/finkpi/internal/model"

// AllDepartments is the sentinel department filter that matches everything.
const AllDepartments = "All"

// FilterByDepartment returns records whose department matches exactly.
// An empty filter or the AllDepartments sentinel matches everything.
func FilterByDepartment(records []model.Record, dept string) []model.Record {
	if dept == "" || dept == AllDepartments {
		return records
	}
	var out []model.Record
	for _, r := range records {
		if r.Department == dept {
			out = append(out, r)
		}
	}
	return out
}

// FilterByDateRange returns records whose date falls within [from, to],
// inclusive on both ends. A zero bound leaves that end open.
func FilterByDateRange(records []model.Record, from, to model.Date) []model.Record {
	if from.IsZero() && to.IsZero() {
		return records
	}
	var out []model.Record
	for _, r := range records {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}
