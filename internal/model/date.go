package model

import "time"

// DateLayout is the calendar date format used across all CSV files.
const DateLayout = "2006-01-02"

// Date is a calendar day. It is the ordering key for all month-over-month
// variance computations and marshals as YYYY-MM-DD in CSV.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// MarshalCSV implements the gocsv marshaller.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(DateLayout), nil
}

// UnmarshalCSV implements the gocsv unmarshaller.
func (d *Date) UnmarshalCSV(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// MonthKey returns the YYYY-MM bucket this date belongs to.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}
