package domain

import "time"

// PeriodSpec names a reference day relative to the report anchor.
type PeriodSpec struct {
	Name       string `mapstructure:"name" json:"name"`
	OffsetDays int    `mapstructure:"offset_days" json:"offset_days"`
}

// Period is a PeriodSpec resolved to a calendar date.
type Period struct {
	Name       string
	OffsetDays int
	Date       time.Time
}

// Common reference periods.
var (
	PeriodCurrent = PeriodSpec{Name: "Current", OffsetDays: 0}
	PeriodD1      = PeriodSpec{Name: "D-1", OffsetDays: 1}
	PeriodD7      = PeriodSpec{Name: "D-7", OffsetDays: 7}
)

// Day truncates t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
