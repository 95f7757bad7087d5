package reports

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("reports: invalid period")

// Summary aggregates headline figures for one calendar month.
type Summary struct {
	Period         string
	Headcount      int
	AttendanceDays int
	LateDays       int
	PendingLeave   int
	ApprovedLeave  int
}

// AttendanceRow is one line of the attendance CSV export.
type AttendanceRow struct {
	EmployeeName string
	Day          time.Time
	ClockInAt    time.Time
	ClockOutAt   time.Time
	Status       string
}

// periodBounds returns the first day of the month and the first day of
// the next month for a "2006-01" period string.
func periodBounds(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	return start, start.AddDate(0, 1, 0), nil
}
