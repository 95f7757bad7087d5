package attendance

import "time"

// Status classifies a daily attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
)

// lateThreshold is the clock-in cutoff after which a record counts as late.
var lateThreshold = struct{ hour, minute int }{9, 15}

// Record is one employee-day attendance entry.
type Record struct {
	ID           int64
	UserID       int64
	EmployeeName string
	Day          time.Time
	ClockInAt    time.Time
	ClockOutAt   time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// statusForClockIn derives the record status from the clock-in moment.
func statusForClockIn(at time.Time) Status {
	cutoff := time.Date(at.Year(), at.Month(), at.Day(), lateThreshold.hour, lateThreshold.minute, 0, 0, at.Location())
	if at.After(cutoff) {
		return StatusLate
	}
	return StatusPresent
}
