package leave

import "time"

// Type classifies a leave request.
type Type string

const (
	TypeAnnual Type = "annual"
	TypeSick   Type = "sick"
	TypeUnpaid Type = "unpaid"
)

// ValidType reports whether the raw value is a known leave type.
func ValidType(raw string) bool {
	switch Type(raw) {
	case TypeAnnual, TypeSick, TypeUnpaid:
		return true
	}
	return false
}

// Status tracks a request through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Request is a leave request record.
type Request struct {
	ID           int64
	UserID       int64
	EmployeeName string
	Type         Type
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	DeciderID    int64
	DecidedAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Days returns the inclusive calendar-day span of the request.
func (r Request) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
