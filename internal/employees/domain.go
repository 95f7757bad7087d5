package employees

import "time"

// Employee represents an HR profile in the employee directory.
type Employee struct {
	ID          int64
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	Department  string
	Position    string
	HireDate    time.Time
	SalaryCents int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
