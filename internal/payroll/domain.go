package payroll

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RunStatus tracks a payroll run through generation.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunCompleted RunStatus = "completed"
	RunApproved  RunStatus = "approved"
	RunFailed    RunStatus = "failed"
)

// Run is one payroll generation for a period (format "2006-01").
type Run struct {
	ID        uuid.UUID
	Period    string
	Status    RunStatus
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payslip is one employee's pay for a period.
type Payslip struct {
	ID             int64
	RunID          uuid.UUID
	UserID         int64
	EmployeeName   string
	Period         string
	GrossCents     int64
	DeductionCents int64
	NetCents       int64
	CreatedAt      time.Time
}

// workdaysPerMonth is the divisor for converting a monthly salary into a
// daily rate when deducting unpaid leave.
const workdaysPerMonth = 22

var amountPrinter = message.NewPrinter(language.English)

// FormatCents renders a cent amount as a dollar string with thousands
// separators.
func FormatCents(cents int64) string {
	return amountPrinter.Sprintf("$%.2f", float64(cents)/100)
}
