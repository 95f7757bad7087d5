package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/platform/db"
	"github.com/meridian-hr/meridian/internal/shared"
)

// payrollInput is one active employee's inputs for a run period.
type payrollInput struct {
	UserID      int64
	SalaryCents int64
	UnpaidDays  int
}

// RepositoryPort defines data access methods for payroll.
type RepositoryPort interface {
	CreateRun(ctx context.Context, run *Run) (*Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context) ([]Run, error)
	SetRunStatus(ctx context.Context, id uuid.UUID, status RunStatus) error
	GeneratePayslips(ctx context.Context, run *Run) (int, error)
	ListPayslipsForUser(ctx context.Context, userID int64) ([]Payslip, error)
	ListPayslipsForPeriod(ctx context.Context, period string) ([]Payslip, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateRun inserts a pending run.
func (r *Repository) CreateRun(ctx context.Context, run *Run) (*Run, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payroll_runs (id, period, status, created_by)
		VALUES ($1, $2, 'pending', $3)
		RETURNING id, period, status, created_by, created_at, updated_at`,
		run.ID, run.Period, run.CreatedBy)
	return scanRun(row)
}

// GetRun fetches a run by identifier.
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, period, status, created_by, created_at, updated_at FROM payroll_runs WHERE id = $1`, id)
	return scanRun(row)
}

// ListRuns returns all runs, newest first.
func (r *Repository) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, period, status, created_by, created_at, updated_at FROM payroll_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// SetRunStatus transitions a run.
func (r *Repository) SetRunStatus(ctx context.Context, id uuid.UUID, status RunStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payroll_runs SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GeneratePayslips builds one payslip per active employee for the run
// period inside a repeatable-read transaction, so salaries and approved
// unpaid leave are read from a single snapshot.
func (r *Repository) GeneratePayslips(ctx context.Context, run *Run) (int, error) {
	periodStart, err := time.Parse("2006-01", run.Period)
	if err != nil {
		return 0, err
	}
	periodEnd := periodStart.AddDate(0, 1, 0)

	var generated int
	err = db.WithRepeatableReadTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT e.user_id, e.salary_cents,
			       COALESCE((
			           SELECT SUM(LEAST(l.end_date, $2::date - 1) - GREATEST(l.start_date, $1::date) + 1)
			           FROM leave_requests l
			           WHERE l.user_id = e.user_id
			             AND l.type = 'unpaid'
			             AND l.status = 'approved'
			             AND l.start_date < $2
			             AND l.end_date >= $1
			       ), 0)
			FROM employees e
			WHERE e.is_active = TRUE AND e.user_id IS NOT NULL`,
			periodStart, periodEnd)
		if err != nil {
			return err
		}
		inputs, err := collectInputs(rows)
		if err != nil {
			return err
		}

		for _, in := range inputs {
			gross := in.SalaryCents
			deduction := int64(in.UnpaidDays) * (in.SalaryCents / workdaysPerMonth)
			if deduction > gross {
				deduction = gross
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO payslips (run_id, user_id, period, gross_cents, deduction_cents, net_cents)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (user_id, period) DO NOTHING`,
				run.ID, in.UserID, run.Period, gross, deduction, gross-deduction); err != nil {
				return err
			}
			generated++
		}

		_, err = tx.Exec(ctx, `UPDATE payroll_runs SET status = 'completed', updated_at = NOW() WHERE id = $1`, run.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return generated, nil
}

const payslipColumns = `p.id, p.run_id, p.user_id, p.period, p.gross_cents, p.deduction_cents, p.net_cents, p.created_at`

// ListPayslipsForUser returns the user's payslips, newest first.
func (r *Repository) ListPayslipsForUser(ctx context.Context, userID int64) ([]Payslip, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+payslipColumns+` FROM payslips p WHERE p.user_id = $1 ORDER BY p.period DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayslips(rows, false)
}

// ListPayslipsForPeriod returns all payslips for a period with names.
func (r *Repository) ListPayslipsForPeriod(ctx context.Context, period string) ([]Payslip, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+payslipColumns+`, u.first_name || ' ' || u.last_name
		FROM payslips p
		JOIN users u ON u.id = p.user_id
		WHERE p.period = $1
		ORDER BY u.last_name`, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayslips(rows, true)
}

func collectInputs(rows pgx.Rows) ([]payrollInput, error) {
	defer rows.Close()
	var out []payrollInput
	for rows.Next() {
		var in payrollInput
		if err := rows.Scan(&in.UserID, &in.SalaryCents, &in.UnpaidDays); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func collectPayslips(rows pgx.Rows, withName bool) ([]Payslip, error) {
	var out []Payslip
	for rows.Next() {
		var p Payslip
		dest := []any{&p.ID, &p.RunID, &p.UserID, &p.Period, &p.GrossCents, &p.DeductionCents, &p.NetCents, &p.CreatedAt}
		if withName {
			dest = append(dest, &p.EmployeeName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	var status string
	err := row.Scan(&run.ID, &run.Period, &status, &run.CreatedBy, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	run.Status = RunStatus(status)
	return &run, nil
}

var _ RepositoryPort = (*Repository)(nil)
