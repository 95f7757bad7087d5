package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for attendance records.
type RepositoryPort interface {
	FindForDay(ctx context.Context, userID int64, day time.Time) (*Record, error)
	ClockIn(ctx context.Context, userID int64, day time.Time, at time.Time, status Status) (*Record, error)
	ClockOut(ctx context.Context, recordID int64, at time.Time) (*Record, error)
	Correct(ctx context.Context, recordID int64, clockIn time.Time, clockOut *time.Time, status Status) (*Record, error)
	ListForUser(ctx context.Context, userID int64, page shared.Pagination) ([]Record, error)
	ListAll(ctx context.Context, page shared.Pagination) ([]Record, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `a.id, a.user_id, a.day, a.clock_in_at, a.clock_out_at, a.status, a.created_at, a.updated_at`

// FindForDay returns the user's record for a calendar day, if any.
func (r *Repository) FindForDay(ctx context.Context, userID int64, day time.Time) (*Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM attendance_records a WHERE a.user_id = $1 AND a.day = $2`, userID, day)
	return scanRecord(row, false)
}

// ClockIn inserts a new record for the day.
func (r *Repository) ClockIn(ctx context.Context, userID int64, day time.Time, at time.Time, status Status) (*Record, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_records AS a (user_id, day, clock_in_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+recordColumns,
		userID, day, at, string(status))
	return scanRecord(row, false)
}

// ClockOut closes an open record.
func (r *Repository) ClockOut(ctx context.Context, recordID int64, at time.Time) (*Record, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE attendance_records AS a
		SET clock_out_at = $2, updated_at = NOW()
		WHERE a.id = $1 AND a.clock_out_at IS NULL
		RETURNING `+recordColumns,
		recordID, at)
	return scanRecord(row, false)
}

// Correct rewrites a record's times and status.
func (r *Repository) Correct(ctx context.Context, recordID int64, clockIn time.Time, clockOut *time.Time, status Status) (*Record, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE attendance_records AS a
		SET clock_in_at = $2, clock_out_at = $3, status = $4, updated_at = NOW()
		WHERE a.id = $1
		RETURNING `+recordColumns,
		recordID, clockIn, clockOut, string(status))
	return scanRecord(row, false)
}

// ListForUser returns the user's records, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID int64, page shared.Pagination) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recordColumns+` FROM attendance_records a WHERE a.user_id = $1 ORDER BY a.day DESC LIMIT $2 OFFSET $3`, userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows, false)
}

// ListAll returns records across all employees with names joined in.
func (r *Repository) ListAll(ctx context.Context, page shared.Pagination) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`, u.first_name || ' ' || u.last_name
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.day DESC, u.last_name
		LIMIT $1 OFFSET $2`, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows, true)
}

func collectRecords(rows pgx.Rows, withName bool) ([]Record, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows, withName)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row, withName bool) (*Record, error) {
	var rec Record
	var clockOut *time.Time
	var status string
	dest := []any{&rec.ID, &rec.UserID, &rec.Day, &rec.ClockInAt, &clockOut, &status, &rec.CreatedAt, &rec.UpdatedAt}
	if withName {
		dest = append(dest, &rec.EmployeeName)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if clockOut != nil {
		rec.ClockOutAt = *clockOut
	}
	rec.Status = Status(status)
	return &rec, nil
}

var _ RepositoryPort = (*Repository)(nil)
