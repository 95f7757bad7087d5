package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort abstracts the aggregate queries behind the summary.
type RepositoryPort interface {
	Headcount(ctx context.Context) (int, error)
	AttendanceCounts(ctx context.Context, from, to time.Time) (total, late int, err error)
	LeaveCounts(ctx context.Context, from, to time.Time) (pending, approved int, err error)
	AttendanceRows(ctx context.Context, from, to time.Time) ([]AttendanceRow, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Headcount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees WHERE is_active = TRUE
	`).Scan(&count)
	return count, err
}

func (r *Repository) AttendanceCounts(ctx context.Context, from, to time.Time) (int, int, error) {
	var total, late int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'late')
		FROM attendance_records
		WHERE day >= $1 AND day < $2
	`, from, to).Scan(&total, &late)
	return total, late, err
}

func (r *Repository) LeaveCounts(ctx context.Context, from, to time.Time) (int, int, error) {
	var pending, approved int
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved')
		FROM leave_requests
		WHERE start_date < $2 AND end_date >= $1
	`, from, to).Scan(&pending, &approved)
	return pending, approved, err
}

func (r *Repository) AttendanceRows(ctx context.Context, from, to time.Time) ([]AttendanceRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.first_name || ' ' || u.last_name, a.day, a.clock_in_at, a.clock_out_at, a.status
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		WHERE a.day >= $1 AND a.day < $2
		ORDER BY a.day, u.last_name, u.first_name
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceRow
	for rows.Next() {
		var (
			row      AttendanceRow
			clockOut *time.Time
		)
		if err := rows.Scan(&row.EmployeeName, &row.Day, &row.ClockInAt, &clockOut, &row.Status); err != nil {
			return nil, err
		}
		if clockOut != nil {
			row.ClockOutAt = *clockOut
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
