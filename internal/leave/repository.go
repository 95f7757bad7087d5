package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for leave requests.
type RepositoryPort interface {
	Create(ctx context.Context, req *Request) (*Request, error)
	Get(ctx context.Context, id int64) (*Request, error)
	ListForUser(ctx context.Context, userID int64) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	SetStatus(ctx context.Context, id int64, status Status, deciderID int64) (*Request, error)
	Balance(ctx context.Context, userID int64, year int) (int, error)
	AdjustBalance(ctx context.Context, userID int64, year, delta int) error
	AccrueAll(ctx context.Context, year, days int) (int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const requestColumns = `l.id, l.user_id, l.type, l.start_date, l.end_date, l.reason, l.status, l.decider_id, l.decided_at, l.created_at, l.updated_at`

// Create inserts a pending request.
func (r *Repository) Create(ctx context.Context, req *Request) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leave_requests AS l (user_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING `+requestColumns,
		req.UserID, string(req.Type), req.StartDate, req.EndDate, req.Reason)
	return scanRequest(row, false)
}

// Get fetches a request by primary key.
func (r *Repository) Get(ctx context.Context, id int64) (*Request, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM leave_requests l WHERE l.id = $1`, id)
	return scanRequest(row, false)
}

// ListForUser returns the user's requests, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+requestColumns+` FROM leave_requests l WHERE l.user_id = $1 ORDER BY l.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, false)
}

// ListAll returns all requests with employee names, pending first.
func (r *Repository) ListAll(ctx context.Context) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`, u.first_name || ' ' || u.last_name
		FROM leave_requests l
		JOIN users u ON u.id = l.user_id
		ORDER BY (l.status = 'pending') DESC, l.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, true)
}

// SetStatus transitions a pending request and stamps the decider.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status, deciderID int64) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leave_requests AS l
		SET status = $2, decider_id = NULLIF($3, 0), decided_at = NOW(), updated_at = NOW()
		WHERE l.id = $1 AND l.status = 'pending'
		RETURNING `+requestColumns,
		id, string(status), deciderID)
	return scanRequest(row, false)
}

// Balance returns the remaining leave days for the user and year.
func (r *Repository) Balance(ctx context.Context, userID int64, year int) (int, error) {
	var days int
	err := r.pool.QueryRow(ctx, `SELECT days_remaining FROM leave_balances WHERE user_id = $1 AND year = $2`, userID, year).Scan(&days)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return days, nil
}

// AdjustBalance changes the remaining days, creating the row when absent.
func (r *Repository) AdjustBalance(ctx context.Context, userID int64, year, delta int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leave_balances (user_id, year, days_remaining)
		VALUES ($1, $2, GREATEST($3, 0))
		ON CONFLICT (user_id, year)
		DO UPDATE SET days_remaining = GREATEST(leave_balances.days_remaining + $3, 0)`,
		userID, year, delta)
	return err
}

// AccrueAll credits every active user with extra days, creating the
// balance row for users who do not have one yet.
func (r *Repository) AccrueAll(ctx context.Context, year, days int) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO leave_balances (user_id, year, days_remaining)
		SELECT id, $1, $2 FROM users WHERE is_active
		ON CONFLICT (user_id, year)
		DO UPDATE SET days_remaining = leave_balances.days_remaining + EXCLUDED.days_remaining`,
		year, days)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func collectRequests(rows pgx.Rows, withName bool) ([]Request, error) {
	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows, withName)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row, withName bool) (*Request, error) {
	var req Request
	var typ, status string
	var deciderID *int64
	var decidedAt *time.Time
	dest := []any{&req.ID, &req.UserID, &typ, &req.StartDate, &req.EndDate, &req.Reason, &status, &deciderID, &decidedAt, &req.CreatedAt, &req.UpdatedAt}
	if withName {
		dest = append(dest, &req.EmployeeName)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	req.Type = Type(typ)
	req.Status = Status(status)
	if deciderID != nil {
		req.DeciderID = *deciderID
	}
	if decidedAt != nil {
		req.DecidedAt = *decidedAt
	}
	return &req, nil
}

var _ RepositoryPort = (*Repository)(nil)
