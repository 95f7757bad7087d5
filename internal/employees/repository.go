package employees

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort defines data access methods for the employee directory.
type RepositoryPort interface {
	List(ctx context.Context, page shared.Pagination) ([]Employee, int, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, e *Employee) (*Employee, error)
	Update(ctx context.Context, e *Employee) (*Employee, error)
	Deactivate(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `id, user_id, first_name, last_name, email, department, position, hire_date, salary_cents, is_active, created_at, updated_at`

// List returns active employees ordered by name, with the total count.
func (r *Repository) List(ctx context.Context, page shared.Pagination) ([]Employee, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE is_active = TRUE ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

// Get fetches an employee by primary key.
func (r *Repository) Get(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

// Create inserts a new employee record.
func (r *Repository) Create(ctx context.Context, e *Employee) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (user_id, first_name, last_name, email, department, position, hire_date, salary_cents, is_active)
		VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING `+employeeColumns,
		e.UserID, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.HireDate, e.SalaryCents)
	return scanEmployee(row)
}

// Update rewrites the mutable fields of an employee record.
func (r *Repository) Update(ctx context.Context, e *Employee) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, department = $5, position = $6, hire_date = $7, salary_cents = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+employeeColumns,
		e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.HireDate, e.SalaryCents)
	return scanEmployee(row)
}

// Deactivate soft deletes an employee.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActive returns the active headcount.
func (r *Repository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	var userID *int64
	var hireDate time.Time
	err := row.Scan(&e.ID, &userID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position, &hireDate, &e.SalaryCents, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if userID != nil {
		e.UserID = *userID
	}
	e.HireDate = hireDate
	return &e, nil
}

var _ RepositoryPort = (*Repository)(nil)
