package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	CreateAccount(ctx context.Context, email, passwordHash string, role authz.Role, firstName, lastName string) (*Account, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, email, password_hash, role, first_name, last_name, is_active, created_at, updated_at`

// FindByEmail fetches an account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByID fetches an active account by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1 AND is_active = TRUE`, id)
	return scanAccount(row)
}

// CreateAccount inserts a new account record.
func (r *PGRepository) CreateAccount(ctx context.Context, email, passwordHash string, role authz.Role, firstName, lastName string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+accountColumns,
		email, passwordHash, string(role), firstName, lastName)
	account, err := scanAccount(row)
	if err != nil {
		return nil, mapInsertError(err)
	}
	return account, nil
}

// mapInsertError translates a unique-constraint violation on users.email
// into shared.ErrDuplicateEmail. Other errors pass through unchanged.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicateEmail
	}
	return err
}

func scanAccount(row pgx.Row) (*Account, error) {
	var account Account
	var role string
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &role,
		&account.FirstName, &account.LastName, &account.IsActive,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	account.Role = authz.ParseRole(role)
	return &account, nil
}

var _ Repository = (*PGRepository)(nil)
