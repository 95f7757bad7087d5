package notifications

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort abstracts notification persistence.
type RepositoryPort interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, kind, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, n.UserID, n.Kind, n.Message).Scan(&n.ID, &n.CreatedAt)
}

func (r *Repository) ListForUser(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, kind, message, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// MarkRead flags a notification as seen. The user filter prevents
// acknowledging somebody else's notification.
func (r *Repository) MarkRead(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL
	`, userID).Scan(&count)
	return count, err
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var (
		n      Notification
		readAt *time.Time
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &readAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	if readAt != nil {
		n.ReadAt = *readAt
	}
	return &n, nil
}
