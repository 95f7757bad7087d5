package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

type memoryNotificationRepo struct {
	items  map[int64]*Notification
	nextID int64
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{items: make(map[int64]*Notification), nextID: 1}
}

func (r *memoryNotificationRepo) Create(ctx context.Context, n *Notification) error {
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.nextID++
	clone := *n
	r.items[n.ID] = &clone
	return nil
}

func (r *memoryNotificationRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	var out []Notification
	for _, n := range r.items {
		if n.UserID == userID && len(out) < limit {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *memoryNotificationRepo) MarkRead(ctx context.Context, userID, id int64) error {
	n, ok := r.items[id]
	if !ok || n.UserID != userID || !n.ReadAt.IsZero() {
		return shared.ErrNotFound
	}
	n.ReadAt = time.Now()
	return nil
}

func (r *memoryNotificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && n.ReadAt.IsZero() {
			count++
		}
	}
	return count, nil
}

func TestNotifyRejectsEmptyMessage(t *testing.T) {
	svc := NewService(newMemoryNotificationRepo())

	err := svc.Notify(context.Background(), 1, "leave_decision", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNotifyAndMarkRead(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, 1, "payslip", "Your payslip for 2026-03 is available."))
	require.NoError(t, svc.Notify(ctx, 1, "leave_decision", "Your sick leave request was approved."))
	require.NoError(t, svc.Notify(ctx, 2, "payslip", "Your payslip for 2026-03 is available."))

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	recent, err := svc.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	require.NoError(t, svc.MarkRead(ctx, 1, recent[0].ID))
	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Already read, and not visible to another user.
	assert.ErrorIs(t, svc.MarkRead(ctx, 1, recent[0].ID), shared.ErrNotFound)
	assert.ErrorIs(t, svc.MarkRead(ctx, 2, recent[1].ID), shared.ErrNotFound)
}
