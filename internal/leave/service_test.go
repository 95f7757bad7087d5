package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

type memoryLeaveRepo struct {
	requests map[int64]*Request
	balances map[int64]int
	nextID   int64
	year     int
}

func newMemoryLeaveRepo(year int) *memoryLeaveRepo {
	return &memoryLeaveRepo{
		requests: make(map[int64]*Request),
		balances: make(map[int64]int),
		nextID:   1,
		year:     year,
	}
}

func (r *memoryLeaveRepo) Create(ctx context.Context, req *Request) (*Request, error) {
	clone := *req
	clone.ID = r.nextID
	clone.Status = StatusPending
	r.nextID++
	r.requests[clone.ID] = &clone
	return &clone, nil
}

func (r *memoryLeaveRepo) Get(ctx context.Context, id int64) (*Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *memoryLeaveRepo) ListForUser(ctx context.Context, userID int64) ([]Request, error) {
	var out []Request
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memoryLeaveRepo) ListAll(ctx context.Context) ([]Request, error) {
	var out []Request
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (r *memoryLeaveRepo) SetStatus(ctx context.Context, id int64, status Status, deciderID int64) (*Request, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != StatusPending {
		return nil, shared.ErrNotFound
	}
	req.Status = status
	req.DeciderID = deciderID
	clone := *req
	return &clone, nil
}

func (r *memoryLeaveRepo) Balance(ctx context.Context, userID int64, year int) (int, error) {
	if year != r.year {
		return 0, shared.ErrNotFound
	}
	balance, ok := r.balances[userID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return balance, nil
}

func (r *memoryLeaveRepo) AdjustBalance(ctx context.Context, userID int64, year, delta int) error {
	next := r.balances[userID] + delta
	if next < 0 {
		next = 0
	}
	r.balances[userID] = next
	return nil
}

func (r *memoryLeaveRepo) AccrueAll(ctx context.Context, year, days int) (int, error) {
	for userID := range r.balances {
		r.balances[userID] += days
	}
	return len(r.balances), nil
}

type recordingNotifier struct {
	userIDs  []int64
	kinds    []string
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID int64, kind, message string) error {
	n.userIDs = append(n.userIDs, userID)
	n.kinds = append(n.kinds, kind)
	n.messages = append(n.messages, message)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo *memoryLeaveRepo, notifier Notifier, now time.Time) *Service {
	svc := NewService(repo, notifier)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRequestDaysInclusive(t *testing.T) {
	req := Request{StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 6)}
	assert.Equal(t, 5, req.Days())

	single := Request{StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 2)}
	assert.Equal(t, 1, single.Days())
}

func TestRequestValidation(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	_, err := svc.Request(ctx, 1, Input{Type: "holiday", StartDate: now, EndDate: now})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.Request(ctx, 1, Input{Type: TypeSick, StartDate: day(2026, 3, 5), EndDate: day(2026, 3, 4)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.Request(ctx, 1, Input{Type: TypeSick, EndDate: now})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRequestAnnualChecksBalance(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	repo.balances[1] = 3
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	// 5 inclusive days against a balance of 3.
	_, err := svc.Request(ctx, 1, Input{Type: TypeAnnual, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 6)})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	req, err := svc.Request(ctx, 1, Input{Type: TypeAnnual, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 4)})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
}

func TestRequestUnpaidSkipsBalance(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	svc := newTestService(repo, nil, now)

	req, err := svc.Request(context.Background(), 1, Input{
		Type: TypeUnpaid, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
}

func TestDecideApproveDeductsBalanceAndNotifies(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	repo.balances[1] = 10
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier, now)
	ctx := context.Background()

	req, err := svc.Request(ctx, 1, Input{Type: TypeAnnual, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 4)})
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, req.ID, true, 99)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)
	assert.Equal(t, 7, repo.balances[1])

	require.Len(t, notifier.userIDs, 1)
	assert.Equal(t, int64(1), notifier.userIDs[0])
	assert.Equal(t, "leave_decision", notifier.kinds[0])
	assert.Contains(t, notifier.messages[0], "approved")
}

func TestDecideRejectKeepsBalance(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	repo.balances[1] = 10
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier, now)
	ctx := context.Background()

	req, err := svc.Request(ctx, 1, Input{Type: TypeAnnual, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 4)})
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, req.ID, false, 99)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, decided.Status)
	assert.Equal(t, 10, repo.balances[1])
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "rejected")
}

func TestDecideRequiresPending(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	repo.balances[1] = 10
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	req, err := svc.Request(ctx, 1, Input{Type: TypeSick, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 3)})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, req.ID, true, 99)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, req.ID, false, 99)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCancelOwnerOnly(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	req, err := svc.Request(ctx, 1, Input{Type: TypeSick, StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 3)})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, req.ID, 2)
	assert.ErrorIs(t, err, ErrNotOwner)

	cancelled, err := svc.Cancel(ctx, req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, req.ID, 1)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestBalanceDefaultsToZero(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	svc := newTestService(repo, nil, now)

	balance, err := svc.Balance(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestAccrueMonthly(t *testing.T) {
	now := day(2026, 3, 1)
	repo := newMemoryLeaveRepo(2026)
	repo.balances[1] = 5
	repo.balances[2] = 0
	svc := newTestService(repo, nil, now)

	touched, err := svc.AccrueMonthly(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, touched)
	assert.Equal(t, 7, repo.balances[1])
	assert.Equal(t, 2, repo.balances[2])

	touched, err = svc.AccrueMonthly(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, touched)
}
