package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridian-hr/meridian/internal/shared"
)

var (
	// ErrInvalidRange flags a request whose dates are unusable.
	ErrInvalidRange = errors.New("leave: invalid date range")
	// ErrInsufficientBalance flags an annual request exceeding the balance.
	ErrInsufficientBalance = errors.New("leave: insufficient balance")
	// ErrNotPending flags a decision or cancellation on a settled request.
	ErrNotPending = errors.New("leave: request is not pending")
	// ErrNotOwner flags a cancellation by someone other than the requester.
	ErrNotOwner = errors.New("leave: not the request owner")
)

// Notifier delivers a notification to a user. The jobs enqueuer implements
// it; tests use a stub.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind, message string) error
}

// Service handles leave business logic.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
	now      func() time.Time
}

// NewService builds a Service instance. notifier may be nil.
func NewService(repo RepositoryPort, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// Input carries the fields accepted when requesting leave.
type Input struct {
	Type      Type
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Request files a leave request for the user. Annual leave must fit the
// remaining balance for the start year.
func (s *Service) Request(ctx context.Context, userID int64, in Input) (*Request, error) {
	if !ValidType(string(in.Type)) {
		return nil, ErrInvalidRange
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidRange
	}
	req := &Request{UserID: userID, Type: in.Type, StartDate: in.StartDate, EndDate: in.EndDate, Reason: in.Reason}
	if in.Type == TypeAnnual {
		balance, err := s.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if req.Days() > balance {
			return nil, ErrInsufficientBalance
		}
	}
	return s.repo.Create(ctx, req)
}

// Decide approves or rejects a pending request. Approval of annual leave
// deducts the balance; either outcome notifies the requester.
func (s *Service) Decide(ctx context.Context, id int64, approve bool, deciderID int64) (*Request, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusPending {
		return nil, ErrNotPending
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	req, err := s.repo.SetStatus(ctx, id, status, deciderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotPending
		}
		return nil, err
	}

	if approve && req.Type == TypeAnnual {
		if err := s.repo.AdjustBalance(ctx, req.UserID, req.StartDate.Year(), -req.Days()); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		message := fmt.Sprintf("Your %s leave request (%s to %s) was %s.",
			req.Type, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), status)
		_ = s.notifier.Notify(ctx, req.UserID, "leave_decision", message)
	}
	return req, nil
}

// Cancel withdraws the owner's pending request.
func (s *Service) Cancel(ctx context.Context, id, userID int64) (*Request, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}
	if existing.Status != StatusPending {
		return nil, ErrNotPending
	}
	req, err := s.repo.SetStatus(ctx, id, StatusCancelled, 0)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotPending
		}
		return nil, err
	}
	return req, nil
}

// AccrueMonthly credits every active user with the monthly allowance.
// Returns the number of balances touched.
func (s *Service) AccrueMonthly(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	return s.repo.AccrueAll(ctx, s.now().Year(), days)
}

// ListOwn returns the user's leave requests.
func (s *Service) ListOwn(ctx context.Context, userID int64) ([]Request, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ListAll returns every request for approvers.
func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.repo.ListAll(ctx)
}

// Balance returns the user's remaining days for the current year. Users
// without a balance row start from zero.
func (s *Service) Balance(ctx context.Context, userID int64) (int, error) {
	balance, err := s.repo.Balance(ctx, userID, s.now().Year())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}
