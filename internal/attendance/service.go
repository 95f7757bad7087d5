package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/meridian-hr/meridian/internal/shared"
)

var (
	// ErrAlreadyClockedOut flags a third clock action on the same day.
	ErrAlreadyClockedOut = errors.New("attendance: already clocked out today")
	// ErrInvalidCorrection flags an unusable correction request.
	ErrInvalidCorrection = errors.New("attendance: invalid correction")
)

// Service handles attendance business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Clock toggles the user's attendance for today: the first call clocks in,
// the second clocks out, further calls fail.
func (s *Service) Clock(ctx context.Context, userID int64) (*Record, error) {
	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	rec, err := s.repo.FindForDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.repo.ClockIn(ctx, userID, day, now, statusForClockIn(now))
		}
		return nil, err
	}
	if rec.ClockOutAt.IsZero() {
		return s.repo.ClockOut(ctx, rec.ID, now)
	}
	return nil, ErrAlreadyClockedOut
}

// Today returns the user's record for the current day, or nil.
func (s *Service) Today(ctx context.Context, userID int64) (*Record, error) {
	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	rec, err := s.repo.FindForDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Correct rewrites a record's times and status, for manual fixes by
// staff. A zero clockOut clears the clock-out.
func (s *Service) Correct(ctx context.Context, recordID int64, clockIn, clockOut time.Time, status Status) (*Record, error) {
	if status != StatusPresent && status != StatusLate {
		return nil, ErrInvalidCorrection
	}
	if clockIn.IsZero() {
		return nil, ErrInvalidCorrection
	}
	var out *time.Time
	if !clockOut.IsZero() {
		if clockOut.Before(clockIn) {
			return nil, ErrInvalidCorrection
		}
		out = &clockOut
	}
	return s.repo.Correct(ctx, recordID, clockIn, out, status)
}

// ListOwn returns the user's attendance history.
func (s *Service) ListOwn(ctx context.Context, userID int64, page shared.Pagination) ([]Record, error) {
	return s.repo.ListForUser(ctx, userID, page)
}

// ListAll returns everyone's attendance history with employee names.
func (s *Service) ListAll(ctx context.Context, page shared.Pagination) ([]Record, error) {
	return s.repo.ListAll(ctx, page)
}
