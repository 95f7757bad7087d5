package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidPeriod flags a period not in "2006-01" form.
	ErrInvalidPeriod = errors.New("payroll: invalid period")
	// ErrRunNotPending flags generation of an already-settled run.
	ErrRunNotPending = errors.New("payroll: run is not pending")
)

// Enqueuer hands the generation work to the background worker.
type Enqueuer interface {
	EnqueuePayrollGenerate(ctx context.Context, runID string) error
}

// Notifier delivers payslip-ready notifications.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind, message string) error
}

// Service handles payroll business logic.
type Service struct {
	repo     RepositoryPort
	enqueuer Enqueuer
	notifier Notifier
}

// NewService builds a Service instance. enqueuer and notifier may be nil
// in tests; a nil enqueuer generates synchronously.
func NewService(repo RepositoryPort, enqueuer Enqueuer, notifier Notifier) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, notifier: notifier}
}

// CreateRun records a pending run for the period and enqueues generation.
func (s *Service) CreateRun(ctx context.Context, period string, createdBy int64) (*Run, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, ErrInvalidPeriod
	}
	run, err := s.repo.CreateRun(ctx, &Run{ID: uuid.New(), Period: period, CreatedBy: createdBy})
	if err != nil {
		return nil, err
	}
	if s.enqueuer == nil {
		if _, err := s.Generate(ctx, run.ID); err != nil {
			return nil, err
		}
		return s.repo.GetRun(ctx, run.ID)
	}
	if err := s.enqueuer.EnqueuePayrollGenerate(ctx, run.ID.String()); err != nil {
		return nil, err
	}
	return run, nil
}

// Generate builds the payslips for a pending run. The worker calls this
// from the payroll:generate task handler.
func (s *Service) Generate(ctx context.Context, runID uuid.UUID) (int, error) {
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return 0, err
	}
	if run.Status != RunPending {
		return 0, ErrRunNotPending
	}

	generated, err := s.repo.GeneratePayslips(ctx, run)
	if err != nil {
		_ = s.repo.SetRunStatus(ctx, runID, RunFailed)
		return 0, err
	}

	if s.notifier != nil {
		slips, err := s.repo.ListPayslipsForPeriod(ctx, run.Period)
		if err == nil {
			for _, slip := range slips {
				_ = s.notifier.Notify(ctx, slip.UserID, "payslip",
					fmt.Sprintf("Your payslip for %s is available.", run.Period))
			}
		}
	}
	return generated, nil
}

// ApproveRun marks a completed run as approved.
func (s *Service) ApproveRun(ctx context.Context, runID uuid.UUID) error {
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != RunCompleted {
		return ErrRunNotPending
	}
	return s.repo.SetRunStatus(ctx, runID, RunApproved)
}

// ListRuns returns all runs.
func (s *Service) ListRuns(ctx context.Context) ([]Run, error) {
	return s.repo.ListRuns(ctx)
}

// ListOwnPayslips returns the user's payslips.
func (s *Service) ListOwnPayslips(ctx context.Context, userID int64) ([]Payslip, error) {
	return s.repo.ListPayslipsForUser(ctx, userID)
}

// ListPeriodPayslips returns every payslip for a period.
func (s *Service) ListPeriodPayslips(ctx context.Context, period string) ([]Payslip, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, ErrInvalidPeriod
	}
	return s.repo.ListPayslipsForPeriod(ctx, period)
}
