package employees

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meridian-hr/meridian/internal/shared"
)

// ErrInvalidInput flags a rejected employee record.
var ErrInvalidInput = errors.New("employees: invalid input")

// Service handles employee directory business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Input carries the fields accepted when creating or updating an employee.
type Input struct {
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	Department  string
	Position    string
	HireDate    time.Time
	SalaryCents int64
}

// List returns a page of active employees.
func (s *Service) List(ctx context.Context, page shared.Pagination) ([]Employee, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, page, err
	}
	return items, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Get fetches a single employee.
func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

// Create adds an employee to the directory.
func (s *Service) Create(ctx context.Context, in Input) (*Employee, error) {
	e, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, e)
}

// Update rewrites an existing employee record.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Employee, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	e, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return s.repo.Update(ctx, e)
}

// Remove soft deletes an employee record.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

// Headcount returns the active employee count.
func (s *Service) Headcount(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}

func fromInput(in Input) (*Employee, error) {
	e := &Employee{
		UserID:      in.UserID,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Department:  strings.TrimSpace(in.Department),
		Position:    strings.TrimSpace(in.Position),
		HireDate:    in.HireDate,
		SalaryCents: in.SalaryCents,
	}
	if e.FirstName == "" || e.LastName == "" || e.Email == "" || e.Department == "" || e.Position == "" {
		return nil, ErrInvalidInput
	}
	if e.SalaryCents < 0 {
		return nil, ErrInvalidInput
	}
	if e.HireDate.IsZero() {
		return nil, ErrInvalidInput
	}
	return e, nil
}
