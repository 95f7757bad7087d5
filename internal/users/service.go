package users

import (
	"context"
	"strconv"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// ChangeRole assigns a new role to the target account. Admins cannot
// change their own role, which keeps at least one admin reachable.
func (s *Service) ChangeRole(ctx context.Context, actor *shared.Identity, targetID int64, role authz.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if targetID == actor.ID {
		return ErrSelfDemotion
	}
	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "user.role_change",
		Entity:   "users",
		EntityID: strconv.FormatInt(targetID, 10),
		Meta:     map[string]any{"role": string(role)},
	})
	return nil
}

// SetActive toggles whether an account can log in. Self-deactivation is
// rejected for the same reason as self-demotion.
func (s *Service) SetActive(ctx context.Context, actor *shared.Identity, targetID int64, active bool) error {
	if targetID == actor.ID {
		return ErrSelfDemotion
	}
	if err := s.repo.SetActive(ctx, targetID, active); err != nil {
		return err
	}
	action := "user.deactivate"
	if active {
		action = "user.activate"
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "users",
		EntityID: strconv.FormatInt(targetID, 10),
	})
	return nil
}
