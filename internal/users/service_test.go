package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

type memoryUserRepo struct {
	accounts map[int64]*Account
}

func newMemoryUserRepo(accounts ...Account) *memoryUserRepo {
	repo := &memoryUserRepo{accounts: make(map[int64]*Account)}
	for i := range accounts {
		clone := accounts[i]
		repo.accounts[clone.ID] = &clone
	}
	return repo
}

func (r *memoryUserRepo) List(ctx context.Context) ([]Account, error) {
	var out []Account
	for _, acc := range r.accounts {
		out = append(out, *acc)
	}
	return out, nil
}

func (r *memoryUserRepo) UpdateRole(ctx context.Context, id int64, role authz.Role) error {
	acc, ok := r.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	acc.Role = role
	return nil
}

func (r *memoryUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	acc, ok := r.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	acc.IsActive = active
	return nil
}

func adminIdentity() *shared.Identity {
	return &shared.Identity{ID: 1, Email: "admin@example.com", Role: authz.RoleAdmin}
}

func TestChangeRole(t *testing.T) {
	repo := newMemoryUserRepo(
		Account{ID: 1, Email: "admin@example.com", Role: authz.RoleAdmin, IsActive: true},
		Account{ID: 2, Email: "emp@example.com", Role: authz.RoleEmployee, IsActive: true},
	)
	svc := NewService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.ChangeRole(ctx, adminIdentity(), 2, authz.RoleHR))
	assert.Equal(t, authz.RoleHR, repo.accounts[2].Role)
}

func TestChangeRoleRejectsInvalidRole(t *testing.T) {
	repo := newMemoryUserRepo(Account{ID: 2, Role: authz.RoleEmployee})
	svc := NewService(repo, nil)

	err := svc.ChangeRole(context.Background(), adminIdentity(), 2, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Equal(t, authz.RoleEmployee, repo.accounts[2].Role)
}

func TestChangeRoleRejectsSelf(t *testing.T) {
	repo := newMemoryUserRepo(Account{ID: 1, Role: authz.RoleAdmin})
	svc := NewService(repo, nil)

	err := svc.ChangeRole(context.Background(), adminIdentity(), 1, authz.RoleEmployee)
	assert.ErrorIs(t, err, ErrSelfDemotion)
	assert.Equal(t, authz.RoleAdmin, repo.accounts[1].Role)
}

func TestChangeRoleUnknownTarget(t *testing.T) {
	svc := NewService(newMemoryUserRepo(), nil)

	err := svc.ChangeRole(context.Background(), adminIdentity(), 99, authz.RoleHR)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	repo := newMemoryUserRepo(Account{ID: 2, Role: authz.RoleEmployee, IsActive: true})
	svc := NewService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetActive(ctx, adminIdentity(), 2, false))
	assert.False(t, repo.accounts[2].IsActive)

	require.NoError(t, svc.SetActive(ctx, adminIdentity(), 2, true))
	assert.True(t, repo.accounts[2].IsActive)
}

func TestSetActiveRejectsSelf(t *testing.T) {
	repo := newMemoryUserRepo(Account{ID: 1, Role: authz.RoleAdmin, IsActive: true})
	svc := NewService(repo, nil)

	err := svc.SetActive(context.Background(), adminIdentity(), 1, false)
	assert.ErrorIs(t, err, ErrSelfDemotion)
	assert.True(t, repo.accounts[1].IsActive)
}
