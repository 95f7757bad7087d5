package auth

import (
	"time"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

// Account represents a user account as stored in the users table.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         authz.Role
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity derives the per-request authenticated identity from an account.
func (a *Account) Identity() *shared.Identity {
	if a == nil {
		return nil
	}
	return &shared.Identity{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
