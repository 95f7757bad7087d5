package users

import (
	"errors"
	"time"

	"github.com/meridian-hr/meridian/internal/authz"
)

var (
	ErrInvalidRole  = errors.New("users: invalid role")
	ErrSelfDemotion = errors.New("users: cannot change own account")
)

// Account is the administrative view of a user record.
type Account struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      authz.Role
	IsActive  bool
	CreatedAt time.Time
}
