package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	throttle *redis.Client
}

// NewService constructs a new Service. The redis client backs the
// per-email login throttle and may be nil in tests.
func NewService(repo Repository, throttle *redis.Client) *Service {
	return &Service{repo: repo, throttle: throttle}
}

// Authenticate validates email/password credentials. Repeated failures
// for the same email are throttled before the password is checked.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if blocked, err := s.attemptsExceeded(ctx, email); err == nil && blocked {
		return nil, shared.ErrTooManyAttempts
	}
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, email)
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		s.recordFailure(ctx, email)
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return nil, shared.ErrInvalidCredentials
	}
	s.resetAttempts(ctx, email)
	return account, nil
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account. Self-registered accounts always start
// with the employee role; only an admin can promote them later.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	account, err := s.repo.CreateAccount(ctx, email, string(hash), authz.RoleEmployee, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName))
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Lookup resolves an account by primary key.
func (s *Service) Lookup(ctx context.Context, id int64) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) attemptsExceeded(ctx context.Context, email string) (bool, error) {
	if s.throttle == nil {
		return false, nil
	}
	count, err := s.throttle.Get(ctx, throttleKey(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= maxLoginAttempts, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	key := throttleKey(email)
	if count, err := s.throttle.Incr(ctx, key).Result(); err == nil && count == 1 {
		s.throttle.Expire(ctx, key, loginAttemptWindow)
	}
}

func (s *Service) resetAttempts(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	s.throttle.Del(ctx, throttleKey(email))
}

func throttleKey(email string) string {
	return "login_attempts:" + email
}
