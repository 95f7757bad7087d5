package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts indicates the login throttle kicked in.
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrDuplicateEmail indicates an email address is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserSafeMessage converts internal errors into a message suitable for
// rendering to end users.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many login attempts. Try again in a few minutes."
	case errors.Is(err, ErrDuplicateEmail):
		return "That email address is already registered."
	default:
		return "Something went wrong. Please try again."
	}
}
