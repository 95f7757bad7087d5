package auth

import (
	"errors"
	"net/http"

	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
)

// Authenticator derives the authenticated identity from a request. Every
// protected handler calls it directly instead of trusting anything the
// route guard did upstream, so the guard is never the sole enforcement
// point.
type Authenticator struct {
	codec *TokenCodec
	repo  Repository
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(codec *TokenCodec, repo Repository) *Authenticator {
	return &Authenticator{codec: codec, repo: repo}
}

// Authenticate extracts the session token from the request cookie,
// verifies it and resolves the user record. Each failure branch maps to a
// distinct APIError; no error is ever propagated as a panic.
func (a *Authenticator) Authenticate(r *http.Request) (*shared.Identity, *httpx.APIError) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, httpx.NewAPIError(http.StatusUnauthorized, "No authentication token found")
	}

	claims, err := a.codec.Verify(cookie.Value)
	if err != nil {
		return nil, httpx.NewAPIError(http.StatusUnauthorized, "Invalid token")
	}

	account, err := a.repo.FindByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NewAPIError(http.StatusNotFound, "User not found")
		}
		return nil, httpx.NewAPIError(http.StatusInternalServerError, "Authentication failed")
	}

	return account.Identity(), nil
}
