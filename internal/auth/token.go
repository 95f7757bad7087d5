package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridian-hr/meridian/internal/authz"
)

// CookieName is the cookie carrying the session token.
const CookieName = "auth-token"

// ErrInvalidToken covers every verification failure: malformed, tampered
// or expired tokens all collapse to unauthenticated.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenClaims is the payload carried by a session token.
type TokenClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens using HMAC-SHA256. The
// secret is process-wide configuration; rotating it invalidates every
// outstanding token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewTokenCodec constructs a TokenCodec. secure controls the cookie
// Secure attribute and should be true in production.
func NewTokenCodec(secret string, ttl time.Duration, secure bool) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue creates a signed token for the given user and role.
func (c *TokenCodec) Issue(userID int64, role authz.Role) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a token string. Any failure, including
// expiry, returns ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL exposes the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// SetCookie attaches the token to the response as the session cookie.
func (c *TokenCodec) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie by setting an empty value with
// Max-Age 0, preventing retry loops with a dead token.
func (c *TokenCodec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
