package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/authz"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)

	token, err := codec.Issue(42, authz.RoleHR)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "hr", claims.Role)
}

func TestTokenVerifyRejectsTampered(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)

	token, err := codec.Issue(42, authz.RoleEmployee)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)
	other := NewTokenCodec("ffffffffffffffffffffffffffffffff", time.Hour, false)

	token, err := codec.Issue(7, authz.RoleAdmin)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	codec := NewTokenCodec(testSecret, -time.Minute, false)

	token, err := codec.Issue(7, authz.RoleEmployee)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestSetCookieAttributes(t *testing.T) {
	codec := NewTokenCodec(testSecret, 24*time.Hour, true)
	rec := httptest.NewRecorder()
	codec.SetCookie(rec, "tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 86400, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestClearCookieExpiresImmediately(t *testing.T) {
	codec := NewTokenCodec(testSecret, 24*time.Hour, false)
	rec := httptest.NewRecorder()
	codec.ClearCookie(rec)

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, CookieName+"=")
	assert.Contains(t, header, "Max-Age=0")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
