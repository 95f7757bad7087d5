package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/authz"
)

func guardServe(t *testing.T, codec *TokenCodec, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	guard := NewGuard(codec, nil, nil)
	passed := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	guard.Middleware(next).ServeHTTP(rec, req)
	return rec, passed
}

func TestGuardPublicPathBypassesAuth(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)
	for _, path := range []string{"/auth/login", "/api/auth/register", "/healthz", "/static/app.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec, passed := guardServe(t, codec, req)
		assert.True(t, passed, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGuardMissingTokenRedirectsToLogin(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	rec, passed := guardServe(t, codec, req)
	assert.False(t, passed)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestGuardInvalidTokenClearsCookie(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})

	rec, passed := guardServe(t, codec, req)
	assert.False(t, passed)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestGuardRoleGatedRoute(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)

	employeeToken, err := codec.Issue(1, authz.RoleEmployee)
	require.NoError(t, err)
	hrToken, err := codec.Issue(2, authz.RoleHR)
	require.NoError(t, err)
	adminToken, err := codec.Issue(3, authz.RoleAdmin)
	require.NoError(t, err)

	cases := []struct {
		name  string
		path  string
		token string
		pass  bool
	}{
		{"employee denied employees page", "/employees", employeeToken, false},
		{"hr passes employees page", "/employees", hrToken, true},
		{"admin passes employees page", "/employees", adminToken, true},
		{"employee denied reports api", "/api/reports/summary", employeeToken, false},
		{"hr denied settings", "/settings", hrToken, false},
		{"admin passes settings", "/settings", adminToken, true},
		{"employee passes unrestricted page", "/leave", employeeToken, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.token})
			rec, passed := guardServe(t, codec, req)
			if tc.pass {
				assert.True(t, passed)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.False(t, passed)
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, "/dashboard?error=insufficient_permissions", rec.Header().Get("Location"))
			}
		})
	}
}

func TestGuardDefaultsToProtected(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/some/new/section", nil)

	rec, passed := guardServe(t, codec, req)
	assert.False(t, passed)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}
