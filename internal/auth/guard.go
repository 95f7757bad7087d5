package auth

import (
	"log/slog"
	"net/http"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/observability"
)

const (
	loginPath             = "/auth/login"
	dashboardDeniedTarget = "/dashboard?error=insufficient_permissions"
)

// Guard intercepts every request before routing. It enforces the
// public-route bypass, authentication, and role-based route rules. It is a
// fast-path UX layer: handlers still re-authenticate on their own.
type Guard struct {
	codec   *TokenCodec
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGuard constructs a Guard. Metrics may be nil.
func NewGuard(codec *TokenCodec, logger *slog.Logger, metrics *observability.Metrics) *Guard {
	return &Guard{codec: codec, logger: logger, metrics: metrics}
}

// Middleware applies the guard state machine. Terminal outcomes: pass
// through, redirect to login, redirect to login with cookie clear, or
// redirect to the dashboard with an error flag.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if authz.IsPublicPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			// Every non-public path requires a credential.
			g.metrics.CountAuthFailure("missing_token")
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}

		claims, err := g.codec.Verify(cookie.Value)
		if err != nil {
			// Clear the dead token so the browser does not loop on it.
			g.metrics.CountAuthFailure("invalid_token")
			g.codec.ClearCookie(w)
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}

		if rule := authz.MatchRouteRule(path); rule != nil {
			role := authz.ParseRole(claims.Role)
			if !rule.Allows(role) {
				if g.logger != nil {
					g.logger.Warn("route denied",
						slog.String("path", path),
						slog.String("role", claims.Role),
						slog.Int64("user_id", claims.UserID))
				}
				g.metrics.CountAuthFailure("forbidden")
				http.Redirect(w, r, dashboardDeniedTarget, http.StatusSeeOther)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
