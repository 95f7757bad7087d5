package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-hr/meridian/internal/attendance"
	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/dashboard"
	"github.com/meridian-hr/meridian/internal/documents"
	"github.com/meridian-hr/meridian/internal/employees"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/notifications"
	"github.com/meridian-hr/meridian/internal/observability"
	"github.com/meridian-hr/meridian/internal/payroll"
	"github.com/meridian-hr/meridian/internal/reports"
	"github.com/meridian-hr/meridian/internal/users"
	"github.com/meridian-hr/meridian/jobs"
	"github.com/meridian-hr/meridian/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	Guard                *auth.Guard
	AuthHandler          *auth.Handler
	DashboardHandler     *dashboard.Handler
	AttendanceHandler    *attendance.Handler
	LeaveHandler         *leave.Handler
	PayrollHandler       *payroll.Handler
	DocumentsHandler     *documents.Handler
	EmployeesHandler     *employees.Handler
	ReportsHandler       *reports.Handler
	UsersHandler         *users.Handler
	NotificationsHandler *notifications.Handler
	JobsHandler          *jobs.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	// The guard runs before any route handler. Handlers still verify
	// the token themselves, the guard is the outer layer.
	r.Use(params.Guard.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	r.Route("/attendance", params.AttendanceHandler.MountRoutes)
	r.Route("/leave", params.LeaveHandler.MountRoutes)
	r.Route("/payroll", params.PayrollHandler.MountRoutes)
	r.Route("/documents", params.DocumentsHandler.MountRoutes)
	r.Route("/employees", params.EmployeesHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)
	r.Route("/settings", params.UsersHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountAPIRoutes)
		r.Route("/attendance", params.AttendanceHandler.MountAPIRoutes)
		r.Route("/leave", params.LeaveHandler.MountAPIRoutes)
		r.Route("/payroll", params.PayrollHandler.MountAPIRoutes)
		r.Route("/documents", params.DocumentsHandler.MountAPIRoutes)
		r.Route("/employees", params.EmployeesHandler.MountAPIRoutes)
		r.Route("/reports", params.ReportsHandler.MountAPIRoutes)
		r.Route("/users", params.UsersHandler.MountAPIRoutes)
		r.Route("/notifications", params.NotificationsHandler.MountAPIRoutes)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
