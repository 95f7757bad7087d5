package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian/internal/attendance"
	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/notifications"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler renders the landing page every authenticated user sees.
type Handler struct {
	logger        *slog.Logger
	attendance    *attendance.Service
	leave         *leave.Service
	notifications *notifications.Service
	authenticator *auth.Authenticator
	templates     *view.Engine
}

func NewHandler(
	logger *slog.Logger,
	attendanceSvc *attendance.Service,
	leaveSvc *leave.Service,
	notificationSvc *notifications.Service,
	authenticator *auth.Authenticator,
	templates *view.Engine,
) *Handler {
	return &Handler{
		logger:        logger,
		attendance:    attendanceSvc,
		leave:         leaveSvc,
		notifications: notificationSvc,
		authenticator: authenticator,
		templates:     templates,
	}
}

// MountRoutes registers the dashboard page.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showDashboard)
}

type pageData struct {
	ClockedIn     bool
	ClockInAt     time.Time
	LeaveBalance  int
	Notifications []notifications.Notification
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	data := pageData{}
	if rec, err := h.attendance.Today(r.Context(), identity.ID); err != nil {
		h.logger.Error("load today attendance", slog.Any("error", err))
	} else if rec != nil && rec.ClockOutAt.IsZero() {
		data.ClockedIn = true
		data.ClockInAt = rec.ClockInAt
	}
	if balance, err := h.leave.Balance(r.Context(), identity.ID); err != nil {
		h.logger.Error("load leave balance", slog.Any("error", err))
	} else {
		data.LeaveBalance = balance
	}
	if items, err := h.notifications.Recent(r.Context(), identity.ID); err != nil {
		h.logger.Error("load notifications", slog.Any("error", err))
	} else {
		data.Notifications = items
	}

	var alert string
	if r.URL.Query().Get("error") == "insufficient_permissions" {
		alert = "You do not have permission to view that page."
	}

	if err := h.templates.Render(w, "pages/dashboard.html", view.TemplateData{
		Title:       "Dashboard",
		Identity:    identity,
		CurrentPath: "/dashboard",
		Alert:       alert,
		Data:        data,
	}); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
	}
}
