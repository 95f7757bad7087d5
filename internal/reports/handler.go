package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler serves the reports page, summary API and CSV export.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *auth.Authenticator
	templates     *view.Engine
}

func NewHandler(logger *slog.Logger, service *Service, authenticator *auth.Authenticator, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, authenticator: authenticator, templates: templates}
}

// MountRoutes registers page routes under /reports.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showReports)
}

// MountAPIRoutes registers JSON and export routes under /api/reports.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/summary", h.apiSummary)
	r.Get("/attendance.csv", h.exportAttendanceCSV)
}

func requestedPeriod(r *http.Request) string {
	if period := r.URL.Query().Get("period"); period != "" {
		return period
	}
	return time.Now().Format("2006-01")
}

type pageData struct {
	Summary *Summary
}

func (h *Handler) showReports(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if check := authz.RequirePermission(authz.ResourceReports, authz.ActionView)(identity); check != nil {
		http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		return
	}

	summary, err := h.service.Summarize(r.Context(), requestedPeriod(r))
	if err != nil {
		h.logger.Error("summarize reports", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.templates.Render(w, "pages/reports.html", view.TemplateData{
		Title:       "Reports",
		Identity:    identity,
		CurrentPath: "/reports",
		Data:        pageData{Summary: summary},
	}); err != nil {
		h.logger.Error("render reports", slog.Any("error", err))
	}
}

type summaryDTO struct {
	Period         string `json:"period"`
	Headcount      int    `json:"headcount"`
	AttendanceDays int    `json:"attendanceDays"`
	LateDays       int    `json:"lateDays"`
	PendingLeave   int    `json:"pendingLeave"`
	ApprovedLeave  int    `json:"approvedLeave"`
}

func (h *Handler) apiSummary(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceReports, authz.ActionView)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	summary, err := h.service.Summarize(r.Context(), requestedPeriod(r))
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid period"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summaryDTO{
		Period:         summary.Period,
		Headcount:      summary.Headcount,
		AttendanceDays: summary.AttendanceDays,
		LateDays:       summary.LateDays,
		PendingLeave:   summary.PendingLeave,
		ApprovedLeave:  summary.ApprovedLeave,
	})
}

func (h *Handler) exportAttendanceCSV(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if !authz.CanExportReports(identity) {
		httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		return
	}

	period := requestedPeriod(r)
	if _, _, err := periodBounds(period); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid period"))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-%s.csv", period))
	if err := h.service.WriteAttendanceCSV(r.Context(), w, period); err != nil {
		h.logger.Error("export attendance csv", slog.Any("error", err))
	}
}
