package attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler serves attendance pages and API.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *auth.Authenticator
	templates     *view.Engine
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authenticator *auth.Authenticator, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, authenticator: authenticator, templates: templates}
}

// MountRoutes registers page routes under /attendance.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showAttendance)
	r.Post("/clock", h.clockFromForm)
}

// MountAPIRoutes registers JSON routes under /api/attendance.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/", h.apiListOwn)
	r.Get("/all", h.apiListAll)
	r.Post("/clock", h.apiClock)
	r.Put("/{id}", h.apiCorrect)
}

type pageData struct {
	Records      []Record
	ClockedIn    bool
	ShowEmployee bool
}

func (h *Handler) showAttendance(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	page := shared.NewPagination(shared.PageFromRequest(r), 30, 0)

	var (
		records []Record
		err     error
	)
	showAll := authz.CanViewAllAttendance(identity)
	if showAll {
		records, err = h.service.ListAll(r.Context(), page)
	} else {
		records, err = h.service.ListOwn(r.Context(), identity.ID, page)
	}
	if err != nil {
		h.logger.Error("list attendance", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	today, err := h.service.Today(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("today attendance", slog.Any("error", err))
	}
	clockedIn := today != nil && today.ClockOutAt.IsZero()

	if err := h.templates.Render(w, "pages/attendance.html", view.TemplateData{
		Title:       "Attendance",
		Identity:    identity,
		CurrentPath: "/attendance",
		Data:        pageData{Records: records, ClockedIn: clockedIn, ShowEmployee: showAll},
	}); err != nil {
		h.logger.Error("render attendance", slog.Any("error", err))
	}
}

func (h *Handler) clockFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if _, err := h.service.Clock(r.Context(), identity.ID); err != nil && !errors.Is(err, ErrAlreadyClockedOut) {
		h.logger.Error("clock", slog.Any("error", err))
	}
	http.Redirect(w, r, "/attendance", http.StatusSeeOther)
}

type recordDTO struct {
	ID           int64  `json:"id"`
	EmployeeName string `json:"employeeName,omitempty"`
	Day          string `json:"day"`
	ClockInAt    string `json:"clockInAt"`
	ClockOutAt   string `json:"clockOutAt,omitempty"`
	Status       string `json:"status"`
}

func (h *Handler) apiListOwn(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	page := shared.NewPagination(shared.PageFromRequest(r), 30, 0)
	records, err := h.service.ListOwn(r.Context(), identity.ID, page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"records": toDTOs(records)})
}

func (h *Handler) apiListAll(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceAttendance, authz.ActionViewAll)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	page := shared.NewPagination(shared.PageFromRequest(r), 30, 0)
	records, err := h.service.ListAll(r.Context(), page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"records": toDTOs(records)})
}

func (h *Handler) apiClock(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	rec, err := h.service.Clock(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyClockedOut) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusConflict, "Already clocked out today"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDTO(*rec))
}

type correctionRequest struct {
	ClockInAt  time.Time `json:"clockInAt"`
	ClockOutAt time.Time `json:"clockOutAt"`
	Status     string    `json:"status"`
}

func (h *Handler) apiCorrect(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceAttendance, authz.ActionEdit)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	recordID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid record id"))
		return
	}
	var req correctionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	rec, err := h.service.Correct(r.Context(), recordID, req.ClockInAt, req.ClockOutAt, Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrInvalidCorrection) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid correction"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDTO(*rec))
}

func toDTOs(records []Record) []recordDTO {
	dtos := make([]recordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toDTO(rec)
	}
	return dtos
}

func toDTO(rec Record) recordDTO {
	dto := recordDTO{
		ID:           rec.ID,
		EmployeeName: rec.EmployeeName,
		Day:          rec.Day.Format("2006-01-02"),
		ClockInAt:    rec.ClockInAt.Format(time.RFC3339),
		Status:       string(rec.Status),
	}
	if !rec.ClockOutAt.IsZero() {
		dto.ClockOutAt = rec.ClockOutAt.Format(time.RFC3339)
	}
	return dto
}
