package leave

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

// Handler serves leave pages and API.
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

// MountRoutes registers page routes under /leave.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showLeave)
	r.Post("/", h.requestFromForm)
	r.Post("/{id}/decide", h.decideFromForm)
	r.Post("/{id}/cancel", h.cancelFromForm)
}

// MountAPIRoutes registers JSON routes under /api/leave.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/", h.apiList)
	r.Post("/", h.apiRequest)
	r.Get("/balance", h.apiBalance)
	r.Post("/{id}/decide", h.apiDecide)
	r.Post("/{id}/cancel", h.apiCancel)
}

type pageData struct {
	Requests   []Request
	Balance    int
	CanApprove bool
}

func (h *Handler) showLeave(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	canApprove := authz.CanApproveLeave(identity)
	var (
		requests []Request
		err      error
	)
	if canApprove {
		requests, err = h.service.ListAll(r.Context())
	} else {
		requests, err = h.service.ListOwn(r.Context(), identity.ID)
	}
	if err != nil {
		h.logger.Error("list leave", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	balance, err := h.service.Balance(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("leave balance", slog.Any("error", err))
	}

	if err := h.templates.Render(w, "pages/leave.html", view.TemplateData{
		Title:       "Leave",
		Identity:    identity,
		CurrentPath: "/leave",
		Data:        pageData{Requests: requests, Balance: balance, CanApprove: canApprove},
	}); err != nil {
		h.logger.Error("render leave", slog.Any("error", err))
	}
}

func (h *Handler) requestFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	start, errStart := time.Parse("2006-01-02", r.PostFormValue("start_date"))
	end, errEnd := time.Parse("2006-01-02", r.PostFormValue("end_date"))
	if errStart != nil || errEnd != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	_, err := h.service.Request(r.Context(), identity.ID, Input{
		Type:      Type(r.PostFormValue("type")),
		StartDate: start,
		EndDate:   end,
		Reason:    r.PostFormValue("reason"),
	})
	if err != nil {
		h.logger.Warn("request leave", slog.Any("error", err))
	}
	http.Redirect(w, r, "/leave", http.StatusSeeOther)
}

func (h *Handler) decideFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if !authz.CanApproveLeave(identity) {
		http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	approve := r.PostFormValue("decision") == string(StatusApproved)
	if _, err := h.service.Decide(r.Context(), id, approve, identity.ID); err != nil {
		h.logger.Warn("decide leave", slog.Any("error", err))
	}
	http.Redirect(w, r, "/leave", http.StatusSeeOther)
}

func (h *Handler) cancelFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.Cancel(r.Context(), id, identity.ID); err != nil {
		h.logger.Warn("cancel leave", slog.Any("error", err))
	}
	http.Redirect(w, r, "/leave", http.StatusSeeOther)
}

type requestDTO struct {
	ID           int64  `json:"id"`
	EmployeeName string `json:"employeeName,omitempty"`
	Type         string `json:"type"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Reason       string `json:"reason,omitempty"`
	Status       string `json:"status"`
	Days         int    `json:"days"`
}

type requestInput struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	var (
		requests []Request
		err      error
	)
	if authz.CanApproveLeave(identity) {
		requests, err = h.service.ListAll(r.Context())
	} else {
		requests, err = h.service.ListOwn(r.Context(), identity.ID)
	}
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]requestDTO, len(requests))
	for i, req := range requests {
		dtos[i] = toDTO(req)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"requests": dtos})
}

func (h *Handler) apiRequest(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	var body requestInput
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	start, errStart := time.Parse("2006-01-02", body.StartDate)
	end, errEnd := time.Parse("2006-01-02", body.EndDate)
	if errStart != nil || errEnd != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid date range"))
		return
	}
	req, err := h.service.Request(r.Context(), identity.ID, Input{
		Type:      Type(body.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    body.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRange):
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid date range"))
		case errors.Is(err, ErrInsufficientBalance):
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Insufficient leave balance"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, toDTO(*req))
}

func (h *Handler) apiBalance(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	balance, err := h.service.Balance(r.Context(), identity.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"daysRemaining": balance})
}

func (h *Handler) apiDecide(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceLeave, authz.ActionApprove)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request id"))
		return
	}
	var body struct {
		Decision string `json:"decision"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	req, err := h.service.Decide(r.Context(), id, body.Decision == string(StatusApproved), identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Leave request not found"))
		case errors.Is(err, ErrNotPending):
			httpx.Fail(w, httpx.NewAPIError(http.StatusConflict, "Leave request already settled"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, toDTO(*req))
}

func (h *Handler) apiCancel(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request id"))
		return
	}
	req, err := h.service.Cancel(r.Context(), id, identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Leave request not found"))
		case errors.Is(err, ErrNotOwner):
			httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		case errors.Is(err, ErrNotPending):
			httpx.Fail(w, httpx.NewAPIError(http.StatusConflict, "Leave request already settled"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, toDTO(*req))
}

func toDTO(req Request) requestDTO {
	return requestDTO{
		ID:           req.ID,
		EmployeeName: req.EmployeeName,
		Type:         string(req.Type),
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		Reason:       req.Reason,
		Status:       string(req.Status),
		Days:         req.Days(),
	}
}
