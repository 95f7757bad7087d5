package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler serves the admin settings page and the user admin API.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *auth.Authenticator
	templates     *view.Engine
}

func NewHandler(logger *slog.Logger, service *Service, authenticator *auth.Authenticator, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, authenticator: authenticator, templates: templates}
}

// MountRoutes registers page routes under /settings.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showSettings)
	r.Post("/users/{id}/role", h.changeRoleFromForm)
	r.Post("/users/{id}/toggle", h.toggleFromForm)
}

// MountAPIRoutes registers JSON routes under /api/users.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/", h.apiList)
	r.Put("/{id}/role", h.apiChangeRole)
	r.Put("/{id}/active", h.apiSetActive)
}

func (h *Handler) admin(w http.ResponseWriter, r *http.Request, page bool) *shared.Identity {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		if page {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		} else {
			httpx.Fail(w, apiErr)
		}
		return nil
	}
	if check := authz.RequirePermission(authz.ResourceUsers, authz.ActionManage)(identity); check != nil {
		if page {
			http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		} else {
			httpx.Fail(w, check)
		}
		return nil
	}
	return identity
}

type pageData struct {
	Accounts []Account
}

func (h *Handler) showSettings(w http.ResponseWriter, r *http.Request) {
	identity := h.admin(w, r, true)
	if identity == nil {
		return
	}
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.templates.Render(w, "pages/settings.html", view.TemplateData{
		Title:       "Settings",
		Identity:    identity,
		CurrentPath: "/settings",
		Data:        pageData{Accounts: accounts},
	}); err != nil {
		h.logger.Error("render settings", slog.Any("error", err))
	}
}

func (h *Handler) changeRoleFromForm(w http.ResponseWriter, r *http.Request) {
	identity := h.admin(w, r, true)
	if identity == nil {
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil {
		if err := r.ParseForm(); err == nil {
			if role := authz.ParseRole(r.PostFormValue("role")); role != "" {
				if err := h.service.ChangeRole(r.Context(), identity, targetID, role); err != nil {
					h.logger.Warn("change role", slog.Any("error", err))
				}
			}
		}
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) toggleFromForm(w http.ResponseWriter, r *http.Request) {
	identity := h.admin(w, r, true)
	if identity == nil {
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil {
		accounts, listErr := h.service.List(r.Context())
		if listErr == nil {
			for _, account := range accounts {
				if account.ID == targetID {
					if err := h.service.SetActive(r.Context(), identity, targetID, !account.IsActive); err != nil {
						h.logger.Warn("toggle account", slog.Any("error", err))
					}
					break
				}
			}
		}
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

type accountDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	identity := h.admin(w, r, false)
	if identity == nil {
		return
	}
	accounts, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]accountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = accountDTO{
			ID:        a.ID,
			Email:     a.Email,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Role:      string(a.Role),
			IsActive:  a.IsActive,
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": dtos})
}

func (h *Handler) targetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid user id"))
		return 0, false
	}
	return id, true
}

func (h *Handler) apiChangeRole(w http.ResponseWriter, r *http.Request) {
	identity := h.admin(w, r, false)
	if identity == nil {
		return
	}
	targetID, ok := h.targetID(w, r)
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	role := authz.ParseRole(body.Role)
	if role == "" {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid role"))
		return
	}
	if err := h.service.ChangeRole(r.Context(), identity, targetID, role); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

func (h *Handler) apiSetActive(w http.ResponseWriter, r *http.Request) {
	identity := h.admin(w, r, false)
	if identity == nil {
		return
	}
	targetID, ok := h.targetID(w, r)
	if !ok {
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := h.service.SetActive(r.Context(), identity, targetID, body.Active); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Account updated"})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "User not found"))
	case errors.Is(err, ErrInvalidRole):
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid role"))
	case errors.Is(err, ErrSelfDemotion):
		httpx.Fail(w, httpx.NewAPIError(http.StatusConflict, "Cannot change own account"))
	default:
		httpx.RespondError(w, err)
	}
}
