package employees

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler serves the employee directory pages and API.
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

// MountRoutes registers page routes under /employees.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showList)
	r.Post("/", h.createFromForm)
	r.Post("/{id}/delete", h.deleteFromForm)
}

// MountAPIRoutes registers JSON routes under /api/employees.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/", h.apiList)
	r.Post("/", h.apiCreate)
	r.Get("/{id}", h.apiGet)
	r.Put("/{id}", h.apiUpdate)
	r.Delete("/{id}", h.apiDelete)
}

type listPageData struct {
	Employees []Employee
	Page      shared.Pagination
	CanDelete bool
	Errors    map[string]string
}

func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if check := authz.RequirePermission(authz.ResourceEmployees, authz.ActionViewAll)(identity); check != nil {
		http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		return
	}
	page := shared.NewPagination(shared.PageFromRequest(r), 20, 0)
	items, page, err := h.service.List(r.Context(), page)
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, identity, listPageData{
		Employees: items,
		Page:      page,
		CanDelete: authz.HasPermission(identity, authz.ResourceEmployees, authz.ActionDelete),
	})
}

func (h *Handler) createFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if !authz.CanManageEmployees(identity) {
		http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in, err := inputFromForm(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.Create(r.Context(), in); err != nil {
		h.logger.Error("create employee", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func (h *Handler) deleteFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if check := authz.RequirePermission(authz.ResourceEmployees, authz.ActionDelete)(identity); check != nil {
		http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("remove employee", slog.Any("error", err))
	}
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

type employeeDTO struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	HireDate    string `json:"hireDate"`
	SalaryCents int64  `json:"salaryCents"`
}

type employeeInput struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Department  string `json:"department" validate:"required"`
	Position    string `json:"position" validate:"required"`
	HireDate    string `json:"hireDate" validate:"required,datetime=2006-01-02"`
	SalaryCents int64  `json:"salaryCents" validate:"min=0"`
}

var validate = validator.New()

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceEmployees, authz.ActionViewAll)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	page := shared.NewPagination(shared.PageFromRequest(r), 20, 0)
	items, page, err := h.service.List(r.Context(), page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]employeeDTO, len(items))
	for i, e := range items {
		dtos[i] = toDTO(e)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"employees":  dtos,
		"page":       page.Page,
		"totalPages": page.TotalPages,
		"total":      page.Total,
	})
}

func (h *Handler) apiGet(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceEmployees, authz.ActionViewAll)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Employee not found"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDTO(*e))
}

func (h *Handler) apiCreate(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if !authz.CanManageEmployees(identity) {
		httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	e, err := h.service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid employee data"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toDTO(*e))
}

func (h *Handler) apiUpdate(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if !authz.CanManageEmployees(identity) {
		httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	e, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Employee not found"))
		case errors.Is(err, ErrInvalidInput):
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid employee data"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, toDTO(*e))
}

func (h *Handler) apiDelete(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourceEmployees, authz.ActionDelete)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Employee not found"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Employee removed"})
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var body employeeInput
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return Input{}, false
	}
	if err := validate.Struct(body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid employee data"))
		return Input{}, false
	}
	hireDate, err := time.Parse("2006-01-02", body.HireDate)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid hire date"))
		return Input{}, false
	}
	return Input{
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Email:       body.Email,
		Department:  body.Department,
		Position:    body.Position,
		HireDate:    hireDate,
		SalaryCents: body.SalaryCents,
	}, true
}

func inputFromForm(r *http.Request) (Input, error) {
	hireDate, err := time.Parse("2006-01-02", r.PostFormValue("hire_date"))
	if err != nil {
		return Input{}, err
	}
	salary, err := strconv.ParseInt(r.PostFormValue("salary_cents"), 10, 64)
	if err != nil {
		return Input{}, err
	}
	return Input{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		Email:       r.PostFormValue("email"),
		Department:  r.PostFormValue("department"),
		Position:    r.PostFormValue("position"),
		HireDate:    hireDate,
		SalaryCents: salary,
	}, nil
}

func toDTO(e Employee) employeeDTO {
	return employeeDTO{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Department:  e.Department,
		Position:    e.Position,
		HireDate:    e.HireDate.Format("2006-01-02"),
		SalaryCents: e.SalaryCents,
	}
}

func (h *Handler) render(w http.ResponseWriter, identity *shared.Identity, data listPageData) {
	if err := h.templates.Render(w, "pages/employees.html", view.TemplateData{
		Title:       "Employees",
		Identity:    identity,
		CurrentPath: "/employees",
		Data:        data,
	}); err != nil {
		h.logger.Error("render employees", slog.Any("error", err))
	}
}
