package payroll

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler serves payroll pages and API.
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

// MountRoutes registers page routes under /payroll.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showPayroll)
	r.Post("/runs", h.createRunFromForm)
}

// MountAPIRoutes registers JSON routes under /api/payroll.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/payslips", h.apiPayslips)
	r.Get("/runs", h.apiListRuns)
	r.Post("/runs", h.apiCreateRun)
	r.Post("/runs/{id}/approve", h.apiApproveRun)
}

type payslipView struct {
	EmployeeName        string
	Period              string
	GrossFormatted      string
	DeductionsFormatted string
	NetFormatted        string
}

type pageData struct {
	Payslips     []payslipView
	CanGenerate  bool
	ShowEmployee bool
}

func (h *Handler) showPayroll(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	showAll := authz.CanViewAllPayroll(identity)
	var (
		slips []Payslip
		err   error
	)
	if showAll {
		slips, err = h.service.ListPeriodPayslips(r.Context(), time.Now().Format("2006-01"))
	} else {
		slips, err = h.service.ListOwnPayslips(r.Context(), identity.ID)
	}
	if err != nil {
		h.logger.Error("list payslips", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views := make([]payslipView, len(slips))
	for i, slip := range slips {
		views[i] = payslipView{
			EmployeeName:        slip.EmployeeName,
			Period:              slip.Period,
			GrossFormatted:      FormatCents(slip.GrossCents),
			DeductionsFormatted: FormatCents(slip.DeductionCents),
			NetFormatted:        FormatCents(slip.NetCents),
		}
	}

	if err := h.templates.Render(w, "pages/payroll.html", view.TemplateData{
		Title:       "Payroll",
		Identity:    identity,
		CurrentPath: "/payroll",
		Data: pageData{
			Payslips:     views,
			CanGenerate:  authz.CanGeneratePayroll(identity),
			ShowEmployee: showAll,
		},
	}); err != nil {
		h.logger.Error("render payroll", slog.Any("error", err))
	}
}

func (h *Handler) createRunFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if !authz.CanGeneratePayroll(identity) {
		http.Redirect(w, r, "/dashboard?error=insufficient_permissions", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.CreateRun(r.Context(), r.PostFormValue("period"), identity.ID); err != nil {
		h.logger.Warn("create payroll run", slog.Any("error", err))
	}
	http.Redirect(w, r, "/payroll", http.StatusSeeOther)
}

type payslipDTO struct {
	Period         string `json:"period"`
	EmployeeName   string `json:"employeeName,omitempty"`
	GrossCents     int64  `json:"grossCents"`
	DeductionCents int64  `json:"deductionCents"`
	NetCents       int64  `json:"netCents"`
	NetFormatted   string `json:"netFormatted"`
}

type runDTO struct {
	ID     string `json:"id"`
	Period string `json:"period"`
	Status string `json:"status"`
}

func (h *Handler) apiPayslips(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}

	period := r.URL.Query().Get("period")
	var (
		slips []Payslip
		err   error
	)
	if period != "" {
		if check := authz.RequirePermission(authz.ResourcePayroll, authz.ActionViewAll)(identity); check != nil {
			httpx.Fail(w, check)
			return
		}
		slips, err = h.service.ListPeriodPayslips(r.Context(), period)
	} else {
		slips, err = h.service.ListOwnPayslips(r.Context(), identity.ID)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid period"))
			return
		}
		httpx.RespondError(w, err)
		return
	}

	dtos := make([]payslipDTO, len(slips))
	for i, slip := range slips {
		dtos[i] = payslipDTO{
			Period:         slip.Period,
			EmployeeName:   slip.EmployeeName,
			GrossCents:     slip.GrossCents,
			DeductionCents: slip.DeductionCents,
			NetCents:       slip.NetCents,
			NetFormatted:   FormatCents(slip.NetCents),
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payslips": dtos})
}

func (h *Handler) apiListRuns(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourcePayroll, authz.ActionViewAll)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	runs, err := h.service.ListRuns(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]runDTO, len(runs))
	for i, run := range runs {
		dtos[i] = runDTO{ID: run.ID.String(), Period: run.Period, Status: string(run.Status)}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

func (h *Handler) apiCreateRun(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if !authz.CanGeneratePayroll(identity) {
		httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		return
	}
	var body struct {
		Period string `json:"period"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	run, err := h.service.CreateRun(r.Context(), body.Period, identity.ID)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid period"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, runDTO{ID: run.ID.String(), Period: run.Period, Status: string(run.Status)})
}

func (h *Handler) apiApproveRun(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	if check := authz.RequirePermission(authz.ResourcePayroll, authz.ActionApprove)(identity); check != nil {
		httpx.Fail(w, check)
		return
	}
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid run id"))
		return
	}
	if err := h.service.ApproveRun(r.Context(), runID); err != nil {
		switch {
		case errors.Is(err, ErrRunNotPending):
			httpx.Fail(w, httpx.NewAPIError(http.StatusConflict, "Run is not completed"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Run approved"})
}
