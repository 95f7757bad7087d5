package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/view"
)

// auditRecorder is the slice of shared.AuditLogger the handler needs.
type auditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Handler wires HTTP endpoints for authentication flows. Page routes
// render HTML and redirect; API routes return JSON with the
// {error, status} payload shape.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	codec         *TokenCodec
	authenticator *Authenticator
	templates     *view.Engine
	audit         auditRecorder
	validator     *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec *TokenCodec, authenticator *Authenticator, templates *view.Engine, audit auditRecorder) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		codec:         codec,
		authenticator: authenticator,
		templates:     templates,
		audit:         audit,
		validator:     validator.New(),
	}
}

// MountRoutes registers page routes under /auth.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
}

// MountAPIRoutes registers JSON routes under /api/auth.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Post("/login", h.apiLogin)
	r.Post("/register", h.apiRegister)
	r.Post("/logout", h.apiLogout)
	r.Get("/me", h.apiMe)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerForm struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type loginPageData struct {
	Email  string
	Errors map[string]string
}

type registerPageData struct {
	Email     string
	FirstName string
	LastName  string
	Errors    map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, loginPageData{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := loginPageData{Email: form.Email, Errors: map[string]string{}}
	if err := h.validator.Struct(form); err != nil {
		data.Errors["general"] = "Enter a valid email and a password of at least 8 characters."
		h.renderLogin(w, data, http.StatusBadRequest)
		return
	}

	account, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		data.Errors["general"] = shared.UserSafeMessage(err)
		h.renderLogin(w, data, http.StatusBadRequest)
		return
	}

	if err := h.issueSession(w, r, account, "login"); err != nil {
		data.Errors["general"] = shared.UserSafeMessage(err)
		h.renderLogin(w, data, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, registerPageData{}, http.StatusOK)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := registerForm{
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
	}
	data := registerPageData{Email: form.Email, FirstName: form.FirstName, LastName: form.LastName, Errors: map[string]string{}}
	if err := h.validator.Struct(form); err != nil {
		data.Errors["general"] = "All fields are required; passwords need at least 8 characters."
		h.renderRegister(w, data, http.StatusBadRequest)
		return
	}

	account, err := h.service.Register(r.Context(), RegisterInput{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, shared.ErrDuplicateEmail) {
			status = http.StatusConflict
		}
		data.Errors["general"] = shared.UserSafeMessage(err)
		h.renderRegister(w, data, status)
		return
	}

	if err := h.issueSession(w, r, account, "register"); err != nil {
		data.Errors["general"] = shared.UserSafeMessage(err)
		h.renderRegister(w, data, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.codec.ClearCookie(w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) apiLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid email or password format"))
		return
	}
	account, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, shared.ErrTooManyAttempts) {
			status = http.StatusTooManyRequests
		}
		httpx.Fail(w, httpx.NewAPIError(status, shared.UserSafeMessage(err)))
		return
	}
	if err := h.issueSession(w, r, account, "login"); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusInternalServerError, "Authentication failed"))
		return
	}
	httpx.JSON(w, http.StatusOK, identityPayload(account.Identity()))
}

func (h *Handler) apiRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid registration data"))
		return
	}
	account, err := h.service.Register(r.Context(), RegisterInput{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusConflict, shared.UserSafeMessage(err)))
			return
		}
		httpx.Fail(w, httpx.NewAPIError(http.StatusInternalServerError, "Registration failed"))
		return
	}
	if err := h.issueSession(w, r, account, "register"); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusInternalServerError, "Authentication failed"))
		return
	}
	httpx.JSON(w, http.StatusCreated, identityPayload(account.Identity()))
}

func (h *Handler) apiLogout(w http.ResponseWriter, r *http.Request) {
	h.codec.ClearCookie(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) apiMe(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	httpx.JSON(w, http.StatusOK, identityPayload(identity))
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, account *Account, action string) error {
	token, err := h.codec.Issue(account.ID, account.Role)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		return err
	}
	h.codec.SetCookie(w, token)
	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  account.ID,
			Action:   action,
			Entity:   "user",
			EntityID: account.Email,
			Meta:     map[string]any{"ip": r.RemoteAddr, "ua": r.UserAgent()},
		}); err != nil {
			h.logger.Warn("audit session", slog.String("action", action), slog.Any("error", err))
		}
	}
	return nil
}

func identityPayload(id *shared.Identity) map[string]any {
	return map[string]any{
		"id":        id.ID,
		"email":     id.Email,
		"role":      id.Role,
		"firstName": id.FirstName,
		"lastName":  id.LastName,
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, data loginPageData, status int) {
	// Headers must be in place before the status line is written.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/login.html", view.TemplateData{Title: "Sign in", Data: data}); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
	}
}

func (h *Handler) renderRegister(w http.ResponseWriter, data registerPageData, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/register.html", view.TemplateData{Title: "Create account", Data: data}); err != nil {
		h.logger.Error("render register", slog.Any("error", err))
	}
}
