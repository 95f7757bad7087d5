package documents

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
	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/view"
)

// Handler serves document pages and API.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *auth.Authenticator
	templates     *view.Engine
}

func NewHandler(logger *slog.Logger, service *Service, authenticator *auth.Authenticator, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, authenticator: authenticator, templates: templates}
}

// MountRoutes registers page routes under /documents.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showDocuments)
	r.Post("/", h.uploadFromForm)
	r.Post("/{id}/delete", h.deleteFromForm)
}

// MountAPIRoutes registers JSON routes under /api/documents.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/", h.apiList)
	r.Post("/", h.apiUpload)
	r.Delete("/{id}", h.apiDelete)
}

type documentView struct {
	ID         string
	OwnerName  string
	Title      string
	Kind       string
	FileURL    string
	Visibility string
	CreatedAt  time.Time
	CanDelete  bool
}

type pageData struct {
	Documents  []documentView
	CanPublish bool
}

func (h *Handler) showDocuments(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	docs, err := h.service.ListFor(r.Context(), identity)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	canDeleteAny := authz.HasPermission(identity, authz.ResourceDocuments, authz.ActionDelete)
	views := make([]documentView, len(docs))
	for i, doc := range docs {
		views[i] = documentView{
			ID:         doc.ID.String(),
			OwnerName:  doc.OwnerName,
			Title:      doc.Title,
			Kind:       doc.Kind,
			FileURL:    doc.FileURL,
			Visibility: string(doc.Visibility),
			CreatedAt:  doc.CreatedAt,
			CanDelete:  canDeleteAny || doc.OwnerID == identity.ID,
		}
	}

	if err := h.templates.Render(w, "pages/documents.html", view.TemplateData{
		Title:       "Documents",
		Identity:    identity,
		CurrentPath: "/documents",
		Data: pageData{
			Documents:  views,
			CanPublish: authz.HasPermission(identity, authz.ResourceDocuments, authz.ActionViewAll),
		},
	}); err != nil {
		h.logger.Error("render documents", slog.Any("error", err))
	}
}

func (h *Handler) uploadFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := Input{
		Title:      r.PostFormValue("title"),
		Kind:       r.PostFormValue("kind"),
		FileURL:    r.PostFormValue("file_url"),
		Visibility: Visibility(r.PostFormValue("visibility")),
	}
	if _, err := h.service.Upload(r.Context(), identity, in); err != nil {
		h.logger.Warn("upload document", slog.Any("error", err))
	}
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

func (h *Handler) deleteFromForm(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err == nil {
		if err := h.service.Delete(r.Context(), identity, id); err != nil {
			h.logger.Warn("delete document", slog.Any("error", err))
		}
	}
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

type documentDTO struct {
	ID         string    `json:"id"`
	OwnerName  string    `json:"ownerName"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind"`
	FileURL    string    `json:"fileUrl"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toDTO(doc Document) documentDTO {
	return documentDTO{
		ID:         doc.ID.String(),
		OwnerName:  doc.OwnerName,
		Title:      doc.Title,
		Kind:       doc.Kind,
		FileURL:    doc.FileURL,
		Visibility: string(doc.Visibility),
		CreatedAt:  doc.CreatedAt,
	}
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	docs, err := h.service.ListFor(r.Context(), identity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]documentDTO, len(docs))
	for i, doc := range docs {
		dtos[i] = toDTO(doc)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": dtos})
}

func (h *Handler) apiUpload(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	var body struct {
		Title      string `json:"title"`
		Kind       string `json:"kind"`
		FileURL    string `json:"fileUrl"`
		Visibility string `json:"visibility"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	doc, err := h.service.Upload(r.Context(), identity, Input{
		Title:      body.Title,
		Kind:       body.Kind,
		FileURL:    body.FileURL,
		Visibility: Visibility(body.Visibility),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid document"))
		case errors.Is(err, ErrVisibilityDenied):
			httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, toDTO(*doc))
}

func (h *Handler) apiDelete(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid document id"))
		return
	}
	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Document not found"))
		case errors.Is(err, ErrNotOwner):
			httpx.Fail(w, httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions"))
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}
