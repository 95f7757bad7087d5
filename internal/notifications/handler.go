package notifications

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/platform/httpx"
	"github.com/meridian-hr/meridian/internal/shared"
)

// Handler serves the notifications API. Notifications have no page of
// their own, the dashboard embeds them.
type Handler struct {
	service       *Service
	authenticator *auth.Authenticator
}

func NewHandler(service *Service, authenticator *auth.Authenticator) *Handler {
	return &Handler{service: service, authenticator: authenticator}
}

// MountAPIRoutes registers JSON routes under /api/notifications.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/", h.apiList)
	r.Post("/{id}/read", h.apiMarkRead)
}

type notificationDTO struct {
	ID        int64      `json:"id"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	items, err := h.service.Recent(r.Context(), identity.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	unread, err := h.service.UnreadCount(r.Context(), identity.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]notificationDTO, len(items))
	for i, n := range items {
		dtos[i] = notificationDTO{
			ID:        n.ID,
			Kind:      n.Kind,
			Message:   n.Message,
			Read:      n.Read(),
			CreatedAt: n.CreatedAt,
		}
		if n.Read() {
			readAt := n.ReadAt
			dtos[i].ReadAt = &readAt
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"notifications": dtos, "unread": unread})
}

func (h *Handler) apiMarkRead(w http.ResponseWriter, r *http.Request) {
	identity, apiErr := h.authenticator.Authenticate(r)
	if apiErr != nil {
		httpx.Fail(w, apiErr)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, httpx.NewAPIError(http.StatusBadRequest, "Invalid notification id"))
		return
	}
	if err := h.service.MarkRead(r.Context(), identity.ID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, httpx.NewAPIError(http.StatusNotFound, "Notification not found"))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Notification read"})
}
