package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// Handler exposes the in-app notification feed.
type Handler struct {
	Store *Store
}

// List handles GET /notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	items, err := h.Store.List(r.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []Notification{}
	}
	unread, err := h.Store.UnreadCount(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items, "unread": unread})
}

// MarkRead handles POST /notifications/{notificationId}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if err := h.Store.MarkRead(r.Context(), userID, chi.URLParam(r, "notificationId")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if err := h.Store.MarkAllRead(r.Context(), userID); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
