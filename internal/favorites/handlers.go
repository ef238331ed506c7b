package favorites

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// Handler exposes favorites endpoints for the authenticated user.
type Handler struct {
	Svc *Service
}

// List handles GET /favorites.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	items, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	common.JSONData(w, http.StatusOK, items)
}

// ListIDs handles GET /favorites/ids, the lightweight set used for badge
// rendering on product listings.
func (h *Handler) ListIDs(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	ids, err := h.Svc.IDs(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	common.JSONData(w, http.StatusOK, out)
}

// Toggle handles PUT /favorites/{productId}.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	favorited, err := h.Svc.Toggle(r.Context(), userID, chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]bool{"favorited": favorited})
}
