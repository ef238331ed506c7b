package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// Handler exposes order endpoints for the authenticated customer.
type Handler struct {
	Svc *Service
}

// List handles GET /orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	orders, err := h.Svc.ListByUser(r.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	common.JSONData(w, http.StatusOK, orders)
}

// Get handles GET /orders/{orderId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	o, err := h.Svc.Get(r.Context(), chi.URLParam(r, "orderId"), userID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, o)
}

// Cancel handles POST /orders/{orderId}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	o, err := h.Svc.Cancel(r.Context(), chi.URLParam(r, "orderId"), userID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, o)
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		common.JSONError(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
