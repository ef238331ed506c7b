package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// AdminHandler exposes order management endpoints for the back office.
type AdminHandler struct {
	Svc *Service
}

// List handles GET /admin/orders?status=.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	status, ok := ParseStatus(r.URL.Query().Get("status"))
	if !ok {
		status = StatusPending
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	orders, err := h.Svc.ListByStatus(r.Context(), status, perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	common.JSONData(w, http.StatusOK, orders)
}

// Get handles GET /admin/orders/{orderId}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Get(r.Context(), chi.URLParam(r, "orderId"), "")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, o)
}

// PatchStatus handles PATCH /admin/orders/{orderId}/status.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	next, ok := ParseStatus(payload.Status)
	if !ok {
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_STATUS", "unknown order status", nil)
		return
	}
	o, err := h.Svc.Transition(r.Context(), chi.URLParam(r, "orderId"), next)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, o)
}

func (h *AdminHandler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		common.JSONError(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
