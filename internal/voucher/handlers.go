package voucher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// Repo is the store surface used by the admin handlers.
type Repo interface {
	FindByCode(ctx context.Context, code string) (Voucher, error)
	Create(ctx context.Context, in Input) (Voucher, error)
	Update(ctx context.Context, code string, in Input) (Voucher, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, limit, offset int) ([]Voucher, error)
}

// Handler exposes voucher administration endpoints.
type Handler struct {
	Store    Repo
	Validate *validator.Validate
}

// Create handles POST /admin/vouchers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	v, err := h.Store.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrCodeTaken) {
			common.JSONError(w, http.StatusConflict, "VOUCHER_CODE_TAKEN", "voucher code already exists", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, v)
}

// Update handles PUT /admin/vouchers/{code}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	v, err := h.Store.Update(r.Context(), chi.URLParam(r, "code"), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "VOUCHER_NOT_FOUND", "voucher not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, v)
}

// Delete handles DELETE /admin/vouchers/{code}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "code")); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "VOUCHER_NOT_FOUND", "voucher not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /admin/vouchers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20, 100)
	vouchers, err := h.Store.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if vouchers == nil {
		vouchers = []Voucher{}
	}
	common.JSONData(w, http.StatusOK, vouchers)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return Input{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(in); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid voucher payload", err.Error())
			return Input{}, false
		}
	}
	if in.Kind == "percentage" && in.Value > 100 {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "percentage value must not exceed 100", nil)
		return Input{}, false
	}
	return in, true
}
