package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinhngx/backend-foodee/internal/cart"
	"github.com/vinhngx/backend-foodee/internal/common"
	"github.com/vinhngx/backend-foodee/internal/pricing"
	"github.com/vinhngx/backend-foodee/internal/voucher"
)

// Handler exposes the checkout preview and order submission endpoints.
type Handler struct {
	Svc *Service
}

// Quote handles POST /checkout/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var in QuoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	result, err := h.Svc.Quote(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrQuoteSuperseded) {
			common.JSONError(w, http.StatusConflict, "QUOTE_SUPERSEDED", "a newer quote request is in flight", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, result)
}

// PlaceOrder handles POST /checkout/orders.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var in PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	o, err := h.Svc.PlaceOrder(r.Context(), userID, in)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, o)
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAddressTooShort):
		common.JSONError(w, http.StatusUnprocessableEntity, "ADDRESS_TOO_SHORT", "delivery address must be at least 10 characters", nil)
	case errors.Is(err, ErrEmptySelection):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_SELECTION", "select at least one cart item", nil)
	case errors.Is(err, pricing.ErrOutOfServiceArea):
		common.JSONError(w, http.StatusUnprocessableEntity, "OUT_OF_SERVICE_AREA", "destination is outside the delivery area", nil)
	case errors.Is(err, pricing.ErrVoucherExpired):
		common.JSONError(w, http.StatusUnprocessableEntity, "VOUCHER_EXPIRED", "voucher expired", nil)
	case errors.Is(err, pricing.ErrVoucherIneligible):
		common.JSONError(w, http.StatusUnprocessableEntity, "VOUCHER_INELIGIBLE", "order does not meet the voucher minimum", nil)
	case errors.Is(err, voucher.ErrNotFound):
		common.JSONError(w, http.StatusUnprocessableEntity, "VOUCHER_NOT_FOUND", "voucher not found", nil)
	case errors.Is(err, pricing.ErrQuoteTimeout), errors.Is(err, pricing.ErrQuoteUnavailable):
		common.JSONError(w, http.StatusBadGateway, "QUOTE_UNAVAILABLE", "could not resolve delivery distance, try again", nil)
	case errors.Is(err, cart.ErrProductUnavailable):
		common.JSONError(w, http.StatusConflict, "PRODUCT_UNAVAILABLE", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
