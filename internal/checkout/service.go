package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinhngx/backend-foodee/internal/cart"
	"github.com/vinhngx/backend-foodee/internal/events"
	"github.com/vinhngx/backend-foodee/internal/geo"
	"github.com/vinhngx/backend-foodee/internal/order"
	"github.com/vinhngx/backend-foodee/internal/pricing"
	"github.com/vinhngx/backend-foodee/internal/voucher"
)

// ErrAddressTooShort is returned when an order is submitted with a delivery
// address below the minimum length.
var ErrAddressTooShort = errors.New("delivery address too short")

// ErrEmptySelection is returned when no cart line is selected for checkout.
var ErrEmptySelection = errors.New("no items selected for checkout")

// ErrQuoteSuperseded marks a quote result made obsolete by a newer request
// from the same user.
var ErrQuoteSuperseded = errors.New("quote superseded by a newer request")

// CartReader lists the caller's cart lines.
type CartReader interface {
	List(ctx context.Context, userID string) ([]cart.Line, error)
}

// VoucherFinder resolves a voucher code to its rule.
type VoucherFinder interface {
	FindByCode(ctx context.Context, code string) (voucher.Voucher, error)
}

// OrderWriter persists a placed order atomically together with its line
// snapshot and the removal of the purchased cart lines.
type OrderWriter interface {
	CreateOrder(ctx context.Context, o order.Order) error
}

// QuoteInput is the checkout preview request.
type QuoteInput struct {
	Address     string `json:"address"`
	VoucherCode string `json:"voucherCode"`
}

// QuoteResult is the checkout preview. When the distance lookup fails or the
// address is too short to resolve, ShippingPending is set and the totals
// exclude the shipping fee so the client can keep showing the last good value.
type QuoteResult struct {
	Summary         pricing.Summary `json:"summary"`
	DistanceKm      *float64        `json:"distanceKm,omitempty"`
	DurationLabel   string          `json:"durationLabel,omitempty"`
	ShippingPending bool            `json:"shippingFeePending"`
	OutOfService    bool            `json:"outOfServiceArea"`
	VoucherError    string          `json:"voucherError,omitempty"`
}

// Service prices checkout previews and places orders.
type Service struct {
	Cart     CartReader
	Vouchers VoucherFinder
	Geo      geo.Provider
	Guard    *geo.Latest
	Orders   OrderWriter
	Events   *events.Bus
	Timeout  time.Duration
	Log      zerolog.Logger
}

func (s *Service) quoteTimeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return 15 * time.Second
}

// Quote prices the user's current selection against an address and an
// optional voucher code. A short address is not an error here: the preview
// simply leaves the shipping fee pending until the user finishes typing.
func (s *Service) Quote(ctx context.Context, userID string, in QuoteInput) (QuoteResult, error) {
	lines, err := s.Cart.List(ctx, userID)
	if err != nil {
		return QuoteResult{}, err
	}
	priceLines := cart.PricingLines(lines)

	var rule *pricing.Voucher
	var voucherErrMsg string
	if code := strings.TrimSpace(in.VoucherCode); code != "" {
		v, err := s.Vouchers.FindByCode(ctx, code)
		if err != nil {
			if !errors.Is(err, voucher.ErrNotFound) {
				return QuoteResult{}, err
			}
			voucherErrMsg = "voucher not found"
		} else {
			r := v.Rule()
			rule = &r
		}
	}

	distance, label, err := s.resolveDistance(ctx, userID, in.Address)
	if err != nil && errors.Is(err, ErrQuoteSuperseded) {
		return QuoteResult{}, err
	}

	out := QuoteResult{DistanceKm: distance, DurationLabel: label}
	switch {
	case errors.Is(err, pricing.ErrOutOfServiceArea):
		out.OutOfService = true
	case err != nil:
		s.Log.Warn().Err(err).Msg("distance quote unavailable, shipping fee pending")
		out.ShippingPending = true
		distance = nil
	case distance == nil && strings.TrimSpace(in.Address) != "":
		out.ShippingPending = true
	}

	summary, err := pricing.Quote(priceLines, distance, rule, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrOutOfServiceArea):
			out.OutOfService = true
		case errors.Is(err, pricing.ErrVoucherExpired):
			voucherErrMsg = "voucher expired"
		case errors.Is(err, pricing.ErrVoucherIneligible):
			voucherErrMsg = "order does not meet the voucher minimum"
		default:
			return QuoteResult{}, err
		}
	}
	out.Summary = summary
	out.VoucherError = voucherErrMsg
	return out, nil
}

// resolveDistance runs the distance lookup under the per-user staleness guard.
// A nil distance with a nil error means the address was too short to quote.
func (s *Service) resolveDistance(ctx context.Context, userID, address string) (*float64, string, error) {
	if !geo.Addressable(address) {
		return nil, "", nil
	}
	token := s.Guard.Begin(userID)

	qctx, cancel := context.WithTimeout(ctx, s.quoteTimeout())
	defer cancel()
	q, err := s.Geo.QuoteDistance(qctx, address)

	if !s.Guard.Current(userID, token) {
		return nil, "", ErrQuoteSuperseded
	}
	if err != nil {
		return nil, "", err
	}
	if q.DistanceKm > pricing.MaxServiceDistanceKm {
		d := q.DistanceKm
		return &d, q.DurationLabel, pricing.ErrOutOfServiceArea
	}
	d := q.DistanceKm
	return &d, q.DurationLabel, nil
}

// PlaceInput is the order submission request.
type PlaceInput struct {
	Address     string `json:"address"`
	VoucherCode string `json:"voucherCode"`
}

// PlaceOrder submits the user's selected cart lines as a new order. Unlike
// Quote, submission is strict: the address must meet the minimum length, the
// destination must be inside the service area and the voucher must apply.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in PlaceInput) (order.Order, error) {
	if !geo.Addressable(in.Address) {
		return order.Order{}, ErrAddressTooShort
	}

	lines, err := s.Cart.List(ctx, userID)
	if err != nil {
		return order.Order{}, err
	}
	selected := make([]cart.Line, 0, len(lines))
	for _, ln := range lines {
		if ln.Selected {
			selected = append(selected, ln)
		}
	}
	if len(selected) == 0 {
		return order.Order{}, ErrEmptySelection
	}
	for _, ln := range selected {
		if !ln.Available {
			return order.Order{}, fmt.Errorf("%s: %w", ln.Name, cart.ErrProductUnavailable)
		}
	}

	var rule *pricing.Voucher
	var code *string
	if c := strings.TrimSpace(in.VoucherCode); c != "" {
		v, err := s.Vouchers.FindByCode(ctx, c)
		if err != nil {
			return order.Order{}, err
		}
		r := v.Rule()
		rule = &r
		code = &v.Code
	}

	qctx, cancel := context.WithTimeout(ctx, s.quoteTimeout())
	defer cancel()
	q, err := s.Geo.QuoteDistance(qctx, in.Address)
	if err != nil {
		return order.Order{}, err
	}

	distance := q.DistanceKm
	summary, err := pricing.Quote(cart.PricingLines(selected), &distance, rule, time.Now())
	if err != nil {
		return order.Order{}, err
	}

	o := order.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        order.StatusPending,
		Address:       strings.TrimSpace(in.Address),
		DistanceKm:    q.DistanceKm,
		DurationLabel: q.DurationLabel,
		VoucherCode:   code,
		Subtotal:      int64(summary.Subtotal),
		ShippingFee:   int64(summary.Shipping),
		Discount:      int64(summary.Discount),
		Total:         int64(summary.Total),
	}
	for _, ln := range selected {
		o.Items = append(o.Items, order.Item{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Qty:       ln.Qty,
			UnitPrice: ln.UnitPrice,
			Subtotal:  ln.UnitPrice * int64(ln.Qty),
		})
	}
	if err := s.Orders.CreateOrder(ctx, o); err != nil {
		return order.Order{}, err
	}

	if s.Events != nil {
		_, err := s.Events.Emit(ctx, events.TopicOrderCreated, o.ID, map[string]any{
			"orderId":     o.ID,
			"userId":      o.UserID,
			"finalAmount": o.Total,
		})
		if err != nil {
			s.Log.Error().Err(err).Str("order_id", o.ID).Msg("emit order.created")
		}
	}
	return o, nil
}
