package pricing

import (
	"errors"
	"time"
)

// Money represents a monetary value stored in minor currency units.
type Money = int64

var (
	// ErrOutOfServiceArea is returned when the destination is beyond the delivery radius.
	ErrOutOfServiceArea = errors.New("destination out of service area")
	// ErrInvalidDistance is returned for a negative distance input.
	ErrInvalidDistance = errors.New("distance must be non-negative")
	// ErrVoucherExpired is returned when the voucher expiry date has passed.
	ErrVoucherExpired = errors.New("voucher expired")
	// ErrVoucherIneligible indicates the subtotal does not meet the voucher minimum.
	ErrVoucherIneligible = errors.New("voucher minimum order value not met")
	// ErrVoucherNotFound indicates the voucher code is unknown.
	ErrVoucherNotFound = errors.New("voucher not found")
	// ErrQuoteTimeout indicates the distance lookup did not answer in time.
	ErrQuoteTimeout = errors.New("distance quote timed out")
	// ErrQuoteUnavailable indicates the distance lookup failed.
	ErrQuoteUnavailable = errors.New("distance quote unavailable")
)

// Voucher discount kinds.
const (
	KindPercentage = "percentage"
	KindFixed      = "fixed"
)

// Line is one cart entry considered for pricing.
type Line struct {
	ProductID string
	UnitPrice Money
	Qty       int
	Selected  bool
}

// Voucher carries the discount rules read by the pricing computation.
type Voucher struct {
	Code          string
	Kind          string
	Value         int64
	MaxDiscount   *Money
	MinOrderValue Money
	ExpiresAt     *time.Time
}

// Summary aggregates the computed pricing components for one checkout view.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	Shipping Money `json:"shippingFee"`
	Discount Money `json:"discountAmount"`
	Total    Money `json:"finalAmount"`
}

// MaxServiceDistanceKm is the delivery radius limit. Destinations further
// away cannot be served.
const MaxServiceDistanceKm = 10.0

// Shipping fee tiers by road distance in kilometres.
const (
	freeRadiusKm = 2.0
	nearRadiusKm = 5.0
	midRadiusKm  = 7.0
	maxRadiusKm  = MaxServiceDistanceKm

	nearFee Money = 14000
	midFee  Money = 20000
	farFee  Money = 25000
)

// Subtotal sums unit price times quantity over all selected lines.
// Lines with non-positive quantity are skipped, not treated as errors.
func Subtotal(lines []Line) Money {
	var total Money
	for _, ln := range lines {
		if !ln.Selected || ln.Qty <= 0 {
			continue
		}
		total += Money(ln.Qty) * ln.UnitPrice
	}
	return total
}

// ShippingFee maps a road distance onto the flat delivery fee tiers.
func ShippingFee(distanceKm float64) (Money, error) {
	switch {
	case distanceKm < 0:
		return 0, ErrInvalidDistance
	case distanceKm <= freeRadiusKm:
		return 0, nil
	case distanceKm <= nearRadiusKm:
		return nearFee, nil
	case distanceKm <= midRadiusKm:
		return midFee, nil
	case distanceKm <= maxRadiusKm:
		return farFee, nil
	default:
		return 0, ErrOutOfServiceArea
	}
}

// Discount computes the voucher discount for the given subtotal.
// Percentage discounts round down to the nearest minor unit; the result never
// exceeds the voucher cap nor the subtotal itself.
func Discount(subtotal Money, v Voucher, now time.Time) (Money, error) {
	if v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return 0, ErrVoucherExpired
	}
	if subtotal < v.MinOrderValue {
		return 0, ErrVoucherIneligible
	}
	var discount Money
	switch v.Kind {
	case KindPercentage:
		discount = subtotal * v.Value / 100
		if v.MaxDiscount != nil && discount > *v.MaxDiscount {
			discount = *v.MaxDiscount
		}
	case KindFixed:
		discount = v.Value
	default:
		return 0, ErrVoucherIneligible
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount, nil
}

// Total computes the final payable amount, never below zero.
func Total(subtotal, shipping, discount Money) Money {
	total := subtotal + shipping - discount
	if total < 0 {
		return 0
	}
	return total
}

// Quote performs the full stateless recomputation for a cart view.
//
// A nil distance means the destination is not known yet (absent or too-short
// address) and the fee stays at zero pending further input. An empty
// selection forces the fee to zero regardless of distance. Voucher errors and
// out-of-service distances propagate so the caller can surface them and
// re-present the cart without the failing component applied.
func Quote(lines []Line, distanceKm *float64, voucher *Voucher, now time.Time) (Summary, error) {
	subtotal := Subtotal(lines)

	var shipping Money
	if distanceKm != nil && subtotal > 0 {
		fee, err := ShippingFee(*distanceKm)
		if err != nil {
			return Summary{Subtotal: subtotal, Total: subtotal}, err
		}
		shipping = fee
	}

	var discount Money
	if voucher != nil {
		d, err := Discount(subtotal, *voucher, now)
		if err != nil {
			return Summary{Subtotal: subtotal, Shipping: shipping, Total: Total(subtotal, shipping, 0)}, err
		}
		discount = d
	}

	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    Total(subtotal, shipping, discount),
	}, nil
}
