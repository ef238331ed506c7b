package voucher

import (
	"errors"
	"strings"
	"time"

	"github.com/vinhngx/backend-foodee/internal/pricing"
)

// ErrNotFound indicates the requested voucher code does not exist.
var ErrNotFound = errors.New("voucher not found")

// ErrCodeTaken indicates the voucher code is already in use.
var ErrCodeTaken = errors.New("voucher code already exists")

// Voucher is the stored discount rule owned by the admin subsystem.
type Voucher struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	Kind          string     `json:"kind"`
	Value         int64      `json:"value"`
	MaxDiscount   *int64     `json:"maxDiscount,omitempty"`
	MinOrderValue int64      `json:"minOrderValue"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Rule converts the stored voucher into the shape the pricing engine reads.
func (v Voucher) Rule() pricing.Voucher {
	return pricing.Voucher{
		Code:          v.Code,
		Kind:          v.Kind,
		Value:         v.Value,
		MaxDiscount:   v.MaxDiscount,
		MinOrderValue: v.MinOrderValue,
		ExpiresAt:     v.ExpiresAt,
	}
}

// NormalizeCode canonicalises a voucher code for lookups.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
