package pricing

import (
	"errors"
	"testing"
	"time"
)

func money(v int64) *Money { return &v }

func TestSubtotalSkipsNonPositiveQty(t *testing.T) {
	lines := []Line{
		{UnitPrice: 10, Qty: 0, Selected: true},
		{UnitPrice: 10, Qty: -3, Selected: true},
	}
	if got := Subtotal(lines); got != 0 {
		t.Fatalf("expected 0 subtotal, got %d", got)
	}
}

func TestSubtotalIgnoresUnselectedLines(t *testing.T) {
	lines := []Line{
		{UnitPrice: 25000, Qty: 2, Selected: true},
		{UnitPrice: 99000, Qty: 1, Selected: false},
	}
	if got := Subtotal(lines); got != 50000 {
		t.Fatalf("expected 50000 subtotal, got %d", got)
	}
}

func TestShippingFeeTiers(t *testing.T) {
	cases := []struct {
		distance float64
		fee      Money
	}{
		{0, 0},
		{2, 0},
		{2.01, 14000},
		{3.5, 14000},
		{5, 14000},
		{5.5, 20000},
		{7, 20000},
		{7.1, 25000},
		{10, 25000},
	}
	var prev Money
	for _, tc := range cases {
		fee, err := ShippingFee(tc.distance)
		if err != nil {
			t.Fatalf("ShippingFee(%v): %v", tc.distance, err)
		}
		if fee != tc.fee {
			t.Fatalf("ShippingFee(%v) = %d, want %d", tc.distance, fee, tc.fee)
		}
		if fee < prev {
			t.Fatalf("fee decreased at %vkm: %d < %d", tc.distance, fee, prev)
		}
		prev = fee
	}
}

func TestShippingFeeOutOfServiceArea(t *testing.T) {
	for _, d := range []float64{10.01, 11, 50, 1000} {
		if _, err := ShippingFee(d); !errors.Is(err, ErrOutOfServiceArea) {
			t.Fatalf("ShippingFee(%v): expected ErrOutOfServiceArea, got %v", d, err)
		}
	}
}

func TestShippingFeeNegativeDistance(t *testing.T) {
	if _, err := ShippingFee(-0.1); !errors.Is(err, ErrInvalidDistance) {
		t.Fatalf("expected ErrInvalidDistance, got %v", err)
	}
}

func TestDiscountPercentageClampedToCap(t *testing.T) {
	v := Voucher{Kind: KindPercentage, Value: 50, MaxDiscount: money(20000)}
	got, err := Discount(100000, v, time.Now())
	if err != nil {
		t.Fatalf("Discount: %v", err)
	}
	if got != 20000 {
		t.Fatalf("expected cap 20000, got %d", got)
	}
}

func TestDiscountPercentageRoundsDown(t *testing.T) {
	v := Voucher{Kind: KindPercentage, Value: 33}
	got, err := Discount(101, v, time.Now())
	if err != nil {
		t.Fatalf("Discount: %v", err)
	}
	// 101 * 33 / 100 = 33.33 floors to 33
	if got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
}

func TestDiscountFixedClampedToSubtotal(t *testing.T) {
	v := Voucher{Kind: KindFixed, Value: 100000}
	got, err := Discount(50000, v, time.Now())
	if err != nil {
		t.Fatalf("Discount: %v", err)
	}
	if got != 50000 {
		t.Fatalf("expected discount clamped to 50000, got %d", got)
	}
	if total := Total(50000, 0, got); total != 0 {
		t.Fatalf("expected zero pre-shipping total, got %d", total)
	}
}

func TestDiscountBelowMinimum(t *testing.T) {
	v := Voucher{Kind: KindFixed, Value: 5000, MinOrderValue: 80000}
	if _, err := Discount(79999, v, time.Now()); !errors.Is(err, ErrVoucherIneligible) {
		t.Fatalf("expected ErrVoucherIneligible, got %v", err)
	}
}

func TestDiscountExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	v := Voucher{Kind: KindFixed, Value: 5000, ExpiresAt: &past}
	if _, err := Discount(100000, v, time.Now()); !errors.Is(err, ErrVoucherExpired) {
		t.Fatalf("expected ErrVoucherExpired, got %v", err)
	}
}

func TestTotalNeverNegative(t *testing.T) {
	if got := Total(1000, 0, 5000); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestQuoteEmptySelectionForcesFreeShipping(t *testing.T) {
	d := 8.0
	sum, err := Quote(nil, &d, nil, time.Now())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if sum.Shipping != 0 || sum.Total != 0 {
		t.Fatalf("expected zero fee and total for empty cart, got %+v", sum)
	}
}

func TestQuoteNoDistancePendingInput(t *testing.T) {
	lines := []Line{{UnitPrice: 43000, Qty: 2, Selected: true}}
	sum, err := Quote(lines, nil, nil, time.Now())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if sum.Shipping != 0 {
		t.Fatalf("expected pending shipping fee 0, got %d", sum.Shipping)
	}
	if sum.Total != 86000 {
		t.Fatalf("expected total 86000, got %d", sum.Total)
	}
}

func TestQuoteMidTierNoVoucher(t *testing.T) {
	lines := []Line{{UnitPrice: 43000, Qty: 2, Selected: true}}
	d := 3.5
	sum, err := Quote(lines, &d, nil, time.Now())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if sum.Subtotal != 86000 || sum.Shipping != 14000 || sum.Total != 100000 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestQuoteFreeTierWithCappedPercentage(t *testing.T) {
	lines := []Line{{UnitPrice: 100000, Qty: 2, Selected: true}}
	d := 1.0
	v := &Voucher{Kind: KindPercentage, Value: 10, MaxDiscount: money(15000)}
	sum, err := Quote(lines, &d, v, time.Now())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if sum.Shipping != 0 {
		t.Fatalf("expected free tier, got fee %d", sum.Shipping)
	}
	if sum.Discount != 15000 {
		t.Fatalf("expected discount clamped to 15000, got %d", sum.Discount)
	}
	if sum.Total != 185000 {
		t.Fatalf("expected total 185000, got %d", sum.Total)
	}
}

func TestQuoteOutOfServiceKeepsSubtotal(t *testing.T) {
	lines := []Line{{UnitPrice: 10000, Qty: 1, Selected: true}}
	d := 12.0
	sum, err := Quote(lines, &d, nil, time.Now())
	if !errors.Is(err, ErrOutOfServiceArea) {
		t.Fatalf("expected ErrOutOfServiceArea, got %v", err)
	}
	if sum.Subtotal != 10000 || sum.Shipping != 0 {
		t.Fatalf("expected last-known-good pricing without fee, got %+v", sum)
	}
}

func TestQuoteVoucherFailureKeepsShipping(t *testing.T) {
	lines := []Line{{UnitPrice: 30000, Qty: 1, Selected: true}}
	d := 4.0
	v := &Voucher{Kind: KindFixed, Value: 5000, MinOrderValue: 50000}
	sum, err := Quote(lines, &d, v, time.Now())
	if !errors.Is(err, ErrVoucherIneligible) {
		t.Fatalf("expected ErrVoucherIneligible, got %v", err)
	}
	if sum.Shipping != 14000 || sum.Discount != 0 || sum.Total != 44000 {
		t.Fatalf("expected pricing without voucher applied, got %+v", sum)
	}
}
