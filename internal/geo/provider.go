package geo

import (
	"context"
	"strings"
)

// MinAddressLen is the minimum destination address length (in runes) before a
// distance lookup is attempted. Shorter input leaves the shipping fee pending.
const MinAddressLen = 10

// Quote is the result of a distance lookup for a destination address.
type Quote struct {
	DistanceKm    float64 `json:"distanceKm"`
	DurationLabel string  `json:"durationLabel"`
}

// Provider resolves a destination address into a road distance quote.
type Provider interface {
	QuoteDistance(ctx context.Context, address string) (Quote, error)
}

// Normalize canonicalises an address for cache keys and comparisons.
func Normalize(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

// Addressable reports whether the address is long enough to quote.
func Addressable(address string) bool {
	return len([]rune(strings.TrimSpace(address))) >= MinAddressLen
}
