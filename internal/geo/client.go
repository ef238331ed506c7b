package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vinhngx/backend-foodee/internal/pricing"
	"github.com/vinhngx/backend-foodee/internal/resilience"
)

// Client quotes road distances against an external routing service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    resilience.HTTPClient
}

type routeResponse struct {
	DistanceKm float64 `json:"distance_km"`
	Duration   string  `json:"duration"`
}

// QuoteDistance resolves the destination address through the routing service.
// Timeouts surface as pricing.ErrQuoteTimeout and transport or server
// failures as pricing.ErrQuoteUnavailable; both are recoverable upstream.
func (c Client) QuoteDistance(ctx context.Context, address string) (Quote, error) {
	if c.BaseURL == "" {
		return Quote{}, fmt.Errorf("geo: base url not configured: %w", pricing.ErrQuoteUnavailable)
	}
	endpoint := fmt.Sprintf("%s/v1/route?dest=%s", c.BaseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("geo: build request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Quote{}, fmt.Errorf("geo: quote distance: %w", pricing.ErrQuoteTimeout)
		}
		return Quote{}, fmt.Errorf("geo: quote distance: %v: %w", err, pricing.ErrQuoteUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("geo: routing service returned %s: %w", resp.Status, pricing.ErrQuoteUnavailable)
	}
	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Quote{}, fmt.Errorf("geo: decode response: %v: %w", err, pricing.ErrQuoteUnavailable)
	}
	return Quote{DistanceKm: decoded.DistanceKm, DurationLabel: decoded.Duration}, nil
}
