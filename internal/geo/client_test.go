package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vinhngx/backend-foodee/internal/pricing"
	"github.com/vinhngx/backend-foodee/internal/resilience"
)

func newTestClient(baseURL string, timeout time.Duration) Client {
	return Client{
		BaseURL: baseURL,
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{},
			MaxAttempts: 1,
			Timeout:     timeout,
		},
	}
}

func TestQuoteDistanceSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("dest"); got == "" {
			t.Errorf("missing dest parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distance_km":3.5,"duration":"15 mins"}`))
	}))
	defer srv.Close()

	q, err := newTestClient(srv.URL, time.Second).QuoteDistance(context.Background(), "12 Nguyen Trai, District 1")
	if err != nil {
		t.Fatalf("QuoteDistance: %v", err)
	}
	if q.DistanceKm != 3.5 || q.DurationLabel != "15 mins" {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestQuoteDistanceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 20*time.Millisecond).QuoteDistance(context.Background(), "12 Nguyen Trai, District 1")
	if !errors.Is(err, pricing.ErrQuoteTimeout) && !errors.Is(err, pricing.ErrQuoteUnavailable) {
		t.Fatalf("expected timeout or unavailable, got %v", err)
	}
}

func TestQuoteDistanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).QuoteDistance(context.Background(), "12 Nguyen Trai, District 1")
	if !errors.Is(err, pricing.ErrQuoteUnavailable) {
		t.Fatalf("expected ErrQuoteUnavailable, got %v", err)
	}
}
