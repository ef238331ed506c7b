package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T, max int) *Limiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Limiter{R: client, Window: time.Minute, Max: max, Prefix: "test", Log: zerolog.Nop()}
}

func TestAllowWithinLimit(t *testing.T) {
	l := testLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, remaining, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := testLimiter(t, 1)
	ctx := context.Background()

	allowed, _, err := l.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = l.Allow(ctx, "2.2.2.2")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestAllowFailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := &Limiter{R: client, Window: time.Minute, Max: 1, Log: zerolog.Nop()}
	mr.Close()

	allowed, _, err := l.Allow(context.Background(), "1.2.3.4")
	require.Error(t, err)
	require.True(t, allowed)
}

func TestMiddlewareReturns429(t *testing.T) {
	l := testLimiter(t, 1)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}
