package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// Limiter implements a fixed-window counter per client key backed by Redis.
type Limiter struct {
	R      *redis.Client
	Window time.Duration
	Max    int
	Prefix string
	Log    zerolog.Logger
}

// Allow reports whether the key may proceed and how many requests remain in
// the current window. Redis failures fail open: a broken limiter must not
// take the API down with it.
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, err error) {
	prefix := l.Prefix
	if prefix == "" {
		prefix = "rl"
	}
	window := time.Now().Unix() / int64(l.Window.Seconds())
	redisKey := fmt.Sprintf("%s:%s:%d", prefix, key, window)

	pipe := l.R.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, l.Max, err
	}
	count := int(incr.Val())
	if count > l.Max {
		return false, 0, nil
	}
	return true, l.Max - count, nil
}

// Middleware limits requests per client IP.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, err := l.Allow(r.Context(), common.ClientIP(r))
		if err != nil {
			l.Log.Warn().Err(err).Msg("rate limiter unavailable, failing open")
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.Window.Seconds())))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, slow down", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
