// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/boardtime/metrics"
	"github.com/danielhkuo/boardtime/middleware"
)

// Limiter is a fixed-window counter in Redis. A nil *Limiter allows everything.
type Limiter struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
}

func New(rdb redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: int64(limit), window: window}
}

// Allow counts one hit against key. The window starts at the first hit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	if l == nil || l.limit <= 0 {
		return true, 0, nil
	}

	k := "rl:" + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, n, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= l.limit, n, nil
}

// Middleware rejects requests over the limit with 429. Redis errors let the
// request through so an outage does not lock users out of voting.
func (l *Limiter) Middleware(scope string, keyFn func(*http.Request) string, next http.HandlerFunc) http.HandlerFunc {
	if l == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		key := scope + ":" + keyFn(r)
		ok, n, err := l.Allow(r.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "scope", scope, "error", err)
			next(w, r)
			return
		}
		if !ok {
			metrics.RateLimited.WithLabelValues(scope).Inc()
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			middleware.ErrorResponse(w, http.StatusTooManyRequests, "rate_limited",
				fmt.Sprintf("too many requests (count=%d, limit=%d)", n, l.limit))
			return
		}
		next(w, r)
	}
}
