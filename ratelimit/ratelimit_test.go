package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNilLimiter_PassesThrough(t *testing.T) {
	var l *Limiter

	ok, _, err := l.Allow(context.Background(), "any")
	require.NoError(t, err)
	assert.True(t, ok)

	h := l.Middleware("votes", func(*http.Request) string { return "k" }, okHandler)
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	// Nothing listens on this port
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	l := New(rdb, 1, time.Minute)
	h := l.Middleware("auth", func(*http.Request) string { return "k" }, okHandler)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// Runs only against a real Redis, e.g. TEST_REDIS_ADDR=localhost:6379
func TestLimiter_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	l := New(rdb, 2, time.Minute)
	key := uuid.NewString()
	keyFn := func(*http.Request) string { return key }
	h := l.Middleware("test", keyFn, okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest("POST", "/", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	ttl, err := rdb.TTL(context.Background(), "rl:test:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
