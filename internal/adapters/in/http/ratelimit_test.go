package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")

	clock = clock.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 2, rl.Visitors())

	clock = clock.Add(visitorTTL + time.Second)
	assert.True(t, rl.Allow("10.0.0.3"))
	assert.Equal(t, 1, rl.Visitors(), "idle clients are swept")
}

func TestRateLimiter_Middleware(t *testing.T) {
	api := newTestAPI(t, Handlers{}, RouterConfig{RatePerSecond: 0.001, Burst: 1})

	first := api.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := api.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decode(t, second).Error)
}
