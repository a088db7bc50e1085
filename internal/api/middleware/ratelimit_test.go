package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oornnery/site/internal/config"
	"github.com/stretchr/testify/require"
)

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		LoginPerMinute:  5,
		PublicPerMinute: 1000,
	}
}

func TestRateLimitLoginTier(t *testing.T) {
	limit := RateLimit(testRateLimitConfig())(okHandler())
	tiered := WithRateLimitTier(TierLogin)(limit)

	var lastStatus int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "203.0.113.4:1000"
		rec := httptest.NewRecorder()
		tiered.ServeHTTP(rec, req)
		lastStatus = rec.Code
	}
	require.Equal(t, http.StatusOK, lastStatus)

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "203.0.113.4:1000"
	rec := httptest.NewRecorder()
	tiered.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "180", rec.Header().Get("Retry-After"))

	// A different client is unaffected.
	req = httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "203.0.113.5:1000"
	rec = httptest.NewRecorder()
	tiered.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitSkipsHealthEndpoints(t *testing.T) {
	limit := RateLimit(testRateLimitConfig())(okHandler())

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = "203.0.113.4:1000"
		rec := httptest.NewRecorder()
		limit.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLimiterStoreSweepsIdleClients(t *testing.T) {
	store := newLimiterStore(testRateLimitConfig())
	store.limiter(TierPublic, "203.0.113.4")
	store.limiter(TierPublic, "203.0.113.5")

	store.mu.Lock()
	store.limiters["public:203.0.113.4"].lastSeen = time.Now().Add(-limiterIdleTTL - time.Minute)
	store.lastSweep = time.Now().Add(-limiterSweepInterval)
	store.mu.Unlock()

	store.limiter(TierPublic, "203.0.113.6")

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotContains(t, store.limiters, "public:203.0.113.4")
	require.Contains(t, store.limiters, "public:203.0.113.5")
	require.Contains(t, store.limiters, "public:203.0.113.6")
}

func TestPublicTierDisabledWhenZero(t *testing.T) {
	limit := RateLimit(config.RateLimitConfig{})(okHandler())

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("GET", "/blog", nil)
		req.RemoteAddr = "203.0.113.4:1000"
		rec := httptest.NewRecorder()
		limit.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
