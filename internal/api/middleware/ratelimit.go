package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/oornnery/site/internal/config"
	"golang.org/x/time/rate"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	TierLogin  RateLimitTier = "login"
)

const rateLimitTierKey contextKey = "rate_limit_tier"

func WithRateLimitTier(tier RateLimitTier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), rateLimitTierKey, tier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit applies per-client token buckets. The login tier is much
// tighter than the public tier to slow down credential stuffing.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
				next.ServeHTTP(w, r)
				return
			}

			tier := TierPublic
			if value, ok := r.Context().Value(rateLimitTierKey).(RateLimitTier); ok {
				tier = value
			}

			limiter := store.limiter(tier, clientIP(r))
			if limiter != nil && !limiter.Allow() {
				retryAfter := "60"
				if tier == TierLogin {
					retryAfter = "180"
				}
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const (
	limiterIdleTTL       = 15 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perMinute map[RateLimitTier]int
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg config.RateLimitConfig) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*limiterEntry),
		perMinute: map[RateLimitTier]int{
			TierPublic: cfg.PublicPerMinute,
			TierLogin:  cfg.LoginPerMinute,
		},
		lastSweep: time.Now(),
	}
}

func (s *limiterStore) limiter(tier RateLimitTier, key string) *rate.Limiter {
	limit := s.perMinute[tier]
	if limit <= 0 {
		return nil
	}

	lookup := string(tier) + ":" + key

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) >= limiterSweepInterval {
		s.sweepLocked(now)
	}

	if entry, ok := s.limiters[lookup]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	var limiter *rate.Limiter
	if tier == TierLogin {
		// Burst of `limit` attempts, then one token every 3 minutes.
		limiter = rate.NewLimiter(rate.Every(3*time.Minute), limit)
	} else {
		interval := time.Minute / time.Duration(limit)
		limiter = rate.NewLimiter(rate.Every(interval), limit)
	}

	s.limiters[lookup] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// sweepLocked drops limiters not seen within the idle TTL so the map
// cannot grow without bound. It runs inline on lookups at most once per
// sweep interval; there is no background goroutine to manage.
func (s *limiterStore) sweepLocked(now time.Time) {
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(s.limiters, key)
		}
	}
	s.lastSweep = now
}
