// ABOUTME: Rate limiting middleware with fixed-window counters
// ABOUTME: Provides per-route rate limits keyed by client IP, with a stricter tier for writes

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// window counts one client's requests until resetAt
type window struct {
	hits    int
	resetAt time.Time
}

// RateLimiter allows at most limit requests per key in each fixed window.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	period    time.Duration
	clients   map[string]window
	nextSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a rate limiter that allows limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		clients: make(map[string]window),
		now:     time.Now,
	}
}

// Allow records a request for key. When the key is over its limit it returns
// false and the time left until its window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		rl.clients[key] = window{hits: 1, resetAt: now.Add(rl.period)}
		return true, 0
	}
	if w.hits >= rl.limit {
		return false, w.resetAt.Sub(now)
	}
	w.hits++
	rl.clients[key] = w
	return true, 0
}

// Len returns the number of clients currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// sweep drops expired windows at most once per period. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Before(rl.nextSweep) {
		return
	}
	for k, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, k)
		}
	}
	rl.nextSweep = now.Add(rl.period)
}

// Tiers pairs the limiter for reads with the stricter one for writes.
// A nil *Tiers, or a nil limiter within it, disables limiting for that tier.
type Tiers struct {
	Read  *RateLimiter
	Write *RateLimiter
}

// NewTiers builds both tiers over the same period.
func NewTiers(readLimit, writeLimit int, period time.Duration) *Tiers {
	return &Tiers{
		Read:  NewRateLimiter(readLimit, period),
		Write: NewRateLimiter(writeLimit, period),
	}
}

// For returns the limiter that applies to method.
func (t *Tiers) For(method string) *RateLimiter {
	if t == nil {
		return nil
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return t.Write
	}
	return t.Read
}

// ClientIP keys requests by the leftmost valid X-Forwarded-For address, or by
// RemoteAddr without its port. X-Forwarded-For is trusted, so the service is
// expected to sit behind an ingress that sets it.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

// RateLimit returns middleware that charges each request to the tier for its
// method. Requests pass through when the tier is disabled or keyFunc returns "".
func RateLimit(tiers *Tiers, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			limiter := tiers.For(r.Method)
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, retryAfter := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			retrySeconds := max(int(math.Ceil(retryAfter.Seconds())), 1)
			slog.Warn("Rate limit exceeded", "key", key, "method", r.Method, "path", sanitizePath(r.URL.Path), "retry_after", retrySeconds)

			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			writeJSONErrorBody(w, http.StatusTooManyRequests, map[string]any{
				"error":       "Rate limit exceeded",
				"code":        http.StatusTooManyRequests,
				"retry_after": retrySeconds,
			})
		}
	}
}
