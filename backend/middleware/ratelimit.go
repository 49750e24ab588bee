// ABOUTME: Per-client rate limiting for the sizing API
// ABOUTME: Fixed-window quotas reported through RateLimit-* response headers

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

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int           // requests left in the current window
	Reset     time.Duration // until the current window ends
}

type window struct {
	used  int
	start time.Time
}

// RateLimiter gives every key limit requests per period. Windows are
// aligned to each key's first request.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	period    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it fits the quota.
// Denied requests do not consume quota.
func (rl *RateLimiter) Allow(key string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.period {
		rl.sweep(now)
		rl.lastSweep = now
	}

	w, ok := rl.windows[key]
	// The boundary instant opens a new window, so a denial never carries a zero reset.
	if !ok || !now.Before(w.start.Add(rl.period)) {
		w = &window{start: now}
		rl.windows[key] = w
	}

	d := Decision{Limit: rl.limit, Reset: w.start.Add(rl.period).Sub(now)}
	if w.used >= rl.limit {
		return d
	}
	w.used++
	d.Allowed = true
	d.Remaining = rl.limit - w.used
	return d
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// sweep drops windows that have ended. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.start.Add(rl.period)) {
			delete(rl.windows, k)
		}
	}
}

// ClientIP keys a request by the leftmost X-Forwarded-For address, falling
// back to RemoteAddr. The header is trusted, so the service must sit behind
// a proxy that sets it.
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

// RateLimit enforces limiter per keyFunc(r). A nil limiter disables the
// middleware; an empty key exempts the request.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			d := limiter.Allow(key)
			reset := int(math.Ceil(d.Reset.Seconds()))
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(reset))

			if d.Allowed {
				next(w, r)
				return
			}

			slog.Warn("Rate limit exceeded", "key", key, "path", r.URL.Path, "retry_after", reset)
			h.Set("Retry-After", strconv.Itoa(reset))
			writeJSONError(w, "Rate limit exceeded", http.StatusTooManyRequests)
		}
	}
}
