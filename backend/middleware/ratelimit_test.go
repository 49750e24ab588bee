// ABOUTME: Unit tests for rate limiting middleware
// ABOUTME: Tests quota accounting, key extraction, and response headers

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move the limiter through window boundaries.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, period time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, period)
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_Quota(t *testing.T) {
	rl, clock := newTestLimiter(3, time.Minute)

	tests := []struct {
		name          string
		wantAllowed   bool
		wantRemaining int
	}{
		{"first", true, 2},
		{"second", true, 1},
		{"third", true, 0},
		{"over quota", false, 0},
		{"still over quota", false, 0},
	}

	for _, tt := range tests {
		d := rl.Allow("client")
		if d.Allowed != tt.wantAllowed || d.Remaining != tt.wantRemaining {
			t.Errorf("%s: got allowed=%v remaining=%d, want allowed=%v remaining=%d",
				tt.name, d.Allowed, d.Remaining, tt.wantAllowed, tt.wantRemaining)
		}
		if d.Limit != 3 {
			t.Errorf("%s: expected limit 3, got %d", tt.name, d.Limit)
		}
		clock.advance(time.Second)
	}
}

func TestRateLimiter_ResetCountsDown(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)

	if d := rl.Allow("client"); d.Reset != time.Minute {
		t.Errorf("expected full window on first request, got %v", d.Reset)
	}
	clock.advance(20 * time.Second)
	if d := rl.Allow("client"); d.Allowed || d.Reset != 40*time.Second {
		t.Errorf("expected denial with 40s reset, got %+v", d)
	}
}

func TestRateLimiter_WindowBoundaryStartsNewWindow(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)

	rl.Allow("client")
	clock.advance(time.Minute)

	d := rl.Allow("client")
	if !d.Allowed {
		t.Fatal("expected the boundary instant to open a new window")
	}
	if d.Reset != time.Minute {
		t.Errorf("expected a full new window, got %v", d.Reset)
	}
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	if !rl.Allow("a").Allowed {
		t.Error("first request for a should pass")
	}
	if !rl.Allow("b").Allowed {
		t.Error("b should have its own quota")
	}
	if rl.Allow("a").Allowed {
		t.Error("second request for a should be denied")
	}
}

func TestRateLimiter_SweepDropsEndedWindows(t *testing.T) {
	rl, clock := newTestLimiter(5, time.Minute)

	for i := 0; i < 50; i++ {
		rl.Allow(fmt.Sprintf("key-%d", i))
	}
	if rl.Len() != 50 {
		t.Fatalf("expected 50 tracked keys, got %d", rl.Len())
	}

	clock.advance(2 * time.Minute)
	rl.Allow("fresh")

	if rl.Len() != 1 {
		t.Errorf("expected ended windows to be swept, got %d keys", rl.Len())
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed requests, got %d", allowed)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name     string
		xff      string
		remote   string
		expected string
	}{
		{"single forwarded IP", "203.0.113.1", "", "ip:203.0.113.1"},
		{"leftmost forwarded IP", "203.0.113.1, 198.51.100.1, 10.0.0.1", "", "ip:203.0.113.1"},
		{"forwarded IP with spaces", "  203.0.113.1 , 10.0.0.1 ", "", "ip:203.0.113.1"},
		{"garbage header falls back", "not-an-ip", "10.0.0.5:9999", "ip:10.0.0.5"},
		{"no header uses RemoteAddr", "", "192.168.1.1:12345", "ip:192.168.1.1"},
		{"RemoteAddr without port", "", "192.168.1.1", "ip:192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}

			if key := ClientIP(r); key != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", key, tt.expected)
			}
		})
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	tests := []struct {
		name    string
		limiter *RateLimiter
		keyFunc func(*http.Request) string
	}{
		{"nil limiter", nil, ClientIP},
		{"nil key func", NewRateLimiter(1, time.Minute), nil},
		{"empty key", NewRateLimiter(1, time.Minute), func(*http.Request) string { return "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := RateLimit(tt.limiter, tt.keyFunc)(okHandler)
			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				wrapped(w, httptest.NewRequest(http.MethodPost, "/api/v1/sizing/cluster", nil))
				if w.Code != http.StatusOK {
					t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
				}
				if w.Header().Get("RateLimit-Limit") != "" {
					t.Error("expected no quota headers when the limit does not apply")
				}
			}
		})
	}
}

func TestRateLimitMiddleware_HeadersAnd429(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	wrapped := RateLimit(rl, ClientIP)(okHandler)

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/sizing/cluster", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		wrapped(w, r)
		return w
	}

	w := send()
	if w.Code != http.StatusOK {
		t.Fatalf("first request should be 200, got %d", w.Code)
	}
	if w.Header().Get("RateLimit-Limit") != "1" || w.Header().Get("RateLimit-Remaining") != "0" {
		t.Errorf("unexpected quota headers %v", w.Header())
	}
	if w.Header().Get("RateLimit-Reset") != "60" {
		t.Errorf("expected reset 60, got %q", w.Header().Get("RateLimit-Reset"))
	}

	w = send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["error"] != "Rate limit exceeded" || body["code"] != float64(http.StatusTooManyRequests) {
		t.Errorf("unexpected body %v", body)
	}
}
