// ABOUTME: chi router assembled from the declarative route table
// ABOUTME: Applies logging, CORS, and rate limiting to every request

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pelikan-io/capacity-calculator/backend/config"
	"github.com/pelikan-io/capacity-calculator/backend/middleware"
)

// NewRouter registers every route from h.Routes() on a chi mux. Middleware
// wraps the whole mux so CORS preflight is answered before method routing.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	var limiter *middleware.RateLimiter
	var origins []string
	if cfg != nil {
		origins = cfg.CORSAllowedOrigins
		if cfg.RateLimitEnabled {
			limiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		}
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return middleware.Chain(next.ServeHTTP,
			middleware.LogRequest,
			middleware.CORSWithConfig(origins),
			middleware.RateLimit(limiter, rateLimitKey),
		)
	})

	for _, route := range h.Routes() {
		r.Method(route.Method, route.Path, route.Handler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// rateLimitKey exempts the health probe and keys everything else by client.
func rateLimitKey(r *http.Request) string {
	if r.URL.Path == healthPath {
		return ""
	}
	return middleware.ClientIP(r)
}
