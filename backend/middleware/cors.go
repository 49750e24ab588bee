// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Echoes allow-listed origins and answers OPTIONS preflight directly

package middleware

import "net/http"

// CORSWithConfig returns middleware that adds CORS headers for origins in
// allowedOrigins. Other origins get no CORS headers, so browsers block them.
// OPTIONS preflight requests are answered with 204 without calling the
// wrapped handler.
func CORSWithConfig(allowedOrigins []string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
