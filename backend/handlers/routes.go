// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

const healthPath = "/api/v1/health"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & metadata
		{Method: http.MethodGet, Path: healthPath, Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/defaults", Handler: h.Defaults},
		{Method: http.MethodGet, Path: "/api/v1/flavors", Handler: h.Flavors},

		// Sizing
		{Method: http.MethodPost, Path: "/api/v1/sizing/cluster", Handler: h.SizeCluster},
		{Method: http.MethodPost, Path: "/api/v1/sizing/footprint", Handler: h.Footprint},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
