// ABOUTME: Tests for route table definitions
// ABOUTME: Verifies all routes have required fields, no duplicates, and documentation

package handlers

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestRoutes_AllRoutesHaveRequiredFields(t *testing.T) {
	h := NewHandler(nil, nil)
	routes := h.Routes()

	if len(routes) == 0 {
		t.Fatal("Routes() returned empty slice")
	}

	for i, route := range routes {
		if route.Method == "" {
			t.Errorf("Route %d: Method is empty", i)
		}
		if route.Path == "" {
			t.Errorf("Route %d: Path is empty", i)
		}
		if route.Handler == nil {
			t.Errorf("Route %d: Handler is nil", i)
		}
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			t.Errorf("Route %d: Path %q must start with /api/v1/", i, route.Path)
		}
	}
}

func TestRoutes_NoDuplicatePaths(t *testing.T) {
	h := NewHandler(nil, nil)
	routes := h.Routes()

	seen := make(map[string]bool)
	for _, route := range routes {
		key := route.Method + " " + route.Path
		if seen[key] {
			t.Errorf("Duplicate route: %s", key)
		}
		seen[key] = true
	}
}

func TestRoutes_ExpectedEndpoints(t *testing.T) {
	h := NewHandler(nil, nil)
	routes := h.Routes()

	expected := map[string]bool{
		"GET /api/v1/health":            false,
		"GET /api/v1/defaults":          false,
		"GET /api/v1/flavors":           false,
		"POST /api/v1/sizing/cluster":   false,
		"POST /api/v1/sizing/footprint": false,
		"GET /api/v1/openapi.yaml":      false,
	}

	for _, route := range routes {
		key := route.Method + " " + route.Path
		if _, ok := expected[key]; ok {
			expected[key] = true
		}
	}

	for key, found := range expected {
		if !found {
			t.Errorf("Missing expected route: %s", key)
		}
	}
}

func TestRoutes_DocumentedInOpenAPI(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]interface{} `yaml:"paths"`
	}
	if err := yaml.Unmarshal(openapiSpec, &doc); err != nil {
		t.Fatalf("openapi.yaml does not parse: %v", err)
	}

	h := NewHandler(nil, nil)
	for _, route := range h.Routes() {
		ops, ok := doc.Paths[route.Path]
		if !ok {
			t.Errorf("Path %s missing from openapi.yaml", route.Path)
			continue
		}
		if _, ok := ops[strings.ToLower(route.Method)]; !ok {
			t.Errorf("%s %s missing from openapi.yaml", route.Method, route.Path)
		}
	}
}
