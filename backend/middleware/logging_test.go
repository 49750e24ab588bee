// ABOUTME: Tests for request logging middleware
// ABOUTME: Covers path sanitization on API routes and correlation IDs

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cluster route", "/api/v1/sizing/cluster", "/api/v1/sizing/cluster"},
		{"footprint route", "/api/v1/sizing/footprint", "/api/v1/sizing/footprint"},
		{"escaped slash kept", "/api/v1/flavors%2Fsegcache", "/api/v1/flavors%2Fsegcache"},
		{"unicode kept", "/api/v1/sizing/clüster", "/api/v1/sizing/clüster"},
		{
			name:  "forged completion line",
			input: "/api/v1/sizing/cluster\nlevel=INFO msg=\"Request completed\" status=200",
			want:  "/api/v1/sizing/clusterlevel=INFO msg=\"Request completed\" status=200",
		},
		{"CRLF before health", "/api/v1/sizing/footprint\r\n/api/v1/health", "/api/v1/sizing/footprint/api/v1/health"},
		{"tab and NUL", "/api/v1/\tdefaults\x00", "/api/v1/defaults"},
		{"ANSI colour around flavor", "/api/v1/flavors\x1b[31mpingserver\x1b[0m", "/api/v1/flavors[31mpingserver[0m"},
		{"DEL", "/api/v1/openapi.yaml\x7f", "/api/v1/openapi.yaml"},
		{"only control characters", "\r\n\t", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizePath(tt.input); got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogRequest_LogsSanitizedPath(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sizing/cluster", nil)
	req.URL.Path = "/api/v1/sizing/cluster\nforged"
	handler(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected start and completion lines, got %d:\n%s", len(lines), buf.String())
	}

	var done struct {
		Msg    string `json:"msg"`
		Path   string `json:"path"`
		Status int    `json:"status"`
		ID     string `json:"request_id"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &done); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}
	if done.Msg != "Request completed" || done.Status != http.StatusUnprocessableEntity {
		t.Errorf("Unexpected completion entry %+v", done)
	}
	if done.Path != "/api/v1/sizing/clusterforged" {
		t.Errorf("Logged path = %q, want control characters stripped", done.Path)
	}
	if done.ID == "" {
		t.Error("Expected request_id on completion entry")
	}
}

func TestLogRequest_SetsRequestIDHeader(t *testing.T) {
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	requestID := rec.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Error("X-Request-ID header should be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID: %v", requestID, err)
	}
}

func TestLogRequest_CapturesStatusCode(t *testing.T) {
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestLogRequest_RequestIDInContext(t *testing.T) {
	var seen string
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if seen == "" {
		t.Fatal("Expected request ID in handler context")
	}
	if seen != rec.Header().Get("X-Request-ID") {
		t.Errorf("Context ID %q does not match header %q", seen, rec.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_MissingReturnsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := RequestID(req.Context()); id != "" {
		t.Errorf("Expected empty ID, got %q", id)
	}
}
