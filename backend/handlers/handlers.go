// ABOUTME: HTTP handlers for the capacity calculator API endpoints
// ABOUTME: Shared handler state plus JSON request and response helpers

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pelikan-io/capacity-calculator/backend/cache"
	"github.com/pelikan-io/capacity-calculator/backend/config"
	"github.com/pelikan-io/capacity-calculator/backend/middleware"
	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/backend/services"
)

// Version is reported by the health endpoint. Overridden at build time with
// -ldflags "-X .../backend/handlers.Version=...".
var Version = "dev"

const defaultMaxRequestBody = 1 << 20

type Handler struct {
	cfg           *config.Config
	cache         *cache.Cache
	clusterCalc   *services.ClusterCalculator
	footprintCalc *services.FootprintCalculator
}

// NewHandler creates a Handler. Both arguments may be nil in tests: a nil
// config means built-in defaults and a nil cache disables result caching.
func NewHandler(cfg *config.Config, cache *cache.Cache) *Handler {
	return &Handler{
		cfg:           cfg,
		cache:         cache,
		clusterCalc:   services.NewClusterCalculator(),
		footprintCalc: services.NewFootprintCalculator(),
	}
}

func (h *Handler) maxRequestBody() int64 {
	if h.cfg != nil && h.cfg.MaxRequestBody > 0 {
		return h.cfg.MaxRequestBody
	}
	return defaultMaxRequestBody
}

func (h *Handler) defaultRAMCandidates() []float64 {
	src := models.DefaultRAMCandidatesGB
	if h.cfg != nil && len(h.cfg.DefaultRAMCandidatesGB) > 0 {
		src = h.cfg.DefaultRAMCandidatesGB
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// decodeJSON reads a size-limited JSON body into dst. Fields absent from the
// body keep whatever dst already holds.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBody())
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return err
	}
	return nil
}

// cached runs load through the result cache when one is configured. reused
// is true when this request was served without calling load itself.
func (h *Handler) cached(namespace string, key interface{}, load func() (interface{}, error)) (v interface{}, reused bool, err error) {
	if h.cache == nil {
		v, err = load()
		return v, false, err
	}
	k, err := cache.KeyFor(namespace, key)
	if err != nil {
		slog.Warn("Cache key unavailable, computing directly", "namespace", namespace, "error", err)
		v, err = load()
		return v, false, err
	}

	loaded := false
	v, err = h.cache.GetOrLoad(k, func() (interface{}, error) {
		loaded = true
		return load()
	})
	return v, !loaded, err
}

// logReusedAdvisories logs the warnings of a result the calculator did not
// recompute for this request. Fresh results are logged by the calculator.
func logReusedAdvisories(r *http.Request, op string, warnings []models.SizingWarning) {
	for _, w := range warnings {
		slog.Warn("Sizing advisory",
			"operation", op,
			"code", w.Code,
			"severity", w.Severity,
			"message", w.Message,
			"request_id", middleware.RequestID(r.Context()),
			"cached", true,
		)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	writeError(w, message, "", code)
}

// writeServiceError maps calculator errors onto HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrDatasetDoesNotFit):
		writeError(w, "Dataset does not fit", err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("Sizing failed", "error", err)
		writeError(w, "Internal error", "", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, message, details string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
