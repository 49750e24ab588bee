// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service status, build version, and cache occupancy

package handlers

import (
	"net/http"
	"time"

	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// Health returns API health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		Version:   Version,
		Timestamp: time.Now().UTC(),
	}
	if h.cache != nil {
		resp.CacheEntries = h.cache.Len()
	}

	h.writeJSON(w, http.StatusOK, resp)
}
