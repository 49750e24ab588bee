// ABOUTME: HTTP handlers for cluster sizing, footprint, defaults, and flavors
// ABOUTME: Fills request defaults, runs the calculators through the result cache

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pelikan-io/capacity-calculator/backend/middleware"
	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// SizeCluster sizes a cluster for the posted workload. Omitted fields take
// the documented defaults.
func (h *Handler) SizeCluster(w http.ResponseWriter, r *http.Request) {
	req := models.DefaultSizingRequest(models.FlavorCache)
	req.RAMCandidatesGB = h.defaultRAMCandidates()

	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if f, err := models.ParseFlavor(string(req.Flavor)); err == nil {
		req.Flavor = f
	}

	v, reused, err := h.cached("cluster", req, func() (interface{}, error) {
		return h.clusterCalc.Calculate(req)
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	result := v.(models.CalculationResult)
	if reused {
		logReusedAdvisories(r, "cluster", result.Warnings)
	}

	slog.Debug("Cluster sizing served",
		"request_id", middleware.RequestID(r.Context()),
		"instances", result.Allocation.InstanceCount,
		"bottleneck", result.Bottleneck,
	)
	h.writeJSON(w, http.StatusOK, result)
}

// Footprint computes the memory footprint of a single instance.
func (h *Handler) Footprint(w http.ResponseWriter, r *http.Request) {
	req := models.DefaultFootprintRequest()

	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if f, err := models.ParseFlavor(string(req.Flavor)); err == nil {
		req.Flavor = f
	}

	v, reused, err := h.cached("footprint", req, func() (interface{}, error) {
		return h.footprintCalc.Calculate(req)
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	result := v.(models.FootprintResult)
	if reused {
		logReusedAdvisories(r, "footprint", result.Warnings)
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Defaults returns the default requests and documented input ranges.
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	sizing := models.DefaultSizingRequest(models.FlavorCache)
	sizing.RAMCandidatesGB = h.defaultRAMCandidates()

	h.writeJSON(w, http.StatusOK, models.DefaultsResponse{
		Sizing:    sizing,
		Footprint: models.DefaultFootprintRequest(),
		Ranges:    models.DocumentedRanges(),
	})
}

// Flavors returns the overhead profile of every supported flavor.
func (h *Handler) Flavors(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.Profiles())
}
