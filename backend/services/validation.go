// ABOUTME: Input validation for sizing and footprint requests
// ABOUTME: Rejects undefined inputs and turns out-of-range values into advisories

package services

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// ErrInvalidRequest wraps every rejection of an input the arithmetic cannot handle.
var ErrInvalidRequest = errors.New("invalid request")

// ErrDatasetDoesNotFit means no candidate RAM tier has room for any data once
// fixed, connection, and hash overheads are reserved.
var ErrDatasetDoesNotFit = errors.New("dataset does not fit any candidate tier")

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// resolveFlavor returns the profile for f, accepting legacy aliases.
func resolveFlavor(f models.Flavor) (models.FlavorProfile, error) {
	parsed, err := models.ParseFlavor(string(f))
	if err != nil {
		return models.FlavorProfile{}, invalid("unknown flavor %q", sanitizeForLog(string(f)))
	}
	p, _ := parsed.Profile()
	return p, nil
}

// ValidateSizingRequest rejects inputs outside the domain of the sizing
// arithmetic and returns advisories for inputs outside their documented range.
// The failure domain is never clamped: callers get a warning and the value is
// used as supplied.
func ValidateSizingRequest(req models.SizingRequest) (models.FlavorProfile, []models.SizingWarning, error) {
	profile, err := resolveFlavor(req.Flavor)
	if err != nil {
		return profile, nil, err
	}

	switch {
	case !(req.QPS > 0):
		return profile, nil, invalid("qps must be positive, got %g", req.QPS)
	case !(req.FailureDomainPercent > 0):
		return profile, nil, invalid("failure_domain_percent must be positive, got %g", req.FailureDomainPercent)
	case req.ConnectionCount < 0:
		return profile, nil, invalid("connection_count must not be negative, got %d", req.ConnectionCount)
	}

	var warnings []models.SizingWarning
	if !models.FailureDomainRange.Contains(req.FailureDomainPercent) {
		warnings = append(warnings, models.SizingWarning{
			Severity: "critical",
			Code:     models.WarnFailureDomainRange,
			Message: fmt.Sprintf("failure domain should be between %.1f%% and %.1f%%, got %g%%; value used as supplied",
				models.FailureDomainRange.Min, models.FailureDomainRange.Max, req.FailureDomainPercent),
		})
	}
	warnings = appendRangeWarning(warnings, "qps", req.QPS, models.QPSRange)
	warnings = appendRangeWarning(warnings, "connection_count", float64(req.ConnectionCount), models.ConnectionRange)

	if !profile.StoresData {
		return profile, warnings, nil
	}

	switch {
	case req.ItemSize <= 0:
		return profile, nil, invalid("item_size must be positive, got %d", req.ItemSize)
	case req.KeyCount <= 0:
		return profile, nil, invalid("key_count must be positive, got %d", req.KeyCount)
	case len(req.RAMCandidatesGB) == 0:
		return profile, nil, invalid("ram_candidates_gb must not be empty")
	}
	for _, gb := range req.RAMCandidatesGB {
		if !(gb > 0) {
			return profile, nil, invalid("ram_candidates_gb values must be positive, got %g", gb)
		}
	}

	warnings = appendRangeWarning(warnings, "item_size", float64(req.ItemSize), models.ItemSizeRange)
	warnings = appendRangeWarning(warnings, "key_count", float64(req.KeyCount), models.KeyCountRange)

	return profile, warnings, nil
}

// ValidateFootprintRequest is the single-instance counterpart of ValidateSizingRequest.
func ValidateFootprintRequest(req models.FootprintRequest) (models.FlavorProfile, []models.SizingWarning, error) {
	flavor := req.Flavor
	if flavor == "" {
		flavor = models.FlavorCache
	}
	profile, err := resolveFlavor(flavor)
	if err != nil {
		return profile, nil, err
	}

	switch {
	case req.ItemSize <= 0:
		return profile, nil, invalid("item_size must be positive, got %d", req.ItemSize)
	case req.KeyCount <= 0:
		return profile, nil, invalid("key_count must be positive, got %d", req.KeyCount)
	case req.HashOccupancy < 0 || math.IsNaN(req.HashOccupancy):
		return profile, nil, invalid("hash_occupancy must not be negative, got %g", req.HashOccupancy)
	case req.SegmentSize < 0:
		return profile, nil, invalid("segment_size must not be negative, got %d", req.SegmentSize)
	}

	var warnings []models.SizingWarning
	warnings = appendRangeWarning(warnings, "item_size", float64(req.ItemSize), models.ItemSizeRange)
	warnings = appendRangeWarning(warnings, "key_count", float64(req.KeyCount), models.KeyCountRange)
	if req.HashOccupancy > 0 {
		warnings = appendRangeWarning(warnings, "hash_occupancy", req.HashOccupancy, models.HashOccupancyRange)
	}
	if req.SegmentSize > 0 {
		warnings = appendRangeWarning(warnings, "segment_size", float64(req.SegmentSize), models.SegmentSizeRange)
	}

	return profile, warnings, nil
}

func appendRangeWarning(warnings []models.SizingWarning, name string, v float64, r models.Range) []models.SizingWarning {
	if r.Contains(v) {
		return warnings
	}
	return append(warnings, models.SizingWarning{
		Severity: "warning",
		Code:     models.WarnInputRange,
		Message:  fmt.Sprintf("%s %g is outside the supported range [%g, %g]", name, v, r.Min, r.Max),
	})
}

// logWarnings sends advisories to the operator log.
func logWarnings(op string, warnings []models.SizingWarning) {
	for _, w := range warnings {
		slog.Warn("Sizing advisory", "operation", op, "code", w.Code, "severity", w.Severity, "message", w.Message)
	}
}
