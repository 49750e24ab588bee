// ABOUTME: YAML workload files for non-interactive sizing runs
// ABOUTME: Fields present in the file override request defaults; absent fields are left alone

package workload

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// Workload is the on-disk description of a cache workload. Pointer fields
// distinguish "not set" from zero.
type Workload struct {
	Flavor          string    `yaml:"flavor"`
	TLS             *bool     `yaml:"tls"`
	QPS             *float64  `yaml:"qps"`
	ItemSize        *int      `yaml:"item_size"`
	KeyCount        *int      `yaml:"key_count"`
	ConnectionCount *int      `yaml:"connection_count"`
	FailureDomain   *float64  `yaml:"failure_domain_percent"`
	RAMCandidatesGB []float64 `yaml:"ram_candidates_gb"`
	HashOccupancy   *float64  `yaml:"hash_occupancy"`
	SegmentSize     *int64    `yaml:"segment_size"`
}

// Load reads and parses a workload file.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Parse decodes a workload document. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func Parse(data []byte) (*Workload, error) {
	var w Workload
	if err := yaml.UnmarshalWithOptions(data, &w, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("invalid workload: %s", yaml.FormatError(err, false, true))
	}
	if w.Flavor != "" {
		f, err := models.ParseFlavor(w.Flavor)
		if err != nil {
			return nil, fmt.Errorf("invalid workload: %w", err)
		}
		w.Flavor = string(f)
	}
	return &w, nil
}

// ApplySizing overwrites the fields of req that the workload sets.
func (w *Workload) ApplySizing(req *models.SizingRequest) {
	if w.Flavor != "" {
		req.Flavor = models.Flavor(w.Flavor)
	}
	if w.TLS != nil {
		req.TLS = *w.TLS
	}
	if w.QPS != nil {
		req.QPS = *w.QPS
	}
	if w.ItemSize != nil {
		req.ItemSize = *w.ItemSize
	}
	if w.KeyCount != nil {
		req.KeyCount = *w.KeyCount
	}
	if w.ConnectionCount != nil {
		req.ConnectionCount = *w.ConnectionCount
	}
	if w.FailureDomain != nil {
		req.FailureDomainPercent = *w.FailureDomain
	}
	if len(w.RAMCandidatesGB) > 0 {
		req.RAMCandidatesGB = append([]float64(nil), w.RAMCandidatesGB...)
	}
}

// ApplyFootprint overwrites the fields of req that the workload sets.
// Cluster-only fields are ignored.
func (w *Workload) ApplyFootprint(req *models.FootprintRequest) {
	if w.Flavor != "" {
		req.Flavor = models.Flavor(w.Flavor)
	}
	if w.ItemSize != nil {
		req.ItemSize = *w.ItemSize
	}
	if w.KeyCount != nil {
		req.KeyCount = *w.KeyCount
	}
	if w.HashOccupancy != nil {
		req.HashOccupancy = *w.HashOccupancy
	}
	if w.SegmentSize != nil {
		req.SegmentSize = *w.SegmentSize
	}
}
