// ABOUTME: API envelope models shared by handlers and the CLI client
// ABOUTME: Health, defaults, and error response structures

package models

import "time"

// HealthResponse reports service status.
type HealthResponse struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	CacheEntries int       `json:"cache_entries"`
	Timestamp    time.Time `json:"timestamp"`
}

// InputRanges lists the documented range of every input parameter.
type InputRanges struct {
	QPS           Range `json:"qps"`
	Connections   Range `json:"connection_count"`
	ItemSize      Range `json:"item_size"`
	KeyCount      Range `json:"key_count"`
	FailureDomain Range `json:"failure_domain_percent"`
	HashOccupancy Range `json:"hash_occupancy"`
	SegmentSize   Range `json:"segment_size"`
}

// DefaultsResponse is the payload of the defaults endpoint.
type DefaultsResponse struct {
	Sizing    SizingRequest    `json:"sizing"`
	Footprint FootprintRequest `json:"footprint"`
	Ranges    InputRanges      `json:"ranges"`
}

// DocumentedRanges returns the input ranges as a single value.
func DocumentedRanges() InputRanges {
	return InputRanges{
		QPS:           QPSRange,
		Connections:   ConnectionRange,
		ItemSize:      ItemSizeRange,
		KeyCount:      KeyCountRange,
		FailureDomain: FailureDomainRange,
		HashOccupancy: HashOccupancyRange,
		SegmentSize:   SegmentSizeRange,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
