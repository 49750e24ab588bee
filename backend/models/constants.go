// ABOUTME: Unit multipliers, input ranges, defaults, and process constants
// ABOUTME: Shared read-only by the sizing services, handlers, and CLI

package models

// Units. K and M are decimal (rates, counts); KB, MB, GB are binary (memory).
const (
	K  = 1000
	M  = K * 1000
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// Range is an inclusive [Min, Max] interval for an input parameter.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Input ranges. Values outside them produce advisory warnings, not errors.
var (
	QPSRange           = Range{Min: 1, Max: 100 * M}
	ConnectionRange    = Range{Min: 1, Max: 500 * K}
	ItemSizeRange      = Range{Min: 8, Max: 16 * MB}
	KeyCountRange      = Range{Min: 1 * K, Max: 10 * M}
	FailureDomainRange = Range{Min: 0.1, Max: 100} // percent
	HashOccupancyRange = Range{Min: 0.1, Max: 2}   // keys per hash bucket
	SegmentSizeRange   = Range{Min: 4 * KB, Max: 2 * GB}
)

// Defaults used when a caller does not override a parameter.
const (
	DefaultQPS           = 1 * M
	DefaultConnections   = 500
	DefaultItemSize      = 64
	DefaultKeyCount      = 100 * K
	DefaultFailureDomain = 5.0 // 5% of the fleet may be lost at once
	DefaultHashOccupancy = 0.75
	DefaultSegmentSize   = 1 * MB
)

// DefaultRAMCandidatesGB are the container RAM tiers considered by default.
var DefaultRAMCandidatesGB = []float64{4, 8}

// Connection and process overheads.
const (
	ConnOverheadBytes    = 33 * KB // two 16KiB buffers, one channel, stream overhead
	TLSConnOverheadBytes = 64 * KB // two 32KiB buffers, one channel, stream overhead
	SafetyBufferMB       = 128
	BaseOverheadMB       = 10

	// PerInstanceQPS is far below single-instance peak so ~10 jobs fit per host.
	PerInstanceQPS = 60 * K

	KeyValAlignment = 8 // bytes
)

// Per-job allocation.
const (
	CPUPerJob                = 2.0
	DiskPerJobGB             = 3
	InstanceWarningThreshold = 10000
)
