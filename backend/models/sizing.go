// ABOUTME: Request and result models for cluster sizing and single-node footprint
// ABOUTME: JSON-serializable value objects built fresh for every calculation

package models

// SizingRequest describes the workload a cluster must serve.
type SizingRequest struct {
	QPS                  float64   `json:"qps"`
	ItemSize             int       `json:"item_size"` // key+value bytes
	KeyCount             int       `json:"key_count"`
	ConnectionCount      int       `json:"connection_count"` // per server
	FailureDomainPercent float64   `json:"failure_domain_percent"`
	RAMCandidatesGB      []float64 `json:"ram_candidates_gb"`
	Flavor               Flavor    `json:"flavor"`
	TLS                  bool      `json:"tls"`
}

// FootprintRequest describes a single cache instance.
type FootprintRequest struct {
	ItemSize      int     `json:"item_size"`
	KeyCount      int     `json:"key_count"`
	HashOccupancy float64 `json:"hash_occupancy,omitempty"` // 0 means one key per bucket
	SegmentSize   int64   `json:"segment_size,omitempty"`   // informational only
	Flavor        Flavor  `json:"flavor,omitempty"`
}

// HashSizing is the bucket array shape and memory of a hash table.
type HashSizing struct {
	BucketExponent int   `json:"bucket_exponent"` // bucket count = 2^BucketExponent
	HashMemoryMB   int64 `json:"hash_memory_mb"`
}

// Bottleneck is the resource dimension that fixed the instance count.
type Bottleneck string

const (
	BottleneckThroughput     Bottleneck = "throughput"
	BottleneckFaultTolerance Bottleneck = "fault-tolerance"
	BottleneckMemory         Bottleneck = "memory"
)

// StorageAllocation is the per-job data layout for data-storing flavors.
type StorageAllocation struct {
	HashBucketExponent int     `json:"hash_bucket_exponent"`
	HashMemoryMB       int64   `json:"hash_memory_mb"`
	SegmentMemoryMB    float64 `json:"segment_memory_mb"`
}

// JobAllocation is the per-job resource shape and the number of jobs.
type JobAllocation struct {
	CPUCores      float64            `json:"cpu_cores"`
	RAMGB         float64            `json:"ram_gb"`
	DiskGB        int                `json:"disk_gb"`
	InstanceCount int                `json:"instance_count"`
	Storage       *StorageAllocation `json:"storage,omitempty"`
}

// TierEstimate is the memory-bound instance estimate for one RAM tier.
type TierEstimate struct {
	RAMGB           float64 `json:"ram_gb"`
	EstimatedHashMB int64   `json:"estimated_hash_mb"`
	Instances       int     `json:"instances"` // 0 when infeasible
	Feasible        bool    `json:"feasible"`
	Selected        bool    `json:"selected"`
}

// SizingAnalysis exposes the intermediate quantities behind a result.
type SizingAnalysis struct {
	InstancesForThroughput     int            `json:"instances_for_throughput"`
	InstancesForFaultTolerance int            `json:"instances_for_fault_tolerance"`
	ConnMemoryMB               int64          `json:"conn_memory_mb"`
	FixedMemoryMB              int64          `json:"fixed_memory_mb"`
	AlignedItemSize            int            `json:"aligned_item_size,omitempty"`
	DataMemoryMB               float64        `json:"data_memory_mb,omitempty"`
	Tiers                      []TierEstimate `json:"tiers,omitempty"`
}

// SizingWarning is a non-fatal advisory raised during a calculation.
type SizingWarning struct {
	Severity string `json:"severity"` // "info", "warning", "critical"
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Warning codes.
const (
	WarnFailureDomainRange = "failure_domain_out_of_range"
	WarnInstanceCount      = "instance_count_exceeds_threshold"
	WarnInputRange         = "input_out_of_range"
)

// CalculationResult is the cluster sizing outcome.
type CalculationResult struct {
	Allocation JobAllocation   `json:"allocation"`
	Bottleneck Bottleneck      `json:"bottleneck"`
	Analysis   SizingAnalysis  `json:"analysis"`
	Warnings   []SizingWarning `json:"warnings"`
}

// FootprintResult is the memory footprint of one cache instance.
type FootprintResult struct {
	HashBucketExponent int             `json:"hash_bucket_exponent"`
	HashMemoryMB       int64           `json:"hash_memory_mb"`
	SegmentMemoryMB    int64           `json:"segment_memory_mb"`
	TotalMemoryMB      int64           `json:"total_memory_mb"`
	AlignedItemSize    int             `json:"aligned_item_size"`
	SegmentCount       int64           `json:"segment_count,omitempty"`
	Warnings           []SizingWarning `json:"warnings"`
}

// DefaultSizingRequest returns the default workload for flavor.
func DefaultSizingRequest(flavor Flavor) SizingRequest {
	ram := make([]float64, len(DefaultRAMCandidatesGB))
	copy(ram, DefaultRAMCandidatesGB)
	return SizingRequest{
		QPS:                  DefaultQPS,
		ItemSize:             DefaultItemSize,
		KeyCount:             DefaultKeyCount,
		ConnectionCount:      DefaultConnections,
		FailureDomainPercent: DefaultFailureDomain,
		RAMCandidatesGB:      ram,
		Flavor:               flavor,
	}
}

// DefaultFootprintRequest returns the default single-instance parameters.
func DefaultFootprintRequest() FootprintRequest {
	return FootprintRequest{
		ItemSize:      DefaultItemSize,
		KeyCount:      DefaultKeyCount,
		HashOccupancy: DefaultHashOccupancy,
		SegmentSize:   DefaultSegmentSize,
		Flavor:        FlavorCache,
	}
}
