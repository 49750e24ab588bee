// ABOUTME: Cluster sizing engine for cache and stateless ping services
// ABOUTME: Resolves the binding bottleneck and picks a RAM tier for every job

package services

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// ClusterCalculator sizes a cluster from workload parameters.
// It holds no state and is safe for concurrent use.
type ClusterCalculator struct{}

// NewClusterCalculator creates a new cluster calculator
func NewClusterCalculator() *ClusterCalculator {
	return &ClusterCalculator{}
}

// tierPlan is the memory-bound estimate for one RAM tier, in MB.
type tierPlan struct {
	ramGB     float64
	ramMB     float64
	hashMB    int64
	instances int
	feasible  bool
}

// Calculate determines instance count, RAM tier, and per-job allocation for req.
//
// Throughput and fault tolerance give a preliminary count. Stateless flavors
// stop there. Data-storing flavors then estimate a memory-bound count per RAM
// tier and pick the tier with a downward adjacent-pair scan: the smallest tier
// is kept unless memory would force more instances than the preliminary count.
func (c *ClusterCalculator) Calculate(req models.SizingRequest) (models.CalculationResult, error) {
	profile, warnings, err := ValidateSizingRequest(req)
	if err != nil {
		return models.CalculationResult{}, err
	}

	njobQPS := ceilCount(req.QPS / models.PerInstanceQPS)
	njobFD := ceilCount(100.0 / req.FailureDomainPercent)

	bottleneck := models.BottleneckThroughput
	njob := njobQPS
	if njobQPS < njobFD {
		bottleneck = models.BottleneckFaultTolerance
		njob = njobFD
	}

	// Per-job memory overhead, in MB
	connOverhead := models.ConnOverheadBytes
	if req.TLS {
		connOverhead = models.TLSConnOverheadBytes
	}
	ramConn := u64ToInt64(ceilDivU64(mulSat(uint64(connOverhead), uint64(req.ConnectionCount)), models.MB))
	ramFixed := int64(models.BaseOverheadMB + models.SafetyBufferMB)

	analysis := models.SizingAnalysis{
		InstancesForThroughput:     njobQPS,
		InstancesForFaultTolerance: njobFD,
		ConnMemoryMB:               ramConn,
		FixedMemoryMB:              ramFixed,
	}

	// No dataset to shard, so memory never binds.
	if !profile.StoresData {
		warnings = appendInstanceWarning(warnings, njob)
		logWarnings("cluster", warnings)
		return models.CalculationResult{
			Allocation: models.JobAllocation{
				CPUCores:      models.CPUPerJob,
				RAMGB:         math.Ceil(float64(addSat(ramConn, ramFixed)) / 1024),
				DiskGB:        models.DiskPerJobGB,
				InstanceCount: njob,
			},
			Bottleneck: bottleneck,
			Analysis:   analysis,
			Warnings:   nonNil(warnings),
		}, nil
	}

	itemSize := profile.AlignedItemSize(req.ItemSize)
	ramData := float64(itemSize) * float64(req.KeyCount) / models.MB
	analysis.AlignedItemSize = itemSize
	analysis.DataMemoryMB = ramData

	tiers := planTiers(req, profile, ramData, ramFixed, ramConn)

	index := 0
	for i := len(tiers) - 1; i >= 1; i-- {
		if tiers[i].exceeds(njob) || tiers[i-1].exceeds(njob) {
			bottleneck = models.BottleneckMemory
			index = i
			if tiers[i].feasible && tiers[i].instances > njob {
				njob = tiers[i].instances
			}
			break
		}
	}

	selected := tiers[index]
	analysis.Tiers = tierEstimates(tiers, index)

	if !selected.feasible {
		return models.CalculationResult{}, fmt.Errorf("%w: %g GB tier leaves no room after %d MB fixed, %d MB connection, and %d MB hash overhead",
			ErrDatasetDoesNotFit, selected.ramGB, ramFixed, ramConn, selected.hashMB)
	}

	// Exact per-shard recompute at the chosen tier.
	nkeyPerShard := (selected.ramGB*models.GB - float64(ramFixed*models.MB) - float64(ramConn*models.MB)) / float64(itemSize)
	hash := HashSizing(nkeyPerShard, profile.HashEntryOverheadBytes)
	segMem := selected.ramMB - float64(ramFixed) - float64(ramConn) - float64(hash.HashMemoryMB)
	if segMem <= 0 {
		return models.CalculationResult{}, fmt.Errorf("%w: %g GB tier has %g MB left for segments",
			ErrDatasetDoesNotFit, selected.ramGB, segMem)
	}

	warnings = appendInstanceWarning(warnings, njob)
	logWarnings("cluster", warnings)

	slog.Debug("Cluster sized",
		"flavor", profile.Flavor,
		"instances", njob,
		"ram_gb", selected.ramGB,
		"bottleneck", bottleneck,
	)

	return models.CalculationResult{
		Allocation: models.JobAllocation{
			CPUCores:      models.CPUPerJob,
			RAMGB:         selected.ramGB,
			DiskGB:        models.DiskPerJobGB,
			InstanceCount: njob,
			Storage: &models.StorageAllocation{
				HashBucketExponent: hash.BucketExponent,
				HashMemoryMB:       hash.HashMemoryMB,
				SegmentMemoryMB:    segMem,
			},
		},
		Bottleneck: bottleneck,
		Analysis:   analysis,
		Warnings:   nonNil(warnings),
	}, nil
}

// planTiers computes the memory-bound instance count for every distinct RAM
// candidate, in ascending RAM order.
func planTiers(req models.SizingRequest, profile models.FlavorProfile, ramData float64, ramFixed, ramConn int64) []tierPlan {
	sorted := distinctAscending(req.RAMCandidatesGB)
	tiers := make([]tierPlan, 0, len(sorted))

	for _, ramGB := range sorted {
		ram := ramGB * models.GB / models.MB
		nLow := math.Ceil(ramData / ram)              // shard count, lower bound
		nkeyPerShard := float64(req.KeyCount) / nLow // keys per shard, upper bound
		hash := HashSizing(nkeyPerShard, profile.HashEntryOverheadBytes)

		t := tierPlan{ramGB: ramGB, ramMB: ram, hashMB: hash.HashMemoryMB}
		if room := ram - float64(ramFixed) - float64(ramConn) - float64(hash.HashMemoryMB); room > 0 {
			t.instances = ceilCount(ramData / room)
			t.feasible = true
		}
		tiers = append(tiers, t)
	}
	return tiers
}

// exceeds reports whether this tier needs more than njob instances. An
// infeasible tier needs infinitely many.
func (t tierPlan) exceeds(njob int) bool {
	return !t.feasible || t.instances > njob
}

func tierEstimates(tiers []tierPlan, selected int) []models.TierEstimate {
	out := make([]models.TierEstimate, len(tiers))
	for i, t := range tiers {
		out[i] = models.TierEstimate{
			RAMGB:           t.ramGB,
			EstimatedHashMB: t.hashMB,
			Instances:       t.instances,
			Feasible:        t.feasible,
			Selected:        i == selected,
		}
	}
	return out
}

func distinctAscending(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func appendInstanceWarning(warnings []models.SizingWarning, njob int) []models.SizingWarning {
	if njob <= models.InstanceWarningThreshold {
		return warnings
	}
	return append(warnings, models.SizingWarning{
		Severity: "warning",
		Code:     models.WarnInstanceCount,
		Message:  fmt.Sprintf("more than %d instances needed (%d), please verify input", models.InstanceWarningThreshold, njob),
	})
}

func nonNil(warnings []models.SizingWarning) []models.SizingWarning {
	if warnings == nil {
		return []models.SizingWarning{}
	}
	return warnings
}
