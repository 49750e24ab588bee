// ABOUTME: Single-instance memory footprint calculator
// ABOUTME: Sums segment (data) memory and hash table memory for one cache instance

package services

import (
	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// FootprintCalculator computes the memory footprint of one cache instance.
type FootprintCalculator struct{}

// NewFootprintCalculator creates a new footprint calculator
func NewFootprintCalculator() *FootprintCalculator {
	return &FootprintCalculator{}
}

// Calculate returns hash, segment, and total memory for req. Every conversion
// to MB rounds up and saturates at math.MaxInt64.
func (c *FootprintCalculator) Calculate(req models.FootprintRequest) (models.FootprintResult, error) {
	profile, warnings, err := ValidateFootprintRequest(req)
	if err != nil {
		return models.FootprintResult{}, err
	}
	logWarnings("footprint", warnings)

	itemSize := profile.AlignedItemSize(req.ItemSize)
	segmentBytes := mulSat(uint64(itemSize), uint64(req.KeyCount))
	segmentMB := u64ToInt64(ceilDivU64(segmentBytes, models.MB))

	hash := HashSizingForKeys(float64(req.KeyCount), req.HashOccupancy, profile.HashEntryOverheadBytes)

	result := models.FootprintResult{
		HashBucketExponent: hash.BucketExponent,
		HashMemoryMB:       hash.HashMemoryMB,
		SegmentMemoryMB:    segmentMB,
		TotalMemoryMB:      addSat(segmentMB, hash.HashMemoryMB),
		AlignedItemSize:    itemSize,
		Warnings:           warnings,
	}
	if req.SegmentSize > 0 {
		result.SegmentCount = u64ToInt64(ceilDivU64(segmentBytes, uint64(req.SegmentSize)))
	}
	if result.Warnings == nil {
		result.Warnings = []models.SizingWarning{}
	}

	return result, nil
}
