// ABOUTME: Hash table sizing model shared by both calculators
// ABOUTME: Picks the smallest power-of-two bucket count covering the desired slots

package services

import (
	"math"
	"math/bits"

	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// HashSizing returns the tightest power-of-two bucket array holding
// desiredSlots and the memory it takes at entryOverheadBytes per bucket.
// desiredSlots <= 1 yields a single bucket (exponent 0). Memory saturates at
// math.MaxInt64 MB for tables too large to address.
func HashSizing(desiredSlots float64, entryOverheadBytes int) models.HashSizing {
	exp := 0
	if desiredSlots > 1 {
		exp = int(math.Ceil(math.Log2(desiredSlots)))
	}

	// overhead * 2^exp is exact in a float64 for any exponent
	mb := math.Ceil(float64(entryOverheadBytes) * math.Exp2(float64(exp)) / models.MB)
	return models.HashSizing{
		BucketExponent: exp,
		HashMemoryMB:   saturateInt64(mb),
	}
}

// HashSizingForKeys sizes a table for keyCount keys at the given occupancy
// (keys per bucket). An occupancy <= 0 means one key per bucket.
func HashSizingForKeys(keyCount float64, occupancy float64, entryOverheadBytes int) models.HashSizing {
	desired := keyCount
	if occupancy > 0 {
		desired = keyCount / occupancy
	}
	return HashSizing(desired, entryOverheadBytes)
}

func ceilDivU64(n, d uint64) uint64 {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

// mulSat returns a*b, saturating at math.MaxUint64.
func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// addSat adds two non-negative sizes, saturating at math.MaxInt64.
func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func saturateInt64(v float64) int64 {
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func u64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// ceilCount rounds an instance requirement up, saturating at math.MaxInt so
// extreme inputs still order correctly against other counts.
func ceilCount(v float64) int {
	c := math.Ceil(v)
	if c >= math.MaxInt {
		return math.MaxInt
	}
	return int(c)
}
