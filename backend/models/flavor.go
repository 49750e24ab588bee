// ABOUTME: Service flavors and their per-item and per-hash-entry overheads
// ABOUTME: Single overhead table shared by the cluster and footprint calculators

package models

import (
	"fmt"
	"sort"
	"strings"
)

// Flavor is the service variant being sized.
type Flavor string

const (
	FlavorCache           Flavor = "cache"
	FlavorReplicatedCache Flavor = "replicated-cache"
	FlavorStatelessPing   Flavor = "stateless-ping"
)

// FlavorProfile holds the overheads that distinguish one flavor from another.
type FlavorProfile struct {
	Flavor                 Flavor `json:"flavor"`
	ItemOverheadBytes      int    `json:"item_overhead_bytes"`
	HashEntryOverheadBytes int    `json:"hash_entry_overhead_bytes"`
	StoresData             bool   `json:"stores_data"`
}

// Item header (5 bytes) plus CAS (8 bytes).
const cacheItemOverhead = 5 + 8

var flavorProfiles = map[Flavor]FlavorProfile{
	FlavorCache: {
		Flavor:                 FlavorCache,
		ItemOverheadBytes:      cacheItemOverhead,
		HashEntryOverheadBytes: 10,
		StoresData:             true,
	},
	FlavorReplicatedCache: {
		Flavor:                 FlavorReplicatedCache,
		ItemOverheadBytes:      cacheItemOverhead,
		HashEntryOverheadBytes: 10,
		StoresData:             true,
	},
	FlavorStatelessPing: {
		Flavor: FlavorStatelessPing,
	},
}

// Names used by the original Pelikan tooling.
var flavorAliases = map[string]Flavor{
	"segcache":   FlavorCache,
	"rds":        FlavorReplicatedCache,
	"pingserver": FlavorStatelessPing,
}

// ParseFlavor resolves a flavor name or legacy alias, case-insensitively.
func ParseFlavor(name string) (Flavor, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if _, ok := flavorProfiles[Flavor(n)]; ok {
		return Flavor(n), nil
	}
	if f, ok := flavorAliases[n]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown flavor %q", name)
}

// Profile returns the overhead profile for f.
func (f Flavor) Profile() (FlavorProfile, bool) {
	p, ok := flavorProfiles[f]
	return p, ok
}

// Profiles returns every flavor profile, ordered by flavor name.
func Profiles() []FlavorProfile {
	out := make([]FlavorProfile, 0, len(flavorProfiles))
	for _, p := range flavorProfiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Flavor < out[j].Flavor })
	return out
}

// AlignedItemSize is the on-heap size of one item: header overhead plus the
// key/value payload, rounded up to KeyValAlignment.
func (p FlavorProfile) AlignedItemSize(payloadBytes int) int {
	raw := p.ItemOverheadBytes + payloadBytes
	return KeyValAlignment * ((raw + KeyValAlignment - 1) / KeyValAlignment)
}
