package lod

import (
	"fmt"
	"math"
	"sort"
)

// Policy maps a distance to the coarsest acceptable LOD. It is a step
// function: LOD n is acceptable from thresholds[n-1] outwards.
type Policy struct {
	thresholds []float64
}

// NewPolicy panics if thresholds decrease.
func NewPolicy(thresholds []float64) Policy {
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] < thresholds[i-1] {
			panic(fmt.Sprintf("lod: thresholds decrease at %d: %v", i, thresholds))
		}
	}
	return Policy{thresholds: append([]float64(nil), thresholds...)}
}

// DistancePolicy places the LOD n threshold at factor times the width of a
// LOD n chunk.
func DistancePolicy(base, maxLOD int, factor float64) Policy {
	th := make([]float64, maxLOD)
	for i := range th {
		th[i] = factor * float64(base<<(i+1))
	}
	return Policy{thresholds: th}
}

// LODForDistance returns the number of thresholds not above d.
func (p Policy) LODForDistance(d float64) int {
	return sort.Search(len(p.thresholds), func(i int) bool { return p.thresholds[i] > d })
}

// split reports whether a node at lod whose farthest point lies at squared
// distance dist2 is coarser than the policy allows there.
func (p Policy) split(lod int, dist2 float64) bool {
	if lod <= 0 {
		return false
	}
	return p.LODForDistance(math.Sqrt(dist2)) < lod
}
