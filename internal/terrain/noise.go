package terrain

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Source is a 2D coherent noise function in roughly [-1, 1].
type Source interface {
	Eval2(x, y float64) float64
}

// NewSimplex returns an OpenSimplex source for seed.
func NewSimplex(seed int64) Source {
	return opensimplex.New(seed)
}

// ValueNoise is a deterministic lattice value noise in [-1, 1]. Each
// integer lattice point carries a hashed value; points between them are
// blended with a quintic fade along both axes.
type ValueNoise struct {
	Seed int64
}

func (v ValueNoise) Eval2(x, z float64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	ix, iz := int64(x0), int64(z0)
	fx, fz := fade(x-x0), fade(z-z0)

	south := lerp(v.corner(ix, iz), v.corner(ix+1, iz), fx)
	north := lerp(v.corner(ix, iz+1), v.corner(ix+1, iz+1), fx)
	return lerp(south, north, fz)
}

// corner is the signed lattice value at (ix, iz).
func (v ValueNoise) corner(ix, iz int64) float64 {
	h := latticeHash(ix, iz, v.Seed) >> 11
	return float64(h)/(1<<52) - 1
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// latticeHash finalizes the packed coordinates with the SplitMix64 mixer.
func latticeHash(x, z, seed int64) uint64 {
	v := uint64(x) + uint64(z)<<1 + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ v>>30) * 0xBF58476D1CE4E5B9
	v = (v ^ v>>27) * 0x94D049BB133111EB
	return v ^ v>>31
}
