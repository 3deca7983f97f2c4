// Package terrain provides the procedural height fields chunks are cut from.
package terrain

import (
	"math"

	"lodterrain/internal/config"
)

// HeightField maps a world column to a terrain height. Implementations are
// pure and safe for concurrent use.
type HeightField interface {
	HeightAt(x, z int) float32
}

// HeightFunc adapts a plain function to HeightField.
type HeightFunc func(x, z int) float32

func (f HeightFunc) HeightAt(x, z int) float32 { return f(x, z) }

// Combine selects how octaves are summed.
type Combine int

const (
	// Turbulence sums |noise|; the result is subtracted from Base, carving
	// ridged valleys.
	Turbulence Combine = iota
	// FBM sums signed noise and adds it to Base.
	FBM
)

// Fractal layers several octaves of a noise source. Each octave multiplies
// the frequency by Lacunarity and the amplitude by Gain.
type Fractal struct {
	Base       float64
	Amplitude  float64
	Scale      float64
	Lacunarity float64
	Gain       float64
	Mode       Combine

	octaves []Source
}

// NewFractal builds a fractal height field with one noise source per octave.
func NewFractal(cfg config.TerrainConfig) *Fractal {
	f := &Fractal{
		Base:       cfg.Base,
		Amplitude:  cfg.Amplitude,
		Scale:      cfg.Scale,
		Lacunarity: cfg.Lacunarity,
		Gain:       cfg.Gain,
	}
	if cfg.Mode == config.ModeFBM {
		f.Mode = FBM
	}
	f.octaves = make([]Source, cfg.Octaves)
	for i := range f.octaves {
		seed := cfg.Seed + int64(i*131)
		if cfg.Noise == config.NoiseValue {
			f.octaves[i] = ValueNoise{Seed: seed}
		} else {
			f.octaves[i] = NewSimplex(seed)
		}
	}
	return f
}

// Octaves reports the number of noise layers.
func (f *Fractal) Octaves() int { return len(f.octaves) }

// Sample returns the octave sum at continuous noise coordinates.
func (f *Fractal) Sample(x, z float64) float64 {
	amp := 1.0
	freq := 1.0
	sum := 0.0
	for _, src := range f.octaves {
		n := src.Eval2(x*freq, z*freq)
		if f.Mode == Turbulence {
			n = math.Abs(n)
		}
		sum += n * amp
		amp *= f.Gain
		freq *= f.Lacunarity
	}
	return sum
}

func (f *Fractal) HeightAt(x, z int) float32 {
	s := f.Sample(float64(x)/f.Scale, float64(z)/f.Scale)
	if f.Mode == Turbulence {
		return float32(f.Base - f.Amplitude*s)
	}
	return float32(f.Base + f.Amplitude*s)
}

// New returns the configured height field.
func New(cfg config.TerrainConfig) HeightField {
	return NewFractal(cfg)
}
