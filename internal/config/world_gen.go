package config

import "fmt"

// Noise source names.
const (
	NoiseSimplex = "simplex"
	NoiseValue   = "value"
)

// Octave combination modes.
const (
	ModeTurbulence = "turbulence"
	ModeFBM        = "fbm"
)

// TerrainConfig holds height field generation settings.
type TerrainConfig struct {
	Seed       int64   `yaml:"seed"`
	Noise      string  `yaml:"noise"`
	Mode       string  `yaml:"mode"`
	Base       float64 `yaml:"base"`
	Amplitude  float64 `yaml:"amplitude"`
	Scale      float64 `yaml:"scale"` // world units per noise unit
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

// DefaultTerrain mirrors the tuned turbulence landscape.
func DefaultTerrain() TerrainConfig {
	return TerrainConfig{
		Seed:       1,
		Noise:      NoiseSimplex,
		Mode:       ModeTurbulence,
		Base:       64,
		Amplitude:  256,
		Scale:      3000,
		Octaves:    6,
		Lacunarity: 2,
		Gain:       0.5,
	}
}

func (t TerrainConfig) validate() error {
	switch t.Noise {
	case NoiseSimplex, NoiseValue:
	default:
		return fmt.Errorf("%w: terrain.noise %q", ErrInvalid, t.Noise)
	}
	switch t.Mode {
	case ModeTurbulence, ModeFBM:
	default:
		return fmt.Errorf("%w: terrain.mode %q", ErrInvalid, t.Mode)
	}
	if t.Octaves < 1 {
		return fmt.Errorf("%w: terrain.octaves must be at least 1", ErrInvalid)
	}
	if t.Scale <= 0 {
		return fmt.Errorf("%w: terrain.scale must be positive", ErrInvalid)
	}
	return nil
}
