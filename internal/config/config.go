package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// MaxChunkSize is the largest chunk edge length representable in a quad.
const MaxChunkSize = 128

// MaxLOD bounds chunk.maxLod. The tree arena holds (4^(maxLod+1)-1)/3
// nodes, about 87k at 8, and grows fourfold per level.
const MaxLOD = 8

// Config holds the startup constants of the terrain core.
type Config struct {
	Chunk    ChunkConfig    `yaml:"chunk"`
	Workers  int            `yaml:"workers"`
	LOD      LODConfig      `yaml:"lod"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Cache    CacheConfig    `yaml:"cache"`
	Upload   UploadConfig   `yaml:"upload"`
	Lighting LightingConfig `yaml:"lighting"`
	Loop     LoopConfig     `yaml:"loop"`
}

type ChunkConfig struct {
	Size      int `yaml:"size"`      // cells per chunk edge
	MaxLOD    int `yaml:"maxLod"`    // root covers Size << MaxLOD
	MaxSlices int `yaml:"maxSlices"` // vertical slice cap per chunk
}

// LODConfig describes the distance-to-LOD step function.
// Thresholds[i] is the distance at which LOD i+1 becomes acceptable. When
// empty it is derived from DistanceFactor.
type LODConfig struct {
	DistanceFactor float64   `yaml:"distanceFactor"`
	Thresholds     []float64 `yaml:"thresholds"`
}

type CacheConfig struct {
	// GraceGenerations keeps chunks no longer referenced by the tree for
	// this many rebuilds before they are evicted.
	GraceGenerations int `yaml:"graceGenerations"`
}

type UploadConfig struct {
	MaxIndicesPerChunk int `yaml:"maxIndicesPerChunk"`
}

type LightingConfig struct {
	SunDirection [3]float32 `yaml:"sunDirection"`
	Ambient      float32    `yaml:"ambient"`
}

type LoopConfig struct {
	FPSLimit int           `yaml:"fpsLimit"`
	SlowTick time.Duration `yaml:"slowTick"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Chunk: ChunkConfig{
			Size:      128,
			MaxLOD:    3,
			MaxSlices: 128,
		},
		Workers: 8,
		LOD: LODConfig{
			DistanceFactor: 2.0,
		},
		Terrain: DefaultTerrain(),
		Cache: CacheConfig{
			GraceGenerations: 4,
		},
		Upload: UploadConfig{
			MaxIndicesPerChunk: 1 << 24,
		},
		Lighting: LightingConfig{
			SunDirection: [3]float32{0.3, 1.0, 0.5},
			Ambient:      0.25,
		},
		Loop: LoopConfig{
			FPSLimit: 60,
			SlowTick: 16 * time.Millisecond,
		},
	}
}

// Load reads a YAML file on top of Default. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the ranges the core relies on.
func (c Config) Validate() error {
	if c.Chunk.Size < 1 || c.Chunk.Size > MaxChunkSize {
		return fmt.Errorf("%w: chunk.size %d outside 1..%d", ErrInvalid, c.Chunk.Size, MaxChunkSize)
	}
	if c.Chunk.MaxLOD < 0 || c.Chunk.MaxLOD > MaxLOD {
		return fmt.Errorf("%w: chunk.maxLod %d outside 0..%d", ErrInvalid, c.Chunk.MaxLOD, MaxLOD)
	}
	if c.Chunk.MaxSlices < 2 || c.Chunk.MaxSlices > 255 {
		return fmt.Errorf("%w: chunk.maxSlices %d outside 2..255", ErrInvalid, c.Chunk.MaxSlices)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if len(c.LOD.Thresholds) == 0 && c.LOD.DistanceFactor <= 0 {
		return fmt.Errorf("%w: lod.distanceFactor must be positive when no thresholds are given", ErrInvalid)
	}
	if n := len(c.LOD.Thresholds); n != 0 {
		if n != c.Chunk.MaxLOD {
			return fmt.Errorf("%w: lod.thresholds has %d entries, want %d", ErrInvalid, n, c.Chunk.MaxLOD)
		}
		if c.LOD.Thresholds[0] < 0 {
			return fmt.Errorf("%w: lod.thresholds must not be negative", ErrInvalid)
		}
		for i := 1; i < n; i++ {
			if c.LOD.Thresholds[i] < c.LOD.Thresholds[i-1] {
				return fmt.Errorf("%w: lod.thresholds must be non-decreasing (index %d)", ErrInvalid, i)
			}
		}
	}
	if c.Cache.GraceGenerations < 0 {
		return fmt.Errorf("%w: cache.graceGenerations must not be negative", ErrInvalid)
	}
	if c.Upload.MaxIndicesPerChunk < 6 {
		return fmt.Errorf("%w: upload.maxIndicesPerChunk must hold at least one quad", ErrInvalid)
	}
	if c.Loop.FPSLimit < 0 {
		return fmt.Errorf("%w: loop.fpsLimit must not be negative", ErrInvalid)
	}
	return c.Terrain.validate()
}

// Thresholds returns the LOD band table, deriving it when not configured.
func (c Config) Thresholds() []float64 {
	if len(c.LOD.Thresholds) != 0 {
		out := make([]float64, len(c.LOD.Thresholds))
		copy(out, c.LOD.Thresholds)
		return out
	}
	out := make([]float64, c.Chunk.MaxLOD)
	for i := range out {
		out[i] = c.LOD.DistanceFactor * float64(c.Chunk.Size<<(i+1))
	}
	return out
}
