// Package config holds generator configuration, merged from defaults, an
// optional YAML file, and command-line flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Generator types selectable in the config.
const (
	GeneratorHeightmap = "heightmap"
	GeneratorNoise     = "noise"
)

// Config holds the terrain generator configuration.
type Config struct {
	Seed          int64  `yaml:"seed"`
	GeneratorType string `yaml:"generator_type"` // "heightmap" or "noise"

	// Chunk dimensions in voxels.
	ChunkWidth  int `yaml:"chunk_width"`
	ChunkHeight int `yaml:"chunk_height"`
	ChunkDepth  int `yaml:"chunk_depth"`

	// World extent in chunks per axis.
	WorldChunksX int `yaml:"world_chunks_x"`
	WorldChunksY int `yaml:"world_chunks_y"`
	WorldChunksZ int `yaml:"world_chunks_z"`

	// Heightmap generator parameters.
	HeightmapPath string  `yaml:"heightmap_path"`
	Amplitude     float64 `yaml:"amplitude"`
	HeightOffset  float64 `yaml:"height_offset"`

	// Noise generator parameters.
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	BaseHeight  float64 `yaml:"base_height"`
	Gradient    float64 `yaml:"gradient"`

	Workers  int     `yaml:"workers"` // 0 = one per CPU
	IsoLevel float64 `yaml:"iso_level"`
	Output   string  `yaml:"output"` // mesh path; .gz suffix compresses
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		GeneratorType: GeneratorHeightmap,
		ChunkWidth:    16,
		ChunkHeight:   64,
		ChunkDepth:    16,
		WorldChunksX:  4,
		WorldChunksY:  1,
		WorldChunksZ:  4,
		Amplitude:     32,
		HeightOffset:  0,
		Frequency:     1.0 / 64.0,
		Octaves:       4,
		Persistence:   0.5,
		BaseHeight:    32,
		Gradient:      16,
		Output:        "terrain.obj",
	}
}

// Load reads a YAML config file into cfg. A missing file leaves cfg
// unchanged.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["chunk-width"] {
		cfg.ChunkWidth = fromFile.ChunkWidth
	}
	if !explicitFlags["chunk-height"] {
		cfg.ChunkHeight = fromFile.ChunkHeight
	}
	if !explicitFlags["chunk-depth"] {
		cfg.ChunkDepth = fromFile.ChunkDepth
	}
	if !explicitFlags["world-x"] {
		cfg.WorldChunksX = fromFile.WorldChunksX
	}
	if !explicitFlags["world-y"] {
		cfg.WorldChunksY = fromFile.WorldChunksY
	}
	if !explicitFlags["world-z"] {
		cfg.WorldChunksZ = fromFile.WorldChunksZ
	}
	if !explicitFlags["heightmap"] {
		cfg.HeightmapPath = fromFile.HeightmapPath
	}
	if !explicitFlags["amplitude"] {
		cfg.Amplitude = fromFile.Amplitude
	}
	if !explicitFlags["height-offset"] {
		cfg.HeightOffset = fromFile.HeightOffset
	}
	if !explicitFlags["frequency"] {
		cfg.Frequency = fromFile.Frequency
	}
	if !explicitFlags["octaves"] {
		cfg.Octaves = fromFile.Octaves
	}
	if !explicitFlags["persistence"] {
		cfg.Persistence = fromFile.Persistence
	}
	if !explicitFlags["base-height"] {
		cfg.BaseHeight = fromFile.BaseHeight
	}
	if !explicitFlags["gradient"] {
		cfg.Gradient = fromFile.Gradient
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["iso"] {
		cfg.IsoLevel = fromFile.IsoLevel
	}
	if !explicitFlags["o"] {
		cfg.Output = fromFile.Output
	}
}

// Validate reports configuration errors before any generation starts.
func (c *Config) Validate() error {
	if c.ChunkWidth < 1 || c.ChunkHeight < 1 || c.ChunkDepth < 1 {
		return fmt.Errorf("config: invalid chunk dimensions %dx%dx%d",
			c.ChunkWidth, c.ChunkHeight, c.ChunkDepth)
	}
	if c.WorldChunksX < 1 || c.WorldChunksY < 1 || c.WorldChunksZ < 1 {
		return fmt.Errorf("config: invalid world extent %dx%dx%d chunks",
			c.WorldChunksX, c.WorldChunksY, c.WorldChunksZ)
	}
	switch c.GeneratorType {
	case GeneratorHeightmap:
		if c.HeightmapPath == "" {
			return fmt.Errorf("config: heightmap generator requires a heightmap path")
		}
	case GeneratorNoise:
		if c.Octaves < 1 {
			return fmt.Errorf("config: octaves must be at least 1")
		}
		if c.Gradient == 0 {
			return fmt.Errorf("config: gradient must be non-zero")
		}
	default:
		return fmt.Errorf("config: unknown generator type %q", c.GeneratorType)
	}
	if c.Output == "" {
		return fmt.Errorf("config: output path required")
	}
	return nil
}
