// Package config loads the runtime configuration for the gorpho tooling:
// engine selection, default processing block, and volume file I/O options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openmorph/gorpho/morph"
)

// Config is the YAML-backed tool configuration.
type Config struct {
	// Engine parameters
	Engine struct {
		// Backend selects the compute engine: "gpu" or "cpu".
		Backend string `yaml:"backend"`

		// Device is the preferred device index for reporting.
		Device int `yaml:"device"`

		// Block is the processing tile in voxels; components below 1 let
		// the engine choose.
		Block struct {
			X int `yaml:"x"`
			Y int `yaml:"y"`
			Z int `yaml:"z"`
		} `yaml:"block"`
	} `yaml:"engine"`

	// Output parameters
	Output struct {
		// Compress writes result volumes zstd-compressed.
		Compress bool `yaml:"compress"`

		// Digest prints a BLAKE3 digest of the result for regression
		// comparison.
		Digest bool `yaml:"digest"`

		// Stats prints summary statistics of the result volume.
		Stats bool `yaml:"stats"`
	} `yaml:"output"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Engine.Backend = "gpu"
	cfg.Engine.Block.X = 256
	cfg.Engine.Block.Y = 256
	cfg.Engine.Block.Z = 256
	cfg.Output.Digest = true
	cfg.Output.Stats = true
	return cfg
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Engine.Backend != "gpu" && cfg.Engine.Backend != "cpu" {
		return nil, fmt.Errorf("config: unknown backend %q", cfg.Engine.Backend)
	}
	return cfg, nil
}

// BlockSize returns the configured processing block.
func (c *Config) BlockSize() morph.BlockSize {
	return morph.BlockSize{X: c.Engine.Block.X, Y: c.Engine.Block.Y, Z: c.Engine.Block.Z}
}
