package config

import (
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name
const Prefix = "PT"

// Config holds process-wide settings read from PT_* environment variables
type Config struct {
	Workers   int    `envconfig:"WORKERS" default:"0"`
	Samples   int    `envconfig:"SAMPLES" default:"0"`   // 0 keeps the scene's own count
	MaxDepth  int    `envconfig:"MAX_DEPTH" default:"0"` // 0 keeps the scene's own depth
	Seed      int64  `envconfig:"SEED" default:"0"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"output"`
	AssetDir  string `envconfig:"ASSET_DIR" default:"assets"`
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"notice"`
}

// Load reads the PT_* environment variables over the defaults
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EffectiveWorkers resolves a zero worker count to the number of CPUs
func (c *Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// EffectiveSeed resolves a zero seed to one derived from the clock
func (c *Config) EffectiveSeed() int64 {
	if c.Seed == 0 {
		return time.Now().UnixNano()
	}
	return c.Seed
}
