// Package config loads and defaults the pipeline's runtime configuration,
// following the DefaultConfig()/LoadConfig(path) pattern used elsewhere in
// the example corpus for YAML-backed CLI tools.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// LogLevel controls verbosity, mirroring the original implementation's
// five-level scheme.
type LogLevel string

const (
	LogError LogLevel = "error"
	LogWarn  LogLevel = "warn"
	LogInfo  LogLevel = "info"
	LogDebug LogLevel = "debug"
	LogTrace LogLevel = "trace"
)

// Config holds every tunable the pipeline's components consult. See
// SPEC_FULL.md §6 for the authoritative option table.
type Config struct {
	Roots                     []string `yaml:"roots"`
	ExcludedDirectories       []string `yaml:"excluded_directories"`
	MaxDepth                  int      `yaml:"max_depth"`
	Threads                   int      `yaml:"threads"`
	BatchSize                 int      `yaml:"batch_size"`
	DatabaseName              string   `yaml:"database_name"`
	ReinitializeDatabase      bool     `yaml:"reinitialize_database"`
	PhashThreshold            int      `yaml:"phash_threshold"`
	ProcessUnsupportedFormats bool     `yaml:"process_unsupported_formats"`
	UseGPUAcceleration        bool     `yaml:"use_gpu_acceleration"`
	LogLevel                  LogLevel `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is supplied,
// matching the defaults named in SPEC_FULL.md §6.
func DefaultConfig() *Config {
	threads := runtime.NumCPU()
	if threads > 8 {
		threads = 8
	}
	return &Config{
		Roots:                     nil,
		ExcludedDirectories:       nil,
		MaxDepth:                  0,
		Threads:                   threads,
		BatchSize:                 50,
		DatabaseName:              "dupehash",
		ReinitializeDatabase:      false,
		PhashThreshold:            10,
		ProcessUnsupportedFormats: false,
		UseGPUAcceleration:        false,
		LogLevel:                  LogInfo,
	}
}

// LoadConfig reads a YAML configuration document from path. An empty path
// returns DefaultConfig() unmodified.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, used by the CLI's generate-config
// subcommand.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// WorkerCount resolves the effective hashing worker count: the configured
// value if positive, otherwise CPU count capped at 8, per SPEC_FULL.md §4.5.
func (c *Config) WorkerCount() int {
	if c.Threads > 0 {
		return c.Threads
	}
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// OuterWorkerCount resolves the concurrency cap for the outer, per-root
// discovery fan-out (SPEC_FULL.md §4.5's "6, for the outer batch loop"
// figure, distinct from the per-chunk hashing worker count WorkerCount
// returns), capped at 6.
func (c *Config) OuterWorkerCount() int {
	n := c.WorkerCount()
	if n > 6 {
		n = 6
	}
	return n
}

// EffectiveBatchSize resolves the persistence batch size: 50 when unset or
// non-positive, capped at 100; positive values below 100 are used as given.
func (c *Config) EffectiveBatchSize() int {
	if c.BatchSize <= 0 {
		return 50
	}
	if c.BatchSize > 100 {
		return 100
	}
	return c.BatchSize
}
