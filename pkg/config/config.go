/*
Package config defines the two configuration structs named in spec §6:
DatabaseConfig (on-disk location, in-memory mode) and SystemConfig
(buffer pool sizes, thread count). Both are YAML-serializable so a
deployment can ship a graphdb.yaml next to the CLI binary, following
the teacher's pattern of YAML-driven resource definitions
(cmd/warren/apply.go's WarrenResource).
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default page sizes (compile-time constants per spec §6: "page size
// is a compile-time constant (default-page and large-page variants)").
const (
	DefaultPageSizeBytes = 4096
	LargePageSizeBytes   = 256 * 1024

	DefaultVectorCapacity = 2048
)

// DatabaseConfig is the on-disk location and mode for a Database.
type DatabaseConfig struct {
	DatabasePath  string `yaml:"database_path"`
	InMemoryMode  bool   `yaml:"in_memory_mode"`
}

// SystemConfig is the tunable resource envelope for a Database. The
// two pool sizes are resizable at runtime via resize_buffer_manager;
// MaxNumThreads sizes the worker pool when the Database opens, and no
// execute call takes a thread count of its own.
type SystemConfig struct {
	DefaultPageBufferPoolSize uint64 `yaml:"default_page_buffer_pool_size"`
	LargePageBufferPoolSize   uint64 `yaml:"large_page_buffer_pool_size"`
	MaxNumThreads             int    `yaml:"max_num_threads"`
}

// DefaultSystemConfig returns sane defaults sized for a development
// machine: 1GiB of default-page frames, 512MiB of large-page frames,
// and a fixed four workers (not derived from the logical CPU count).
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		DefaultPageBufferPoolSize: 1 << 30,
		LargePageBufferPoolSize:   512 << 20,
		MaxNumThreads:             4,
	}
}

// Config is the full top-level configuration file shape.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	System   SystemConfig   `yaml:"system"`
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{System: DefaultSystemConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable
// database: a non-empty path unless running in-memory, and strictly
// positive pool sizes / thread counts.
func (c *Config) Validate() error {
	if !c.Database.InMemoryMode && c.Database.DatabasePath == "" {
		return fmt.Errorf("database_path is required unless in_memory_mode is set")
	}
	if c.System.DefaultPageBufferPoolSize == 0 {
		return fmt.Errorf("default_page_buffer_pool_size must be > 0")
	}
	if c.System.LargePageBufferPoolSize == 0 {
		return fmt.Errorf("large_page_buffer_pool_size must be > 0")
	}
	if c.System.MaxNumThreads <= 0 {
		return fmt.Errorf("max_num_threads must be > 0")
	}
	return nil
}
