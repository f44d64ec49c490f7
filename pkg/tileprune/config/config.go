// Package config loads the optional YAML configuration file.
package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

const (
	DefaultStyleMode    = "layer+filter"
	DefaultMaxTileBytes = 1_280_000
	DefaultIOBatch      = 1_000
	DefaultAddr         = "127.0.0.1:8080"
	DefaultCacheSize    = 64 << 20
)

// Config holds defaults for the command line options. Flags given on the
// command line take precedence.
type Config struct {
	Style        string `yaml:"style,omitempty"`
	StyleMode    string `yaml:"style_mode,omitempty"`
	Threads      int    `yaml:"threads,omitempty"`
	IOBatch      int    `yaml:"io_batch,omitempty"`
	MaxTileBytes int64  `yaml:"max_tile_bytes,omitempty"`
	DropUnknown  bool   `yaml:"drop_unknown,omitempty"`

	Serve Serve `yaml:"serve,omitempty"`
}

type Serve struct {
	Addr      string `yaml:"addr,omitempty"`
	PublicURL string `yaml:"public_url,omitempty"`
	CacheSize int64  `yaml:"cache_size,omitempty"`
}

// Load reads the configuration at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		StyleMode:    DefaultStyleMode,
		IOBatch:      DefaultIOBatch,
		MaxTileBytes: DefaultMaxTileBytes,
		Serve: Serve{
			Addr:      DefaultAddr,
			CacheSize: DefaultCacheSize,
		},
	}
}

// String returns value unless it is empty.
func String(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Int returns value unless it is zero or negative.
func Int[T int | int64](value, fallback T) T {
	if value <= 0 {
		return fallback
	}
	return value
}
