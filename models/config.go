// Package models defines the data structures shared by the scanner, the
// extractor and the command line.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRawDir        = "data/raw"
	DefaultOutputDir     = "data/numbers"
	DefaultLayoutSuffix  = "_hocr.html"
	DefaultRasterSuffix  = "_jp2"
	DefaultMinConfidence = 90.0
	DefaultMaxValue      = 50_000
	DefaultCatalogPath   = "data/hocr-numbers.db"
)

// ExtractConfig holds runtime configuration for an extraction run.
// Values come from CLI flags, optionally seeded from a YAML file.
type ExtractConfig struct {
	RawDir        string        `yaml:"raw_dir"`
	OutputDir     string        `yaml:"output_dir"`
	LayoutSuffix  string        `yaml:"layout_suffix"`
	RasterSuffix  string        `yaml:"raster_suffix"`
	WorkerCount   int           `yaml:"workers"`
	MinConfidence float64       `yaml:"min_confidence"`
	MaxValue      int           `yaml:"max_value"`
	CacheDir      string        `yaml:"cache_dir"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	CatalogPath   string        `yaml:"catalog"`
	ManifestDir   string        `yaml:"manifest_dir"`

	// explicit holds the yaml keys given a value on purpose, so that a
	// deliberate zero survives ApplyDefaults.
	explicit map[string]bool
}

// MarkSet records that key (a yaml key) was set explicitly.
func (c *ExtractConfig) MarkSet(key string) {
	if c.explicit == nil {
		c.explicit = make(map[string]bool)
	}
	c.explicit[key] = true
}

// IsSet reports whether key was set by the config file or MarkSet.
func (c *ExtractConfig) IsSet(key string) bool {
	return c.explicit[key]
}

// LoadConfig reads an ExtractConfig from a YAML file. Missing keys keep
// their zero value; call ApplyDefaults afterwards.
func LoadConfig(path string) (*ExtractConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &ExtractConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for k := range keys {
		cfg.MarkSet(k)
	}
	return cfg, nil
}

// ApplyDefaults fills every unset field. Min confidence and max value keep
// an explicit zero.
func (c *ExtractConfig) ApplyDefaults() {
	if c.RawDir == "" {
		c.RawDir = DefaultRawDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.LayoutSuffix == "" {
		c.LayoutSuffix = DefaultLayoutSuffix
	}
	if c.RasterSuffix == "" {
		c.RasterSuffix = DefaultRasterSuffix
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = runtime.NumCPU()
	}
	if c.MinConfidence == 0 && !c.IsSet("min_confidence") {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.MaxValue == 0 && !c.IsSet("max_value") {
		c.MaxValue = DefaultMaxValue
	}
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c *ExtractConfig) Validate() error {
	if c.MaxValue < 0 {
		return fmt.Errorf("max value must not be negative, got %d", c.MaxValue)
	}
	if c.MinConfidence < 0 {
		return fmt.Errorf("min confidence must not be negative, got %g", c.MinConfidence)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.RawDir == c.OutputDir {
		return fmt.Errorf("raw dir and output dir must differ (%s)", c.RawDir)
	}
	return nil
}
