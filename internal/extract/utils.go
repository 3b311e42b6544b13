package extract

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/hocr-numbers/models"
)

// ConfigFromFlags builds the run configuration. A --config file seeds the
// values; flags set on the command line (or through their environment
// variables) override it, and flag defaults fill whatever is still unset.
func ConfigFromFlags(c *cli.Context) (*models.ExtractConfig, error) {
	cfg := &models.ExtractConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	str := func(flag string, field *string) {
		if c.IsSet(flag) || *field == "" {
			*field = c.String(flag)
		}
	}
	str("raw-dir", &cfg.RawDir)
	str("output-dir", &cfg.OutputDir)
	str("layout-suffix", &cfg.LayoutSuffix)
	str("raster-suffix", &cfg.RasterSuffix)
	str("cache-dir", &cfg.CacheDir)
	str("catalog", &cfg.CatalogPath)
	str("manifest-dir", &cfg.ManifestDir)

	if c.IsSet("workers") || cfg.WorkerCount == 0 {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("min-confidence") || !cfg.IsSet("min_confidence") {
		cfg.MinConfidence = c.Float64("min-confidence")
	}
	if c.IsSet("max-value") || !cfg.IsSet("max_value") {
		cfg.MaxValue = c.Int("max-value")
	}
	if c.IsSet("min-confidence") {
		cfg.MarkSet("min_confidence")
	}
	if c.IsSet("max-value") {
		cfg.MarkSet("max_value")
	}
	if c.IsSet("cache-ttl") || cfg.CacheTTL == 0 {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ExitCode maps a run aggregate to the process exit status: 0 when every
// document succeeded, 1 when some failed, 2 when all of them failed.
func ExitCode(agg models.RunAggregate) int {
	switch {
	case agg.Failed == 0:
		return 0
	case agg.Succeeded == 0:
		return 2
	default:
		return 1
	}
}
