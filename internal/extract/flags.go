package extract

import (
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/hocr-numbers/models"
)

// Flags are the options of the extract command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "raw-dir",
			Usage:   "Directory holding one sub-directory per scanned book",
			Value:   models.DefaultRawDir,
			EnvVars: []string{"HOCR_NUMBERS_RAW_DIR"},
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Usage:   "Root of the number artifact store",
			Value:   models.DefaultOutputDir,
			EnvVars: []string{"HOCR_NUMBERS_OUTPUT_DIR"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "Number of documents processed in parallel (0 = one per CPU)",
			EnvVars: []string{"HOCR_NUMBERS_WORKERS"},
		},
		&cli.Float64Flag{
			Name:    "min-confidence",
			Usage:   "Words need an OCR confidence strictly above this",
			Value:   models.DefaultMinConfidence,
			EnvVars: []string{"HOCR_NUMBERS_MIN_CONFIDENCE"},
		},
		&cli.IntFlag{
			Name:    "max-value",
			Usage:   "Largest number kept",
			Value:   models.DefaultMaxValue,
			EnvVars: []string{"HOCR_NUMBERS_MAX_VALUE"},
		},
		&cli.StringFlag{
			Name:  "layout-suffix",
			Usage: "Filename suffix of the hOCR file inside a book directory",
			Value: models.DefaultLayoutSuffix,
		},
		&cli.StringFlag{
			Name:  "raster-suffix",
			Usage: "Name suffix of the raster directory inside a book directory",
			Value: models.DefaultRasterSuffix,
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "Directory for cached hOCR scans (empty disables the cache)",
			EnvVars: []string{"HOCR_NUMBERS_CACHE_DIR"},
		},
		&cli.DurationFlag{
			Name:  "cache-ttl",
			Usage: "Maximum age of a cached scan (0 = never expires)",
		},
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "SQLite run catalog (empty disables it)",
			Value:   models.DefaultCatalogPath,
			EnvVars: []string{"HOCR_NUMBERS_CATALOG"},
		},
		&cli.StringFlag{
			Name:  "manifest-dir",
			Usage: "Write a YAML run manifest into this directory",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file with default option values",
			EnvVars: []string{"HOCR_NUMBERS_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Summary format: text, yaml or json",
			Value: "text",
		},
	}
}
