// Package inspect holds the read-only commands: scan, lookup and index.
package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/hocr-numbers/internal/common"
	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/artifact_manager"
	"github.com/dtnitsch/hocr-numbers/pkg/db"
	"github.com/dtnitsch/hocr-numbers/pkg/hocr"
	"github.com/dtnitsch/hocr-numbers/pkg/storage"
)

// ScanOutput is what the scan command prints.
type ScanOutput struct {
	File    string                    `json:"file" yaml:"file"`
	Size    string                    `json:"size" yaml:"size"`
	Stats   models.ScanStats          `json:"stats" yaml:"stats"`
	Rasters []models.RasterCandidates `json:"rasters" yaml:"rasters"`
}

// ScanAction prints the candidates of one hOCR file without touching any
// raster.
func ScanAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: hocr-numbers scan <hocr-file>", 2)
	}
	path := c.Args().First()

	s := &storage.Storage{}
	fileStats, err := s.GetFileStats(path)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	scanner := hocr.NewScanner(c.Float64("min-confidence"), c.Int("max-value"))
	cands, stats, err := scanner.ScanFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	out := ScanOutput{
		File:    path,
		Size:    humanize.Bytes(uint64(fileStats.SizeBytes)),
		Stats:   stats,
		Rasters: cands.Rasters,
	}
	return write(os.Stdout, out, models.ResolveOutputFormat(c.String("format")))
}

// LookupResult is one line of lookup output.
type LookupResult struct {
	Value    int    `json:"value" yaml:"value"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"`
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
	RunID    string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Found    bool   `json:"found" yaml:"found"`
}

// LookupAction resolves each value argument to its first stored crop.
// With --catalog the catalog is asked first; its rows carry the source
// document and run, and stale rows fall through to the store on disk.
// It exits 1 when any value has none.
func LookupAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: hocr-numbers lookup <value>...", 2)
	}

	root := c.String("output-dir")
	var database *db.DB
	if path := c.String("catalog"); path != "" {
		var err error
		if database, err = db.Open(path); err != nil {
			return cli.Exit(err.Error(), 2)
		}
		defer database.Close()
	}

	var results []LookupResult
	missing := 0
	for _, arg := range c.Args().Slice() {
		value, err := strconv.Atoi(arg)
		if err != nil || value < 0 {
			return cli.Exit(fmt.Sprintf("invalid value %q", arg), 2)
		}

		if database != nil {
			r, ok, err := lookupCatalog(database, value)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if ok {
				results = append(results, r)
				continue
			}
		}

		path, height, err := artifact_manager.Lookup(root, value)
		switch {
		case errors.Is(err, artifact_manager.ErrNoArtifact):
			missing++
			results = append(results, LookupResult{Value: value})
		case err != nil:
			return cli.Exit(err.Error(), 2)
		default:
			results = append(results, LookupResult{Value: value, Path: path, Height: height, Found: true})
		}
	}

	format := models.ResolveOutputFormat(c.String("format"))
	if format == models.OutputText {
		for _, r := range results {
			if r.Found {
				fmt.Printf("%d\t%s\t%d\n", r.Value, r.Path, r.Height)
			} else {
				fmt.Printf("%d\t(missing)\n", r.Value)
			}
		}
	} else if err := write(os.Stdout, results, format); err != nil {
		return err
	}

	if missing > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d values have no artifact", missing, len(results)), 1)
	}
	return nil
}

// lookupCatalog returns the first catalogued crop of value that still
// exists on disk.
func lookupCatalog(database *db.DB, value int) (LookupResult, bool, error) {
	artifacts, err := database.ListArtifacts(value)
	if err != nil {
		return LookupResult{}, false, err
	}
	for _, a := range artifacts {
		if _, err := os.Stat(a.Path); err != nil {
			continue
		}
		return LookupResult{
			Value:    value,
			Path:     a.Path,
			Height:   a.Height,
			Document: a.Document,
			RunID:    a.RunID,
			Found:    true,
		}, true, nil
	}
	return LookupResult{}, false, nil
}

// IndexAction rebuilds the catalog's artifact table from the store on disk.
func IndexAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))

	database, err := db.Open(c.String("catalog"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	jobs := c.Int("jobs")
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	root := c.String("output-dir")
	artifacts, err := artifact_manager.Walk(c.Context, root, jobs)
	if err != nil {
		return fmt.Errorf("failed to walk artifact store: %w", err)
	}
	if err := database.ReplaceArtifacts(artifacts); err != nil {
		return err
	}

	count, values, err := database.CountArtifacts()
	if err != nil {
		return err
	}
	logger.Info("Catalog re-indexed", "catalog", database.Path(), "output_dir", root, "artifacts", count, "values", values)
	fmt.Printf("Indexed %s artifacts covering %s values from %s\n",
		humanize.Comma(int64(count)), humanize.Comma(int64(values)), root)
	return nil
}

func write(w io.Writer, v any, format models.OutputFormat) error {
	var data []byte
	var err error
	if format == models.OutputJSON {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
