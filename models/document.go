package models

import (
	"fmt"
	"time"
)

// SourceDocument is one scanned book: a directory holding a single hOCR
// layout file and a directory of page rasters.
type SourceDocument struct {
	Name       string `json:"name" yaml:"name"`
	Dir        string `json:"dir" yaml:"dir"`
	LayoutPath string `json:"layout_path,omitempty" yaml:"layout_path,omitempty"`
	RasterDir  string `json:"raster_dir,omitempty" yaml:"raster_dir,omitempty"`

	// DiscoveryErr is set when the directory cannot be read or is missing
	// its layout file or raster directory. Such documents are still dispatched so that the
	// failure is reported alongside the others.
	DiscoveryErr error `json:"-" yaml:"-"`
}

// Error types reported per document.
const (
	ErrorTypeMissingLayout  = "missing_layout"
	ErrorTypeMissingRasters = "missing_rasters"
	ErrorTypeScan           = "scan_error"
	ErrorTypeExtract        = "extract_error"
	ErrorTypePanic          = "panic"
)

// DocumentError ties a failure to the document it happened in.
type DocumentError struct {
	Document string
	Type     string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Document, e.Type, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// ScanStats tallies what happened to the word tokens of one document.
type ScanStats struct {
	Pages         int `json:"pages" yaml:"pages"`
	PagesSkipped  int `json:"pages_skipped" yaml:"pages_skipped"`
	Words         int `json:"words" yaml:"words"`
	NoNumber      int `json:"no_number" yaml:"no_number"`
	Duplicate     int `json:"duplicate" yaml:"duplicate"`
	NoConfidence  int `json:"no_confidence" yaml:"no_confidence"`
	LowConfidence int `json:"low_confidence" yaml:"low_confidence"`
	NoBBox        int `json:"no_bbox" yaml:"no_bbox"`
	Accepted      int `json:"accepted" yaml:"accepted"`
}

// ExtractCounts is the outcome of writing one document's artifacts.
type ExtractCounts struct {
	Created        int `json:"created" yaml:"created"`
	Skipped        int `json:"skipped" yaml:"skipped"`
	Invalid        int `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	MissingRasters int `json:"missing_rasters,omitempty" yaml:"missing_rasters,omitempty"`
}

// Add accumulates other into c.
func (c *ExtractCounts) Add(other ExtractCounts) {
	c.Created += other.Created
	c.Skipped += other.Skipped
	c.Invalid += other.Invalid
	c.MissingRasters += other.MissingRasters
}

// RunAggregate is the reduced outcome of one extraction run. Failed
// documents are counted but contribute nothing to the artifact totals.
type RunAggregate struct {
	Documents int `json:"documents" yaml:"documents"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	ExtractCounts `yaml:",inline"`
}

// DocumentResult is what one worker reports for one document.
type DocumentResult struct {
	Document  string        `json:"document" yaml:"document"`
	Counts    ExtractCounts `json:"counts" yaml:"counts"`
	Stats     ScanStats     `json:"stats" yaml:"stats"`
	Cached    bool          `json:"cached,omitempty" yaml:"cached,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string        `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Failed reports whether the document contributed nothing to the run.
func (r DocumentResult) Failed() bool {
	return r.ErrorType != ""
}
