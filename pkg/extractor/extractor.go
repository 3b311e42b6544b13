// Package extractor turns scanned candidates into stored crops.
package extractor

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/artifact_manager"
	"github.com/dtnitsch/hocr-numbers/pkg/raster"
)

// Extractor crops candidates out of page rasters and stores them.
type Extractor struct {
	store  *artifact_manager.Manager
	logger *slog.Logger
}

// New returns an Extractor writing to store. A nil logger discards output.
func New(store *artifact_manager.Manager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{store: store, logger: logger}
}

// Extract stores one crop per candidate of doc and reports what happened.
func (e *Extractor) Extract(doc models.SourceDocument, cands *models.DocumentCandidates) (models.ExtractCounts, error) {
	counts, _, err := e.ExtractArtifacts(doc, cands)
	return counts, err
}

// ExtractArtifacts is Extract that also returns the crops written in this
// call. A crop already present in the store is left alone and counted as
// skipped. A raster missing from the raster directory drops its candidates
// with a warning. Failing to decode a raster or to write a crop fails the
// document.
func (e *Extractor) ExtractArtifacts(doc models.SourceDocument, cands *models.DocumentCandidates) (models.ExtractCounts, []models.Artifact, error) {
	var counts models.ExtractCounts
	var created []models.Artifact
	if cands == nil {
		return counts, nil, nil
	}

	for _, rc := range cands.Rasters {
		if len(rc.Candidates) == 0 {
			continue
		}
		log := e.logger.With("document", doc.Name, "raster", rc.Raster)

		rasterPath := filepath.Join(doc.RasterDir, rc.Raster)
		if info, err := os.Stat(rasterPath); err != nil || info.IsDir() {
			log.Warn("Raster not found, dropping its candidates", "candidates", len(rc.Candidates))
			counts.MissingRasters++
			continue
		}

		var img image.Image
		for _, c := range rc.Candidates {
			path := e.store.ArtifactPath(c.Value, doc.Name, rc.Raster)
			exists, err := e.store.Exists(path)
			if err != nil {
				return counts, created, err
			}
			if exists {
				counts.Skipped++
				continue
			}

			if img == nil {
				img, err = raster.Open(rasterPath, rc.PageBox)
				if err != nil {
					return counts, created, err
				}
			}

			crop, ok := raster.Crop(img, c.BBox, rc.PageBox)
			if !ok {
				log.Warn("Empty crop region", "value", c.Value, "bbox", c.BBox)
				counts.Invalid++
				continue
			}

			var buf bytes.Buffer
			if err := raster.EncodePNG(&buf, crop); err != nil {
				return counts, created, err
			}
			if err := e.store.Save(path, buf.Bytes()); err != nil {
				return counts, created, fmt.Errorf("value %d from %s: %w", c.Value, rc.Raster, err)
			}

			size := crop.Bounds().Size()
			created = append(created, models.Artifact{
				Value:    c.Value,
				Path:     path,
				Document: doc.Name,
				Raster:   rc.Raster,
				Width:    size.X,
				Height:   size.Y,
			})
			counts.Created++
			log.Debug("Stored crop", "value", c.Value, "path", path)
		}
	}

	return counts, created, nil
}
