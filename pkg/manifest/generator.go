package manifest

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/mapreduce"
	"github.com/dtnitsch/hocr-numbers/pkg/storage"
)

// Build assembles the manifest of a finished run. Results are listed by
// document name.
func Build(runID string, cfg *models.ExtractConfig, results []models.DocumentResult, agg models.RunAggregate, elapsed time.Duration) *RunManifest {
	m := &RunManifest{
		RunID:         runID,
		GeneratedAt:   time.Now().Format(time.RFC3339),
		RawDir:        cfg.RawDir,
		OutputDir:     cfg.OutputDir,
		MinConfidence: cfg.MinConfidence,
		MaxValue:      cfg.MaxValue,
		Workers:       cfg.WorkerCount,
		DurationSec:   elapsed.Seconds(),
		Documents:     agg.Documents,
		Succeeded:     agg.Succeeded,
		Failed:        agg.Failed,
		Created:       agg.Created,
		Skipped:       agg.Skipped,
		Invalid:       agg.Invalid,
		MissingRaster: agg.MissingRasters,
		TopDocuments:  mapreduce.TopDocuments(results, 10),
	}

	for _, r := range results {
		summary := DocumentSummary{Document: r.Document}
		if r.Failed() {
			summary.Status = "error"
			summary.ErrorType = r.ErrorType
			summary.ErrorMessage = r.Error
		} else {
			summary.Status = "success"
			summary.Candidates = r.Stats.Accepted
			summary.Created = r.Counts.Created
			summary.Skipped = r.Counts.Skipped
			summary.Invalid = r.Counts.Invalid
			summary.Cached = r.Cached
		}
		m.Results = append(m.Results, summary)
	}
	sort.Slice(m.Results, func(i, j int) bool { return m.Results[i].Document < m.Results[j].Document })

	return m
}

// Write saves the manifest as <dir>/run-<date>-<id>.yaml and returns the path.
func Write(dir string, m *RunManifest, s *storage.Storage) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	name := fmt.Sprintf("run-%s-%s.yaml", time.Now().Format("2006-01-02"), m.RunID)
	path := filepath.Join(dir, name)
	if err := s.SaveFile(path, data); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return path, nil
}
