package extract

import (
	"github.com/dtnitsch/hocr-numbers/models"
)

type Job struct {
	Document models.SourceDocument
}

// Result holds the outcome of a processed job.
type Result struct {
	models.DocumentResult
	Source    models.SourceDocument
	Artifacts []models.Artifact
	Err       error
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status       string                  `json:"status" yaml:"status"`
	RunID        string                  `json:"run_id" yaml:"run_id"`
	Stats        Stats                   `json:"stats" yaml:"stats"`
	TopDocuments []string                `json:"top_documents,omitempty" yaml:"top_documents,omitempty"`
	Failed       []models.DocumentResult `json:"failed,omitempty" yaml:"failed,omitempty"`
	Manifest     string                  `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	models.RunAggregate `yaml:",inline"`
	TotalTimeSeconds    float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}
