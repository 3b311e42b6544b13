package manifest

// RunManifest is the YAML summary written after each extract run. It lets a
// caller see what a run did without opening the catalog.
type RunManifest struct {
	RunID         string            `yaml:"run_id"`
	GeneratedAt   string            `yaml:"generated_at"`
	RawDir        string            `yaml:"raw_dir"`
	OutputDir     string            `yaml:"output_dir"`
	MinConfidence float64           `yaml:"min_confidence"`
	MaxValue      int               `yaml:"max_value"`
	Workers       int               `yaml:"workers"`
	DurationSec   float64           `yaml:"duration_seconds"`
	Documents     int               `yaml:"documents"`
	Succeeded     int               `yaml:"succeeded"`
	Failed        int               `yaml:"failed"`
	Created       int               `yaml:"created"`
	Skipped       int               `yaml:"skipped"`
	Invalid       int               `yaml:"invalid"`
	MissingRaster int               `yaml:"missing_rasters"`
	TopDocuments  []string          `yaml:"top_documents,omitempty"`
	Results       []DocumentSummary `yaml:"results"`
}

// DocumentSummary is one document's line in the manifest.
type DocumentSummary struct {
	Document     string `yaml:"document"`
	Status       string `yaml:"status"` // "success" or "error"
	ErrorType    string `yaml:"error_type,omitempty"`
	ErrorMessage string `yaml:"error_message,omitempty"`
	Candidates   int    `yaml:"candidates"`
	Created      int    `yaml:"created"`
	Skipped      int    `yaml:"skipped"`
	Invalid      int    `yaml:"invalid,omitempty"`
	Cached       bool   `yaml:"cached,omitempty"`
}
