package models

// Artifact is one stored crop. Document and Raster are empty when the
// artifact was found by walking the store rather than written in this run.
type Artifact struct {
	Value    int    `json:"value" yaml:"value"`
	Path     string `json:"path" yaml:"path"`
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
	Raster   string `json:"raster,omitempty" yaml:"raster,omitempty"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int    `json:"height" yaml:"height"`
}
