package models

import "strings"

// OutputFormat selects how command results are printed to stdout.
type OutputFormat int

const (
	// OutputText prints a short human-readable report.
	OutputText OutputFormat = iota
	OutputYAML
	OutputJSON
)

// ResolveOutputFormat maps a --format flag value to an OutputFormat,
// falling back to text for anything unrecognised.
func ResolveOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return OutputYAML
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}
