package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/hocr-numbers/models"
)

func statusOf(agg models.RunAggregate) string {
	switch ExitCode(agg) {
	case 0:
		return "success"
	case 1:
		return "partial"
	default:
		return "failed"
	}
}

// writeSummary prints the run outcome to w in the requested format.
func writeSummary(w io.Writer, out *FinalOutput, format models.OutputFormat) error {
	switch format {
	case models.OutputYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		_, err = w.Write(data)
		return err
	case models.OutputJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	s := out.Stats
	fmt.Fprintf(w, "Run %s: %d/%d documents successful (%.1fs)\n",
		out.RunID, s.Succeeded, s.Documents, s.TotalTimeSeconds)
	fmt.Fprintf(w, "Artifacts: %s created, %s already present",
		humanize.Comma(int64(s.Created)), humanize.Comma(int64(s.Skipped)))
	if s.Invalid > 0 {
		fmt.Fprintf(w, ", %s empty regions", humanize.Comma(int64(s.Invalid)))
	}
	if s.MissingRasters > 0 {
		fmt.Fprintf(w, ", %s missing rasters", humanize.Comma(int64(s.MissingRasters)))
	}
	fmt.Fprintln(w)

	if len(out.TopDocuments) > 0 {
		fmt.Fprintf(w, "Top documents: %s\n", strings.Join(out.TopDocuments, ", "))
	}
	if len(out.Failed) > 0 {
		fmt.Fprintf(w, "\nFailed documents (%d):\n", len(out.Failed))
		for _, f := range out.Failed {
			fmt.Fprintf(w, "  %s [%s] %s\n", f.Document, f.ErrorType, f.Error)
		}
	}
	if out.Manifest != "" {
		fmt.Fprintf(w, "\nManifest: %s\n", out.Manifest)
	}
	return nil
}
