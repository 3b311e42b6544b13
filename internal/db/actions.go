package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/hocr-numbers/pkg/db"
)

func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("catalog"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-36s %-20s %-6s %-6s %-6s %-10s %-10s\n",
		"Run", "Started", "Docs", "OK", "Failed", "Created", "Skipped")
	fmt.Println(strings.Repeat("-", 100))

	for _, r := range runs {
		a := r.Aggregate
		fmt.Printf("%-36s %-20s %-6d %-6d %-6d %-10s %-10s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			a.Documents,
			a.Succeeded,
			a.Failed,
			humanize.Comma(int64(a.Created)),
			humanize.Comma(int64(a.Skipped)),
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'hocr-numbers run <id>' to see per-document results\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("catalog"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}

	results, err := database.GetDocumentResults(runID)
	if err != nil {
		return err
	}

	a := run.Aggregate
	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:     %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
	if run.FinishedAt.Valid {
		fmt.Printf("Duration:    %s\n", run.FinishedAt.Time.Sub(run.StartedAt).Round(time.Millisecond))
	} else {
		fmt.Printf("Duration:    (unfinished)\n")
	}
	fmt.Printf("Raw dir:     %s\n", run.RawDir)
	fmt.Printf("Output dir:  %s\n", run.OutputDir)
	fmt.Printf("Settings:    min confidence %g, max value %d, %d workers\n", run.MinConfidence, run.MaxValue, run.WorkerCount)
	fmt.Printf("Documents:   %d total (%d success, %d failed)\n", a.Documents, a.Succeeded, a.Failed)
	fmt.Printf("Artifacts:   %s created, %s skipped, %d invalid, %d missing rasters\n",
		humanize.Comma(int64(a.Created)), humanize.Comma(int64(a.Skipped)), a.Invalid, a.MissingRasters)

	if len(results) > 0 {
		fmt.Printf("\nResults (%d):\n", len(results))
		fmt.Println(strings.Repeat("-", 60))
		for i, r := range results {
			fmt.Printf("%2d. [%s] %s\n", i+1, r.Status, r.Document)
			if r.Status == "failed" {
				fmt.Printf("    Error: [%s] %s\n", r.ErrorType, r.ErrorMessage)
				continue
			}
			cached := ""
			if r.Cached {
				cached = " (cached scan)"
			}
			fmt.Printf("    Pages: %d | Words: %s | Candidates: %d | Created: %d | Skipped: %d%s\n",
				r.Pages, humanize.Comma(int64(r.Words)), r.Accepted, r.Counts.Created, r.Counts.Skipped, cached)
		}
	}

	return nil
}
