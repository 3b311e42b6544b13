package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	dbcmd "github.com/dtnitsch/hocr-numbers/internal/db"
	"github.com/dtnitsch/hocr-numbers/internal/extract"
	"github.com/dtnitsch/hocr-numbers/internal/inspect"
	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/artifact_manager"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func newApp() *cli.App {
	catalogFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "catalog",
			Usage:   "SQLite run catalog",
			Value:   models.DefaultCatalogPath,
			EnvVars: []string{"HOCR_NUMBERS_CATALOG"},
		}
	}
	outputDirFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "output-dir",
			Usage:   "Root of the number artifact store",
			Value:   artifact_manager.DefaultBaseDir,
			EnvVars: []string{"HOCR_NUMBERS_OUTPUT_DIR"},
		}
	}

	return &cli.App{
		Name:  "hocr-numbers",
		Usage: "Harvest crops of printed numbers from OCR'd book scans",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log per-artifact debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Scan every book under the raw directory and store one crop per number",
				Flags:  extract.Flags(),
				Action: extract.ExtractAction,
			},
			{
				Name:      "scan",
				Usage:     "Print the number candidates of one hOCR file",
				ArgsUsage: "<hocr-file>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "min-confidence", Value: models.DefaultMinConfidence},
					&cli.IntFlag{Name: "max-value", Value: models.DefaultMaxValue},
					&cli.StringFlag{Name: "format", Usage: "yaml or json", Value: "yaml"},
				},
				Action: inspect.ScanAction,
			},
			{
				Name:      "lookup",
				Usage:     "Print the first stored crop and its height for each value",
				ArgsUsage: "<value>...",
				Flags: []cli.Flag{
					outputDirFlag(),
					&cli.StringFlag{Name: "catalog", Usage: "Ask this catalog first and report each crop's document and run"},
					&cli.StringFlag{Name: "format", Usage: "text, yaml or json", Value: "text"},
				},
				Action: inspect.LookupAction,
			},
			{
				Name:  "index",
				Usage: "Rebuild the catalog's artifact table from the store",
				Flags: []cli.Flag{
					outputDirFlag(),
					catalogFlag(),
					&cli.IntFlag{Name: "jobs", Usage: "Value directories read in parallel (0 = one per CPU)"},
				},
				Action: inspect.IndexAction,
			},
			{
				Name:  "runs",
				Usage: "List recorded extraction runs",
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: dbcmd.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "Show per-document results of a run (latest if no id is given)",
				ArgsUsage: "[run-id]",
				Flags:     []cli.Flag{catalogFlag()},
				Action:    dbcmd.RunAction,
			},
		},
	}
}
