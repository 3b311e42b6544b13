package extract

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/hocr-numbers/internal/common"
	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/artifact_manager"
	"github.com/dtnitsch/hocr-numbers/pkg/caching"
	"github.com/dtnitsch/hocr-numbers/pkg/db"
	"github.com/dtnitsch/hocr-numbers/pkg/extractor"
	"github.com/dtnitsch/hocr-numbers/pkg/hocr"
	"github.com/dtnitsch/hocr-numbers/pkg/manifest"
	"github.com/dtnitsch/hocr-numbers/pkg/mapreduce"
	"github.com/dtnitsch/hocr-numbers/pkg/storage"
)

func ExtractAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))
	startTime := time.Now()

	cfg, err := ConfigFromFlags(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	docs, err := storage.DiscoverDocuments(cfg.RawDir, cfg.LayoutSuffix, cfg.RasterSuffix)
	if err != nil {
		logger.Error("failed to discover documents", "raw_dir", cfg.RawDir, "error", err)
		return cli.Exit(err.Error(), 2)
	}
	if len(docs) == 0 {
		logger.Warn("No documents found", "raw_dir", cfg.RawDir)
	}

	manager, err := artifact_manager.NewManager(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to initialize artifact manager", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	// The scan cache and the catalog are optional. Failing to open either
	// only loses that bookkeeping for this run.
	var cache *caching.Cache
	if cfg.CacheDir != "" {
		cache, err = caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			logger.Warn("Scan cache unavailable, scanning every document", "cache_dir", cfg.CacheDir, "error", err)
			cache = nil
		}
	}

	var database *db.DB
	if cfg.CatalogPath != "" {
		database, err = db.Open(cfg.CatalogPath)
		if err != nil {
			logger.Warn("Catalog unavailable, run will not be recorded", "path", cfg.CatalogPath, "error", err)
			database = nil
		} else {
			defer database.Close()
		}
	}

	runID := uuid.NewString()
	if database != nil {
		if err := database.CreateRun(runID, startTime, cfg); err != nil {
			logger.Warn("Failed to record run start", "run_id", runID, "error", err)
		}
	}

	p := &pipeline{
		logger:    logger,
		scanner:   hocr.NewScanner(cfg.MinConfidence, cfg.MaxValue),
		extractor: extractor.New(manager, logger),
		storage:   &storage.Storage{},
		cache:     cache,
	}

	bar := newProgressBar(len(docs), c.Bool("quiet"))
	results := run(logger, cfg.WorkerCount, docs, p.process, func(Result) { _ = bar.Add(1) })
	_ = bar.Finish()

	docResults := make([]models.DocumentResult, 0, len(results))
	for _, r := range results {
		docResults = append(docResults, r.DocumentResult)
	}
	agg := mapreduce.ReduceResults(docResults)
	elapsed := time.Since(startTime)

	if database != nil {
		recordRun(logger, database, runID, results, agg)
	}

	out := &FinalOutput{
		Status:       statusOf(agg),
		RunID:        runID,
		Stats:        Stats{RunAggregate: agg, TotalTimeSeconds: elapsed.Seconds()},
		TopDocuments: mapreduce.TopDocuments(docResults, 5),
		Failed:       mapreduce.FailedDocuments(docResults),
	}

	if cfg.ManifestDir != "" {
		m := manifest.Build(runID, cfg, docResults, agg, elapsed)
		path, err := manifest.Write(cfg.ManifestDir, m, &storage.Storage{})
		if err != nil {
			logger.Warn("Failed to write run manifest", "error", err)
		} else {
			out.Manifest = path
		}
	}

	logger.Info("Extraction finished", "run_id", runID, "documents", agg.Documents,
		"failed", agg.Failed, "created", agg.Created, "skipped", agg.Skipped)

	if err := writeSummary(os.Stdout, out, models.ResolveOutputFormat(c.String("format"))); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	if code := ExitCode(agg); code != 0 {
		return cli.Exit(fmt.Sprintf("%d of %d documents failed", agg.Failed, agg.Documents), code)
	}
	return nil
}

// recordRun writes per-document results and new artifacts to the catalog.
// Catalog failures are logged and never change the run outcome.
func recordRun(logger *slog.Logger, database *db.DB, runID string, results []Result, agg models.RunAggregate) {
	for _, r := range results {
		docID, err := database.UpsertDocument(r.Source)
		if err != nil {
			logger.Warn("Failed to record document", "document", r.Document, "error", err)
			continue
		}
		if err := database.InsertDocumentResult(runID, docID, r.DocumentResult); err != nil {
			logger.Warn("Failed to record document result", "document", r.Document, "error", err)
		}
		for _, a := range r.Artifacts {
			if err := database.InsertArtifact(runID, a); err != nil {
				logger.Warn("Failed to record artifact", "document", r.Document, "value", a.Value, "error", err)
			}
		}
	}
	if err := database.FinishRun(runID, time.Now(), agg); err != nil {
		logger.Warn("Failed to record run totals", "run_id", runID, "error", err)
	}
}
