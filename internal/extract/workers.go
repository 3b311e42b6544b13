package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dtnitsch/hocr-numbers/internal/common"
	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/caching"
	"github.com/dtnitsch/hocr-numbers/pkg/extractor"
	"github.com/dtnitsch/hocr-numbers/pkg/hocr"
	"github.com/dtnitsch/hocr-numbers/pkg/storage"
)

// processFunc handles one document inside a worker.
type processFunc func(id int, doc models.SourceDocument) Result

// run fans docs out to a pool of workers and returns one result per
// document, in completion order. onResult, if set, is called from the
// calling goroutine as each result arrives.
func run(logger *slog.Logger, workerCount int, docs []models.SourceDocument, process processFunc, onResult func(Result)) []Result {
	if workerCount > len(docs) {
		workerCount = len(docs)
	}
	if workerCount < 1 {
		workerCount = 1
	}

	logger.Info("Starting extraction", "document_count", len(docs), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(docs))
	results := make(chan Result, len(docs))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, process, &wg, jobs, results)
	}

	for _, doc := range docs {
		jobs <- Job{Document: doc}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	allResults := make([]Result, 0, len(docs))
	for result := range results {
		allResults = append(allResults, result)
		if onResult != nil {
			onResult(result)
		}
	}
	logger.Info("All extraction workers finished")

	return allResults
}

func worker(id int, logger *slog.Logger, process processFunc, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Debug("Worker started job", "worker_id", id, "document", job.Document.Name)
		results <- safeProcess(id, logger, process, job.Document)
	}
}

// safeProcess turns a panic in one document into a failure of that document
// alone, so the worker keeps serving jobs.
func safeProcess(id int, logger *slog.Logger, process processFunc, doc models.SourceDocument) (result Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := &models.DocumentError{Document: doc.Name, Type: models.ErrorTypePanic, Err: fmt.Errorf("%v", r)}
			logger.Error("Panic while processing document", "worker_id", id, "document", doc.Name, "error", err, "stack", string(debug.Stack()))
			result = failed(doc, err)
		}
		result.Duration = time.Since(start)
	}()
	return process(id, doc)
}

func failed(doc models.SourceDocument, err *models.DocumentError) Result {
	return Result{
		DocumentResult: models.DocumentResult{
			Document:  doc.Name,
			ErrorType: err.Type,
			Error:     err.Err.Error(),
		},
		Source: doc,
		Err:    err,
	}
}

// pipeline runs scan then extract for one document.
type pipeline struct {
	logger    *slog.Logger
	scanner   *hocr.Scanner
	extractor *extractor.Extractor
	storage   *storage.Storage
	cache     *caching.Cache // nil disables the scan cache
}

func (p *pipeline) fail(id int, doc models.SourceDocument, errType string, err error) Result {
	docErr := &models.DocumentError{Document: doc.Name, Type: errType, Err: err}
	p.logger.Error("Document failed", "worker_id", id, "document", doc.Name, "error_type", errType, "error", err)
	return failed(doc, docErr)
}

func (p *pipeline) process(id int, doc models.SourceDocument) Result {
	if doc.DiscoveryErr != nil {
		errType := models.ErrorTypeScan
		switch {
		case errors.Is(doc.DiscoveryErr, storage.ErrNoLayout):
			errType = models.ErrorTypeMissingLayout
		case errors.Is(doc.DiscoveryErr, storage.ErrNoRasterDir):
			errType = models.ErrorTypeMissingRasters
		}
		return p.fail(id, doc, errType, doc.DiscoveryErr)
	}

	layout, err := p.storage.ReadFile(doc.LayoutPath)
	if err != nil {
		return p.fail(id, doc, models.ErrorTypeScan, err)
	}

	cands, stats, cached, err := p.scan(doc, layout)
	if err != nil {
		return p.fail(id, doc, models.ErrorTypeScan, err)
	}

	counts, artifacts, err := p.extractor.ExtractArtifacts(doc, cands)
	if err != nil {
		return p.fail(id, doc, models.ErrorTypeExtract, err)
	}

	p.logger.Info("Document finished", "worker_id", id, "document", doc.Name,
		"candidates", stats.Accepted, "created", counts.Created, "skipped", counts.Skipped, "cached_scan", cached)

	return Result{
		DocumentResult: models.DocumentResult{
			Document: doc.Name,
			Counts:   counts,
			Stats:    stats,
			Cached:   cached,
		},
		Source:    doc,
		Artifacts: artifacts,
	}
}

func (p *pipeline) scan(doc models.SourceDocument, layout []byte) (*models.DocumentCandidates, models.ScanStats, bool, error) {
	var key string
	if p.cache != nil {
		key = caching.ScanKey(common.ContentHash(layout), p.scanner.MinConfidence, p.scanner.Normalizer.Max)
		if entry, ok := p.cache.GetScan(key); ok {
			return entry.Candidates, entry.Stats, true, nil
		}
	}

	cands, stats, err := p.scanner.Scan(bytes.NewReader(layout))
	if err != nil {
		return nil, stats, false, err
	}

	if p.cache != nil {
		if err := p.cache.SetScan(key, &caching.ScanEntry{Candidates: cands, Stats: stats}); err != nil {
			p.logger.Warn("Failed to cache scan", "document", doc.Name, "error", err)
		}
	}
	return cands, stats, false, nil
}
