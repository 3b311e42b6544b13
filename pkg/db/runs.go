package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dtnitsch/hocr-numbers/models"
)

// Run represents one extract invocation
type Run struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    sql.NullTime
	RawDir        string
	OutputDir     string
	MinConfidence float64
	MaxValue      int
	WorkerCount   int
	Aggregate     models.RunAggregate
}

// CreateRun records the start of a run.
func (db *DB) CreateRun(runID string, startedAt time.Time, cfg *models.ExtractConfig) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_id, started_at, raw_dir, output_dir, min_confidence, max_value, worker_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, startedAt.UTC(), cfg.RawDir, cfg.OutputDir, cfg.MinConfidence, cfg.MaxValue, cfg.WorkerCount)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the aggregate of a finished run.
func (db *DB) FinishRun(runID string, finishedAt time.Time, agg models.RunAggregate) error {
	res, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, document_count = ?, success_count = ?, failed_count = ?,
		    created_count = ?, skipped_count = ?, invalid_count = ?, missing_raster_count = ?
		WHERE run_id = ?
	`, finishedAt.UTC(), agg.Documents, agg.Succeeded, agg.Failed,
		agg.Created, agg.Skipped, agg.Invalid, agg.MissingRasters, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

const runColumns = `run_id, started_at, finished_at, raw_dir, output_dir, min_confidence, max_value, worker_count,
	document_count, success_count, failed_count, created_count, skipped_count, invalid_count, missing_raster_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	a := &r.Aggregate
	err := row.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.RawDir, &r.OutputDir,
		&r.MinConfidence, &r.MaxValue, &r.WorkerCount,
		&a.Documents, &a.Succeeded, &a.Failed, &a.Created, &a.Skipped, &a.Invalid, &a.MissingRasters)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID string) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}
