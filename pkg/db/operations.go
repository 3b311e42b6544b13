package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtnitsch/hocr-numbers/models"
)

// UpsertDocument inserts or refreshes a document, returning the document_id.
func (db *DB) UpsertDocument(doc models.SourceDocument) (int64, error) {
	_, err := db.Exec(`
		INSERT INTO documents (name, dir, layout_path, raster_dir)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			dir = excluded.dir,
			layout_path = excluded.layout_path,
			raster_dir = excluded.raster_dir,
			updated_at = CURRENT_TIMESTAMP
	`, doc.Name, doc.Dir, NewNullString(doc.LayoutPath), NewNullString(doc.RasterDir))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert document: %w", err)
	}

	var id int64
	if err := db.QueryRow("SELECT document_id FROM documents WHERE name = ?", doc.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get document ID: %w", err)
	}
	return id, nil
}

// InsertDocumentResult records a document's outcome in a run.
func (db *DB) InsertDocumentResult(runID string, documentID int64, r models.DocumentResult) error {
	status := "success"
	if r.Failed() {
		status = "failed"
	}
	_, err := db.Exec(`
		INSERT INTO document_results (run_id, document_id, status, error_type, error_message,
			pages, words, accepted, created, skipped, invalid, missing_rasters, cached, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, documentID, status, NewNullString(r.ErrorType), NewNullString(r.Error),
		r.Stats.Pages, r.Stats.Words, r.Stats.Accepted,
		r.Counts.Created, r.Counts.Skipped, r.Counts.Invalid, r.Counts.MissingRasters,
		r.Cached, r.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert document result: %w", err)
	}
	return nil
}

// DocumentResultRow is a document result read back from the catalog.
type DocumentResultRow struct {
	Document     string
	Status       string
	ErrorType    string
	ErrorMessage string
	Pages        int
	Words        int
	Accepted     int
	Counts       models.ExtractCounts
	Cached       bool
	DurationMS   int64
}

// GetDocumentResults retrieves all results for a run in document order.
func (db *DB) GetDocumentResults(runID string) ([]DocumentResultRow, error) {
	rows, err := db.Query(`
		SELECT d.name, r.status, r.error_type, r.error_message, r.pages, r.words, r.accepted,
		       r.created, r.skipped, r.invalid, r.missing_rasters, r.cached, r.duration_ms
		FROM document_results r
		JOIN documents d ON r.document_id = d.document_id
		WHERE r.run_id = ?
		ORDER BY d.name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document results: %w", err)
	}
	defer rows.Close()

	var results []DocumentResultRow
	for rows.Next() {
		var r DocumentResultRow
		var errorType, errorMessage sql.NullString
		if err := rows.Scan(&r.Document, &r.Status, &errorType, &errorMessage, &r.Pages, &r.Words, &r.Accepted,
			&r.Counts.Created, &r.Counts.Skipped, &r.Counts.Invalid, &r.Counts.MissingRasters,
			&r.Cached, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.ErrorType = errorType.String
		r.ErrorMessage = errorMessage.String
		results = append(results, r)
	}

	return results, rows.Err()
}

// InsertArtifact records a stored crop. Re-recording a path updates it.
func (db *DB) InsertArtifact(runID string, a models.Artifact) error {
	_, err := db.Exec(`
		INSERT INTO artifacts (value, file_path, document, raster, width, height, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			value = excluded.value,
			document = COALESCE(excluded.document, artifacts.document),
			raster = COALESCE(excluded.raster, artifacts.raster),
			width = COALESCE(excluded.width, artifacts.width),
			height = excluded.height,
			run_id = COALESCE(excluded.run_id, artifacts.run_id)
	`, a.Value, a.Path, NewNullString(a.Document), NewNullString(a.Raster),
		NewNullInt64(int64(a.Width)), a.Height, NewNullString(runID))
	if err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}
	return nil
}

// ReplaceArtifacts makes the artifacts table mirror the given list. Rows for
// paths that are no longer on disk are removed.
func (db *DB) ReplaceArtifacts(artifacts []models.Artifact) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`CREATE TEMP TABLE IF NOT EXISTS seen_paths (file_path TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("failed to prepare index: %w", err)
	}
	if _, err = tx.Exec(`DELETE FROM seen_paths`); err != nil {
		return fmt.Errorf("failed to prepare index: %w", err)
	}

	for _, a := range artifacts {
		if _, err = tx.Exec(`
			INSERT INTO artifacts (value, file_path, height)
			VALUES (?, ?, ?)
			ON CONFLICT(file_path) DO UPDATE SET value = excluded.value, height = excluded.height
		`, a.Value, a.Path, a.Height); err != nil {
			return fmt.Errorf("failed to index artifact: %w", err)
		}
		if _, err = tx.Exec(`INSERT OR IGNORE INTO seen_paths (file_path) VALUES (?)`, a.Path); err != nil {
			return fmt.Errorf("failed to index artifact: %w", err)
		}
	}

	if _, err = tx.Exec(`DELETE FROM artifacts WHERE file_path NOT IN (SELECT file_path FROM seen_paths)`); err != nil {
		return fmt.Errorf("failed to prune artifacts: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// ArtifactInfo is a catalogued crop.
type ArtifactInfo struct {
	models.Artifact
	RunID string
}

// ListArtifacts returns the crops of value in path order.
func (db *DB) ListArtifacts(value int) ([]ArtifactInfo, error) {
	rows, err := db.Query(`
		SELECT value, file_path, document, raster, width, height, run_id
		FROM artifacts
		WHERE value = ?
		ORDER BY file_path
	`, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactInfo
	for rows.Next() {
		var a ArtifactInfo
		var document, raster, runID sql.NullString
		var width sql.NullInt64
		if err := rows.Scan(&a.Value, &a.Path, &document, &raster, &width, &a.Height, &runID); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		a.Document = document.String
		a.Raster = raster.String
		a.Width = int(width.Int64)
		a.RunID = runID.String
		artifacts = append(artifacts, a)
	}

	return artifacts, rows.Err()
}

// CountArtifacts returns how many crops and distinct values are catalogued.
func (db *DB) CountArtifacts() (artifacts, values int, err error) {
	err = db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT value) FROM artifacts`).Scan(&artifacts, &values)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count artifacts: %w", err)
	}
	return artifacts, values, nil
}

// NewNullString returns a NULL for the empty string.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NewNullInt64 returns a NULL for zero.
func NewNullInt64(n int64) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}
