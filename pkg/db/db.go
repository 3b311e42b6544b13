// Package db is the SQLite run catalog: runs, their per-document results
// and the crops they produced.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dtnitsch/hocr-numbers/models"
)

type DB struct {
	*sql.DB
	path string
}

// Open opens the catalog at dbPath, creating its directory and schema on
// first use. An empty path means models.DefaultCatalogPath; ":memory:" gives
// a private in-memory catalog.
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		dbPath = models.DefaultCatalogPath
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", dbPath, err)
	}
	// Only the run collector writes, so one connection is enough, and it keeps
	// the pragmas below (and an in-memory catalog) on every statement.
	sqlDB.SetMaxOpenConns(1)
	// The busy timeout lets a reader such as `hocr-numbers runs` share the
	// file with a run that is still recording.
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db := &DB{DB: sqlDB, path: dbPath}
	if err := db.ensureSchemaExists(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize catalog %s: %w", dbPath, err)
	}
	return db, nil
}

// ensureSchemaExists creates the tables unless the runs table is present.
func (db *DB) ensureSchemaExists() error {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return db.InitSchema()
	case err != nil:
		return fmt.Errorf("failed to check schema: %w", err)
	}
	return nil
}

// Path is the catalog file the DB was opened from.
func (db *DB) Path() string {
	return db.path
}

// InitSchema creates every catalog table.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
