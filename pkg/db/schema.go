package db

const schema = `
-- Runs: one row per extract invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    raw_dir TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    min_confidence REAL NOT NULL,
    max_value INTEGER NOT NULL,
    worker_count INTEGER NOT NULL,

    -- Aggregate, filled in when the run finishes
    document_count INTEGER DEFAULT 0,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    created_count INTEGER DEFAULT 0,
    skipped_count INTEGER DEFAULT 0,
    invalid_count INTEGER DEFAULT 0,
    missing_raster_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Documents: one row per book directory ever seen
CREATE TABLE IF NOT EXISTS documents (
    document_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    dir TEXT NOT NULL,
    layout_path TEXT,
    raster_dir TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Document results: per-document outcome within a run
CREATE TABLE IF NOT EXISTS document_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    document_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    error_type TEXT,
    error_message TEXT,
    pages INTEGER DEFAULT 0,
    words INTEGER DEFAULT 0,
    accepted INTEGER DEFAULT 0,
    created INTEGER DEFAULT 0,
    skipped INTEGER DEFAULT 0,
    invalid INTEGER DEFAULT 0,
    missing_rasters INTEGER DEFAULT 0,
    cached BOOLEAN DEFAULT 0,
    duration_ms INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    FOREIGN KEY (document_id) REFERENCES documents(document_id),
    UNIQUE(run_id, document_id)
);

CREATE INDEX IF NOT EXISTS idx_document_results_run ON document_results(run_id);

-- Artifacts: content pointers (DB stores metadata, disk stores the crops)
CREATE TABLE IF NOT EXISTS artifacts (
    artifact_id INTEGER PRIMARY KEY AUTOINCREMENT,
    value INTEGER NOT NULL,
    file_path TEXT NOT NULL UNIQUE,
    document TEXT,
    raster TEXT,
    width INTEGER,
    height INTEGER NOT NULL,
    run_id TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_value ON artifacts(value);
CREATE INDEX IF NOT EXISTS idx_artifacts_document ON artifacts(document);
`
