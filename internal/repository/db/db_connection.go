package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// InitDB opens (or creates) the SQLite file at path and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer; the report snapshot is replaced in one transaction
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaReports = `
CREATE TABLE IF NOT EXISTS reports (
    seq INTEGER PRIMARY KEY,
    source_path TEXT NOT NULL,
    filter TEXT NOT NULL,
    ts TEXT NOT NULL,
    temperature REAL,
    position REAL NOT NULL,
    fitting TEXT NOT NULL,
    method TEXT,
    focuser TEXT,
    star_detector TEXT,
    has_r2 BOOLEAN NOT NULL,
    r2_hyperbolic REAL,
    r2_quadratic REAL,
    r2_left REAL,
    r2_right REAL
);
`

const schemaReportSnapshot = `
CREATE TABLE IF NOT EXISTS report_snapshot (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    dir TEXT NOT NULL,
    count INTEGER NOT NULL,
    loaded_at TIMESTAMP NOT NULL
);
`

const schemaAnalysisEvents = `
CREATE TABLE IF NOT EXISTS analysis_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexAnalysisEvents = `
CREATE INDEX IF NOT EXISTS idx_analysis_events_occurred_at ON analysis_events (occurred_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{
		schemaReports,
		schemaReportSnapshot,
		schemaAnalysisEvents,
		indexAnalysisEvents,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
