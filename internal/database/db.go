package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Use WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the schema if it does not exist yet
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		total_students INTEGER NOT NULL,
		high_risk INTEGER NOT NULL,
		moderate_risk INTEGER NOT NULL,
		low_risk INTEGER NOT NULL,
		ml_enabled INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analysis_results (
		run_id TEXT NOT NULL REFERENCES analysis_runs(id),
		row_index INTEGER NOT NULL,
		g1 REAL,
		g2 REAL,
		g3 REAL,
		absences REAL,
		study_time REAL,
		failures REAL,
		family_support TEXT,
		aps INTEGER NOT NULL,
		ars INTEGER NOT NULL,
		fsr INTEGER NOT NULL,
		lrs INTEGER NOT NULL,
		total_risk_score INTEGER NOT NULL,
		risk_level TEXT NOT NULL,
		ml_probability REAL,
		final_risk_level TEXT NOT NULL,
		recommendations TEXT NOT NULL,
		PRIMARY KEY (run_id, row_index)
	);

	CREATE TABLE IF NOT EXISTS model_artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trained_at TEXT NOT NULL,
		accuracy REAL NOT NULL,
		artifact BLOB NOT NULL
	);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}
