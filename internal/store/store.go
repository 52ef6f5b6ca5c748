// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline run history in a local SQLite database so
// past runs and their section verdicts can be listed and inspected.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

const dbFile = "transcript.db"

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at dataDir/transcript.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "runs"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			course_title TEXT NOT NULL,
			started_at TEXT NOT NULL,
			success INTEGER NOT NULL,
			execution_time_seconds REAL,
			errors TEXT,
			final_document_path TEXT,
			quality_report_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_sections (
			run_id TEXT NOT NULL REFERENCES runs(id),
			section_id TEXT NOT NULL,
			approved INTEGER NOT NULL,
			issues TEXT,
			PRIMARY KEY (run_id, section_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun persists one run record with its section verdicts in a single
// transaction.
func (s *Store) SaveRun(ctx context.Context, run types.RunRecord, sections []types.SectionQualityRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return fmt.Errorf("marshaling errors: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, course_title, started_at, success, execution_time_seconds,
			errors, final_document_path, quality_report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CourseTitle, run.StartedAt.UTC().Format(time.RFC3339),
		boolToInt(run.Success), run.ExecutionTimeSeconds,
		string(errorsJSON), run.FinalDocumentPath, run.QualityReportPath,
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for _, record := range sections {
		issuesJSON, err := json.Marshal(record.Issues)
		if err != nil {
			return fmt.Errorf("marshaling issues for %s: %w", record.SectionID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_sections (run_id, section_id, approved, issues) VALUES (?, ?, ?, ?)`,
			run.ID, record.SectionID, boolToInt(record.Approved), string(issuesJSON),
		); err != nil {
			return fmt.Errorf("inserting section %s: %w", record.SectionID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// uses the store default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_title, started_at, success, execution_time_seconds,
			errors, final_document_path, quality_report_path
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var run types.RunRecord
		var startedAt, errorsJSON string
		var success int
		if err := rows.Scan(&run.ID, &run.CourseTitle, &startedAt, &success,
			&run.ExecutionTimeSeconds, &errorsJSON,
			&run.FinalDocumentPath, &run.QualityReportPath); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Success = success != 0
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		if errorsJSON != "" {
			if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
				return nil, fmt.Errorf("unmarshaling errors for run %s: %w", run.ID, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Sections returns the section verdicts recorded for one run.
func (s *Store) Sections(ctx context.Context, runID string) ([]types.SectionQualityRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section_id, approved, issues FROM run_sections WHERE run_id = ? ORDER BY section_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying sections for run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []types.SectionQualityRecord
	for rows.Next() {
		var record types.SectionQualityRecord
		var approved int
		var issuesJSON string
		if err := rows.Scan(&record.SectionID, &approved, &issuesJSON); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		record.Approved = approved != 0
		if issuesJSON != "" {
			if err := json.Unmarshal([]byte(issuesJSON), &record.Issues); err != nil {
				return nil, fmt.Errorf("unmarshaling issues for %s: %w", record.SectionID, err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
