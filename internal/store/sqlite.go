// Package store persists job records behind the analysis.Store interface.
// The service opens it on an in-memory DSN: the registry survives for the
// process lifetime only, which is all the job model promises.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Liwei-Ji/DISE-AI/internal/analysis"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	result TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL,
	applied_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
`

// SQLiteStore implements analysis.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex // Protects concurrent access
}

// InMemory opens a store on an in-memory database. Nothing survives a
// process restart.
func InMemory() (*SQLiteStore, error) {
	return NewSQLiteStore(":memory:")
}

// NewSQLiteStore opens a store on the given DSN and creates the schema.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// An in-memory sqlite database exists per connection; cap the pool at
	// one so every query sees the same database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("insert schema version: %w", err)
		}
	} else if err != nil {
		db.Close()
		return nil, fmt.Errorf("check schema version: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveJob inserts or updates a job record
func (s *SQLiteStore) SaveJob(job *analysis.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result any
	if job.Result != nil {
		data, err := json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		result = string(data)
	}

	_, err := s.db.Exec(`
		INSERT INTO jobs (id, status, progress, error, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			error = excluded.error,
			result = excluded.result
	`, job.ID, string(job.Status), job.Progress, job.Error, result, job.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	return nil
}

// GetJob retrieves a job by id. Returns nil if not found.
func (s *SQLiteStore) GetJob(id string) (*analysis.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		job       analysis.Job
		status    string
		result    sql.NullString
		createdAt string
	)
	err := s.db.QueryRow(`
		SELECT id, status, progress, error, result, created_at FROM jobs WHERE id = ?
	`, id).Scan(&job.ID, &status, &job.Progress, &job.Error, &result, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	job.Status = analysis.Status(status)
	if result.Valid && result.String != "" {
		var r analysis.Result
		if err := json.Unmarshal([]byte(result.String), &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		job.Result = &r
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		job.CreatedAt = ts
	}

	return &job, nil
}

// CountByStatus returns the number of jobs in the given state
func (s *SQLiteStore) CountByStatus(status analysis.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM jobs WHERE status = ?", string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return count, nil
}

// Close closes the store and releases resources
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
