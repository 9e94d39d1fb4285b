// Package store provides the SQLite database behind the undo journal.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id        TEXT PRIMARY KEY,
	operation TEXT NOT NULL,
	created   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS file_deltas (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	file_path   TEXT NOT NULL,
	old_content BLOB,
	created     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
CREATE INDEX IF NOT EXISTS idx_deltas_run ON file_deltas(run_id);
`

// Run is one recorded docsync invocation.
type Run struct {
	ID        string
	Operation string
	Created   time.Time
	Files     int
}

// Journal is the database holding runs and their file deltas.
type Journal struct {
	mu        sync.Mutex
	db        *sql.DB
	retention time.Duration
}

// Open creates or opens a journal database at dbPath, creating parent
// directories as needed. Runs older than retention are purged on open;
// zero keeps everything.
func Open(dbPath string, retention time.Duration) (*Journal, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	// Pragmas are per connection; one connection keeps them all in effect.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	j := &Journal{db: db, retention: retention}
	j.purgeStale()
	return j, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// DB exposes the underlying handle for the delta tracker.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// Runs lists runs newest first, at most limit of them (0 = all).
func (j *Journal) Runs(limit int) ([]Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	query := `SELECT r.id, r.operation, r.created, COUNT(d.id)
		FROM runs r LEFT JOIN file_deltas d ON d.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created DESC, r.rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.Operation, &created, &r.Files); err != nil {
			return nil, err
		}
		r.Created = time.Unix(created, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run that touched at least one file.
func (j *Journal) LatestRun() (Run, bool, error) {
	runs, err := j.Runs(0)
	if err != nil {
		return Run{}, false, err
	}
	for _, r := range runs {
		if r.Files > 0 {
			return r, true, nil
		}
	}
	return Run{}, false, nil
}

// purgeStale removes runs older than the retention window.
func (j *Journal) purgeStale() {
	if j.retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-j.retention).Unix()
	if _, err := j.db.Exec("DELETE FROM runs WHERE created <= ?", cutoff); err != nil {
		log.Warn().Err(err).Msg("failed to purge stale runs")
	}
}
