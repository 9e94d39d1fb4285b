// Package delta tracks file rewrites so they can be reversed on undo.
// Deltas are persisted to SQLite and keyed by run.
package delta

import (
	"database/sql"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrUnknownRun is returned by Undo for a run with no recorded deltas.
var ErrUnknownRun = errors.New("unknown run")

// Tracker records and replays file deltas.
type Tracker struct {
	mu    sync.Mutex
	db    *sql.DB
	runID string // current run; "" = no active run
}

// New creates a Tracker that writes to the given database.
func New(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// BeginRun registers a new run for operation and makes it current. All
// subsequent RecordModify calls belong to it.
func (t *Tracker) BeginRun(operation string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := uuid.NewString()
	_, err := t.db.Exec(
		`INSERT INTO runs (id, operation, created) VALUES (?, ?, ?)`,
		id, operation, time.Now().Unix(),
	)
	if err != nil {
		return "", err
	}
	t.runID = id
	return id, nil
}

// RunID returns the current run ID.
func (t *Tracker) RunID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runID
}

// RecordModify stores the original content of a file before it is
// rewritten. Only the first snapshot per file per run is kept.
func (t *Tracker) RecordModify(filePath string, oldContent []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runID == "" {
		return
	}
	var exists bool
	err := t.db.QueryRow(
		`SELECT 1 FROM file_deltas WHERE run_id = ? AND file_path = ? LIMIT 1`,
		t.runID, filePath,
	).Scan(&exists)
	if err == nil && exists {
		return // already recorded
	}
	_, err = t.db.Exec(
		`INSERT INTO file_deltas (run_id, file_path, old_content, created) VALUES (?, ?, ?, ?)`,
		t.runID, filePath, oldContent, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("failed to record modify delta")
	}
}

// Undo restores every file recorded for runID, newest first, and deletes
// the run. Returns the restored paths.
func (t *Tracker) Undo(runID string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.db.Query(
		`SELECT file_path, old_content FROM file_deltas
		 WHERE run_id = ?
		 ORDER BY id DESC`,
		runID,
	)
	if err != nil {
		return nil, err
	}

	type snapshot struct {
		path    string
		content []byte
	}
	var snaps []snapshot
	for rows.Next() {
		var s snapshot
		if err := rows.Scan(&s.path, &s.content); err != nil {
			log.Warn().Err(err).Msg("failed to scan delta row")
			continue
		}
		snaps = append(snaps, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrUnknownRun
	}

	var restored []string
	var errs []error
	for _, s := range snaps {
		if err := restore(s.path, s.content); err != nil {
			log.Warn().Err(err).Str("file", s.path).Msg("undo: failed to restore file")
			errs = append(errs, err)
			continue
		}
		restored = append(restored, s.path)
	}
	if len(errs) == 0 {
		if _, err := t.db.Exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
			log.Warn().Err(err).Str("run", runID).Msg("failed to delete undone run")
		}
	}
	return restored, errors.Join(errs...)
}

// restore writes content back, keeping the current file mode when the
// file still exists.
func restore(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, content, mode)
}
