// Package journal keeps a local sqlite record of installation runs and
// their checkpoint outcomes. The journal is diagnostics only: write
// failures are logged and swallowed, never fatal to an installation.
package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kubeseed"
	"kubeseed/internal/converge"

	_ "modernc.org/sqlite"
)

// DefaultPath is where the journal lives unless configuration overrides it.
const DefaultPath = "/var/lib/kubeseed/journal.db"

type Journal struct {
	db    *sql.DB
	runID int64
}

// Open creates or opens the journal database, creating parent directories
// and the schema as needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	command TEXT NOT NULL,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS checkpoints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	name TEXT NOT NULL,
	outcome TEXT NOT NULL,
	attempts INTEGER NOT NULL,
	remediations INTEGER NOT NULL,
	last_state TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Begin opens a new run. command is the CLI invocation being journaled.
func (j *Journal) Begin(command string) error {
	res, err := j.db.Exec(`INSERT INTO runs (command, started_at) VALUES (?, ?)`,
		command, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	j.runID = id
	return nil
}

// RecordCheckpoint implements converge.Recorder.
func (j *Journal) RecordCheckpoint(name string, outcome converge.Outcome, remediations int) {
	_, err := j.db.Exec(`
INSERT INTO checkpoints (run_id, name, outcome, attempts, remediations, last_state, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, name, outcome.Kind.String(), outcome.Attempts, remediations,
		outcome.Last.Snapshot(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		slog.Warn("Failed to journal checkpoint outcome.", "checkpoint", name, "err", err)
	}
}

// History returns the most recent checkpoint records, newest first.
func (j *Journal) History(limit int) ([]kubeseed.CheckpointRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(`
SELECT run_id, name, outcome, attempts, remediations, last_state, recorded_at
FROM checkpoints ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query checkpoint history: %w", err)
	}
	defer rows.Close()

	var records []kubeseed.CheckpointRecord
	for rows.Next() {
		var rec kubeseed.CheckpointRecord
		var recordedAt string
		if err := rows.Scan(&rec.Run, &rec.Name, &rec.Outcome, &rec.Attempts,
			&rec.Remediations, &rec.LastState, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			rec.RecordedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
