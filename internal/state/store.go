package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Status values for processed files.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Record is one file's processing state.
type Record struct {
	Path        string
	Size        int64
	ModTime     time.Time
	SHA256      string
	Fingerprint string
	Status      string
	Error       string
	RunID       string
	UpdatedAt   time.Time
}

// Store persists per-file processing state backed by SQLite. A file lock
// next to the database enforces a single writer across processes; WAL mode
// covers concurrent readers.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS files (
    path         TEXT PRIMARY KEY,
    size         INTEGER NOT NULL,
    mtime        TEXT NOT NULL,
    sha256       TEXT NOT NULL,
    fingerprint  TEXT NOT NULL,
    status       TEXT NOT NULL,
    error        TEXT NOT NULL DEFAULT '',
    run_id       TEXT NOT NULL DEFAULT '',
    updated_at   TEXT NOT NULL
);
`

// Open initializes or connects to the state database, acquiring the writer
// lock first.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state dir: %w", err)
	}

	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("state database %s is locked by another process", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open state db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply state schema: %w", err)
	}

	return &Store{db: db, lock: lock, path: dbPath}, nil
}

// Close closes the database and releases the writer lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Get returns the record for a path, or nil when none exists.
func (s *Store) Get(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT path, size, mtime, sha256, fingerprint, status, error, run_id, updated_at
		 FROM files WHERE path = ?`, path)

	var rec Record
	var mtime, updated string
	err := row.Scan(&rec.Path, &rec.Size, &mtime, &rec.SHA256, &rec.Fingerprint,
		&rec.Status, &rec.Error, &rec.RunID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state for %s: %w", path, err)
	}
	rec.ModTime, _ = time.Parse(time.RFC3339Nano, mtime)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &rec, nil
}

// Upsert writes the record, replacing any previous row for the path.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	rec.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (path, size, mtime, sha256, fingerprint, status, error, run_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   size = excluded.size,
		   mtime = excluded.mtime,
		   sha256 = excluded.sha256,
		   fingerprint = excluded.fingerprint,
		   status = excluded.status,
		   error = excluded.error,
		   run_id = excluded.run_id,
		   updated_at = excluded.updated_at`,
		rec.Path, rec.Size, rec.ModTime.UTC().Format(time.RFC3339Nano), rec.SHA256,
		rec.Fingerprint, rec.Status, rec.Error, rec.RunID,
		rec.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store state for %s: %w", rec.Path, err)
	}
	return nil
}

// ShouldProcess reports whether the file needs processing. A file is skipped
// only when a previous run completed with the same content hash and options
// fingerprint; force overrides the skip.
func (s *Store) ShouldProcess(ctx context.Context, path, sha256Hex, fingerprint string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	rec, err := s.Get(ctx, path)
	if err != nil {
		return false, err
	}
	if rec == nil || rec.Status != StatusDone {
		return true, nil
	}
	return rec.SHA256 != sha256Hex || rec.Fingerprint != fingerprint, nil
}

// MarkStarted records an in-progress run for the file.
func (s *Store) MarkStarted(ctx context.Context, path, sha256Hex, fingerprint, runID string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return s.Upsert(ctx, Record{
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		SHA256:      sha256Hex,
		Fingerprint: fingerprint,
		Status:      StatusRunning,
		RunID:       runID,
	})
}

// MarkDone records a successful run.
func (s *Store) MarkDone(ctx context.Context, path string) error {
	return s.setStatus(ctx, path, StatusDone, "")
}

// MarkFailed records a failed run with its error message.
func (s *Store) MarkFailed(ctx context.Context, path, message string) error {
	return s.setStatus(ctx, path, StatusFailed, message)
}

func (s *Store) setStatus(ctx context.Context, path, status, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE files SET status = ?, error = ?, updated_at = ? WHERE path = ?`,
		status, message, time.Now().UTC().Format(time.RFC3339Nano), path)
	if err != nil {
		return fmt.Errorf("update state for %s: %w", path, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("no state row for %s", path)
	}
	return nil
}
