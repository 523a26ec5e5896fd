// Package store persists editor state as JSON records in a SQLite database.
// The database is held under an exclusive file lock for the lifetime of the
// store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/keagan/reelforge/internal/timeline"
	"github.com/keagan/reelforge/pkg/util"
)

// ErrLocked is returned by Open when another process holds the state lock.
var ErrLocked = errors.New("editor state is locked by another process")

const (
	KeyEditor = "editor"
	KeyLayout = "layout"

	dbName   = "editor.db"
	lockName = "editor.lock"

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store is a key/value record table.
type Store struct {
	logger zerolog.Logger
	db     *sql.DB
	lock   *flock.Flock
	path   string
}

// Open creates dir if needed, takes the lock and prepares the schema.
func Open(logger zerolog.Logger, dir string) (*Store, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure state dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(dir, dbName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{
		logger: logger.With().Str("component", "store").Logger(),
		db:     db,
		lock:   lock,
		path:   dbPath,
	}
	if err := s.initSchema(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.logger.Debug().Str("path", dbPath).Msg("opened state store")
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS records (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database and releases the lock.
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

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Get returns the raw value of key. found is false when no record exists.
func (s *Store) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

// Put upserts key.
func (s *Store) Put(ctx context.Context, key, value string) error {
	const upsert = `INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, upsert, key, value, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, string(data))
}

// getJSON decodes key into v. Missing and undecodable records report false;
// only database failures are returned as errors.
func (s *Store) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("ignoring malformed record")
		return false, nil
	}
	return true, nil
}

// LoadState returns the saved editor record. A missing or malformed record
// yields the zero State, which timeline.Restore treats as defaults.
func (s *Store) LoadState(ctx context.Context) (timeline.State, error) {
	var st timeline.State
	ok, err := s.getJSON(ctx, KeyEditor, &st)
	if err != nil || !ok {
		return timeline.State{}, err
	}
	return st, nil
}

// SaveState writes the editor record.
func (s *Store) SaveState(ctx context.Context, st timeline.State) error {
	return s.putJSON(ctx, KeyEditor, st)
}

// LoadLayout returns the saved layout preferences, zero when absent.
func (s *Store) LoadLayout(ctx context.Context) (timeline.Layout, error) {
	var l timeline.Layout
	ok, err := s.getJSON(ctx, KeyLayout, &l)
	if err != nil || !ok {
		return timeline.Layout{}, err
	}
	return l, nil
}

// SaveLayout writes the layout preferences.
func (s *Store) SaveLayout(ctx context.Context, l timeline.Layout) error {
	return s.putJSON(ctx, KeyLayout, l)
}

// Reset deletes every record.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{KeyEditor, KeyLayout} {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
