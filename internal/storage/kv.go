// Package storage persists the task/project state in a SQLite-backed
// string-keyed store.
//
// The database lives under the .tdl data directory. Use Open() to connect;
// the schema is created on first open.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MaxRetries is the maximum number of retries for transient database errors.
const MaxRetries = 5

// RetryBaseDelay is the base delay for exponential backoff.
const RetryBaseDelay = 50 * time.Millisecond

// SchemaVersion is the current schema version, tracked via PRAGMA user_version.
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// KV wraps a SQL database connection with string-keyed blob operations.
// Values are whole-value overwrites: callers write complete serialized
// slices, never incremental patches.
type KV struct {
	*sql.DB
	path string
}

// Open opens or creates the store at the given path and ensures the schema.
func Open(path string) (*KV, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var sqlDB *sql.DB

	// Retry opening with exponential backoff; another process may hold
	// the file briefly (e.g. a backup in flight).
	err := withRetryNoResult(func() error {
		var err error
		sqlDB, err = sql.Open("sqlite", path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		// Set busy timeout first so later pragmas benefit from it.
		if _, err := sqlDB.Exec("PRAGMA busy_timeout=5000"); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}

		if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	kv := &KV{DB: sqlDB, path: path}
	if err := kv.init(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return kv, nil
}

func (kv *KV) init() error {
	if _, err := kv.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	var version int
	if err := kv.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version < SchemaVersion {
		if _, err := kv.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}
	return nil
}

// Get returns the value stored under key. The second result is false when
// the key has never been written.
func (kv *KV) Get(key string) (string, bool, error) {
	var value string
	err := kv.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (kv *KV) Set(key, value string) error {
	_, err := withRetry(func() (sql.Result, error) {
		return kv.Exec(`
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// SetAll overwrites every given key in a single transaction, so a state
// snapshot is either fully written or not at all.
func (kv *KV) SetAll(pairs map[string]string) error {
	return withRetryNoResult(func() error {
		tx, err := kv.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for key, value := range pairs {
			if _, err := tx.Exec(`
				INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
				key, value); err != nil {
				return fmt.Errorf("failed to write key %q: %w", key, err)
			}
		}
		return tx.Commit()
	})
}

// isRetryableError checks if an error is a transient SQLite error.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLITE_BUSY (5), SQLITE_LOCKED (6)
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "SQLITE_LOCKED")
}

// withRetry executes a function with exponential backoff on transient errors.
func withRetry[T any](fn func() (T, error)) (T, error) {
	var result T
	var err error
	delay := RetryBaseDelay

	for attempt := 0; attempt < MaxRetries; attempt++ {
		result, err = fn()
		if err == nil || !isRetryableError(err) {
			return result, err
		}

		time.Sleep(delay)
		delay *= 2
		if delay > 2*time.Second {
			delay = 2 * time.Second
		}
	}

	return result, fmt.Errorf("failed after %d retries: %w", MaxRetries, err)
}

// withRetryNoResult executes a function with retry that returns only an error.
func withRetryNoResult(fn func() error) error {
	_, err := withRetry(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
