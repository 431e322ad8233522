// Package sqlite is a key-value preference backend on an embedded SQLite
// database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/runways/pkg/core"
)

// FileName is the database file created inside the data directory.
const FileName = "runways.db"

// Preferences implements core.Preferences on a single table.
type Preferences struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Preferences, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets the CLI read while another process writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Preferences{db: db, path: path}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Path is the database location.
func (p *Preferences) Path() string {
	return p.path
}

// Close closes the database connection.
func (p *Preferences) Close() error {
	return p.db.Close()
}

// Get implements core.Preferences.
func (p *Preferences) Get(key string) ([]byte, bool, error) {
	var value string
	err := p.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query preference %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set implements core.Preferences.
func (p *Preferences) Set(key string, value []byte) error {
	_, err := p.db.Exec(`
	INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store preference %s: %w", key, err)
	}
	return nil
}

// Delete implements core.Preferences.
func (p *Preferences) Delete(key string) error {
	if _, err := p.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (p *Preferences) UpdatedAt(key string) (time.Time, bool, error) {
	var raw string
	err := p.db.QueryRow(`SELECT updated_at FROM preferences WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query preference %s: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse updated_at for %s: %w", key, err)
	}
	return t, true, nil
}

var _ core.Preferences = (*Preferences)(nil)
