// Package datasource persists the console's one piece of session state: the
// last navigation address used against each service. Restarting amlv against
// the same service restores the previous selection unless an explicit link
// overrides it.
package datasource

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SessionStore is a small SQLite-backed store keyed by service URL.
type SessionStore struct {
	db   *sql.DB
	path string
}

// OpenSessionStore opens (creating if needed) the session database at path.
func OpenSessionStore(path string) (*SessionStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open session store: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS sessions (
			service_url TEXT PRIMARY KEY,
			address     TEXT NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create session schema: %w", err)
	}

	return &SessionStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SessionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveAddress records the navigation address for a service, replacing any
// previous one.
func (s *SessionStore) SaveAddress(serviceURL, address string) error {
	const q = `
		INSERT INTO sessions (service_url, address, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(service_url) DO UPDATE SET
			address = excluded.address,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(q, serviceURL, address, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// LoadAddress returns the stored navigation address for a service, or
// ok=false when none was recorded.
func (s *SessionStore) LoadAddress(serviceURL string) (address string, ok bool, err error) {
	const q = `SELECT address FROM sessions WHERE service_url = ?`
	row := s.db.QueryRow(q, serviceURL)
	if err := row.Scan(&address); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("loading session: %w", err)
	}
	return address, true, nil
}

// Clear removes the stored address for a service.
func (s *SessionStore) Clear(serviceURL string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE service_url = ?`, serviceURL); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
