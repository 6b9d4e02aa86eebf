// Package store persists small bits of client-side state that the server
// does not track: the composer input history and the last open session.
// It is a single SQLite file under the state directory.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"kushl/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS input_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const keyLastSession = "last_session"

// Local is the on-disk client state store.
type Local struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	logging.Boot("local store open at %s", path)
	return &Local{db: db}, nil
}

// Close releases the database.
func (l *Local) Close() error {
	return l.db.Close()
}

// AppendInput records one submitted composer line. Consecutive duplicates
// are skipped so arrow-key recall does not stutter.
func (l *Local) AppendInput(text string) error {
	var last string
	err := l.db.QueryRow(`SELECT text FROM input_history ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read last input: %w", err)
	}
	if err == nil && last == text {
		return nil
	}
	if _, err := l.db.Exec(`INSERT INTO input_history (text) VALUES (?)`, text); err != nil {
		return fmt.Errorf("append input: %w", err)
	}
	return nil
}

// InputHistory returns up to limit recent inputs, newest first.
func (l *Local) InputHistory(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(`SELECT text FROM input_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load input history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan input history: %w", err)
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// SetLastSession remembers the open session across restarts.
func (l *Local) SetLastSession(id string) error {
	_, err := l.db.Exec(
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		keyLastSession, id)
	if err != nil {
		return fmt.Errorf("save last session: %w", err)
	}
	return nil
}

// LastSession returns the remembered session id, or "" when none is stored.
func (l *Local) LastSession() (string, error) {
	var id string
	err := l.db.QueryRow(`SELECT value FROM state WHERE key = ?`, keyLastSession).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last session: %w", err)
	}
	return id, nil
}
