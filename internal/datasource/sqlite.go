// Package datasource persists per-course progress statuses in SQLite.
package datasource

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/coursemap/pkg/debug"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

const statusSchema = `
CREATE TABLE IF NOT EXISTS course_status (
	code       TEXT PRIMARY KEY,
	status     TEXT NOT NULL CHECK (status IN ('planned', 'in-progress', 'completed')),
	updated_at TEXT NOT NULL
)`

// StatusDB stores course statuses in a SQLite file. A course without a row
// has status none.
type StatusDB struct {
	db   *sql.DB
	path string
}

// OpenStatusDB opens (creating if needed) the status database at path.
func OpenStatusDB(path string) (*StatusDB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating status db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(statusSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating status schema: %w", err)
	}
	debug.Log("datasource: opened status db %s", path)
	return &StatusDB{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *StatusDB) Path() string {
	return s.path
}

// Close closes the database connection
func (s *StatusDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Status returns the stored status of code, or none.
func (s *StatusDB) Status(code string) (model.Status, error) {
	var raw string
	err := s.db.QueryRow(`SELECT status FROM course_status WHERE code = ?`, code).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatusNone, nil
	}
	if err != nil {
		return model.StatusNone, fmt.Errorf("reading status of %s: %w", code, err)
	}
	return model.Status(raw), nil
}

// SetStatus stores status for code. Setting none removes the row.
func (s *StatusDB) SetStatus(code string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	if status == model.StatusNone {
		if _, err := s.db.Exec(`DELETE FROM course_status WHERE code = ?`, code); err != nil {
			return fmt.Errorf("clearing status of %s: %w", code, err)
		}
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO course_status (code, status, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		code, string(status), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing status of %s: %w", code, err)
	}
	return nil
}

// Statuses returns every stored status.
func (s *StatusDB) Statuses() (map[string]model.Status, error) {
	rows, err := s.db.Query(`SELECT code, status FROM course_status ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("querying statuses: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Status)
	for rows.Next() {
		var code, raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		out[code] = model.Status(raw)
	}
	return out, rows.Err()
}
