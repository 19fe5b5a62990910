package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/coursemap/pkg/version"
)

// SQLiteExporter writes a catalog with its derived relations to a SQLite file.
type SQLiteExporter struct {
	Bundle Bundle
	now    func() time.Time
}

// NewSQLiteExporter creates an exporter for b.
func NewSQLiteExporter(b Bundle) *SQLiteExporter {
	return &SQLiteExporter{Bundle: b, now: time.Now}
}

// Export replaces any database at path with a fresh export.
func (e *SQLiteExporter) Export(path string) error {
	if e.Bundle.Catalog == nil {
		return fmt.Errorf("no catalog to export")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		name string
		fn   func(*sql.Tx) error
	}{
		{"courses", e.insertCourses},
		{"prerequisites", e.insertPrerequisites},
		{"required_for", e.insertRequiredFor},
		{"recent_prerequisites", e.insertRecent},
		{"course_tags", e.insertTags},
		{"meta", e.insertMeta},
	}
	for _, step := range steps {
		if err := step.fn(tx); err != nil {
			return fmt.Errorf("insert %s: %w", step.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

func (e *SQLiteExporter) insertCourses(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO courses (code, name, semester, credits, position, status) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range e.Bundle.Catalog.Courses() {
		status := e.Bundle.Statuses.Of(c.Code)
		if _, err := stmt.Exec(c.Code, c.Name, c.Semester, c.Credits, i, string(status)); err != nil {
			return fmt.Errorf("%s: %w", c.Code, err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertPrerequisites(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO prerequisites (course_code, prerequisite_code, position, resolved) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	cat := e.Bundle.Catalog
	for _, c := range cat.Courses() {
		for i, p := range c.Prerequisites {
			resolved := 0
			if cat.Has(p) {
				resolved = 1
			}
			if _, err := stmt.Exec(c.Code, p, i, resolved); err != nil {
				return fmt.Errorf("%s→%s: %w", c.Code, p, err)
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertRequiredFor(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO required_for (course_code, dependent_code, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	cat := e.Bundle.Catalog
	for _, code := range cat.Codes() {
		for i, dep := range cat.RequiredFor(code) {
			if _, err := stmt.Exec(code, dep, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertRecent(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO recent_prerequisites (course_code, prerequisite_code, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	cat := e.Bundle.Catalog
	for _, code := range cat.Codes() {
		for i, p := range cat.RecentPrerequisites(code) {
			if _, err := stmt.Exec(code, p, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertTags(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO course_tags (course_code, tag) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	cat := e.Bundle.Catalog
	for _, c := range cat.Courses() {
		for _, tag := range cat.Tags(c) {
			if _, err := stmt.Exec(c.Code, tag); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertMeta(tx *sql.Tx) error {
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"program":        e.Bundle.Program,
		"institution":    e.Bundle.Institution,
		"course_count":   strconv.Itoa(e.Bundle.Catalog.Len()),
		"generator":      "cm " + version.Version,
		"exported_at":    e.now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}
