package export

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is stored in the meta table of exported databases.
const SchemaVersion = 1

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"courses", `
		CREATE TABLE IF NOT EXISTS courses (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			semester INTEGER NOT NULL,
			credits INTEGER NOT NULL,
			position INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'none'
		)`},
	// Declared prerequisites, including codes absent from the catalog.
	{"prerequisites", `
		CREATE TABLE IF NOT EXISTS prerequisites (
			course_code TEXT NOT NULL,
			prerequisite_code TEXT NOT NULL,
			position INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			PRIMARY KEY (course_code, prerequisite_code),
			FOREIGN KEY (course_code) REFERENCES courses(code)
		)`},
	{"required_for", `
		CREATE TABLE IF NOT EXISTS required_for (
			course_code TEXT NOT NULL,
			dependent_code TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (course_code, dependent_code),
			FOREIGN KEY (course_code) REFERENCES courses(code),
			FOREIGN KEY (dependent_code) REFERENCES courses(code)
		)`},
	{"recent_prerequisites", `
		CREATE TABLE IF NOT EXISTS recent_prerequisites (
			course_code TEXT NOT NULL,
			prerequisite_code TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (course_code, prerequisite_code),
			FOREIGN KEY (course_code) REFERENCES courses(code),
			FOREIGN KEY (prerequisite_code) REFERENCES courses(code)
		)`},
	{"course_tags", `
		CREATE TABLE IF NOT EXISTS course_tags (
			course_code TEXT NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (course_code, tag),
			FOREIGN KEY (course_code) REFERENCES courses(code)
		)`},
	{"meta", `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`},
	{"idx_courses_semester", `CREATE INDEX IF NOT EXISTS idx_courses_semester ON courses(semester, position)`},
	{"idx_required_for_dependent", `CREATE INDEX IF NOT EXISTS idx_required_for_dependent ON required_for(dependent_code)`},
	{"idx_course_tags_tag", `CREATE INDEX IF NOT EXISTS idx_course_tags_tag ON course_tags(tag)`},
}

// CreateSchema creates every table and index of the export database.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("create %s: %w", stmt.name, err)
		}
	}
	return nil
}
