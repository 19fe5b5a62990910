package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// AssertCourseCount verifies the expected number of courses.
func AssertCourseCount(t *testing.T, courses []model.Course, expected int) {
	t.Helper()
	if len(courses) != expected {
		t.Errorf("expected %d courses, got %d", expected, len(courses))
	}
}

// AssertNoDuplicateCodes verifies all course codes are unique.
func AssertNoDuplicateCodes(t *testing.T, courses []model.Course) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range courses {
		if seen[c.Code] {
			t.Errorf("duplicate course code: %s", c.Code)
		}
		seen[c.Code] = true
	}
}

// AssertAllValid verifies all courses pass validation.
func AssertAllValid(t *testing.T, courses []model.Course) {
	t.Helper()
	for i, c := range courses {
		if err := c.Validate(); err != nil {
			t.Errorf("course %d (%s) invalid: %v", i, c.Code, err)
		}
	}
}

// AssertPrerequisite verifies that code lists prereq.
func AssertPrerequisite(t *testing.T, courses []model.Course, code, prereq string) {
	t.Helper()
	for _, c := range courses {
		if c.Code == code {
			if !slices.Contains(c.Prerequisites, prereq) {
				t.Errorf("expected %s to require %s, prerequisites are %v", code, prereq, c.Prerequisites)
			}
			return
		}
	}
	t.Errorf("course %s not found", code)
}

// HasCycle reports whether the declared prerequisites contain a cycle.
func HasCycle(courses []model.Course) bool {
	adj := make(map[string][]string)
	for _, c := range courses {
		adj[c.Code] = append(adj[c.Code], c.Prerequisites...)
	}

	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var visit func(code string) bool
	visit = func(code string) bool {
		if inPath[code] {
			return true
		}
		if visited[code] {
			return false
		}
		visited[code] = true
		inPath[code] = true
		for _, p := range adj[code] {
			if visit(p) {
				return true
			}
		}
		inPath[code] = false
		return false
	}

	for _, c := range courses {
		if visit(c.Code) {
			return true
		}
	}
	return false
}

// AssertNoCycles verifies that the prerequisite graph is acyclic.
func AssertNoCycles(t *testing.T, courses []model.Course) {
	t.Helper()
	if HasCycle(courses) {
		t.Error("expected no cycles but found one")
	}
}

// AssertHasCycle verifies that the prerequisite graph contains a cycle.
func AssertHasCycle(t *testing.T, courses []model.Course) {
	t.Helper()
	if !HasCycle(courses) {
		t.Error("expected cycle but none found")
	}
}

// AssertCodes compares an ordered code list.
func AssertCodes(t *testing.T, got []string, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// AssertCourseCodes compares the codes of a course list, in order.
func AssertCourseCodes(t *testing.T, got []model.Course, want ...string) {
	t.Helper()
	AssertCodes(t, Codes(got), want...)
}

// AssertSet compares an unordered code set.
func AssertSet(t *testing.T, got map[string]struct{}, want ...string) {
	t.Helper()
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	sorted := slices.Clone(want)
	slices.Sort(sorted)
	if !slices.Equal(keys, sorted) {
		t.Errorf("expected set %v, got %v", sorted, keys)
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// WriteCatalogFile writes courses as a JSON catalog document to path.
func WriteCatalogFile(t *testing.T, path string, courses []model.Course) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSON(courses)), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

// Codes returns the codes of courses in order.
func Codes(courses []model.Course) []string {
	codes := make([]string, len(courses))
	for i, c := range courses {
		codes[i] = c.Code
	}
	return codes
}

// FindCourse returns the course with code, or nil.
func FindCourse(courses []model.Course, code string) *model.Course {
	for i := range courses {
		if courses[i].Code == code {
			return &courses[i]
		}
	}
	return nil
}
