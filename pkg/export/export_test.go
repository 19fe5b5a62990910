package export

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/loader"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

func bundledBundle(t *testing.T) Bundle {
	t.Helper()
	return NewBundle(loader.MustBundled(), nil)
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"SVG", "md", "svg", " db "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Format{FormatSVG, FormatMarkdown, FormatSQLite}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("format %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	all, err := ParseFormats([]string{"all"})
	if err != nil || len(all) != len(AllFormats) {
		t.Errorf("expected all formats, got %v (%v)", all, err)
	}

	if _, err := ParseFormats([]string{"pdf"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestBundleTitle(t *testing.T) {
	b := bundledBundle(t)
	if got := b.Title(); got != "Physical Therapy (Galala University)" {
		t.Errorf("unexpected title %q", got)
	}
	if got := (Bundle{}).Title(); got != "Course Catalog" {
		t.Errorf("expected fallback title, got %q", got)
	}
}

func TestGenerateMermaid_FrontierEdges(t *testing.T) {
	b := bundledBundle(t)
	out := GenerateMermaid(b.Catalog, b.Catalog.Courses(), MermaidConfig{})

	if !strings.HasPrefix(out, "graph TD\n") {
		t.Fatalf("expected graph TD header, got %q", out[:20])
	}
	for _, want := range []string{
		"    subgraph S1[\"Semester 1\"]",
		"        BPT216[\"BPT216<br/>Biomechanics 1\"]",
		"    BPT214 --> BPT216",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "BMS115 --> BPT216") {
		t.Error("non-recent prerequisite should not be drawn without AllEdges")
	}
	if strings.Contains(out, "class ") {
		t.Error("no status classes expected without statuses")
	}
}

func TestGenerateMermaid_AllEdgesAndStatuses(t *testing.T) {
	b := bundledBundle(t)
	out := GenerateMermaid(b.Catalog, b.Catalog.Courses(), MermaidConfig{
		AllEdges: true,
		Statuses: progress.Statuses{"BMS115": model.StatusCompleted, "BPT112": model.StatusPlanned},
	})

	for _, want := range []string{
		"    BPT214 ==> BPT216",
		"    BMS115 -.-> BPT216",
		"    class BMS115 completed",
		"    class BPT112 planned",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestGenerateMermaid_SubsetOmitsOutsideEdges(t *testing.T) {
	cat := catalog.Build([]model.Course{
		{Code: "A", Name: "Alpha", Semester: 1, Credits: 2},
		{Code: "B", Name: "Beta [intro]", Semester: 2, Credits: 2, Prerequisites: []string{"A"}},
		{Code: "C", Name: "Gamma", Semester: 3, Credits: 2, Prerequisites: []string{"B"}},
	})
	subset := cat.CoursesIn(catalog.NewCodeSet("B", "C"))
	out := GenerateMermaid(cat, subset, MermaidConfig{})

	if strings.Contains(out, "A -->") {
		t.Error("edge from a course outside the list should be omitted")
	}
	if !strings.Contains(out, "B --> C") {
		t.Error("expected B --> C")
	}
	if !strings.Contains(out, "Beta (intro)") {
		t.Error("expected brackets in labels to be sanitized")
	}
}

func TestMermaidIDs_Collision(t *testing.T) {
	ids := newMermaidIDs()
	a := ids.get("AB 1")
	b := ids.get("AB1")
	if a == b {
		t.Fatalf("expected distinct IDs, both %q", a)
	}
	if ids.get("AB 1") != a {
		t.Error("expected stable ID for repeated code")
	}
	if got := sanitizeMermaidID("!!"); got != "node" {
		t.Errorf("expected node fallback, got %q", got)
	}
}

func TestBuildGrid(t *testing.T) {
	b := bundledBundle(t)
	layout := buildGrid(SnapshotOptions{Catalog: b.Catalog, Focus: "BPT216"})

	if len(layout.Columns) != 10 {
		t.Errorf("expected 10 semester columns, got %d", len(layout.Columns))
	}
	if len(layout.Nodes) != 67 {
		t.Errorf("expected 67 nodes, got %d", len(layout.Nodes))
	}
	marks := make(map[string]string)
	for _, n := range layout.Nodes {
		marks[n.Code] = n.Mark
	}
	for code, want := range map[string]string{
		"BPT216": markSelf,
		"BPT214": markAncestor,
		"BMS115": markAncestor,
		"BPT319": markDescendant,
		"PHY101": markDimmed,
	} {
		if got, ok := marks[code]; ok && got != want {
			t.Errorf("%s: expected mark %q, got %q", code, want, got)
		}
	}
	if layout.Title != "Semester Grid" {
		t.Errorf("expected default title, got %q", layout.Title)
	}
}

func TestRenderSVG(t *testing.T) {
	b := bundledBundle(t)
	layout := buildGrid(SnapshotOptions{
		Catalog:  b.Catalog,
		Title:    b.Title(),
		Statuses: progress.Statuses{"BMS115": model.StatusCompleted},
	})

	var buf bytes.Buffer
	if err := renderSVG(&buf, layout); err != nil {
		t.Fatalf("renderSVG: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "Semester 1 (", "BPT216", css(colorCompleted), "keystone: BMS115"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected SVG to contain %q", want)
		}
	}
}

func TestSaveSnapshot_PNG(t *testing.T) {
	b := bundledBundle(t)
	path := filepath.Join(t.TempDir(), "nested", "grid.png")
	if err := SaveSnapshot(SnapshotOptions{Path: path, Catalog: b.Catalog}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}
}

func TestSaveSnapshot_Errors(t *testing.T) {
	b := bundledBundle(t)
	if err := SaveSnapshot(SnapshotOptions{Path: "x.svg", Catalog: catalog.Build(nil)}); err == nil {
		t.Error("expected error for empty catalog")
	}
	if err := SaveSnapshot(SnapshotOptions{Catalog: b.Catalog}); err == nil {
		t.Error("expected error for missing path")
	}
	path := filepath.Join(t.TempDir(), "grid.gif")
	if err := SaveSnapshot(SnapshotOptions{Path: path, Format: "gif", Catalog: b.Catalog}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSQLiteExporter(t *testing.T) {
	b := bundledBundle(t)
	b.Statuses = progress.Statuses{"BMS115": model.StatusCompleted}
	path := filepath.Join(t.TempDir(), "catalog.sqlite3")

	if err := NewSQLiteExporter(b).Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}
	// A second export replaces the first.
	if err := NewSQLiteExporter(b).Export(path); err != nil {
		t.Fatalf("re-Export: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	count := func(query string, args ...any) int {
		t.Helper()
		var n int
		if err := db.QueryRow(query, args...).Scan(&n); err != nil {
			t.Fatalf("%s: %v", query, err)
		}
		return n
	}

	if n := count(`SELECT COUNT(*) FROM courses`); n != 67 {
		t.Errorf("expected 67 courses, got %d", n)
	}
	if n := count(`SELECT COUNT(*) FROM required_for WHERE course_code = ?`, "BMS115"); n != 27 {
		t.Errorf("expected BMS115 required for 27 courses, got %d", n)
	}
	if n := count(`SELECT COUNT(*) FROM required_for`); n != 202 {
		t.Errorf("expected 202 required_for rows, got %d", n)
	}
	if n := count(`SELECT COUNT(*) FROM prerequisites WHERE resolved = 0`); n != 1 {
		t.Errorf("expected 1 unresolved prerequisite, got %d", n)
	}

	var recent string
	if err := db.QueryRow(`SELECT prerequisite_code FROM recent_prerequisites WHERE course_code = ?`, "BPT216").Scan(&recent); err != nil {
		t.Fatal(err)
	}
	if recent != "BPT214" {
		t.Errorf("expected BPT214, got %s", recent)
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM courses WHERE code = ?`, "BMS115").Scan(&status); err != nil {
		t.Fatal(err)
	}
	if status != "completed" {
		t.Errorf("expected completed, got %s", status)
	}

	var program string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'program'`).Scan(&program); err != nil {
		t.Fatal(err)
	}
	if program != "Physical Therapy" {
		t.Errorf("expected program meta, got %q", program)
	}

	if n := count(`SELECT COUNT(*) FROM course_tags WHERE tag = 'no-prerequisites'`); n == 0 {
		t.Error("expected some no-prerequisites tags")
	}
}

func TestCourseMarkdown(t *testing.T) {
	b := bundledBundle(t)
	statuses := progress.Statuses{"BMS115": model.StatusCompleted}

	md, ok := CourseMarkdown(b.Catalog, "BPT216", statuses)
	if !ok {
		t.Fatal("expected BPT216 to be found")
	}
	for _, want := range []string{
		"# BPT216 Biomechanics 1",
		"| 4 | 3 | none |",
		"`semester-4`",
		"**Locked** until completed: BMS116, BPT112, BPT214",
		"- **BPT214** Kinesiology 2 (semester 3, recent)",
		"- BMS115 Anatomy 1 (for physiotherapy) (semester 1)",
		"## Required for",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}

	md, ok = CourseMarkdown(b.Catalog, "BPT514", nil)
	if !ok {
		t.Fatal("expected BPT514 to be found")
	}
	if !strings.Contains(md, "- LIB116 _(not in catalog)_") {
		t.Errorf("expected dangling prerequisite line\n%s", md)
	}

	if _, ok := CourseMarkdown(b.Catalog, "NOPE", nil); ok {
		t.Error("expected unknown code to report false")
	}
}

func TestGenerateReport(t *testing.T) {
	b := bundledBundle(t)
	b.Statuses = progress.Statuses{"BMS115": model.StatusCompleted}
	out := GenerateReport(b)

	for _, want := range []string{
		"# Physical Therapy (Galala University)",
		"67 courses, 200 credits over 10 semesters.",
		"## Progress",
		"## Semester 10 (",
		"| BPT216 | Biomechanics 1 | 3 | BPT214 |",
		"## Unknown prerequisites",
		"- BPT514 lists LIB116",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
	if strings.Contains(out, "## Semester order warnings") {
		t.Error("bundled catalog has no semester order warnings")
	}
}

func TestExportAll(t *testing.T) {
	b := bundledBundle(t)
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := ExportAll(context.Background(), dir, b, nil)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(paths) != len(AllFormats) {
		t.Fatalf("expected %d paths, got %d", len(AllFormats), len(paths))
	}
	for i, f := range AllFormats {
		want := filepath.Join(dir, f.FileName())
		if paths[i] != want {
			t.Errorf("expected %s, got %s", want, paths[i])
		}
		info, err := os.Stat(want)
		if err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s: empty file", f)
		}
	}
}

func TestExportAll_Errors(t *testing.T) {
	b := bundledBundle(t)
	if _, err := ExportAll(context.Background(), t.TempDir(), b, []Format{"pdf"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExportAll(ctx, t.TempDir(), b, []Format{FormatMermaid}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if err := Write(FormatMermaid, filepath.Join(t.TempDir(), "x.mmd"), Bundle{}); err == nil {
		t.Error("expected error without catalog")
	}
}
