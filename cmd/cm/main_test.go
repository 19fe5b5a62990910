package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/coursemap/pkg/export"
	"github.com/vanderheijden86/coursemap/pkg/loader"
	"github.com/vanderheijden86/coursemap/pkg/version"
)

// runCLI runs the command against an isolated config dir and status database.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(loader.CatalogEnvVar, "")
	args = append([]string{"--progress-db", filepath.Join(dir, "progress.db"), "--quiet"}, args...)

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

const smallCatalog = `{"program":"Test","courses":[
  {"code":"A1","name":"Anatomy 1","semester":1,"credits":5},
  {"code":"A2","name":"Anatomy 2","semester":2,"credits":5,"prerequisites":["A1"]},
  {"code":"B2","name":"Biomechanics","semester":2,"credits":3,"prerequisites":["A1"]},
  {"code":"C3","name":"Clinic","semester":3,"credits":8,"prerequisites":["A1","A2","B2"]}
]}`

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return doc
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, _ := it.(string)
		out = append(out, s)
	}
	return out
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("expected version %s in %q", version.Version, out)
	}
}

func TestBadFlagIsUsageError(t *testing.T) {
	code, _, stderr := runCLI(t, "--no-such-flag")
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(stderr, "no-such-flag") {
		t.Errorf("expected flag name in stderr, got %q", stderr)
	}
}

func TestStrayArgumentIsUsageError(t *testing.T) {
	if code, _, _ := runCLI(t, "extra"); code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestRobotCourse_Bundled(t *testing.T) {
	code, out, stderr := runCLI(t, "--robot-course", "BPT216")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	doc := decode(t, out)
	course, ok := doc["course"].(map[string]any)
	if !ok {
		t.Fatalf("expected course object, got %v", doc)
	}
	if got := stringList(course["recent_prerequisites"]); !reflect.DeepEqual(got, []string{"BPT214"}) {
		t.Errorf("expected recent prerequisites [BPT214], got %v", got)
	}
	if got := stringList(course["required_for"]); !reflect.DeepEqual(got, []string{"BPT319", "CMS424"}) {
		t.Errorf("expected required_for [BPT319 CMS424], got %v", got)
	}
	if _, present := course["status"]; present {
		t.Errorf("expected no status outside --robot-available, got %v", course["status"])
	}
	if doc["catalog"] != loader.BundledName {
		t.Errorf("expected catalog %q, got %v", loader.BundledName, doc["catalog"])
	}
}

func TestRobotCourse_Unknown(t *testing.T) {
	code, _, stderr := runCLI(t, "--robot-course", "NOPE")
	if code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(stderr, "NOPE") {
		t.Errorf("expected code in error, got %q", stderr)
	}
}

func TestRobotClosures(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	tests := []struct {
		flag, code string
		want       []string
		found      bool
	}{
		{"--robot-ancestors", "C3", []string{"A1", "A2", "B2", "C3"}, true},
		{"--robot-descendants", "A2", []string{"A2", "C3"}, true},
		{"--robot-focus", "B2", []string{"A1", "B2", "C3"}, true},
		{"--robot-ancestors", "ZZ9", []string{"ZZ9"}, false},
	}
	for _, tt := range tests {
		code, out, stderr := runCLI(t, "--catalog", path, tt.flag, tt.code)
		if code != exitOK {
			t.Fatalf("%s %s: exit %d: %s", tt.flag, tt.code, code, stderr)
		}
		doc := decode(t, out)
		if got := stringList(doc["codes"]); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s %s: expected %v, got %v", tt.flag, tt.code, tt.want, got)
		}
		if doc["found"] != tt.found {
			t.Errorf("%s %s: expected found=%v, got %v", tt.flag, tt.code, tt.found, doc["found"])
		}
	}
}

func TestRobotSearchAndSemester(t *testing.T) {
	path := writeCatalog(t, smallCatalog)

	_, out, _ := runCLI(t, "--catalog", path, "--robot-search", "anat")
	doc := decode(t, out)
	if doc["count"] != float64(2) {
		t.Errorf("expected 2 search results, got %v", doc["count"])
	}

	_, out, _ = runCLI(t, "--catalog", path, "--robot-semester", "2")
	doc = decode(t, out)
	if doc["credits"] != float64(8) {
		t.Errorf("expected 8 credits in semester 2, got %v", doc["credits"])
	}
}

func TestRobotFilter(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	code, out, stderr := runCLI(t, "--catalog", path, "--robot-filter",
		"--semester", "all", "--credits-min", "5", "--tags", "has-prerequisites")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	doc := decode(t, out)
	var codes []string
	for _, c := range doc["courses"].([]any) {
		codes = append(codes, c.(map[string]any)["code"].(string))
	}
	if want := []string{"A2", "C3"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("expected %v, got %v", want, codes)
	}
}

func TestSetStatusThenAvailable(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	db := filepath.Join(t.TempDir(), "progress.db")

	var stdout, stderr bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(loader.CatalogEnvVar, "")
	if code := run([]string{"--catalog", path, "--progress-db", db, "--set-status", "A1=completed"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("set-status: exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "A1 → completed") {
		t.Errorf("unexpected set-status output %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"--catalog", path, "--progress-db", db, "--robot-available"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("robot-available: exit %d: %s", code, stderr.String())
	}
	doc := decode(t, stdout.String())
	var codes []string
	for _, c := range doc["available"].([]any) {
		codes = append(codes, c.(map[string]any)["code"].(string))
	}
	if want := []string{"A2", "B2"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("expected available %v, got %v", want, codes)
	}
	summary := doc["summary"].(map[string]any)
	if summary["completed_credits"] != float64(5) {
		t.Errorf("expected 5 completed credits, got %v", summary["completed_credits"])
	}
}

func TestSetStatusRejectsBadInput(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	if code, _, _ := runCLI(t, "--catalog", path, "--set-status", "A1"); code != exitUsage {
		t.Errorf("expected usage error for missing status, got %d", code)
	}
	if code, _, _ := runCLI(t, "--catalog", path, "--set-status", "A1=failed"); code != exitUsage {
		t.Errorf("expected usage error for unknown status, got %d", code)
	}
	if code, _, _ := runCLI(t, "--catalog", path, "--set-status", "ZZ9=planned"); code != exitError {
		t.Errorf("expected error for unknown course, got %d", code)
	}
}

func TestCheck(t *testing.T) {
	code, out, _ := runCLI(t, "--check")
	if code != exitOK {
		t.Fatalf("expected bundled catalog to pass, got %d:\n%s", code, out)
	}
	if !strings.Contains(out, "OK") {
		t.Errorf("expected OK line, got %q", out)
	}

	cyclic := writeCatalog(t, `[
  {"code":"X1","name":"X","semester":1,"credits":1,"prerequisites":["Y1"]},
  {"code":"Y1","name":"Y","semester":1,"credits":1,"prerequisites":["X1"]}
]`)
	code, out, _ = runCLI(t, "--catalog", cyclic, "--check")
	if code != exitError {
		t.Errorf("expected cycle to fail the check, got %d", code)
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("expected FAIL line, got %q", out)
	}
}

func TestExportMermaid(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	out := filepath.Join(t.TempDir(), "graph.mmd")
	code, stdout, stderr := runCLI(t, "--catalog", path, "--export-mermaid", out)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Wrote "+out) {
		t.Errorf("expected Wrote line, got %q", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "graph TD") {
		t.Errorf("expected mermaid graph, got %q", string(data))
	}
}

func TestGraphFormat(t *testing.T) {
	if f, err := graphFormat("out/grid.SVG"); err != nil || f != export.FormatSVG {
		t.Errorf("expected svg, got %q %v", f, err)
	}
	if f, err := graphFormat("grid.png"); err != nil || f != export.FormatPNG {
		t.Errorf("expected png, got %q %v", f, err)
	}
	if _, err := graphFormat("grid.pdf"); !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" semester-1, ,prefix-bms ")
	if want := []string{"semester-1", "prefix-bms"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := splitList(""); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestExportDirRunsHooks(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	dir := t.TempDir()
	cfgHome := filepath.Join(dir, "config")
	hookDir := filepath.Join(cfgHome, "coursemap")
	if err := os.MkdirAll(hookDir, 0o755); err != nil {
		t.Fatal(err)
	}
	hooksYAML := "hooks:\n  pre-export:\n    - name: gate\n      command: test \"$CM_COURSE_COUNT\" = 4\n  post-export:\n    - name: stamp\n      command: echo \"$CM_EXPORT_FORMATS\" > \"$CM_EXPORT_DIR/stamp.txt\"\n"
	if err := os.WriteFile(filepath.Join(hookDir, "hooks.yaml"), []byte(hooksYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv(loader.CatalogEnvVar, "")

	out := filepath.Join(dir, "out")
	var stdout, stderr bytes.Buffer
	code := run([]string{"--catalog", path, "--progress-db", filepath.Join(dir, "p.db"),
		"--export-dir", out, "--export-formats", "mermaid,markdown"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("expected hook summary, got %q", stdout.String())
	}
	stamp, err := os.ReadFile(filepath.Join(out, "stamp.txt"))
	if err != nil {
		t.Fatalf("expected post-export hook output: %v", err)
	}
	if strings.TrimSpace(string(stamp)) != "mermaid,markdown" {
		t.Errorf("unexpected stamp %q", stamp)
	}
}

func TestExportDirPreHookFailureCancels(t *testing.T) {
	path := writeCatalog(t, smallCatalog)
	dir := t.TempDir()
	cfgHome := filepath.Join(dir, "config")
	hookDir := filepath.Join(cfgHome, "coursemap")
	if err := os.MkdirAll(hookDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(hookDir, "hooks.yaml"), []byte("hooks:\n  pre-export:\n    - command: exit 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv(loader.CatalogEnvVar, "")

	out := filepath.Join(dir, "out")
	args := []string{"--catalog", path, "--progress-db", filepath.Join(dir, "p.db"),
		"--export-dir", out, "--export-formats", "mermaid"}

	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitError {
		t.Fatalf("expected pre-export failure to fail the export, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(out, export.FormatMermaid.FileName())); err == nil {
		t.Error("expected no artifacts after cancelled export")
	}

	stdout.Reset()
	if code := run(append(args, "--no-hooks"), &stdout, &stderr); code != exitOK {
		t.Fatalf("expected --no-hooks export to succeed, got %d: %s", code, stderr.String())
	}
}
