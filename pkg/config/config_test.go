package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.DefaultView != "semesters" {
		t.Errorf("expected default view 'semesters', got %q", cfg.UI.DefaultView)
	}
	if cfg.UI.HistoryLimit != 5 {
		t.Errorf("expected history limit 5, got %d", cfg.UI.HistoryLimit)
	}
	if cfg.Filter.Semester != "all" || cfg.Filter.CreditsMin != 1 || cfg.Filter.CreditsMax != 8 {
		t.Errorf("unexpected default filter: %+v", cfg.Filter)
	}
	if cfg.Catalog != "" {
		t.Errorf("expected bundled catalog by default, got %q", cfg.Catalog)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.DefaultView != "semesters" {
		t.Errorf("expected default config, got view %q", cfg.UI.DefaultView)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
catalog: ~/programs/pt/catalog.json
watch: true
ui:
  default_view: search
  theme: dark
filter:
  semester: "3"
  credits_min: 2
  credits_max: 4
  tags: [prefix-bms]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.Catalog != filepath.Join(home, "programs/pt/catalog.json") {
		t.Errorf("expected expanded catalog path, got %q", cfg.Catalog)
	}
	if !cfg.Watch {
		t.Error("expected watch to be enabled")
	}
	if cfg.UI.Theme != "dark" || cfg.UI.DefaultView != "search" {
		t.Errorf("unexpected ui config: %+v", cfg.UI)
	}
	if cfg.UI.HistoryLimit != 5 {
		t.Errorf("expected history limit default to survive, got %d", cfg.UI.HistoryLimit)
	}
	if cfg.Filter.Semester != "3" || cfg.Filter.CreditsMin != 2 || cfg.Filter.CreditsMax != 4 {
		t.Errorf("unexpected filter: %+v", cfg.Filter)
	}
	if len(cfg.Filter.Tags) != 1 || cfg.Filter.Tags[0] != "prefix-bms" {
		t.Errorf("unexpected tags: %v", cfg.Filter.Tags)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Catalog = "/srv/catalog.hcl"
	cfg.UI.HistoryLimit = 9

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Catalog != "/srv/catalog.hcl" || loaded.UI.HistoryLimit != 9 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	if got := ConfigPath(); got != "/tmp/xdg-config/coursemap/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}
	if got := DataDir(); got != "/tmp/xdg-data/coursemap" {
		t.Errorf("unexpected data dir %q", got)
	}
	if got := DefaultConfig().ExportDir(); got != "/tmp/xdg-state/coursemap/exports" {
		t.Errorf("unexpected export dir %q", got)
	}
}

func TestProgressDBPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	t.Setenv(ProgressDBEnvVar, "")

	cfg := DefaultConfig()
	if got := cfg.ProgressDBPath(); got != "/tmp/xdg-data/coursemap/progress.db" {
		t.Errorf("unexpected default %q", got)
	}

	cfg.ProgressDB = "/srv/p.db"
	if got := cfg.ProgressDBPath(); got != "/srv/p.db" {
		t.Errorf("expected configured path, got %q", got)
	}

	t.Setenv(ProgressDBEnvVar, "/env/p.db")
	if got := cfg.ProgressDBPath(); got != "/env/p.db" {
		t.Errorf("expected env override, got %q", got)
	}
}
