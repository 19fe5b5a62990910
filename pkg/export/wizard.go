package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/config"
)

// WizardConfig is what the export wizard collects. It is saved between runs.
type WizardConfig struct {
	Formats   []string `json:"formats"`
	OutputDir string   `json:"output_dir"`
	AllEdges  bool     `json:"all_edges"`
	Focus     string   `json:"focus,omitempty"`
}

// Wizard walks the user through choosing export formats and options.
type Wizard struct {
	config *WizardConfig
	cat    *catalog.Catalog
}

// NewWizard creates a wizard seeded with defaults.
func NewWizard(cat *catalog.Catalog, defaults WizardConfig) *Wizard {
	cfg := defaults
	cfg.Formats = slices.Clone(defaults.Formats)
	if len(cfg.Formats) == 0 {
		for _, f := range AllFormats {
			cfg.Formats = append(cfg.Formats, string(f))
		}
	}
	return &Wizard{config: &cfg, cat: cat}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm falls back to accessible mode when stdin is not a terminal.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run collects the export options.
func (w *Wizard) Run() (*WizardConfig, error) {
	w.printBanner()

	formatOptions := make([]huh.Option[string], 0, len(AllFormats))
	for _, f := range AllFormats {
		formatOptions = append(formatOptions,
			huh.NewOption(fmt.Sprintf("%s (%s)", f, f.FileName()), string(f)).
				Selected(slices.Contains(w.config.Formats, string(f))))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which artifacts should be written?").
				Options(formatOptions...).
				Value(&w.config.Formats).
				Validate(validateFormats),
			huh.NewInput().
				Title("Output directory").
				Value(&w.config.OutputDir).
				Validate(validateOutputDir),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Draw every prerequisite edge in the Mermaid graph?").
				Description("No draws only the most recent prerequisites of each course").
				Value(&w.config.AllEdges),
			huh.NewInput().
				Title("Focus course for snapshots (optional)").
				Placeholder("e.g. BPT216").
				Value(&w.config.Focus).
				Validate(w.validateFocus),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	w.config.OutputDir = strings.TrimSpace(w.config.OutputDir)
	w.config.Focus = strings.TrimSpace(w.config.Focus)
	return w.config, nil
}

// Config returns the collected configuration.
func (w *Wizard) Config() *WizardConfig {
	return w.config
}

// Apply copies the wizard's options onto b and resolves its formats.
func (c *WizardConfig) Apply(b Bundle) (Bundle, []Format, error) {
	formats, err := ParseFormats(c.Formats)
	if err != nil {
		return b, nil, err
	}
	b.AllEdges = c.AllEdges
	b.Focus = strings.TrimSpace(c.Focus)
	return b, formats, nil
}

func (w *Wizard) printBanner() {
	fmt.Println("")
	fmt.Println("cm export wizard")
	fmt.Printf("  %d courses over %d semesters\n", w.cat.Len(), len(w.cat.Semesters()))
	fmt.Println("  Press Ctrl+C anytime to cancel")
	fmt.Println("")
}

func validateFormats(selected []string) error {
	if len(selected) == 0 {
		return errors.New("select at least one format")
	}
	_, err := ParseFormats(selected)
	return err
}

func validateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("output directory is required")
	}
	return nil
}

func (w *Wizard) validateFocus(code string) error {
	code = strings.TrimSpace(code)
	if code == "" || w.cat.Has(code) {
		return nil
	}
	return fmt.Errorf("unknown course %q", code)
}

// WizardConfigPath returns the path of the saved wizard answers.
func WizardConfigPath() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "export-wizard.json")
}

// LoadWizardConfig loads the previous answers. It returns nil, nil when none
// were saved.
func LoadWizardConfig() (*WizardConfig, error) {
	path := WizardConfigPath()
	if path == "" {
		return nil, fmt.Errorf("could not determine config path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg WizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveWizardConfig saves the answers for the next run.
func SaveWizardConfig(cfg *WizardConfig) error {
	path := WizardConfigPath()
	if path == "" {
		return fmt.Errorf("could not determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
