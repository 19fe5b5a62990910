// Package hooks runs user commands around catalog exports.
// Hooks are configured in hooks.yaml next to config.yaml and run before
// (pre-export) and after (post-export) an export directory is written.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HookPhase represents when a hook runs
type HookPhase string

const (
	// PreExport runs before any artifact is written. Failure cancels the export.
	PreExport HookPhase = "pre-export"
	// PostExport runs after every artifact is written. Failure is reported but the export stands.
	PostExport HookPhase = "post-export"
)

// FileName is the hook configuration file looked up in the config directory.
const FileName = "hooks.yaml"

// Hook defines a single hook configuration
type Hook struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"`                       // run with sh -c
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`   // default 30s
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`           // values are $VAR-expanded
	OnError string            `yaml:"on_error,omitempty" json:"on_error,omitempty"` // "fail" or "continue"
}

// Config holds all hook configurations
type Config struct {
	Hooks HooksByPhase `yaml:"hooks" json:"hooks"`
}

// HooksByPhase organizes hooks by their execution phase
type HooksByPhase struct {
	PreExport  []Hook `yaml:"pre-export,omitempty" json:"pre-export,omitempty"`
	PostExport []Hook `yaml:"post-export,omitempty" json:"post-export,omitempty"`
}

// ExportContext describes the export to hooks through environment variables.
type ExportContext struct {
	ExportDir   string    // CM_EXPORT_DIR
	Formats     []string  // CM_EXPORT_FORMATS, comma-separated
	Program     string    // CM_PROGRAM
	CourseCount int       // CM_COURSE_COUNT
	Focus       string    // CM_FOCUS, empty when no course is focused
	Timestamp   time.Time // CM_TIMESTAMP (RFC3339)
}

// ToEnv converts export context to environment variables
func (c ExportContext) ToEnv() []string {
	return []string{
		"CM_EXPORT_DIR=" + c.ExportDir,
		"CM_EXPORT_FORMATS=" + strings.Join(c.Formats, ","),
		"CM_PROGRAM=" + c.Program,
		fmt.Sprintf("CM_COURSE_COUNT=%d", c.CourseCount),
		"CM_FOCUS=" + c.Focus,
		"CM_TIMESTAMP=" + c.Timestamp.Format(time.RFC3339),
	}
}

// DefaultTimeout is the default hook execution timeout
const DefaultTimeout = 30 * time.Second

// Loader loads hook configuration from hooks.yaml.
type Loader struct {
	dir      string
	config   *Config
	warnings []string
}

// LoaderOption configures the loader
type LoaderOption func(*Loader)

// WithDir sets the directory holding hooks.yaml (default: current directory).
func WithDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.dir = dir
	}
}

// NewLoader creates a new hook loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.dir == "" {
		l.dir, _ = os.Getwd()
	}
	return l
}

// Path is the hooks.yaml location this loader reads.
func (l *Loader) Path() string {
	return filepath.Join(l.dir, FileName)
}

// Load reads hooks.yaml. A missing file means no hooks.
func (l *Loader) Load() error {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.config = &Config{}
			return nil
		}
		return fmt.Errorf("reading hooks config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	l.warnings = nil
	config.Hooks.PreExport, l.warnings = normalizeHooks(config.Hooks.PreExport, PreExport, l.warnings)
	config.Hooks.PostExport, l.warnings = normalizeHooks(config.Hooks.PostExport, PostExport, l.warnings)
	l.config = &config
	return nil
}

// normalizeHooks applies defaults, drops empty commands, and accumulates warnings.
func normalizeHooks(hooks []Hook, phase HookPhase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i, hook := range hooks {
		if strings.TrimSpace(hook.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if hook.Timeout <= 0 {
			hook.Timeout = DefaultTimeout
		}
		switch hook.OnError {
		case "fail", "continue":
		case "":
			if phase == PreExport {
				hook.OnError = "fail"
			} else {
				hook.OnError = "continue"
			}
		default:
			warnings = append(warnings, fmt.Sprintf("%s hook %d: unknown on_error %q, using fail", phase, i+1, hook.OnError))
			hook.OnError = "fail"
		}
		if hook.Name == "" {
			hook.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, hook)
	}
	return out, warnings
}

// Config returns the loaded configuration (or empty if not loaded)
func (l *Loader) Config() *Config {
	if l.config == nil {
		return &Config{}
	}
	return l.config
}

// HasHooks returns true if any hooks are configured
func (l *Loader) HasHooks() bool {
	if l.config == nil {
		return false
	}
	return len(l.config.Hooks.PreExport) > 0 || len(l.config.Hooks.PostExport) > 0
}

// GetHooks returns hooks for a specific phase
func (l *Loader) GetHooks(phase HookPhase) []Hook {
	if l.config == nil {
		return nil
	}
	switch phase {
	case PreExport:
		return l.config.Hooks.PreExport
	case PostExport:
		return l.config.Hooks.PostExport
	}
	return nil
}

// Warnings returns any warnings from loading
func (l *Loader) Warnings() []string {
	return l.warnings
}

// UnmarshalYAML accepts timeouts as durations ("5s") or bare seconds ("30").
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	// Must mirror Hook except for Timeout.
	type hookDTO struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout,omitempty"`
		Env     map[string]string `yaml:"env,omitempty"`
		OnError string            `yaml:"on_error,omitempty"`
	}

	var dto hookDTO
	if err := node.Decode(&dto); err != nil {
		return err
	}

	h.Name = dto.Name
	h.Command = dto.Command
	h.Env = dto.Env
	h.OnError = dto.OnError

	if dto.Timeout != "" {
		d, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			var seconds float64
			if _, scanErr := fmt.Sscanf(dto.Timeout, "%f", &seconds); scanErr != nil {
				return fmt.Errorf("invalid timeout %q: %w", dto.Timeout, err)
			}
			d = time.Duration(seconds * float64(time.Second))
		}
		h.Timeout = d
	}
	return nil
}
