// Package loader reads course catalogs from disk in JSON, JSONL, YAML or HCL
// form, and exposes the catalog bundled with the binary.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/coursemap/pkg/debug"
	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

// CatalogEnvVar overrides the configured catalog path.
const CatalogEnvVar = "CM_CATALOG"

// PreferredCatalogNames defines the lookup order inside a catalog directory.
var PreferredCatalogNames = []string{
	"catalog.json",
	"catalog.yaml",
	"catalog.yml",
	"catalog.hcl",
	"courses.jsonl",
}

// ErrUnsupportedFormat is returned for file extensions no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Format identifies a catalog file encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatHCL   Format = "hcl"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// DefaultMaxBufferSize is the default maximum JSONL line size (1MB).
const DefaultMaxBufferSize = 1024 * 1024

// Options configures parsing.
type Options struct {
	// WarningHandler is called for skipped records and lines.
	// If nil, warnings are printed to os.Stderr unless CM_ROBOT=1.
	WarningHandler func(string)

	// BufferSize caps a single JSONL line. Longer lines are skipped with a warning.
	// If 0, DefaultMaxBufferSize is used.
	BufferSize int

	// CourseFilter optionally drops parsed courses. Return true to keep.
	CourseFilter func(*model.Course) bool
}

func (o Options) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	if os.Getenv("CM_ROBOT") == "1" {
		return func(string) {}
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// ResolvePath returns the catalog path to load. CM_CATALOG wins over the
// configured value. A directory is searched for PreferredCatalogNames. An
// empty result means the bundled catalog.
func ResolvePath(configured string) (string, error) {
	path := configured
	if env := os.Getenv(CatalogEnvVar); env != "" {
		path = env
	}
	if path == "" {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("catalog not found at %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	return FindCatalogPath(path)
}

// FindCatalogPath locates a catalog file inside dir.
func FindCatalogPath(dir string) (string, error) {
	for _, name := range PreferredCatalogNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no catalog file in %s (looked for %s)", dir, strings.Join(PreferredCatalogNames, ", "))
}

// Load reads and validates the catalog at path. An empty path loads the
// bundled catalog.
func Load(path string, opts Options) (model.CatalogFile, error) {
	if path == "" {
		return Bundled(opts)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return model.CatalogFile{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.CatalogFile{}, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	cf, err := parse(f, path, format, opts)
	if err != nil {
		return model.CatalogFile{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return cf, nil
}

// Parse decodes a catalog from r.
func Parse(r io.Reader, format Format, opts Options) (model.CatalogFile, error) {
	return parse(r, "catalog."+string(format), format, opts)
}

func parse(r io.Reader, name string, format Format, opts Options) (model.CatalogFile, error) {
	defer metrics.Timer(metrics.CatalogLoad)()

	var (
		cf  model.CatalogFile
		err error
	)
	switch format {
	case FormatJSON:
		cf, err = parseJSON(r)
	case FormatJSONL:
		cf, err = parseJSONL(r, opts)
	case FormatYAML:
		cf, err = parseYAML(r)
	case FormatHCL:
		cf, err = parseHCL(r, name)
	default:
		return model.CatalogFile{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return model.CatalogFile{}, err
	}

	if err := CheckSchemaVersion(cf.SchemaVersion); err != nil {
		return model.CatalogFile{}, err
	}
	if cf.SchemaVersion == "" {
		cf.SchemaVersion = model.DefaultSchemaVersion
	}
	cf.Courses = sanitize(cf.Courses, opts)
	debug.Log("loader: %s parsed %d courses (%s)", name, len(cf.Courses), format)
	return cf, nil
}

// sanitize normalizes every course and drops the ones that fail validation.
func sanitize(courses []model.Course, opts Options) []model.Course {
	warn := opts.warn()
	out := make([]model.Course, 0, len(courses))
	for i, c := range courses {
		c = c.Normalize()
		if err := c.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid course #%d (%q): %v", i+1, c.Code, err))
			continue
		}
		if opts.CourseFilter != nil && !opts.CourseFilter(&c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
