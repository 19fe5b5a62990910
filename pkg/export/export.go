// Package export renders a built catalog to files: Mermaid diagrams, SVG and
// PNG semester-grid snapshots, a SQLite database and a Markdown report.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/debug"
	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

// ErrUnknownFormat is returned for export format names cm does not produce.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export artifact.
type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatSQLite   Format = "sqlite"
	FormatMarkdown Format = "markdown"
)

// AllFormats lists every format in the order ExportAll reports them.
var AllFormats = []Format{FormatMermaid, FormatSVG, FormatPNG, FormatSQLite, FormatMarkdown}

// FileName is the file an artifact is written to inside an export directory.
func (f Format) FileName() string {
	switch f {
	case FormatMermaid:
		return "course-graph.mmd"
	case FormatSVG:
		return "semester-grid.svg"
	case FormatPNG:
		return "semester-grid.png"
	case FormatSQLite:
		return "catalog.sqlite3"
	case FormatMarkdown:
		return "catalog.md"
	}
	return ""
}

// ParseFormats resolves format names. "all" expands to AllFormats and
// duplicates are dropped.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		switch n {
		case "":
			continue
		case "all":
			for _, f := range AllFormats {
				add(f)
			}
		case "md":
			add(FormatMarkdown)
		case "mmd":
			add(FormatMermaid)
		case "db", "sqlite3":
			add(FormatSQLite)
		default:
			f := Format(n)
			if f.FileName() == "" {
				return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
			}
			add(f)
		}
	}
	return out, nil
}

// Bundle is everything an export needs.
type Bundle struct {
	Catalog     *catalog.Catalog
	Program     string
	Institution string
	Statuses    progress.Statuses

	// Focus, when set, highlights the focus set of that course in snapshots.
	Focus string
	// AllEdges draws every resolved prerequisite edge in Mermaid output
	// instead of only the recent-prerequisite frontier.
	AllEdges bool
}

// NewBundle builds the catalog for file.
func NewBundle(file model.CatalogFile, statuses progress.Statuses) Bundle {
	return Bundle{
		Catalog:     catalog.Build(file.Courses),
		Program:     file.Program,
		Institution: file.Institution,
		Statuses:    statuses,
	}
}

// Title is the heading used across artifacts.
func (b Bundle) Title() string {
	switch {
	case b.Program != "" && b.Institution != "":
		return b.Program + " (" + b.Institution + ")"
	case b.Program != "":
		return b.Program
	}
	return "Course Catalog"
}

// Write renders a single artifact to path.
func Write(f Format, path string, b Bundle) error {
	defer metrics.Timer(metrics.Export)()
	if b.Catalog == nil {
		return fmt.Errorf("export %s: no catalog", f)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	switch f {
	case FormatMermaid:
		out := GenerateMermaid(b.Catalog, b.Catalog.Courses(), MermaidConfig{AllEdges: b.AllEdges, Statuses: b.Statuses})
		return os.WriteFile(path, []byte(out), 0o644)
	case FormatSVG, FormatPNG:
		return SaveSnapshot(SnapshotOptions{
			Path:     path,
			Format:   string(f),
			Title:    b.Title(),
			Catalog:  b.Catalog,
			Statuses: b.Statuses,
			Focus:    b.Focus,
		})
	case FormatSQLite:
		return NewSQLiteExporter(b).Export(path)
	case FormatMarkdown:
		return os.WriteFile(path, []byte(GenerateReport(b)), 0o644)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ExportAll writes each format into dir concurrently and returns the written
// paths in the order of formats. The first failure cancels the rest.
func ExportAll(ctx context.Context, dir string, b Bundle, formats []Format) ([]string, error) {
	if len(formats) == 0 {
		formats = AllFormats
	}
	for _, f := range formats {
		if f.FileName() == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		path := filepath.Join(dir, f.FileName())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Write(f, path, b); err != nil {
				return fmt.Errorf("export %s: %w", f, err)
			}
			debug.Log("export: wrote %s", path)
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
