package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/vanderheijden86/coursemap/internal/datasource"
	"github.com/vanderheijden86/coursemap/pkg/analysis"
	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/config"
	"github.com/vanderheijden86/coursemap/pkg/debug"
	"github.com/vanderheijden86/coursemap/pkg/export"
	"github.com/vanderheijden86/coursemap/pkg/hooks"
	"github.com/vanderheijden86/coursemap/pkg/loader"
	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
	"github.com/vanderheijden86/coursemap/pkg/ui"
	"github.com/vanderheijden86/coursemap/pkg/version"
	"github.com/vanderheijden86/coursemap/pkg/watcher"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	catalogPath string
	configPath  string
	progressDB  string

	robotSearch      string
	robotCourse      string
	robotAncestors   string
	robotDescendants string
	robotFocus       string
	robotSemester    int
	robotFilter      bool
	robotInsights    bool
	robotAvailable   bool

	semester   string
	creditsMin int
	creditsMax int
	tags       string
	query      string

	check bool

	exportMermaid string
	exportGraph   string
	exportSQLite  string
	exportDir     string
	exportFormats string
	exportWizard  bool
	allEdges      bool
	focus         string
	noHooks       bool

	setStatus string

	watch       bool
	showMetrics bool
	quiet       bool
	version     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("cm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.catalogPath, "catalog", "", "Catalog file or directory (default: bundled physiotherapy catalog)")
	fs.StringVar(&o.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/coursemap/config.yaml)")
	fs.StringVar(&o.progressDB, "progress-db", "", "Course status database")

	fs.StringVar(&o.robotSearch, "robot-search", "", "Output courses whose code or name contains QUERY as JSON")
	fs.StringVar(&o.robotCourse, "robot-course", "", "Output one course with its derived relations as JSON")
	fs.StringVar(&o.robotAncestors, "robot-ancestors", "", "Output every transitive prerequisite of CODE as JSON")
	fs.StringVar(&o.robotDescendants, "robot-descendants", "", "Output every course that transitively requires CODE as JSON")
	fs.StringVar(&o.robotFocus, "robot-focus", "", "Output the focus set (ancestors and descendants) of CODE as JSON")
	fs.IntVar(&o.robotSemester, "robot-semester", 0, "Output the courses of semester N as JSON")
	fs.BoolVar(&o.robotFilter, "robot-filter", false, "Output courses matching --semester, --credits-min, --credits-max, --tags and --query as JSON")
	fs.BoolVar(&o.robotInsights, "robot-insights", false, "Output graph insights (order, cycles, depth, keystones) as JSON")
	fs.BoolVar(&o.robotAvailable, "robot-available", false, "Output courses whose prerequisites are all completed, with credit totals, as JSON")

	def := catalog.DefaultFilter()
	fs.StringVar(&o.semester, "semester", def.Semester, "Filter: semester number or 'all'")
	fs.IntVar(&o.creditsMin, "credits-min", def.CreditsMin, "Filter: minimum credits (inclusive)")
	fs.IntVar(&o.creditsMax, "credits-max", def.CreditsMax, "Filter: maximum credits (inclusive, 0 = no limit)")
	fs.StringVar(&o.tags, "tags", "", "Filter: comma-separated tags, any of which must match")
	fs.StringVar(&o.query, "query", "", "Filter: code or name substring")

	fs.BoolVar(&o.check, "check", false, "Check the catalog for broken relations, order warnings and cycles")

	fs.StringVar(&o.exportMermaid, "export-mermaid", "", "Write a Mermaid prerequisite graph to PATH")
	fs.StringVar(&o.exportGraph, "export-graph", "", "Write the semester grid to PATH (.svg or .png)")
	fs.StringVar(&o.exportSQLite, "export-sqlite", "", "Write the catalog and derived relations to a SQLite database at PATH")
	fs.StringVar(&o.exportDir, "export-dir", "", "Write every export format into DIR")
	fs.StringVar(&o.exportFormats, "export-formats", "", "Comma-separated formats for --export-dir (mermaid,svg,png,sqlite,markdown)")
	fs.BoolVar(&o.exportWizard, "export-wizard", false, "Choose export formats interactively")
	fs.BoolVar(&o.allEdges, "all-edges", false, "Exports: draw every prerequisite edge, not only the most recent ones")
	fs.StringVar(&o.focus, "focus", "", "Exports: highlight the focus set of CODE in the semester grid")
	fs.BoolVar(&o.noHooks, "no-hooks", false, "Exports: skip pre-export and post-export hooks from hooks.yaml")

	fs.StringVar(&o.setStatus, "set-status", "", "Set a course status: CODE=none|planned|in-progress|completed")

	fs.BoolVar(&o.watch, "watch", false, "Reload the TUI when the catalog file changes")
	fs.BoolVar(&o.showMetrics, "metrics", false, "Print timing metrics to stderr on exit")
	fs.BoolVar(&o.quiet, "quiet", false, "Suppress loader warnings")
	fs.BoolVar(&o.version, "version", false, "Show version")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cm [options]")
		fmt.Fprintln(stderr, "\nBrowse a course catalog and its prerequisite graph.")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if o.version {
		fmt.Fprintf(stdout, "cm %s\n", version.Version)
		return exitOK
	}

	if o.showMetrics {
		metrics.SetEnabled(true)
		defer printMetrics(stderr)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
	}

	app, err := loadApp(o, cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer app.close()

	switch {
	case o.setStatus != "":
		return app.runSetStatus(o.setStatus, stdout, stderr)
	case o.check:
		return app.runCheck(stdout)
	case o.robotSearch != "", o.robotCourse != "", o.robotAncestors != "",
		o.robotDescendants != "", o.robotFocus != "", o.robotSemester != 0,
		o.robotFilter, o.robotInsights, o.robotAvailable:
		if err := app.runRobot(o, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	case o.exportMermaid != "", o.exportGraph != "", o.exportSQLite != "",
		o.exportDir != "", o.exportWizard:
		if err := app.runExports(o, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	if err := app.runTUI(o); err != nil {
		fmt.Fprintf(stderr, "Error running cm: %v\n", err)
		return exitError
	}
	return exitOK
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// app is a loaded catalog plus the settings every command shares.
type app struct {
	cfg         config.Config
	catalogPath string
	file        model.CatalogFile
	cat         *catalog.Catalog
	loaderOpts  loader.Options
	dbPath      string
	noHooks     bool

	db *datasource.StatusDB
}

func loadApp(o *options, cfg config.Config, stderr io.Writer) (*app, error) {
	configured := cfg.Catalog
	if o.catalogPath != "" {
		configured = o.catalogPath
	}
	path, err := loader.ResolvePath(configured)
	if err != nil {
		return nil, err
	}

	opts := loader.Options{
		WarningHandler: func(msg string) {
			if !o.quiet {
				fmt.Fprintf(stderr, "Warning: %s\n", msg)
			}
		},
	}
	file, err := loader.Load(path, opts)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.ProgressDBPath()
	if o.progressDB != "" {
		dbPath = o.progressDB
	}

	a := &app{
		cfg:         cfg,
		catalogPath: path,
		file:        file,
		cat:         catalog.Build(file.Courses),
		loaderOpts:  opts,
		dbPath:      dbPath,
		noHooks:     o.noHooks,
	}
	debug.Log("loaded %d courses from %s", a.cat.Len(), a.source())
	return a, nil
}

func (a *app) source() string {
	if a.catalogPath == "" {
		return loader.BundledName
	}
	return a.catalogPath
}

// store opens the status database on first use.
func (a *app) store() (*datasource.StatusDB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if a.dbPath == "" {
		return nil, errors.New("cannot determine progress database location (set --progress-db)")
	}
	db, err := datasource.OpenStatusDB(a.dbPath)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) statuses() (progress.Statuses, error) {
	db, err := a.store()
	if err != nil {
		return nil, err
	}
	return progress.Snapshot(db)
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *app) runSetStatus(arg string, stdout, stderr io.Writer) int {
	code, raw, ok := strings.Cut(arg, "=")
	code = strings.TrimSpace(code)
	if !ok || code == "" {
		fmt.Fprintf(stderr, "Error: --set-status expects CODE=STATUS, got %q\n", arg)
		return exitUsage
	}
	status, ok := model.ParseStatus(raw)
	if !ok {
		fmt.Fprintf(stderr, "Error: %v: %q\n", model.ErrInvalidStatus, raw)
		return exitUsage
	}
	if !a.cat.Has(code) {
		fmt.Fprintf(stderr, "Error: course %s is not in the catalog\n", code)
		return exitError
	}
	db, err := a.store()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if err := db.SetStatus(code, status); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "%s → %s\n", code, status)
	return exitOK
}

// runCheck prints relationship problems, cycles, order warnings and unknown
// prerequisites. Problems and cycles fail the check; the rest are warnings.
func (a *app) runCheck(stdout io.Writer) int {
	problems := a.cat.Validate()
	insights := analysis.Analyze(a.cat)
	warnings := a.cat.OrderWarnings()
	dangling := a.cat.Dangling()

	fmt.Fprintf(stdout, "%s: %d courses, %d semesters\n", a.source(), a.cat.Len(), len(a.cat.Semesters()))
	for _, p := range problems {
		fmt.Fprintf(stdout, "ERROR %s\n", p)
	}
	for _, c := range insights.Cycles {
		fmt.Fprintf(stdout, "ERROR cycle: %s\n", analysis.FormatCycle(c))
	}
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN  %s\n", w)
	}
	for _, d := range dangling {
		fmt.Fprintf(stdout, "WARN  %s lists unknown prerequisite %s\n", d.Course, d.Prerequisite)
	}

	if len(problems) > 0 || insights.HasCycles() {
		fmt.Fprintf(stdout, "FAIL: %d problem(s), %d cycle(s)\n", len(problems), len(insights.Cycles))
		return exitError
	}
	fmt.Fprintf(stdout, "OK (%d warning(s))\n", len(warnings)+len(dangling))
	return exitOK
}

func (a *app) bundle(o *options) (export.Bundle, error) {
	statuses, err := a.statuses()
	if err != nil {
		return export.Bundle{}, err
	}
	focus := strings.TrimSpace(o.focus)
	if focus != "" && !a.cat.Has(focus) {
		return export.Bundle{}, fmt.Errorf("--focus: course %s is not in the catalog", focus)
	}
	return export.Bundle{
		Catalog:     a.cat,
		Program:     a.file.Program,
		Institution: a.file.Institution,
		Statuses:    statuses,
		Focus:       focus,
		AllEdges:    o.allEdges,
	}, nil
}

func (a *app) runExports(o *options, stdout io.Writer) error {
	b, err := a.bundle(o)
	if err != nil {
		return err
	}

	single := []struct {
		path   string
		format func(string) (export.Format, error)
	}{
		{o.exportMermaid, fixedFormat(export.FormatMermaid)},
		{o.exportGraph, graphFormat},
		{o.exportSQLite, fixedFormat(export.FormatSQLite)},
	}
	for _, s := range single {
		if s.path == "" {
			continue
		}
		f, err := s.format(s.path)
		if err != nil {
			return err
		}
		if err := export.Write(f, s.path, b); err != nil {
			return fmt.Errorf("export %s: %w", f, err)
		}
		fmt.Fprintf(stdout, "Wrote %s\n", s.path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.exportDir != "" {
		names := a.cfg.Export.Formats
		if o.exportFormats != "" {
			names = splitList(o.exportFormats)
		}
		formats, err := export.ParseFormats(names)
		if err != nil {
			return err
		}
		if err := a.writeAll(ctx, stdout, o.exportDir, b, formats); err != nil {
			return err
		}
	}

	if o.exportWizard {
		return a.runWizard(ctx, stdout, b)
	}
	return nil
}

func (a *app) runWizard(ctx context.Context, stdout io.Writer, b export.Bundle) error {
	defaults, err := export.LoadWizardConfig()
	if err != nil {
		debug.Log("wizard config: %v", err)
	}
	if defaults == nil {
		defaults = &export.WizardConfig{
			Formats:   a.cfg.Export.Formats,
			OutputDir: a.cfg.ExportDir(),
			AllEdges:  b.AllEdges,
			Focus:     b.Focus,
		}
	}

	cfg, err := export.NewWizard(a.cat, *defaults).Run()
	if err != nil {
		return err
	}
	if err := export.SaveWizardConfig(cfg); err != nil {
		debug.Log("saving wizard config: %v", err)
	}
	b, formats, err := cfg.Apply(b)
	if err != nil {
		return err
	}
	return a.writeAll(ctx, stdout, cfg.OutputDir, b, formats)
}

// writeAll exports formats into dir between the pre-export and post-export
// hooks. A failing pre-export hook cancels the export.
func (a *app) writeAll(ctx context.Context, stdout io.Writer, dir string, b export.Bundle, formats []export.Format) error {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	executor, err := hooks.RunHooks(config.ConfigDir(), hooks.ExportContext{
		ExportDir:   dir,
		Formats:     names,
		Program:     b.Program,
		CourseCount: b.Catalog.Len(),
		Focus:       b.Focus,
		Timestamp:   time.Now(),
	}, a.noHooks)
	if err != nil {
		return err
	}
	if executor != nil {
		if err := executor.RunPreExport(); err != nil {
			return err
		}
	}

	paths, err := export.ExportAll(ctx, dir, b, formats)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(stdout, "Wrote %s\n", p)
	}

	if executor != nil {
		err := executor.RunPostExport()
		fmt.Fprintln(stdout, executor.Summary())
		return err
	}
	return nil
}

func fixedFormat(f export.Format) func(string) (export.Format, error) {
	return func(string) (export.Format, error) { return f, nil }
}

// graphFormat picks SVG or PNG from the file extension.
func graphFormat(path string) (export.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return export.FormatSVG, nil
	case ".png":
		return export.FormatPNG, nil
	}
	return "", fmt.Errorf("%w: --export-graph needs a .svg or .png path, got %q", export.ErrUnknownFormat, path)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (a *app) runTUI(o *options) error {
	db, err := a.store()
	if err != nil {
		return err
	}

	var reloader *watcher.Reloader
	if o.watch || a.cfg.Watch {
		if a.catalogPath == "" {
			debug.Log("watch: bundled catalog cannot change, not watching")
		} else {
			reloader, err = watcher.NewReloader(a.catalogPath, a.loaderOpts)
			if err != nil {
				return fmt.Errorf("watching catalog: %w", err)
			}
			if err := reloader.Start(); err != nil {
				return fmt.Errorf("watching catalog: %w", err)
			}
			defer reloader.Stop()
		}
	}

	m := ui.NewModel(ui.Options{
		Catalog:      a.cat,
		File:         a.file,
		Store:        db,
		Filter:       a.cfg.Filter,
		HistoryLimit: a.cfg.UI.HistoryLimit,
		DefaultView:  a.cfg.UI.DefaultView,
		Theme:        a.cfg.UI.Theme,
		Reloader:     reloader,
	})
	return runTUIProgram(m)
}

func printMetrics(w io.Writer) {
	fmt.Fprintln(w, "Timing metrics:")
	for _, s := range metrics.AllTimingStats() {
		if s.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-16s count=%-6d avg=%.3fms max=%.3fms total=%.3fms\n",
			s.Name, s.Count, s.AvgMs, s.MaxMs, s.TotalMs)
	}
}
