package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/debug"
	"github.com/vanderheijden86/coursemap/pkg/export"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
	"github.com/vanderheijden86/coursemap/pkg/watcher"
)

// overlay is a panel drawn in place of the current view.
type overlay int

const (
	overlayNone overlay = iota
	overlayFilter
	overlayDetails
	overlayHelp
	overlayHistory
)

func (o overlay) String() string {
	switch o {
	case overlayFilter:
		return "filter"
	case overlayDetails:
		return "details"
	case overlayHelp:
		return "help"
	case overlayHistory:
		return "history"
	default:
		return ""
	}
}

// Default dimensions until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Options configures NewModel.
type Options struct {
	Catalog *catalog.Catalog
	// File supplies the program and institution shown in the header.
	File model.CatalogFile
	// Store persists course statuses. Nil keeps them in memory.
	Store progress.Store
	// Filter is the initial filter. The zero value uses catalog.DefaultFilter.
	Filter       catalog.Filter
	HistoryLimit int
	// DefaultView is "semesters" or "search".
	DefaultView string
	// Theme is "auto", "dark" or "light".
	Theme    string
	Reloader *watcher.Reloader
}

// row is one selectable course line in a list or hierarchy view.
type row struct {
	code    string
	section string // "prerequisite", "course", "required", or "" in flat lists
	recent  bool
}

// Model is the bubbletea model for cm.
type Model struct {
	cat      *catalog.Catalog
	file     model.CatalogFile
	store    progress.Store
	statuses progress.Statuses
	warnings []catalog.OrderWarning

	theme     Theme
	history   *History
	highlight *Highlighter
	filter    catalog.Filter
	overlay   overlay

	semCursor int
	cursor    int
	offset    int

	searchInput textinput.Model
	searching   bool

	showPrereqs   bool
	showRequired  bool
	filterRow     int
	historyRow    int
	detailsCode   string
	details       viewport.Model
	mdRenderer    *glamour.TermRenderer
	width         int
	height        int
	statusMsg     string
	statusIsError bool

	reloader *watcher.Reloader
}

// NewModel builds the TUI over an already built catalog.
func NewModel(opts Options) Model {
	store := opts.Store
	if store == nil {
		store = progress.NewMemoryStore(nil)
	}
	filter := opts.Filter
	if filter.IsZero() {
		filter = catalog.DefaultFilter()
	}

	ti := textinput.New()
	ti.Placeholder = "Search by code or name..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		cat:          opts.Catalog,
		file:         opts.File,
		store:        store,
		warnings:     opts.Catalog.OrderWarnings(),
		theme:        ThemeFor(opts.Theme, lipgloss.DefaultRenderer()),
		history:      NewHistory(opts.HistoryLimit),
		highlight:    NewHighlighter(opts.Catalog),
		filter:       filter,
		searchInput:  ti,
		showPrereqs:  true,
		showRequired: true,
		details:      viewport.New(defaultWidth-4, defaultHeight-4),
		width:        defaultWidth,
		height:       defaultHeight,
		reloader:     opts.Reloader,
	}
	m.mdRenderer = newMarkdownRenderer(defaultWidth - 8)

	statuses, err := progress.Snapshot(store)
	if err != nil {
		m.setError(fmt.Sprintf("reading statuses: %v", err))
		statuses = progress.Statuses{}
	}
	m.statuses = statuses

	if opts.DefaultView == "search" {
		m.searching = true
		m.searchInput.Focus()
	}
	return m
}

func newMarkdownRenderer(wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		debug.Log("glamour renderer: %v", err)
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.searching {
		cmds = append(cmds, textinput.Blink)
	}
	if m.reloader != nil {
		cmds = append(cmds, WatchReloadCmd(m.reloader))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.details.Width = max(msg.Width-4, 10)
		m.details.Height = max(msg.Height-4, 3)
		m.mdRenderer = newMarkdownRenderer(msg.Width - 8)
		if m.overlay == overlayDetails {
			m.renderDetails()
		}
		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("reload failed: %v", msg.Err))
		} else {
			m.setCatalog(msg.Catalog, msg.File)
			m.setStatus(fmt.Sprintf("Reloaded %d courses", msg.Catalog.Len()))
		}
		return m, WatchReloadCmd(m.reloader)

	case StatusSavedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("saving status for %s: %v", msg.Code, msg.Err))
			return m, nil
		}
		if m.statuses == nil {
			m.statuses = progress.Statuses{}
		}
		m.statuses[msg.Code] = msg.Status
		m.setStatus(fmt.Sprintf("%s → %s", msg.Code, msg.Status))
		if m.overlay == overlayDetails && m.detailsCode == msg.Code {
			m.renderDetails()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.statusMsg = ""
		m.statusIsError = false
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		switch m.overlay {
		case overlayHelp:
			m.overlay = overlayNone
			return m, nil
		case overlayDetails:
			return m.handleDetailsKeys(msg)
		case overlayFilter:
			return m.handleFilterKeys(msg), nil
		case overlayHistory:
			return m.handleHistoryKeys(msg), nil
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loc, inView := m.history.Current()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.overlay = overlayHelp
	case "/":
		m.searching = true
		m.searchInput.SetValue("")
		m.cursor, m.offset = 0, 0
		return m, m.searchInput.Focus()
	case "F":
		m.overlay = overlayFilter
		m.filterRow = 0
	case "h":
		m.overlay = overlayHistory
		m.historyRow = 0
	case "esc", "backspace":
		m.back()
	case "up", "k":
		m.move(-m.verticalStep())
	case "down", "j":
		m.move(m.verticalStep())
	case "left":
		if !inView {
			m.move(-1)
		}
	case "right":
		if !inView {
			m.move(1)
		}
	case "home", "g":
		m.move(-m.itemCount())
	case "end", "G":
		m.move(m.itemCount())
	case "enter":
		m.open()
	case "f":
		if code := m.SelectedCode(); code != "" {
			m.highlight.Click(code)
		}
	case "s":
		if code := m.SelectedCode(); code != "" {
			return m, cycleStatusCmd(m.store, code)
		}
	case "d":
		if code := m.SelectedCode(); code != "" {
			m.openDetails(code)
		}
	case "y":
		if code := m.SelectedCode(); code != "" {
			if err := clipboard.WriteAll(code); err != nil {
				m.setError(fmt.Sprintf("clipboard: %v", err))
			} else {
				m.setStatus(fmt.Sprintf("Copied %s to clipboard", code))
			}
		}
	case "p":
		if inView && loc.Kind == LocCourse {
			m.showPrereqs = !m.showPrereqs
			m.resetCursor()
		}
	case "r":
		if inView && loc.Kind == LocCourse {
			m.showRequired = !m.showRequired
			m.resetCursor()
		}
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.resetCursor()
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		if query != "" {
			m.navigate(SearchLoc(query))
		} else {
			m.resetCursor()
		}
		return m, nil
	case "up", "down":
		step := 1
		if msg.String() == "up" {
			step = -1
		}
		m.move(step)
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor, m.offset = 0, 0
	m.syncHover()
	return m, cmd
}

func (m Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "d", "q":
		m.overlay = overlayNone
		m.detailsCode = ""
		return m, nil
	case "s":
		return m, cycleStatusCmd(m.store, m.detailsCode)
	case "enter":
		code := m.detailsCode
		m.overlay = overlayNone
		m.detailsCode = ""
		m.navigate(CourseLoc(code))
		return m, nil
	}
	var cmd tea.Cmd
	m.details, cmd = m.details.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKeys(msg tea.KeyMsg) Model {
	recent := m.history.Recent()
	switch msg.String() {
	case "esc", "h", "q":
		m.overlay = overlayNone
	case "up", "k":
		m.historyRow = clamp(m.historyRow-1, 0, len(recent)-1)
	case "down", "j":
		m.historyRow = clamp(m.historyRow+1, 0, len(recent)-1)
	case "enter":
		m.overlay = overlayNone
		if m.historyRow < len(recent) {
			m.history.JumpTo(recent[m.historyRow])
			m.resetCursor()
		}
	}
	return m
}

// navigate pushes loc and resets the cursor for the new view.
func (m *Model) navigate(loc Location) {
	m.history.Push(loc)
	debug.Log("navigate: %s (depth %d)", loc.Label(m.cat), m.history.Len())
	m.resetCursor()
}

func (m *Model) back() {
	if m.history.Len() == 0 {
		return
	}
	m.history.Back()
	m.resetCursor()
}

// open acts on the selected item: a semester card opens its course list, a
// course row opens its hierarchy, and the hierarchy's own course opens its
// details.
func (m *Model) open() {
	loc, inView := m.history.Current()
	if !inView {
		sems := m.cat.Semesters()
		if m.semCursor < len(sems) {
			m.navigate(SemesterLoc(sems[m.semCursor]))
		}
		return
	}
	rows := m.rows()
	if m.cursor >= len(rows) {
		return
	}
	r := rows[m.cursor]
	if loc.Kind == LocCourse && r.code == loc.Code {
		m.openDetails(r.code)
		return
	}
	m.navigate(CourseLoc(r.code))
}

func (m *Model) openDetails(code string) {
	m.detailsCode = code
	m.overlay = overlayDetails
	m.renderDetails()
	m.details.GotoTop()
}

func (m *Model) renderDetails() {
	md, ok := export.CourseMarkdown(m.cat, m.detailsCode, m.statuses)
	if !ok {
		m.details.SetContent("Course " + m.detailsCode + " is not in the catalog")
		return
	}
	if m.mdRenderer == nil {
		m.details.SetContent(md)
		return
	}
	rendered, err := m.mdRenderer.Render(md)
	if err != nil {
		m.details.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
		return
	}
	m.details.SetContent(rendered)
}

// rows returns the selectable course rows for the current view.
func (m *Model) rows() []row {
	if m.searching {
		return flatRows(m.cat.FilterCourses(m.cat.Search(m.searchInput.Value()), m.filter, ""))
	}
	loc, ok := m.history.Current()
	if !ok {
		return nil
	}
	switch loc.Kind {
	case LocSemester:
		return flatRows(m.cat.FilterCourses(m.cat.BySemester(loc.Semester), m.filter, ""))
	case LocSearch:
		return flatRows(m.cat.FilterCourses(m.cat.Search(loc.Query), m.filter, ""))
	case LocCourse:
		return m.hierarchyRows(loc.Code)
	}
	return nil
}

func flatRows(courses []model.Course) []row {
	out := make([]row, len(courses))
	for i, c := range courses {
		out[i] = row{code: c.Code}
	}
	return out
}

// hierarchyRows lists resolved prerequisites, then the course, then the
// courses that require it.
func (m *Model) hierarchyRows(code string) []row {
	if !m.cat.Has(code) {
		return nil
	}
	var out []row
	if m.showPrereqs {
		recent := catalog.NewCodeSet(m.cat.RecentPrerequisites(code)...)
		for _, p := range m.cat.ResolvedPrerequisites(code) {
			out = append(out, row{code: p, section: "prerequisite", recent: recent.Has(p)})
		}
	}
	out = append(out, row{code: code, section: "course"})
	if m.showRequired {
		for _, d := range m.cat.RequiredFor(code) {
			out = append(out, row{code: d, section: "required"})
		}
	}
	return out
}

// itemCount is the number of cursor positions in the current view.
func (m *Model) itemCount() int {
	if _, ok := m.history.Current(); !ok && !m.searching {
		return len(m.cat.Semesters())
	}
	return len(m.rows())
}

func (m *Model) verticalStep() int {
	if _, ok := m.history.Current(); !ok && !m.searching {
		return m.gridColumns()
	}
	return 1
}

func (m *Model) move(delta int) {
	n := m.itemCount()
	if n == 0 {
		return
	}
	if _, ok := m.history.Current(); !ok && !m.searching {
		m.semCursor = clamp(m.semCursor+delta, 0, n-1)
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
	m.syncHover()
}

// resetCursor puts the cursor on the first row, or on the course itself in
// the hierarchy view.
func (m *Model) resetCursor() {
	m.cursor, m.offset = 0, 0
	if loc, ok := m.history.Current(); ok && loc.Kind == LocCourse && !m.searching {
		for i, r := range m.rows() {
			if r.section == "course" {
				m.cursor = i
				break
			}
		}
	}
	if _, ok := m.history.Current(); !ok {
		m.semCursor = clamp(m.semCursor, 0, len(m.cat.Semesters())-1)
	}
	m.syncHover()
}

// syncHover maps cursor position to hover: a course under the cursor is
// entered, no course under the cursor is a leave.
func (m *Model) syncHover() {
	m.highlight.Enter(m.SelectedCode())
}

// SelectedCode returns the course under the cursor, or "" when the cursor is
// on a semester card or an empty list.
func (m Model) SelectedCode() string {
	if _, ok := m.history.Current(); !ok && !m.searching {
		return ""
	}
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return ""
	}
	return rows[m.cursor].code
}

// setCatalog swaps in a rebuilt catalog, dropping history entries and
// highlight state that refer to courses that are gone.
func (m *Model) setCatalog(cat *catalog.Catalog, file model.CatalogFile) {
	m.cat = cat
	m.file = file
	m.warnings = cat.OrderWarnings()
	m.highlight.SetCatalog(cat)

	sems := cat.Semesters()
	m.history.Prune(func(loc Location) bool {
		switch loc.Kind {
		case LocCourse:
			return cat.Has(loc.Code)
		case LocSemester:
			return slices.Contains(sems, loc.Semester)
		default:
			return true
		}
	})
	if m.overlay == overlayDetails && !cat.Has(m.detailsCode) {
		m.overlay = overlayNone
		m.detailsCode = ""
	}

	m.semCursor = clamp(m.semCursor, 0, len(cat.Semesters())-1)
	m.cursor = clamp(m.cursor, 0, len(m.rows())-1)
	m.syncHover()
	if m.overlay == overlayDetails {
		m.renderDetails()
	}
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusIsError = false
}

func (m *Model) setError(s string) {
	m.statusMsg = s
	m.statusIsError = true
}

// Catalog returns the catalog currently shown.
func (m Model) Catalog() *catalog.Catalog { return m.cat }

// Location returns the current navigation entry, or false at the semester grid.
func (m Model) Location() (Location, bool) { return m.history.Current() }

// History returns the navigation stack.
func (m Model) History() *History { return m.history }

// Highlight returns the path highlighter.
func (m Model) Highlight() *Highlighter { return m.highlight }

// Filter returns the active filter.
func (m Model) Filter() catalog.Filter { return m.filter }

// SetFilter replaces the active filter.
func (m *Model) SetFilter(f catalog.Filter) {
	m.filter = f
	m.cursor = clamp(m.cursor, 0, len(m.rows())-1)
	m.syncHover()
}

// Statuses returns the in-memory status snapshot.
func (m Model) Statuses() progress.Statuses { return m.statuses }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searching }

// Overlay names the open overlay, or "" when none is open.
func (m Model) Overlay() string { return m.overlay.String() }

// StatusMessage returns the footer message and whether it is an error.
func (m Model) StatusMessage() (string, bool) { return m.statusMsg, m.statusIsError }

// SemesterCursor returns the index of the selected semester card.
func (m Model) SemesterCursor() int { return m.semCursor }
