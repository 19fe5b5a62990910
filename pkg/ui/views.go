package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

const (
	cardWidth    = 26
	codesPerCard = 4
)

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var body string
	switch m.overlay {
	case overlayHelp:
		body = m.renderHelp()
	case overlayFilter:
		body = m.renderFilterPanel()
	case overlayHistory:
		body = m.renderHistoryPanel()
	case overlayDetails:
		body = m.theme.Card.Render(m.details.View())
	default:
		body = m.renderBody()
	}

	parts := []string{m.renderHeader()}
	if m.searching {
		parts = append(parts, m.searchInput.View())
	}
	parts = append(parts, body, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) bodyHeight() int {
	h := m.height - 2
	if m.searching {
		h--
	}
	return max(h, 3)
}

func (m *Model) renderBody() string {
	if m.searching {
		return m.renderCourseList(fmt.Sprintf("Matches (%d)", len(m.rows())), true)
	}
	loc, ok := m.history.Current()
	if !ok {
		return m.renderGrid()
	}
	switch loc.Kind {
	case LocSemester:
		return m.renderCourseList(fmt.Sprintf("Semester %d Courses", loc.Semester), false)
	case LocSearch:
		return m.renderCourseList(fmt.Sprintf("Search Results (%d)", len(m.rows())), true)
	case LocCourse:
		return m.renderHierarchy(loc.Code)
	}
	return ""
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Header.Render(headerTitle(m.file))

	crumbs := []string{"Home"}
	for _, loc := range m.history.Entries() {
		crumbs = append(crumbs, loc.Label(m.cat))
	}
	trail := truncate(strings.Join(crumbs, " › "), max(m.width-lipgloss.Width(title)-2, 10))
	return title + " " + t.SecondaryText.Render(trail)
}

func headerTitle(f model.CatalogFile) string {
	if f.Program == "" {
		return "cm"
	}
	return "cm · " + f.Program
}

func (m *Model) gridColumns() int {
	return max(m.width/(cardWidth+2), 1)
}

// renderGrid draws one card per semester with filtered course and credit
// counts, completion, and the first few codes.
func (m *Model) renderGrid() string {
	t := m.theme
	summary := progress.Summarize(m.cat, m.statuses)
	related := m.highlight.Related()

	var cards []string
	for i, n := range m.cat.Semesters() {
		courses := m.cat.FilterCourses(m.cat.BySemester(n), m.filter, "")
		credits := 0
		for _, c := range courses {
			credits += c.Credits
		}

		var sb strings.Builder
		sb.WriteString(t.PrimaryBold.Render(fmt.Sprintf("Semester %d", n)) + "\n")
		sb.WriteString(fmt.Sprintf("%d Courses · %d Credits\n", len(courses), credits))
		sb.WriteString(progressBar(summary.Semesters[i], cardWidth-4) + "\n")

		codes := make([]string, 0, codesPerCard)
		for j, c := range courses {
			if j == codesPerCard {
				break
			}
			codes = append(codes, c.Code)
		}
		sb.WriteString(strings.Join(codes, " "))
		if extra := len(courses) - codesPerCard; extra > 0 {
			sb.WriteString(t.MutedText.Render(fmt.Sprintf(" +%d more", extra)))
		}
		if related != nil {
			hits := 0
			for _, c := range courses {
				if related.Has(c.Code) {
					hits++
				}
			}
			sb.WriteString("\n" + t.WarningText.Render(fmt.Sprintf("%d related to %s", hits, m.highlight.Code())))
		}

		style := t.Card.Width(cardWidth)
		if i == m.semCursor {
			style = style.BorderForeground(t.Primary)
		}
		cards = append(cards, style.Render(sb.String()))
	}

	if len(cards) == 0 {
		return t.MutedText.Render("The catalog has no courses.")
	}

	cols := m.gridColumns()
	var lines []string
	for i := 0; i < len(cards); i += cols {
		end := min(i+cols, len(cards))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func progressBar(sp progress.SemesterProgress, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if sp.Credits > 0 {
		filled = width * sp.CompletedCredits / sp.Credits
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderCourseList draws a flat list of course rows. Search results show the
// semester; semester lists show the prerequisite count.
func (m *Model) renderCourseList(title string, showSemester bool) string {
	t := m.theme
	rows := m.rows()

	var sb strings.Builder
	sb.WriteString(t.PrimaryBold.Render(title) + "\n")
	if len(rows) == 0 {
		sb.WriteString(t.MutedText.Render("No courses match the current filters."))
		return sb.String()
	}

	height := m.bodyHeight() - 1
	m.offset = scrollWindow(m.cursor, m.offset, height, len(rows))
	end := min(m.offset+height, len(rows))
	for i := m.offset; i < end; i++ {
		c, _ := m.cat.FindByCode(rows[i].code)
		meta := prereqLabel(len(c.Prerequisites))
		if showSemester {
			meta = fmt.Sprintf("Semester %d", c.Semester)
		}
		sb.WriteString(m.renderCourseRow(c, meta, i == m.cursor, false))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func prereqLabel(n int) string {
	switch n {
	case 0:
		return "No Prereqs"
	case 1:
		return "1 Prereq"
	default:
		return fmt.Sprintf("%d Prereqs", n)
	}
}

// renderCourseRow renders one course line with its highlight mark, status
// and lock state.
func (m *Model) renderCourseRow(c model.Course, meta string, selected, recent bool) string {
	t := m.theme
	mark := m.highlight.Mark(c.Code)
	status := m.statuses.Of(c.Code)

	recentGlyph := " "
	if recent {
		recentGlyph = t.RecentMarker.Render("★")
	}
	lock := " "
	if status != model.StatusCompleted && progress.Locked(m.cat, m.statuses, c.Code) {
		lock = "🔒"
	}

	nameWidth := max(m.width-46, 12)
	text := fmt.Sprintf("%s %s %s %-8s %s %2dcr  %-11s",
		GetMarkIcon(mark),
		GetStatusIcon(status),
		recentGlyph,
		c.Code,
		fit(c.Name, nameWidth),
		c.Credits,
		meta,
	)
	text += lock

	if selected {
		return t.Selected.Render(text)
	}
	style := t.Renderer.NewStyle().Foreground(t.GetMarkColor(mark)).PaddingLeft(2)
	if mark == MarkSelf {
		style = style.Bold(true)
	}
	return style.Render(text)
}

// renderHierarchy draws resolved prerequisites above the course and the
// courses that require it below. Frontier prerequisites carry a star.
func (m *Model) renderHierarchy(code string) string {
	t := m.theme
	c, ok := m.cat.FindByCode(code)
	if !ok {
		return t.MutedText.Render(code + " is not in the catalog.")
	}

	var sb strings.Builder
	sb.WriteString(t.PrimaryBold.Render("Course Hierarchy: "+c.Code) + "\n")

	rows := m.rows()
	section := ""
	for i, r := range rows {
		if r.section != section {
			section = r.section
			switch section {
			case "prerequisite":
				sb.WriteString(t.SecondaryText.Render("Prerequisites (★ most recent)") + "\n")
			case "course":
				sb.WriteString(t.SecondaryText.Render("Course") + "\n")
			case "required":
				sb.WriteString(t.SecondaryText.Render("Required for") + "\n")
			}
		}
		rc, _ := m.cat.FindByCode(r.code)
		sb.WriteString(m.renderCourseRow(rc, fmt.Sprintf("Semester %d", rc.Semester), i == m.cursor, r.recent))
		sb.WriteString("\n")

		if r.section == "course" {
			for _, d := range c.Prerequisites {
				if !m.cat.Has(d) {
					sb.WriteString(t.MutedText.Render("    requires "+d+" (not in catalog)") + "\n")
				}
			}
		}
	}
	if m.showRequired && len(m.cat.RequiredFor(code)) == 0 {
		sb.WriteString(t.MutedText.Render("  Not required by any course") + "\n")
	}

	var toggles []string
	if !m.showPrereqs {
		toggles = append(toggles, "prerequisites hidden (p)")
	}
	if !m.showRequired {
		toggles = append(toggles, "required-for hidden (r)")
	}
	if len(toggles) > 0 {
		sb.WriteString(t.MutedText.Render(strings.Join(toggles, " · ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) renderHistoryPanel() string {
	t := m.theme
	var sb strings.Builder
	sb.WriteString(t.PrimaryBold.Render("Recent") + "\n\n")
	recent := m.history.Recent()
	if len(recent) == 0 {
		sb.WriteString(t.MutedText.Render("Nothing visited yet."))
		return sb.String()
	}
	for i, loc := range recent {
		label := loc.Label(m.cat)
		if i == m.historyRow {
			sb.WriteString(t.Selected.Render(label))
		} else {
			sb.WriteString("  " + t.Base.Render(label))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + t.MutedText.Render("enter jump · esc close"))
	return sb.String()
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"Navigation", [][2]string{
		{"↑/↓ j/k", "move"},
		{"←/→", "move between semesters"},
		{"enter", "open"},
		{"esc/⌫", "back"},
		{"h", "history"},
	}},
	{"Courses", [][2]string{
		{"f", "focus paths (toggle)"},
		{"s", "cycle status"},
		{"d", "details"},
		{"y", "copy code"},
		{"p / r", "hierarchy: prerequisites / required for"},
	}},
	{"Search & filter", [][2]string{
		{"/", "search"},
		{"F", "filter panel"},
		{"?", "help"},
		{"q", "quit"},
	}},
}

func (m *Model) renderHelp() string {
	t := m.theme
	var panels []string
	for _, sec := range helpSections {
		var sb strings.Builder
		sb.WriteString(t.PrimaryBold.Render(sec.title) + "\n")
		for _, k := range sec.keys {
			sb.WriteString(t.SecondaryText.Render(padRight(k[0], 10)) + " " + k[1] + "\n")
		}
		panels = append(panels, t.Card.Render(strings.TrimRight(sb.String(), "\n")))
	}
	legend := fmt.Sprintf("%s self  %s prerequisite path  %s required-for path  ★ most recent prerequisite",
		GetMarkIcon(MarkSelf), GetMarkIcon(MarkAncestor), GetMarkIcon(MarkDescendant))
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, append(panels, legend)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, panels...), legend)
}

func (m Model) renderFooter() string {
	t := m.theme
	if m.statusMsg != "" {
		if m.statusIsError {
			return t.Renderer.NewStyle().Foreground(ColorDanger).Bold(true).Render("✗ " + m.statusMsg)
		}
		return t.Renderer.NewStyle().Foreground(ColorSuccess).Bold(true).Render("✓ " + m.statusMsg)
	}

	var parts []string
	switch m.highlight.State() {
	case HighlightFocused:
		parts = append(parts, t.WarningText.Render(fmt.Sprintf("focus %s (%d related)",
			m.highlight.Code(), m.highlight.Related().Len()-1)))
	case HighlightHovering:
		parts = append(parts, t.SecondaryText.Render("paths "+m.highlight.Code()))
	}
	if !filterIsDefault(m.filter) {
		parts = append(parts, t.SecondaryText.Render("filtered"))
	}
	if n := len(m.warnings); n > 0 {
		parts = append(parts, t.WarningText.Render(fmt.Sprintf("⚠ %d order warning(s): %s", n, m.warnings[0])))
	}
	parts = append(parts, t.MutedText.Render("? help · / search · F filter · f focus · q quit"))
	return t.Renderer.NewStyle().MaxWidth(max(m.width, 20)).Render(strings.Join(parts, "  "))
}

func filterIsDefault(f catalog.Filter) bool {
	d := catalog.DefaultFilter()
	sem := f.Semester
	if sem == "" {
		sem = catalog.AllSemesters
	}
	return sem == d.Semester && f.CreditsMin == d.CreditsMin && f.CreditsMax == d.CreditsMax && len(f.Tags) == 0
}
