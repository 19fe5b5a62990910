package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
)

// Filter panel rows: semester, minimum credits, maximum credits, then one
// row per available tag.
const (
	filterRowSemester = iota
	filterRowCreditsMin
	filterRowCreditsMax
	filterRowTags
)

// creditCeiling is the highest credit bound the panel offers.
func (m *Model) creditCeiling() int {
	ceiling := catalog.DefaultFilter().CreditsMax
	for _, c := range m.cat.Courses() {
		ceiling = max(ceiling, c.Credits)
	}
	return ceiling
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) Model {
	tags := m.cat.AvailableTags()
	last := filterRowTags + len(tags) - 1
	switch msg.String() {
	case "esc", "F", "q":
		m.overlay = overlayNone
		return m
	case "up", "k":
		m.filterRow = clamp(m.filterRow-1, 0, last)
	case "down", "j":
		m.filterRow = clamp(m.filterRow+1, 0, last)
	case "left", "h", "-":
		m.adjustFilter(-1)
	case "right", "l", "+":
		m.adjustFilter(1)
	case " ", "enter":
		if m.filterRow >= filterRowTags {
			m.toggleTag(tags[m.filterRow-filterRowTags])
		} else {
			m.adjustFilter(1)
		}
	case "x":
		m.SetFilter(catalog.DefaultFilter())
	}
	return m
}

// adjustFilter steps the value on the selected row.
func (m *Model) adjustFilter(delta int) {
	f := m.filter
	switch m.filterRow {
	case filterRowSemester:
		options := []string{catalog.AllSemesters}
		for _, n := range m.cat.Semesters() {
			options = append(options, catalog.SemesterFilter(n))
		}
		i := slices.Index(options, f.Semester)
		if i < 0 {
			i = 0
		}
		f.Semester = options[(i+delta+len(options))%len(options)]
	case filterRowCreditsMin:
		upper := f.CreditsMax
		if upper <= 0 {
			upper = m.creditCeiling()
		}
		f.CreditsMin = clamp(f.CreditsMin+delta, 1, upper)
	case filterRowCreditsMax:
		f.CreditsMax = clamp(f.CreditsMax+delta, max(f.CreditsMin, 1), m.creditCeiling())
	default:
		return
	}
	m.SetFilter(f)
}

func (m *Model) toggleTag(tag string) {
	f := m.filter
	if i := slices.Index(f.Tags, tag); i >= 0 {
		f.Tags = slices.Delete(slices.Clone(f.Tags), i, i+1)
	} else {
		f.Tags = append(slices.Clone(f.Tags), tag)
	}
	m.SetFilter(f)
}

func (m *Model) renderFilterPanel() string {
	t := m.theme
	var sb strings.Builder
	sb.WriteString(t.PrimaryBold.Render("Filters") + "\n\n")

	line := func(idx int, text string) {
		if idx == m.filterRow {
			sb.WriteString(t.Selected.Render(text))
		} else {
			sb.WriteString("  " + t.Base.Render(text))
		}
		sb.WriteString("\n")
	}

	sem := m.filter.Semester
	if sem == "" {
		sem = catalog.AllSemesters
	}
	line(filterRowSemester, fmt.Sprintf("%-12s ‹ %s ›", "Semester", sem))
	line(filterRowCreditsMin, fmt.Sprintf("%-12s ‹ %d ›", "Credits min", m.filter.CreditsMin))
	maxLabel := "any"
	if m.filter.CreditsMax > 0 {
		maxLabel = strconv.Itoa(m.filter.CreditsMax)
	}
	line(filterRowCreditsMax, fmt.Sprintf("%-12s ‹ %s ›", "Credits max", maxLabel))

	sb.WriteString("\n" + t.SecondaryText.Render("Tags (any of)") + "\n")
	for i, tag := range m.cat.AvailableTags() {
		box := "[ ]"
		if slices.Contains(m.filter.Tags, tag) {
			box = "[x]"
		}
		line(filterRowTags+i, box+" "+tag)
	}

	sb.WriteString("\n" + t.MutedText.Render("←/→ adjust · space toggle tag · x reset · esc close"))
	return sb.String()
}
