package export

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"unicode"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

// MermaidConfig configures Mermaid generation.
type MermaidConfig struct {
	// AllEdges draws every resolved prerequisite. Recent prerequisites are
	// drawn bold and the rest dashed. Otherwise only recent prerequisites
	// are drawn.
	AllEdges bool
	Statuses progress.Statuses
}

// GenerateMermaid renders courses as a top-down Mermaid graph, one subgraph
// per semester. Edges point from a prerequisite to the course that needs it.
// Edges to courses outside the list are omitted.
func GenerateMermaid(cat *catalog.Catalog, courses []model.Course, cfg MermaidConfig) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    classDef completed fill:#50FA7B,stroke:#333,color:#000\n")
	sb.WriteString("    classDef inprogress fill:#8BE9FD,stroke:#333,color:#000\n")
	sb.WriteString("    classDef planned fill:#F1FA8C,stroke:#333,color:#000\n")
	sb.WriteString("\n")

	ids := newMermaidIDs()
	included := make(map[string]bool, len(courses))
	bySemester := make(map[int][]model.Course)
	var semesters []int
	for _, c := range courses {
		ids.get(c.Code)
		if included[c.Code] {
			continue
		}
		included[c.Code] = true
		if _, ok := bySemester[c.Semester]; !ok {
			semesters = append(semesters, c.Semester)
		}
		bySemester[c.Semester] = append(bySemester[c.Semester], c)
	}
	slices.Sort(semesters)

	for _, n := range semesters {
		fmt.Fprintf(&sb, "    subgraph S%d[\"Semester %d\"]\n", n, n)
		for _, c := range bySemester[n] {
			fmt.Fprintf(&sb, "        %s[\"%s<br/>%s\"]\n", ids.get(c.Code), sanitizeMermaidText(c.Code), sanitizeMermaidText(c.Name))
		}
		sb.WriteString("    end\n")
	}

	var classes []string
	for _, n := range semesters {
		for _, c := range bySemester[n] {
			if class := statusClass(cfg.Statuses.Of(c.Code)); class != "" {
				classes = append(classes, fmt.Sprintf("    class %s %s\n", ids.get(c.Code), class))
			}
		}
	}
	if len(classes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(classes, ""))
	}

	var edges []string
	for _, n := range semesters {
		for _, c := range bySemester[n] {
			recent := cat.RecentPrerequisites(c.Code)
			prereqs := recent
			if cfg.AllEdges {
				prereqs = cat.ResolvedPrerequisites(c.Code)
			}
			for _, p := range prereqs {
				if !included[p] {
					continue
				}
				arrow := "-->"
				if cfg.AllEdges {
					arrow = "-.->"
					if slices.Contains(recent, p) {
						arrow = "==>"
					}
				}
				edges = append(edges, fmt.Sprintf("    %s %s %s\n", ids.get(p), arrow, ids.get(c.Code)))
			}
		}
	}
	if len(edges) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(edges, ""))
	}
	return sb.String()
}

func statusClass(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "completed"
	case model.StatusInProgress:
		return "inprogress"
	case model.StatusPlanned:
		return "planned"
	}
	return ""
}

// mermaidIDs hands out stable, collision-free node IDs.
type mermaidIDs struct {
	byCode map[string]string
	used   map[string]bool
}

func newMermaidIDs() *mermaidIDs {
	return &mermaidIDs{byCode: make(map[string]string), used: make(map[string]bool)}
}

func (m *mermaidIDs) get(code string) string {
	if id, ok := m.byCode[code]; ok {
		return id
	}
	id := sanitizeMermaidID(code)
	if m.used[id] {
		h := fnv.New32a()
		_, _ = h.Write([]byte(code))
		id = fmt.Sprintf("%s_%x", id, h.Sum32())
	}
	m.used[id] = true
	m.byCode[code] = id
	return id
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "node"
	}
	return sb.String()
}

// sanitizeMermaidText replaces characters that break Mermaid labels.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"\n", " ",
		"\r", "",
	)
	return strings.TrimSpace(replacer.Replace(text))
}
