package export

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/progress"
)

// CourseMarkdown renders one course with its relations. The TUI shows it
// through glamour. It returns false when code is not in the catalog.
func CourseMarkdown(cat *catalog.Catalog, code string, statuses progress.Statuses) (string, bool) {
	course, ok := cat.FindByCode(code)
	if !ok {
		return "", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %s\n\n", course.Code, escapeMarkdown(course.Name))
	sb.WriteString("| Semester | Credits | Status |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d | %d | %s |\n\n", course.Semester, course.Credits, statuses.Of(code))

	var tags []string
	for _, t := range cat.Tags(course) {
		tags = append(tags, "`"+t+"`")
	}
	fmt.Fprintf(&sb, "**Tags:** %s\n\n", strings.Join(tags, " "))

	if statuses != nil {
		if blockers := progress.Blockers(cat, statuses, code); len(blockers) > 0 {
			fmt.Fprintf(&sb, "**Locked** until completed: %s\n\n", strings.Join(blockers, ", "))
		}
	}

	recent := cat.RecentPrerequisites(code)
	sb.WriteString("## Prerequisites\n\n")
	if len(course.Prerequisites) == 0 {
		sb.WriteString("_None_\n")
	}
	for _, p := range course.Prerequisites {
		pre, found := cat.FindByCode(p)
		switch {
		case !found:
			fmt.Fprintf(&sb, "- %s _(not in catalog)_\n", p)
		case slices.Contains(recent, p):
			fmt.Fprintf(&sb, "- **%s** %s (semester %d, recent)\n", pre.Code, escapeMarkdown(pre.Name), pre.Semester)
		default:
			fmt.Fprintf(&sb, "- %s %s (semester %d)\n", pre.Code, escapeMarkdown(pre.Name), pre.Semester)
		}
	}

	sb.WriteString("\n## Required for\n\n")
	dependents := cat.RequiredFor(code)
	if len(dependents) == 0 {
		sb.WriteString("_None_\n")
	}
	for _, d := range dependents {
		dep, _ := cat.FindByCode(d)
		fmt.Fprintf(&sb, "- %s %s (semester %d)\n", dep.Code, escapeMarkdown(dep.Name), dep.Semester)
	}

	fmt.Fprintf(&sb, "\n## Reach\n\n- Ancestors: %d\n- Descendants: %d\n",
		cat.Ancestors(code).Len()-1, cat.Descendants(code).Len()-1)
	return sb.String(), true
}

// GenerateReport renders the whole catalog as Markdown, one table per semester.
func GenerateReport(b Bundle) string {
	cat := b.Catalog
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(b.Title()))

	total := 0
	for _, n := range cat.Semesters() {
		total += cat.SemesterCredits(n)
	}
	fmt.Fprintf(&sb, "%d courses, %d credits over %d semesters.\n\n", cat.Len(), total, len(cat.Semesters()))

	if len(b.Statuses) > 0 {
		sum := progress.Summarize(cat, b.Statuses)
		sb.WriteString("## Progress\n\n")
		fmt.Fprintf(&sb, "- Completed: %d courses, %d credits (%.1f%%)\n", sum.Completed, sum.CompletedCredits, sum.PercentComplete)
		fmt.Fprintf(&sb, "- In progress: %d courses, %d credits\n", sum.InProgress, sum.InProgressCredits)
		fmt.Fprintf(&sb, "- Planned: %d courses, %d credits\n\n", sum.Planned, sum.PlannedCredits)
	}

	for _, n := range cat.Semesters() {
		fmt.Fprintf(&sb, "## Semester %d (%d credits)\n\n", n, cat.SemesterCredits(n))
		sb.WriteString("| Code | Course | Credits | Recent prerequisites | Required for |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, c := range cat.BySemester(n) {
			fmt.Fprintf(&sb, "| %s | %s | %d | %s | %d |\n",
				c.Code, escapeMarkdown(c.Name), c.Credits,
				dashIfEmpty(strings.Join(cat.RecentPrerequisites(c.Code), ", ")),
				len(cat.RequiredFor(c.Code)))
		}
		sb.WriteString("\n")
	}

	if warnings := cat.OrderWarnings(); len(warnings) > 0 {
		sb.WriteString("## Semester order warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}
	if dangling := cat.Dangling(); len(dangling) > 0 {
		sb.WriteString("## Unknown prerequisites\n\n")
		for _, d := range dangling {
			fmt.Fprintf(&sb, "- %s lists %s\n", d.Course, d.Prerequisite)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SaveReport writes GenerateReport output to path.
func SaveReport(b Bundle, path string) error {
	return os.WriteFile(path, []byte(GenerateReport(b)), 0o644)
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
