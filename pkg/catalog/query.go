package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

// AllSemesters is the semester filter wildcard.
const AllSemesters = "all"

// Semesters returns the distinct semester numbers in ascending order.
func (c *Catalog) Semesters() []int {
	return slices.Clone(c.semesters)
}

// BySemester returns the courses of semester n in declaration order.
func (c *Catalog) BySemester(n int) []model.Course {
	out := []model.Course{}
	for _, course := range c.courses {
		if course.Semester == n {
			out = append(out, course.Clone())
		}
	}
	return out
}

// SemesterCredits sums the credits offered in semester n.
func (c *Catalog) SemesterCredits(n int) int {
	total := 0
	for _, course := range c.courses {
		if course.Semester == n {
			total += course.Credits
		}
	}
	return total
}

// Search returns courses whose code or name contains query, ignoring case,
// in declaration order. A blank query matches nothing.
func (c *Catalog) Search(query string) []model.Course {
	defer metrics.Timer(metrics.Search)()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []model.Course{}
	if q == "" {
		return out
	}
	for _, course := range c.courses {
		if matchesQuery(course, q) {
			out = append(out, course.Clone())
		}
	}
	return out
}

// matchesQuery expects q already lowercased and trimmed.
func matchesQuery(course model.Course, q string) bool {
	return strings.Contains(strings.ToLower(course.Code), q) ||
		strings.Contains(strings.ToLower(course.Name), q)
}

// Tags returns the derived tag set of a course:
//
//	semester-N
//	credits-low | credits-medium | credits-high
//	has-prerequisites | no-prerequisites
//	is-required | not-required
//	prefix-x   (lowercased leading letters of the code, when present)
//
// has-prerequisites looks at declared prerequisites, resolved or not.
func (c *Catalog) Tags(course model.Course) []string {
	tags := make([]string, 0, 5)
	tags = append(tags,
		fmt.Sprintf("semester-%d", course.Semester),
		"credits-"+model.CreditBand(course.Credits),
	)
	if len(course.Prerequisites) == 0 {
		tags = append(tags, "no-prerequisites")
	} else {
		tags = append(tags, "has-prerequisites")
	}
	if len(c.requiredFor[strings.TrimSpace(course.Code)]) == 0 {
		tags = append(tags, "not-required")
	} else {
		tags = append(tags, "is-required")
	}
	if prefix := model.CodePrefix(strings.TrimSpace(course.Code)); prefix != "" {
		tags = append(tags, "prefix-"+strings.ToLower(prefix))
	}
	return tags
}

// AvailableTags lists the tags offered by the filter panel: one prefix tag
// per distinct code prefix in declaration order, the three credit bands,
// then no-prerequisites.
func (c *Catalog) AvailableTags() []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, course := range c.courses {
		prefix := model.CodePrefix(course.Code)
		if prefix == "" {
			continue
		}
		tag := "prefix-" + strings.ToLower(prefix)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return append(tags, "credits-low", "credits-medium", "credits-high", "no-prerequisites")
}

// Filter is a conjunctive course predicate.
type Filter struct {
	// Semester is "all" (or empty) for every semester, otherwise a semester number.
	Semester string `json:"semester" yaml:"semester"`
	// CreditsMin and CreditsMax are inclusive. A non-positive CreditsMax means
	// no upper bound.
	CreditsMin int `json:"credits_min" yaml:"credits_min"`
	CreditsMax int `json:"credits_max" yaml:"credits_max"`
	// Tags match when any of them is in the course's tag set. Empty means any.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// DefaultFilter is the filter panel's reset state.
func DefaultFilter() Filter {
	return Filter{Semester: AllSemesters, CreditsMin: 1, CreditsMax: 8}
}

// SemesterFilter returns the value to store in Filter.Semester for n.
func SemesterFilter(n int) string {
	return strconv.Itoa(n)
}

// IsZero reports whether f matches every course.
func (f Filter) IsZero() bool {
	return (f.Semester == "" || f.Semester == AllSemesters) &&
		f.CreditsMin <= 0 && f.CreditsMax <= 0 && len(f.Tags) == 0
}

// MatchesFilter reports whether course passes every part of f. A semester
// value that is neither "all" nor a number matches nothing.
func (c *Catalog) MatchesFilter(course model.Course, f Filter) bool {
	sem := strings.TrimSpace(f.Semester)
	if sem != "" && !strings.EqualFold(sem, AllSemesters) {
		n, err := strconv.Atoi(sem)
		if err != nil || course.Semester != n {
			return false
		}
	}
	if course.Credits < f.CreditsMin {
		return false
	}
	if f.CreditsMax > 0 && course.Credits > f.CreditsMax {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	for _, tag := range c.Tags(course) {
		if slices.Contains(f.Tags, tag) {
			return true
		}
	}
	return false
}

// FilterCourses applies f and, when query is not blank, a case-insensitive
// code/name substring match. Input order is preserved.
func (c *Catalog) FilterCourses(courses []model.Course, f Filter, query string) []model.Course {
	defer metrics.Timer(metrics.Filter)()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []model.Course{}
	for _, course := range courses {
		if !c.MatchesFilter(course, f) {
			continue
		}
		if q != "" && !matchesQuery(course, q) {
			continue
		}
		out = append(out, course)
	}
	return out
}
