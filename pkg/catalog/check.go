package catalog

import (
	"fmt"
	"slices"
)

// OrderWarning is a prerequisite edge whose prerequisite is scheduled in a
// later semester than the course that depends on it. The frontier is still
// computed from semester numbers, so such edges can make it misleading.
type OrderWarning struct {
	Course               string `json:"course"`
	CourseSemester       int    `json:"course_semester"`
	Prerequisite         string `json:"prerequisite"`
	PrerequisiteSemester int    `json:"prerequisite_semester"`
}

func (w OrderWarning) String() string {
	return fmt.Sprintf("%s (semester %d) requires %s from later semester %d",
		w.Course, w.CourseSemester, w.Prerequisite, w.PrerequisiteSemester)
}

// OrderWarnings lists every semester-inverted prerequisite edge in
// declaration order.
func (c *Catalog) OrderWarnings() []OrderWarning {
	var out []OrderWarning
	for _, course := range c.courses {
		for _, p := range c.resolve(course.Prerequisites) {
			if p.Semester > course.Semester {
				out = append(out, OrderWarning{
					Course:               course.Code,
					CourseSemester:       course.Semester,
					Prerequisite:         p.Code,
					PrerequisiteSemester: p.Semester,
				})
			}
		}
	}
	return out
}

// Problem is a broken relationship found by Validate.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return p.Code + ": " + p.Message
}

// Validate re-checks the derived relations against the declared
// prerequisites: required-for must be the exact inverse of the resolved
// prerequisite edges, and every frontier must be a non-empty subset of the
// resolved prerequisites (when any resolve) in which no member is a declared
// prerequisite of another member. A correctly built catalog has no problems.
func (c *Catalog) Validate() []Problem {
	var problems []Problem
	report := func(code, format string, args ...any) {
		problems = append(problems, Problem{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	for _, course := range c.courses {
		for _, p := range c.ResolvedPrerequisites(course.Code) {
			if !slices.Contains(c.requiredFor[p], course.Code) {
				report(p, "missing required-for entry %s", course.Code)
			}
		}
	}
	for code, dependents := range c.requiredFor {
		for _, d := range dependents {
			dep, ok := c.FindByCode(d)
			if !ok || !dep.HasPrerequisite(code) {
				report(code, "required-for entry %s does not list it as a prerequisite", d)
			}
		}
	}

	for _, course := range c.courses {
		resolved := c.ResolvedPrerequisites(course.Code)
		recent := c.recent[course.Code]
		if len(resolved) > 0 && len(recent) == 0 {
			report(course.Code, "has prerequisites but no recent prerequisites")
		}
		for _, r := range recent {
			if !slices.Contains(resolved, r) {
				report(course.Code, "recent prerequisite %s is not a resolved prerequisite", r)
			}
			for _, other := range recent {
				if other == r {
					continue
				}
				if oc, ok := c.FindByCode(other); ok && oc.HasPrerequisite(r) {
					report(course.Code, "recent prerequisite %s is required by sibling %s", r, other)
				}
			}
		}
	}

	slices.SortStableFunc(problems, func(a, b Problem) int {
		return c.Position(a.Code) - c.Position(b.Code)
	})
	return problems
}
