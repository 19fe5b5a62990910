// Package catalog builds the prerequisite graph for a course catalog and
// answers the lookups, closures and filters the UI and CLI run against it.
//
// A Catalog is immutable once Build returns. Derived relations are kept as
// code-keyed adjacency lists so they can be compared and serialized directly.
package catalog

import (
	"slices"

	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

// Catalog is a built course catalog.
type Catalog struct {
	courses []model.Course
	index   map[string]int

	// requiredFor[p] lists, in declaration order, the codes of courses that
	// declare p as a prerequisite. Only codes present in the catalog get entries.
	requiredFor map[string][]string
	// recent[c] is the prerequisite frontier of c.
	recent map[string][]string

	semesters []int
}

// Build derives required-for edges and recent prerequisites from the raw
// course list. The input is copied; later changes to it do not affect the
// catalog. Codes are trimmed and repeated prerequisite entries collapsed.
//
// Course codes are expected to be unique. When a code repeats, the later
// record replaces the earlier one but keeps the earlier record's position.
func Build(raw []model.Course) *Catalog {
	defer metrics.Timer(metrics.CatalogBuild)()

	c := &Catalog{
		courses:     make([]model.Course, 0, len(raw)),
		index:       make(map[string]int, len(raw)),
		requiredFor: make(map[string][]string, len(raw)),
		recent:      make(map[string][]string, len(raw)),
	}

	for _, r := range raw {
		course := r.Normalize()
		if i, dup := c.index[course.Code]; dup {
			c.courses[i] = course
			continue
		}
		c.index[course.Code] = len(c.courses)
		c.courses = append(c.courses, course)
	}

	c.buildRequiredFor()
	for _, course := range c.courses {
		c.recent[course.Code] = c.frontier(course)
	}
	c.semesters = collectSemesters(c.courses)
	return c
}

func (c *Catalog) buildRequiredFor() {
	for _, course := range c.courses {
		c.requiredFor[course.Code] = []string{}
	}
	for _, course := range c.courses {
		for _, p := range course.Prerequisites {
			if _, ok := c.index[p]; !ok {
				continue
			}
			c.requiredFor[p] = append(c.requiredFor[p], course.Code)
		}
	}
}

// frontier keeps the prerequisites from the latest semester among the
// resolved prerequisites, minus any that a sibling in that group already
// lists as its own prerequisite.
func (c *Catalog) frontier(course model.Course) []string {
	resolved := c.resolve(course.Prerequisites)
	if len(resolved) == 0 {
		return []string{}
	}

	maxSemester := resolved[0].Semester
	for _, p := range resolved[1:] {
		maxSemester = max(maxSemester, p.Semester)
	}

	var candidates []model.Course
	for _, p := range resolved {
		if p.Semester == maxSemester {
			candidates = append(candidates, p)
		}
	}

	out := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		dominated := false
		for _, other := range candidates {
			if other.Code != cand.Code && other.HasPrerequisite(cand.Code) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, cand.Code)
		}
	}
	return out
}

func (c *Catalog) resolve(codes []string) []model.Course {
	out := make([]model.Course, 0, len(codes))
	for _, code := range codes {
		if i, ok := c.index[code]; ok {
			out = append(out, c.courses[i])
		}
	}
	return out
}

func collectSemesters(courses []model.Course) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, course := range courses {
		if _, ok := seen[course.Semester]; ok {
			continue
		}
		seen[course.Semester] = struct{}{}
		out = append(out, course.Semester)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Courses returns every course in declaration order.
func (c *Catalog) Courses() []model.Course {
	out := make([]model.Course, len(c.courses))
	for i, course := range c.courses {
		out[i] = course.Clone()
	}
	return out
}

// Codes returns every course code in declaration order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.courses))
	for i, course := range c.courses {
		out[i] = course.Code
	}
	return out
}

// Has reports whether code names a course in the catalog.
func (c *Catalog) Has(code string) bool {
	_, ok := c.index[code]
	return ok
}

// Position returns the declaration index of code, or -1.
func (c *Catalog) Position(code string) int {
	if i, ok := c.index[code]; ok {
		return i
	}
	return -1
}

// FindByCode looks a course up by code.
func (c *Catalog) FindByCode(code string) (model.Course, bool) {
	i, ok := c.index[code]
	if !ok {
		return model.Course{}, false
	}
	return c.courses[i].Clone(), true
}

// RequiredFor returns the codes of courses that list code as a prerequisite.
func (c *Catalog) RequiredFor(code string) []string {
	return slices.Clone(nonNil(c.requiredFor[code]))
}

// RecentPrerequisites returns the prerequisite frontier of code.
func (c *Catalog) RecentPrerequisites(code string) []string {
	return slices.Clone(nonNil(c.recent[code]))
}

// ResolvedPrerequisites returns the declared prerequisites of code that exist
// in the catalog, in declaration order.
func (c *Catalog) ResolvedPrerequisites(code string) []string {
	i, ok := c.index[code]
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, p := range c.courses[i].Prerequisites {
		if c.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// DanglingRef is a declared prerequisite that names no catalog course.
type DanglingRef struct {
	Course       string `json:"course"`
	Prerequisite string `json:"prerequisite"`
}

// Dangling lists unresolved prerequisite references in declaration order.
func (c *Catalog) Dangling() []DanglingRef {
	var out []DanglingRef
	for _, course := range c.courses {
		for _, p := range course.Prerequisites {
			if !c.Has(p) {
				out = append(out, DanglingRef{Course: course.Code, Prerequisite: p})
			}
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
