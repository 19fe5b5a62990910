package catalog

import (
	"slices"

	"github.com/vanderheijden86/coursemap/pkg/metrics"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

// CodeSet is an unordered set of course codes.
type CodeSet map[string]struct{}

// NewCodeSet returns a set holding codes.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, code := range codes {
		s[code] = struct{}{}
	}
	return s
}

// Has reports whether code is in the set.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Len returns the number of codes.
func (s CodeSet) Len() int {
	return len(s)
}

// Add inserts code.
func (s CodeSet) Add(code string) {
	s[code] = struct{}{}
}

// Union returns a new set with the members of s and other.
func (s CodeSet) Union(other CodeSet) CodeSet {
	out := make(CodeSet, len(s)+len(other))
	for code := range s {
		out[code] = struct{}{}
	}
	for code := range other {
		out[code] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s CodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

// Ancestors returns code plus every course reachable by following
// prerequisite edges. Prerequisites missing from the catalog are not
// followed. An unknown code yields a set holding only itself.
func (c *Catalog) Ancestors(code string) CodeSet {
	defer metrics.Timer(metrics.Closure)()
	return c.walk(code, func(cur string) []string {
		i, ok := c.index[cur]
		if !ok {
			return nil
		}
		return c.courses[i].Prerequisites
	})
}

// Descendants returns code plus every course reachable by following
// required-for edges.
func (c *Catalog) Descendants(code string) CodeSet {
	defer metrics.Timer(metrics.Closure)()
	return c.walk(code, func(cur string) []string {
		return c.requiredFor[cur]
	})
}

// FocusSet is the union of Ancestors and Descendants.
func (c *Catalog) FocusSet(code string) CodeSet {
	return c.Ancestors(code).Union(c.Descendants(code))
}

// walk is an iterative depth-first traversal. The visited set bounds it on
// cyclic input.
func (c *Catalog) walk(start string, next func(string) []string) CodeSet {
	visited := NewCodeSet(start)
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range next(cur) {
			if visited.Has(n) || !c.Has(n) {
				continue
			}
			visited.Add(n)
			stack = append(stack, n)
		}
	}
	return visited
}

// CoursesIn returns the catalog courses whose codes are in set, in
// declaration order. Codes that are not in the catalog are skipped.
func (c *Catalog) CoursesIn(set CodeSet) []model.Course {
	out := make([]model.Course, 0, len(set))
	for _, course := range c.courses {
		if set.Has(course.Code) {
			out = append(out, course.Clone())
		}
	}
	return out
}
