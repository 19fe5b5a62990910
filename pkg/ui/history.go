package ui

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
)

// DefaultHistoryLimit is the number of entries the history panel shows.
const DefaultHistoryLimit = 5

// LocationKind identifies the view a navigation entry opens.
type LocationKind int

const (
	LocSemester LocationKind = iota
	LocCourse
	LocSearch
)

// Location is one entry on the navigation stack. Only the field matching
// Kind is meaningful.
type Location struct {
	Kind     LocationKind
	Semester int
	Code     string
	Query    string
}

// SemesterLoc, CourseLoc and SearchLoc build locations.
func SemesterLoc(n int) Location      { return Location{Kind: LocSemester, Semester: n} }
func CourseLoc(code string) Location  { return Location{Kind: LocCourse, Code: code} }
func SearchLoc(query string) Location { return Location{Kind: LocSearch, Query: query} }

// Label renders the location for breadcrumbs and the history panel.
func (l Location) Label(cat *catalog.Catalog) string {
	switch l.Kind {
	case LocSemester:
		return fmt.Sprintf("Semester %d", l.Semester)
	case LocCourse:
		if c, ok := cat.FindByCode(l.Code); ok {
			return c.Code + ": " + c.Name
		}
		return l.Code
	case LocSearch:
		return fmt.Sprintf("Search: %q", l.Query)
	default:
		return "?"
	}
}

// History is the navigation stack. An empty stack is the semester grid.
type History struct {
	stack []Location
	limit int
}

// NewHistory returns an empty stack whose Recent view holds at most limit
// entries. A non-positive limit uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push adds loc unless it is already on top. It reports whether the stack
// changed.
func (h *History) Push(loc Location) bool {
	if cur, ok := h.Current(); ok && cur == loc {
		return false
	}
	h.stack = append(h.stack, loc)
	return true
}

// Back pops the top entry. Popping the last entry returns to the grid.
func (h *History) Back() {
	if len(h.stack) <= 1 {
		h.stack = h.stack[:0]
		return
	}
	h.stack = h.stack[:len(h.stack)-1]
}

// Current returns the top entry, or false at the grid.
func (h *History) Current() (Location, bool) {
	if len(h.stack) == 0 {
		return Location{}, false
	}
	return h.stack[len(h.stack)-1], true
}

// Len returns the stack depth.
func (h *History) Len() int { return len(h.stack) }

// Limit returns the Recent cap.
func (h *History) Limit() int { return h.limit }

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Location {
	return slices.Clone(h.stack)
}

// Recent returns up to Limit entries, most recent first.
func (h *History) Recent() []Location {
	out := slices.Clone(h.stack)
	slices.Reverse(out)
	if len(out) > h.limit {
		out = out[:h.limit]
	}
	return out
}

// Truncate keeps the first n entries. Truncate(0) returns to the grid.
func (h *History) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(h.stack) {
		h.stack = h.stack[:n]
	}
}

// JumpTo unwinds to loc when it is already on the stack, or pushes it.
func (h *History) JumpTo(loc Location) {
	if i := slices.Index(h.stack, loc); i >= 0 {
		h.stack = h.stack[:i+1]
		return
	}
	h.Push(loc)
}

// Prune drops entries keep rejects, then collapses adjacent repeats left
// behind.
func (h *History) Prune(keep func(Location) bool) {
	out := h.stack[:0]
	for _, loc := range h.stack {
		if !keep(loc) {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == loc {
			continue
		}
		out = append(out, loc)
	}
	h.stack = out
}
