package ui

import (
	"github.com/vanderheijden86/coursemap/pkg/catalog"
)

// HighlightState is the state of the path highlighter.
type HighlightState int

const (
	HighlightIdle HighlightState = iota
	HighlightHovering
	HighlightFocused
)

func (s HighlightState) String() string {
	switch s {
	case HighlightHovering:
		return "hovering"
	case HighlightFocused:
		return "focused"
	default:
		return "idle"
	}
}

// Mark is how a course row is drawn relative to the active course.
type Mark int

const (
	MarkNone Mark = iota
	MarkSelf
	MarkAncestor
	MarkDescendant
	MarkDimmed
)

func (m Mark) String() string {
	switch m {
	case MarkSelf:
		return "self"
	case MarkAncestor:
		return "ancestor"
	case MarkDescendant:
		return "descendant"
	case MarkDimmed:
		return "dimmed"
	default:
		return "none"
	}
}

// Highlighter tracks which course's prerequisite and successor paths are
// lit up.
//
//	Idle          --Enter(c)--> Hovering(c)
//	Hovering(c)   --Enter(d)--> Hovering(d)
//	Hovering(c)   --Leave-->    Idle
//	Idle|Hovering --Click(c)--> Focused(c)
//	Focused(c)    --Click(c)--> Idle
//	Focused(c)    --Click(d)--> Focused(d)
//
// Enter and Leave are ignored while focused, so the focus set stays fixed
// until it is toggled off.
type Highlighter struct {
	cat   *catalog.Catalog
	state HighlightState
	code  string

	ancestors   catalog.CodeSet
	descendants catalog.CodeSet
}

// NewHighlighter returns an idle highlighter over cat.
func NewHighlighter(cat *catalog.Catalog) *Highlighter {
	return &Highlighter{cat: cat}
}

// State returns the current state.
func (h *Highlighter) State() HighlightState { return h.state }

// Code returns the hovered or focused code, or "" when idle.
func (h *Highlighter) Code() string { return h.code }

// Focused reports whether a course is focused.
func (h *Highlighter) Focused() bool { return h.state == HighlightFocused }

// Enter hovers code. The prerequisite and successor closures are kept
// separately so rows on each side can be told apart.
func (h *Highlighter) Enter(code string) {
	if h.state == HighlightFocused {
		return
	}
	if code == "" {
		h.Leave()
		return
	}
	if h.state == HighlightHovering && h.code == code {
		return
	}
	h.activate(HighlightHovering, code)
}

// Leave clears a hover.
func (h *Highlighter) Leave() {
	if h.state != HighlightHovering {
		return
	}
	h.Reset()
}

// Click toggles focus on code. Clicking a different code while focused moves
// the focus there.
func (h *Highlighter) Click(code string) {
	if code == "" {
		return
	}
	if h.state == HighlightFocused && h.code == code {
		h.Reset()
		return
	}
	h.activate(HighlightFocused, code)
}

// Reset returns to Idle.
func (h *Highlighter) Reset() {
	h.state = HighlightIdle
	h.code = ""
	h.ancestors = nil
	h.descendants = nil
}

// SetCatalog swaps in a rebuilt catalog. The highlight is recomputed against
// it, or reset when the active course no longer exists.
func (h *Highlighter) SetCatalog(cat *catalog.Catalog) {
	h.cat = cat
	if h.state == HighlightIdle {
		return
	}
	if !cat.Has(h.code) {
		h.Reset()
		return
	}
	h.activate(h.state, h.code)
}

// Related returns the union of the active closures, or nil when idle.
func (h *Highlighter) Related() catalog.CodeSet {
	if h.state == HighlightIdle {
		return nil
	}
	return h.ancestors.Union(h.descendants)
}

// Mark classifies code against the active course. Every row is MarkNone
// while idle; rows outside both closures are dimmed otherwise.
func (h *Highlighter) Mark(code string) Mark {
	switch {
	case h.state == HighlightIdle:
		return MarkNone
	case code == h.code:
		return MarkSelf
	case h.ancestors.Has(code):
		return MarkAncestor
	case h.descendants.Has(code):
		return MarkDescendant
	default:
		return MarkDimmed
	}
}

func (h *Highlighter) activate(state HighlightState, code string) {
	h.state = state
	h.code = code
	h.ancestors = h.cat.Ancestors(code)
	h.descendants = h.cat.Descendants(code)
}
