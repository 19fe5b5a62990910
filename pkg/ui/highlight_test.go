package ui_test

import (
	"testing"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/loader"
	"github.com/vanderheijden86/coursemap/pkg/model"
	"github.com/vanderheijden86/coursemap/pkg/ui"
)

func bundled(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.Build(loader.MustBundled().Courses)
}

func TestHighlighter_IdleMarksNothing(t *testing.T) {
	h := ui.NewHighlighter(bundled(t))
	if h.State() != ui.HighlightIdle {
		t.Fatalf("expected idle, got %v", h.State())
	}
	if got := h.Mark("BMS115"); got != ui.MarkNone {
		t.Errorf("expected none, got %v", got)
	}
	if h.Related() != nil {
		t.Errorf("expected no related set while idle")
	}
}

func TestHighlighter_HoverMarksPathsSeparately(t *testing.T) {
	h := ui.NewHighlighter(bundled(t))
	h.Enter("BMS116")

	if h.State() != ui.HighlightHovering || h.Code() != "BMS116" {
		t.Fatalf("expected hovering BMS116, got %v %q", h.State(), h.Code())
	}
	tests := []struct {
		code string
		want ui.Mark
	}{
		{"BMS116", ui.MarkSelf},
		{"BMS115", ui.MarkAncestor},
		{"BPT214", ui.MarkDescendant},
		{"BPT216", ui.MarkDescendant},
		{"PHY112", ui.MarkDimmed},
		{"BPT112", ui.MarkDimmed},
	}
	for _, tt := range tests {
		if got := h.Mark(tt.code); got != tt.want {
			t.Errorf("Mark(%s): expected %v, got %v", tt.code, tt.want, got)
		}
	}

	h.Leave()
	if h.State() != ui.HighlightIdle || h.Code() != "" {
		t.Errorf("expected idle after leave, got %v %q", h.State(), h.Code())
	}
}

func TestHighlighter_EnterMovesHover(t *testing.T) {
	h := ui.NewHighlighter(bundled(t))
	h.Enter("BMS115")
	h.Enter("BPT214")
	if h.Code() != "BPT214" {
		t.Errorf("expected hover to move to BPT214, got %q", h.Code())
	}
	h.Enter("")
	if h.State() != ui.HighlightIdle {
		t.Errorf("expected empty enter to leave, got %v", h.State())
	}
}

func TestHighlighter_ClickToggles(t *testing.T) {
	h := ui.NewHighlighter(bundled(t))
	h.Click("BMS116")
	if h.State() != ui.HighlightFocused {
		t.Fatalf("expected focused, got %v", h.State())
	}

	// Hover changes are ignored while focused.
	h.Enter("PHY112")
	h.Leave()
	if h.State() != ui.HighlightFocused || h.Code() != "BMS116" {
		t.Errorf("expected focus on BMS116 to survive hover, got %v %q", h.State(), h.Code())
	}
	if got := h.Mark("PHY112"); got != ui.MarkDimmed {
		t.Errorf("expected PHY112 dimmed while focused, got %v", got)
	}

	related := h.Related()
	if !related.Has("BMS115") || !related.Has("BMS116") || !related.Has("BPT216") {
		t.Errorf("expected focus set to hold both paths, got %v", related.Sorted())
	}

	h.Click("BMS116")
	if h.State() != ui.HighlightIdle {
		t.Errorf("expected second click to unfocus, got %v", h.State())
	}
}

func TestHighlighter_ClickOtherSwitchesFocus(t *testing.T) {
	h := ui.NewHighlighter(bundled(t))
	h.Enter("BMS115")
	h.Click("BMS115")
	h.Click("PHY112")
	if h.State() != ui.HighlightFocused || h.Code() != "PHY112" {
		t.Errorf("expected focus on PHY112, got %v %q", h.State(), h.Code())
	}
	if got := h.Mark("BMS115"); got != ui.MarkDimmed {
		t.Errorf("expected BMS115 dimmed, got %v", got)
	}
}

func TestHighlighter_SetCatalogResetsMissingCode(t *testing.T) {
	h := ui.NewHighlighter(bundled(t))
	h.Click("BMS116")

	kept := catalog.Build([]model.Course{
		{Code: "BMS115", Name: "Anatomy 1", Semester: 1, Credits: 3},
		{Code: "BMS116", Name: "Anatomy 2", Semester: 2, Credits: 3, Prerequisites: []string{"BMS115"}},
	})
	h.SetCatalog(kept)
	if h.State() != ui.HighlightFocused {
		t.Fatalf("expected focus to survive reload, got %v", h.State())
	}
	if got := h.Mark("BPT214"); got != ui.MarkDimmed {
		t.Errorf("expected closure recomputed against new catalog, got %v for BPT214", got)
	}

	h.SetCatalog(catalog.Build([]model.Course{{Code: "PHY112", Name: "Physics", Semester: 1, Credits: 2}}))
	if h.State() != ui.HighlightIdle {
		t.Errorf("expected reset when focused course disappears, got %v", h.State())
	}
}

func TestMarkString(t *testing.T) {
	tests := map[ui.Mark]string{
		ui.MarkNone:       "none",
		ui.MarkSelf:       "self",
		ui.MarkAncestor:   "ancestor",
		ui.MarkDescendant: "descendant",
		ui.MarkDimmed:     "dimmed",
	}
	for mark, want := range tests {
		if mark.String() != want {
			t.Errorf("expected %q, got %q", want, mark.String())
		}
	}
}
