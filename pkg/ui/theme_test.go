package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	if isColorEmpty(theme.Primary) {
		t.Error("DefaultTheme Primary color is empty")
	}
	if isColorEmpty(theme.Ancestor) || isColorEmpty(theme.Descendant) {
		t.Error("DefaultTheme path colors are empty")
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestGetStatusColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	tests := []struct {
		status model.Status
		want   lipgloss.AdaptiveColor
	}{
		{model.StatusCompleted, theme.Completed},
		{model.StatusInProgress, theme.InProgress},
		{model.StatusPlanned, theme.Planned},
		{model.StatusNone, theme.Subtext},
	}
	for _, tt := range tests {
		if got := theme.GetStatusColor(tt.status); got != tt.want {
			t.Errorf("GetStatusColor(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestGetMarkColorDistinguishesPaths(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))
	if theme.GetMarkColor(MarkAncestor) == theme.GetMarkColor(MarkDescendant) {
		t.Error("expected ancestor and descendant paths to use different colors")
	}
	if theme.GetMarkColor(MarkDimmed) != theme.Dimmed {
		t.Error("expected dimmed rows to use the dimmed color")
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("Biomechanics 1", 8); got != "Biomech…" {
		t.Errorf("expected %q, got %q", "Biomech…", got)
	}
	if got := truncate("short", 8); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := fit("ab", 4); got != "ab  " {
		t.Errorf("expected padded, got %q", got)
	}
	if got := truncate("anything", 0); got != "" {
		t.Errorf("expected empty for zero width, got %q", got)
	}
}

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		cursor, offset, height, total, want int
	}{
		{0, 0, 10, 5, 0},
		{12, 0, 10, 30, 3},
		{2, 5, 10, 30, 2},
		{29, 0, 10, 30, 20},
	}
	for _, tt := range tests {
		if got := scrollWindow(tt.cursor, tt.offset, tt.height, tt.total); got != tt.want {
			t.Errorf("scrollWindow(%d,%d,%d,%d) = %d, want %d", tt.cursor, tt.offset, tt.height, tt.total, got, tt.want)
		}
	}
}
