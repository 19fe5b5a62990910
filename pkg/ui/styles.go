package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Adaptive colors for light and dark terminals. Light mode colors are tuned
// for a contrast ratio of at least 4.5:1 on white.
var (
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorBorder      = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorPlanned   = lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}

	// Prerequisite paths read warm, successor paths cool.
	ColorAncestor   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDescendant = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}
	ColorDimmed     = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#44475A"}
)

// GetStatusIcon returns the glyph shown next to a course for its status.
func GetStatusIcon(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "✔"
	case model.StatusInProgress:
		return "◐"
	case model.StatusPlanned:
		return "○"
	default:
		return "·"
	}
}

// GetMarkIcon returns the gutter glyph for a highlight mark.
func GetMarkIcon(m Mark) string {
	switch m {
	case MarkSelf:
		return "●"
	case MarkAncestor:
		return "▲"
	case MarkDescendant:
		return "▼"
	default:
		return " "
	}
}
