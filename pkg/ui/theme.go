package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and ANSI white
// for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Status
	Completed  lipgloss.AdaptiveColor
	InProgress lipgloss.AdaptiveColor
	Planned    lipgloss.AdaptiveColor
	Locked     lipgloss.AdaptiveColor

	// Highlight marks
	Self       lipgloss.AdaptiveColor
	Ancestor   lipgloss.AdaptiveColor
	Descendant lipgloss.AdaptiveColor
	Dimmed     lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Card     lipgloss.Style

	// Pre-computed row styles, created once instead of per frame
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	WarningText   lipgloss.Style
	RecentMarker  lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,

		Completed:  ColorSuccess,
		InProgress: ColorInfo,
		Planned:    ColorPlanned,
		Locked:     ColorDanger,

		Self:       ColorPrimary,
		Ancestor:   ColorAncestor,
		Descendant: ColorDescendant,
		Dimmed:     ColorDimmed,

		Border:    ColorBorder,
		Highlight: ColorBgHighlight,
		Muted:     ColorMuted,
		Warning:   ColorWarning,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.WarningText = r.NewStyle().Foreground(t.Warning).Bold(true)
	t.RecentMarker = r.NewStyle().Foreground(ThemeFg("#FFD700"))

	return t
}

// ThemeFor returns the default theme with the background forced by name:
// "dark", "light", or anything else to keep the renderer's detection.
func ThemeFor(name string, r *lipgloss.Renderer) Theme {
	switch name {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

func (t Theme) GetStatusColor(s model.Status) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusCompleted:
		return t.Completed
	case model.StatusInProgress:
		return t.InProgress
	case model.StatusPlanned:
		return t.Planned
	default:
		return t.Subtext
	}
}

// GetMarkColor returns the foreground for a highlight mark. MarkNone keeps
// the base text color.
func (t Theme) GetMarkColor(m Mark) lipgloss.AdaptiveColor {
	switch m {
	case MarkSelf:
		return t.Self
	case MarkAncestor:
		return t.Ancestor
	case MarkDescendant:
		return t.Descendant
	case MarkDimmed:
		return t.Dimmed
	default:
		return ColorText
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
