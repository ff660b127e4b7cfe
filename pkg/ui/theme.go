package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// NodeColor returns the given hex color for ANSI256+ terminals and a safe
// ANSI red for 16-color terminals, so risk hues do not get down-converted
// into something misleading.
func NodeColor(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(1)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the console's colors and precomputed styles. Styles are
// created once at startup instead of per-frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Suspicion encoding for chrome (node glyph colors come from the
	// render model, not the theme)
	Alert   lipgloss.AdaptiveColor
	Safe    lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor

	// UI elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Precomputed styles
	Header        lipgloss.Style
	PaneTitle     lipgloss.Style
	Selected      lipgloss.Style
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	AlertText     lipgloss.Style
	StatusBar     lipgloss.Style
	Placeholder   lipgloss.Style
}

// DefaultTheme returns the standard dark theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"},
		Secondary: lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94a3b8"},
		Muted:     lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"},
		Alert:     lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"},
		Safe:      lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"},
		Warning:   lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"},
		Border:    lipgloss.AdaptiveColor{Light: "#cbd5e1", Dark: "#334155"},
		Highlight: lipgloss.AdaptiveColor{Light: "#ede9fe", Dark: "#312e81"},
	}

	t.Header = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.PaneTitle = r.NewStyle().Bold(true).Foreground(t.Secondary)
	t.Selected = r.NewStyle().Bold(true).Foreground(t.Primary).Background(t.Highlight)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.AlertText = r.NewStyle().Foreground(t.Alert).Bold(true)
	t.StatusBar = r.NewStyle().Foreground(t.Secondary)
	t.Placeholder = r.NewStyle().Foreground(t.Muted).Italic(true)

	return t
}
