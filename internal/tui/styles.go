package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorInfo      = lipgloss.Color("#3B82F6")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles groups the styles of one renderer. Build it with NewStyles so the
// color profile of the target writer is respected.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Box      lipgloss.Style

	// Token listing
	TokenKind     lipgloss.Style
	TokenKeyword  lipgloss.Style
	TokenLiteral  lipgloss.Style
	TokenOperator lipgloss.Style
	Position      lipgloss.Style

	// Status
	StatusOK    lipgloss.Style
	StatusError lipgloss.Style
	Pointer     lipgloss.Style

	// Input
	Input        lipgloss.Style
	FocusedInput lipgloss.Style

	Help lipgloss.Style
}

// NewStyles builds the styles for r
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1),

		Subtitle: r.NewStyle().
			Foreground(colorMuted).
			Italic(true),

		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),

		TokenKind: r.NewStyle().
			Foreground(colorInfo).
			Width(11),

		TokenKeyword: r.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		TokenLiteral: r.NewStyle().
			Foreground(colorAccent),

		TokenOperator: r.NewStyle().
			Foreground(colorFg),

		Position: r.NewStyle().
			Foreground(colorMuted),

		StatusOK: r.NewStyle().
			Foreground(colorSecondary).
			Bold(true),

		StatusError: r.NewStyle().
			Foreground(colorError).
			Bold(true),

		Pointer: r.NewStyle().
			Foreground(colorError),

		Input: r.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),

		FocusedInput: r.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),

		Help: r.NewStyle().
			Foreground(colorMuted).
			MarginTop(1),
	}
}

// DefaultStyles uses the default renderer (stdout)
var DefaultStyles = NewStyles(lipgloss.DefaultRenderer())

// ColorMode selects whether styled output carries ANSI colors
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ApplyColorMode adjusts r's color profile. ColorAuto keeps what lipgloss
// detected for the renderer's output.
func ApplyColorMode(r *lipgloss.Renderer, mode ColorMode) {
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	}
}
