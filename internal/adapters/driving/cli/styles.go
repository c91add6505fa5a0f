package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks recognised files.
	Success lipgloss.Color

	// Warning marks unrecognised files.
	Warning lipgloss.Color

	// Error marks failures.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains the lipgloss styles used by command output.
type Styles struct {
	Title        lipgloss.Style
	Muted        lipgloss.Style
	Recognised   lipgloss.Style
	Unrecognised lipgloss.Style
	Error        lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Muted:        lipgloss.NewStyle().Foreground(theme.Muted),
		Recognised:   lipgloss.NewStyle().Bold(true).Foreground(theme.Success),
		Unrecognised: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:        lipgloss.NewStyle().Foreground(theme.Error),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Title:        plain,
		Muted:        plain,
		Recognised:   plain,
		Unrecognised: plain,
		Error:        plain,
	}
}

// stylesFor returns coloured styles when w is a terminal and NO_COLOR is unset.
func stylesFor(w io.Writer) *Styles {
	if isTerminal(w) && os.Getenv("NO_COLOR") == "" {
		return NewStyles(nil)
	}
	return PlainStyles()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
