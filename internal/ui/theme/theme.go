// Package theme holds the color palettes and derived styles for the
// dashboard and the report renderer.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/punch/internal/model"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Running marks tasks and projects with an active timer.
	Running lipgloss.Color

	StatusTodo       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Running  lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Card       lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style

	StatusOK    lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Value: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Running: lipgloss.NewStyle().
			Foreground(t.Running).
			Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(18),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		TableHeader: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			BorderBottom(true).
			Foreground(t.Secondary).
			Bold(true),

		TableSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true),

		StatusOK: lipgloss.NewStyle().
			Foreground(t.Info),

		StatusError: lipgloss.NewStyle().
			Foreground(t.Error),
	}
}

// StatusColor returns the color for a task status
func (t Theme) StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusInProgress:
		return t.StatusInProgress
	case model.StatusDone:
		return t.StatusDone
	default:
		return t.StatusTodo
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after current in Available, wrapping around.
func Next(current string) Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
