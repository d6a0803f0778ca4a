// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across components

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light

	// Colors - Gallery accents
	Accent  = lipgloss.Color("#EC4899") // Pink, the gradient end of the brand
	Indigo  = lipgloss.Color("#6366F1") // Gradient start
	Surface = lipgloss.Color("#374151") // Elevated surface background
	Heart   = lipgloss.Color("#F43F5E") // Liked
	Info    = lipgloss.Color("#3B82F6")

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Primary)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// List rows
	Selected = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Normal = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	Liked = lipgloss.NewStyle().
		Foreground(Heart).
		Bold(true)

	// Tabs
	TabActive = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	TabInactive = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 2)

	// Toasts
	ToastInfo = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Foreground(Text).
			Background(Danger).
			Padding(0, 1)
)

// Gradient renders text in the brand gradient, one color per third.
func Gradient(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	colors := []lipgloss.Color{Indigo, Primary, Accent}
	third := (len(runes) + 2) / 3
	var out string
	for i, c := range colors {
		start := i * third
		if start >= len(runes) {
			break
		}
		end := min(start+third, len(runes))
		out += lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(runes[start:end]))
	}
	return out
}
