// ABOUTME: Prompt picker component for the Generate screen
// ABOUTME: Lists recent prompts and suggestions for reuse

package promptpicker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// PromptSelectedMsg is sent when a prompt is picked
type PromptSelectedMsg struct {
	Prompt string
}

// CancelledMsg is sent when the user closes the picker
type CancelledMsg struct{}

var (
	headingStyle = lipgloss.NewStyle().Foreground(styles.Muted)
	dividerStyle = lipgloss.NewStyle().Foreground(styles.Surface)
)

// PromptPicker is a single list of recent prompts followed by suggestions
type PromptPicker struct {
	recent      []string
	suggestions []string
	cursor      int
	width       int
}

// New creates a picker over recent prompts and suggestions
func New(recent, suggestions []string) *PromptPicker {
	return &PromptPicker{recent: recent, suggestions: suggestions, width: 80}
}

// Init implements tea.Model
func (p *PromptPicker) Init() tea.Cmd {
	return nil
}

// Len is the number of selectable prompts
func (p *PromptPicker) Len() int {
	return len(p.recent) + len(p.suggestions)
}

// Cursor is the index of the highlighted prompt
func (p *PromptPicker) Cursor() int {
	return p.cursor
}

// Current returns the highlighted prompt
func (p *PromptPicker) Current() string {
	if p.cursor < len(p.recent) {
		return p.recent[p.cursor]
	}
	if i := p.cursor - len(p.recent); i < len(p.suggestions) {
		return p.suggestions[i]
	}
	return ""
}

// Update implements tea.Model
func (p *PromptPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < p.Len()-1 {
				p.cursor++
			}
		case "enter":
			if prompt := p.Current(); prompt != "" {
				return p, func() tea.Msg { return PromptSelectedMsg{Prompt: prompt} }
			}
		case "esc", "b":
			return p, func() tea.Msg { return CancelledMsg{} }
		}
	}
	return p, nil
}

// View implements tea.Model
func (p *PromptPicker) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Pick a prompt"))
	b.WriteString("\n")

	if p.Len() == 0 {
		b.WriteString(headingStyle.Render("No recent prompts yet"))
		return b.String()
	}

	if len(p.recent) > 0 {
		b.WriteString(headingStyle.Render("Recent prompts:"))
		b.WriteString("\n")
		for i, prompt := range p.recent {
			b.WriteString(p.row(i, prompt))
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", max(min(40, p.width-4), 1))))
		b.WriteString("\n")
	}

	if len(p.suggestions) > 0 {
		b.WriteString(headingStyle.Render("Need inspiration? Try one of these:"))
		b.WriteString("\n")
		for i, prompt := range p.suggestions {
			b.WriteString(p.row(len(p.recent)+i, prompt))
		}
	}
	return b.String()
}

func (p *PromptPicker) row(index int, prompt string) string {
	limit := max(p.width-6, 20)
	display := prompt
	if r := []rune(display); len(r) > limit {
		display = string(r[:limit-1]) + "…"
	}
	if index == p.cursor {
		return "> " + styles.Selected.Render(display) + "\n"
	}
	return "  " + styles.Normal.Render(display) + "\n"
}
