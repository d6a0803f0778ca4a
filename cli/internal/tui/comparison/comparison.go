// ABOUTME: Side-by-side view of the typed prompt and the AI refined prompt
// ABOUTME: Used on the detail and generate screens when the backend rewrote a prompt

package comparison

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// Comparison displays a prompt next to its refinement
type Comparison struct {
	prompt  string
	refined string
	width   int
}

// New creates a new comparison view
func New(prompt, refined string, width int) *Comparison {
	return &Comparison{
		prompt:  prompt,
		refined: refined,
		width:   width,
	}
}

// Refined reports whether there is a distinct refinement to show
func (c *Comparison) Refined() bool {
	r := strings.TrimSpace(c.refined)
	return r != "" && r != strings.TrimSpace(c.prompt)
}

// View renders the comparison
func (c *Comparison) View() string {
	if strings.TrimSpace(c.prompt) == "" {
		return styles.Subtitle.Render("No prompt")
	}

	if !c.Refined() {
		return lipgloss.NewStyle().Width(c.width).Render(
			styles.Subtitle.Render("Prompt") + "\n" + c.prompt,
		)
	}

	// Columns are separated by a two-cell gutter
	colWidth := max((c.width-2)/2, 20)

	left := c.renderColumn("Your prompt", c.prompt, colWidth, styles.Muted)
	right := c.renderColumn(icons.Sparkle.String()+" AI refined", c.refined, colWidth, styles.Accent)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (c *Comparison) renderColumn(title, body string, width int, accent lipgloss.Color) string {
	heading := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(title)
	return lipgloss.NewStyle().
		Width(width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(accent).
		PaddingLeft(1).
		Render(heading + "\n" + body)
}
