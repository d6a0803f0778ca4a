// ABOUTME: Prompt entry form for the generate screen as a bubbletea model
// ABOUTME: Embeds a huh form with the prompt text and the AI refine toggle

package promptform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// MaxPromptLength caps the prompt text area.
const MaxPromptLength = 1000

// SubmittedMsg is sent when the form is completed
type SubmittedMsg struct {
	Prompt string
	Refine bool
}

// CancelledMsg is sent when the form is dismissed
type CancelledMsg struct{}

// Form wraps a huh form collecting one generation request
type Form struct {
	form  *huh.Form
	width int

	// Bound to the huh fields
	prompt string
	refine bool
}

// createTheme returns a huh theme using the gallery palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Accent)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Accent)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Accent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(styles.Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// New creates a form prefilled with prompt. Refinement starts on.
func New(prompt string) *Form {
	f := &Form{prompt: prompt, refine: true}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Prompt").
				Description("Describe the image you want. Ctrl+P picks a saved prompt.").
				Placeholder("A serene lake at sunset with mountains in the background").
				CharLimit(MaxPromptLength).
				Lines(4).
				Value(&f.prompt).
				Validate(validatePrompt),
			huh.NewConfirm().
				Title("Enhance with AI").
				Description("Let the backend rewrite your prompt for a richer result").
				Affirmative("Yes").
				Negative("No").
				Value(&f.refine),
		).Title("Create an image").
			Description("Generated images stay private until you save them"),
	).WithTheme(createTheme()).WithWidth(f.formWidth())
}

func (f *Form) formWidth() int {
	if f.width < 60 {
		return 60
	}
	return f.width - 2
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// SetPrompt replaces the prompt text and restarts the form
func (f *Form) SetPrompt(prompt string) tea.Cmd {
	f.prompt = prompt
	f.form = f.build()
	return f.form.Init()
}

// SetWidth sets the form width for proper rendering
func (f *Form) SetWidth(width int) {
	f.width = width
	f.form = f.form.WithWidth(f.formWidth())
}

// Prompt returns the current prompt text
func (f *Form) Prompt() string {
	return f.prompt
}

// Refine reports whether AI refinement is selected
func (f *Form) Refine() bool {
	return f.refine
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.SetWidth(msg.Width)
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}
	return f, cmd
}

// submit emits the collected values. Call SetPrompt to edit again.
func (f *Form) submit() tea.Cmd {
	msg := SubmittedMsg{Prompt: strings.TrimSpace(f.prompt), Refine: f.refine}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

func validatePrompt(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("please enter a prompt")
	}
	return nil
}
