// ABOUTME: Generate screen: prompt form, prompt picker, and the result card
// ABOUTME: Results stay private until saved; saving uploads then records the image

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/tui/comparison"
	"github.com/markalston/visionary-gallery/cli/internal/tui/debuglog"
	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/promptform"
	"github.com/markalston/visionary-gallery/cli/internal/tui/promptpicker"
	"github.com/markalston/visionary-gallery/cli/internal/tui/samples"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// openGenerate shows the generate screen, starting a form when there is no
// result to show
func (a *App) openGenerate() tea.Cmd {
	if ok, cmd := a.requireAuth(); !ok {
		return cmd
	}
	a.screen = ScreenGenerate
	if a.form != nil || a.studio.Result() != nil || a.studio.Busy(gallery.ControlGenerate) {
		return nil
	}
	return a.editPrompt("")
}

// editPrompt opens the form prefilled with prompt
func (a *App) editPrompt(prompt string) tea.Cmd {
	a.form = promptform.New(prompt)
	a.form.SetWidth(a.mainWidth())
	return a.form.Init()
}

// openPicker lists recent prompts and suggestions
func (a *App) openPicker() {
	a.picker = promptpicker.New(a.history.List(), samples.Discover(a.configDir))
	a.picker.Update(tea.WindowSizeMsg{Width: a.mainWidth(), Height: a.contentHeight()})
}

func (a *App) updateGenerate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.picker != nil {
		model, cmd := a.picker.Update(msg)
		a.picker = model.(*promptpicker.PromptPicker)
		return a, cmd
	}
	if a.form != nil {
		if msg.String() == "ctrl+p" {
			a.openPicker()
			return a, nil
		}
		model, cmd := a.form.Update(msg)
		a.form = model.(*promptform.Form)
		return a, cmd
	}
	if a.studio.Busy(gallery.ControlGenerate) {
		// Generation keeps running while the viewer browses
		if s := msg.String(); s == "b" || s == "esc" {
			a.screen = ScreenExplore
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "s":
		img, err := a.studio.BeginSave()
		if err != nil {
			return a, a.showError("", err)
		}
		return a, tea.Batch(a.spinner.Tick, a.save(img))
	case "e":
		return a, a.editPrompt(a.genPrompt)
	case "n":
		return a, a.editPrompt("")
	case "b", "esc":
		a.screen = ScreenExplore
	}
	return a, nil
}

func (a *App) handlePromptSubmitted(msg promptform.SubmittedMsg) (tea.Model, tea.Cmd) {
	req, err := a.studio.BeginGenerate(msg.Prompt, msg.Refine)
	if err != nil {
		return a, tea.Batch(a.form.SetPrompt(msg.Prompt), a.showError("", err))
	}
	a.genPrompt = msg.Prompt
	a.form = nil
	return a, tea.Batch(a.spinner.Tick, a.generate(req))
}

func (a *App) handleGenerated(msg generatedMsg) (tea.Model, tea.Cmd) {
	if err := a.studio.SettleGenerate(msg.img, msg.err); err != nil {
		return a, tea.Batch(a.editPrompt(msg.prompt), a.showError("generate image", err))
	}
	if err := a.history.Add(msg.prompt); err != nil {
		debuglog.Error("save prompt history", err)
	}
	return a, a.showInfo("Your image is ready")
}

// viewGenerate renders whichever generate step is active
func (a *App) viewGenerate() string {
	if a.picker != nil {
		return a.picker.View()
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Sparkle.String() + " Create"))
	sb.WriteString("\n")

	if a.form != nil {
		sb.WriteString(a.form.View())
		return sb.String()
	}
	if a.studio.Busy(gallery.ControlGenerate) {
		sb.WriteString(a.spinner.View() + " Generating your image... this can take a moment")
		return sb.String()
	}

	res := a.studio.Result()
	if res == nil {
		return sb.String()
	}
	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	refined := ""
	if res.RefinedPrompt != nil {
		refined = *res.RefinedPrompt
	}
	sb.WriteString(comparison.New(res.Prompt, refined, a.mainWidth()).View())
	sb.WriteString("\n\n")
	sb.WriteString(muted.Render("Image ") + res.ImageURL)
	sb.WriteString("\n\n")

	switch {
	case a.studio.Saved():
		sb.WriteString(styles.StatusOK.Render(icons.CheckOK.String() + " Saved to your gallery"))
	case a.studio.Busy(gallery.ControlSave):
		sb.WriteString(a.spinner.View() + " Saving...")
	default:
		sb.WriteString(muted.Render("Not saved yet. Press s to keep it in your gallery."))
	}
	return sb.String()
}
