// ABOUTME: Share menu shown from the image detail screen
// ABOUTME: Offers copy link, social share targets, and download

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// Target is where an image gets shared
type Target int

const (
	TargetCopyLink Target = iota
	TargetTwitter
	TargetFacebook
	TargetLinkedIn
	TargetDownload
)

// SelectedMsg is sent when an enabled target is chosen
type SelectedMsg struct {
	Target Target
}

// CancelledMsg is sent when the menu is closed
type CancelledMsg struct{}

type option struct {
	label   string
	value   Target
	enabled bool
}

// Menu is the share target list
type Menu struct {
	options []option
	cursor  int
}

// New creates the share menu. Copy link is disabled without a clipboard.
func New(clipboardAvailable bool) *Menu {
	return &Menu{
		options: []option{
			{label: icons.Share.String() + " Copy link", value: TargetCopyLink, enabled: clipboardAvailable},
			{label: "Twitter", value: TargetTwitter, enabled: true},
			{label: "Facebook", value: TargetFacebook, enabled: true},
			{label: "LinkedIn", value: TargetLinkedIn, enabled: true},
			{label: icons.Download.String() + " Download", value: TargetDownload, enabled: true},
		},
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		opt := m.options[m.cursor]
		if !opt.enabled {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedMsg{Target: opt.value} }
	case "esc", "b", "s":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Share"))
	b.WriteString("\n")
	for i, opt := range m.options {
		label := opt.label
		style := styles.Normal
		if !opt.enabled {
			label = fmt.Sprintf("%s (not available)", label)
			style = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
			if opt.enabled {
				style = styles.Selected
			}
		}
		b.WriteString(cursor + style.Render(label) + "\n")
	}
	return b.String()
}

// String returns the string representation of a Target
func (t Target) String() string {
	switch t {
	case TargetCopyLink:
		return "copy"
	case TargetTwitter:
		return "Twitter"
	case TargetFacebook:
		return "Facebook"
	case TargetLinkedIn:
		return "LinkedIn"
	case TargetDownload:
		return "download"
	default:
		return "unknown"
	}
}
