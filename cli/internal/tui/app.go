// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/client"
	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/history"
	"github.com/markalston/visionary-gallery/cli/internal/tui/dashboard"
	"github.com/markalston/visionary-gallery/cli/internal/tui/debuglog"
	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/menu"
	"github.com/markalston/visionary-gallery/cli/internal/tui/promptform"
	"github.com/markalston/visionary-gallery/cli/internal/tui/promptpicker"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenExplore Screen = iota
	ScreenDashboard
	ScreenDetail
	ScreenGenerate
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

const toastDuration = 4 * time.Second

// Deps are the gateway client and shared gallery state the TUI drives
type Deps struct {
	Client    *client.Client
	Session   *gallery.Session
	Store     *gallery.Store
	WebURL    string
	ConfigDir string
	// SignedIn is false when no token is configured, so the session
	// settles anonymous without a gateway round-trip.
	SignedIn bool
}

// App is the root model for the TUI
type App struct {
	ctx       context.Context
	client    *client.Client
	session   *gallery.Session
	store     *gallery.Store
	webURL    string
	signedIn  bool
	configDir string
	history   *history.Prompts

	screen     Screen
	width      int
	height     int
	lastUpdate time.Time

	// Explore
	feed   *gallery.Feed
	cursor int

	// Your creations
	mine      *gallery.Dashboard
	dashboard *dashboard.Dashboard

	// Detail
	detail        *detailState
	pendingDelete *gallery.Image

	// Generate
	studio    *gallery.Studio
	genPrompt string
	form      *promptform.Form
	picker    *promptpicker.PromptPicker
	spinner   spinner.Model

	toast    string
	toastErr bool
	toastID  int
}

// New creates a new TUI application
func New(deps Deps) *App {
	a := &App{
		ctx:       context.Background(),
		client:    deps.Client,
		session:   deps.Session,
		store:     deps.Store,
		webURL:    deps.WebURL,
		signedIn:  deps.SignedIn,
		configDir: deps.ConfigDir,
		history:   history.New(deps.ConfigDir),
		screen:    ScreenExplore,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
		),
	}
	if a.webURL == "" && a.client != nil {
		a.webURL = a.client.BaseURL()
	}
	a.feed = gallery.NewFeed(a.store)
	a.mine = gallery.NewDashboard(a.store)
	a.dashboard = dashboard.New(a.mine, a.store, a.mainWidth(), a.contentHeight())
	a.studio = gallery.NewStudio(a.store.API(), a.session)
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.resolveSession(), a.fetchPage(a.feed.SwitchTab(gallery.SortRecent)))
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(a.mainWidth(), a.contentHeight())
		if a.form != nil {
			a.form.SetWidth(a.mainWidth())
		}
		if a.picker != nil {
			a.picker.Update(msg)
		}
		if a.detail != nil {
			a.detail.input.Width = max(a.mainWidth()-8, 20)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenExplore:
			return a.updateExplore(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		case ScreenGenerate:
			return a.updateGenerate(msg)
		}

	case sessionResolvedMsg:
		return a.handleSessionResolved(msg)

	case likedLoadedMsg:
		if msg.err != nil {
			debuglog.Error("load liked", msg.err)
			return a, nil
		}
		a.store.SetLiked(msg.ids)
		return a, nil

	case pageLoadedMsg:
		return a.handlePageLoaded(msg)

	case dashboardLoadedMsg:
		if err := a.mine.Apply(msg.data, msg.err); err != nil {
			return a, a.showError("load your images", err)
		}
		a.lastUpdate = time.Now()
		return a, nil

	case likeSettledMsg:
		if _, err := a.store.Settle(msg.req, msg.err); err != nil {
			return a, a.showError("toggle like", err)
		}
		return a, nil

	case deletedMsg:
		return a.handleDeleted(msg)

	case commentsLoadedMsg:
		if err := msg.thread.ApplyLoad(msg.comments, msg.err); err != nil {
			return a, a.showError("load comments", err)
		}
		return a, nil

	case commentPostedMsg:
		return a.handleCommentPosted(msg)

	case menu.SelectedMsg:
		return a.handleShare(msg.Target)

	case menu.CancelledMsg:
		if a.detail != nil {
			a.detail.share = nil
		}
		return a, nil

	case downloadedMsg:
		if msg.err != nil {
			return a, a.showError("download image", msg.err)
		}
		return a, a.showInfo(fmt.Sprintf("Saved %s", msg.path))

	case promptform.SubmittedMsg:
		return a.handlePromptSubmitted(msg)

	case promptform.CancelledMsg:
		a.screen = ScreenExplore
		return a, nil

	case promptpicker.PromptSelectedMsg:
		a.picker = nil
		return a, a.form.SetPrompt(msg.Prompt)

	case promptpicker.CancelledMsg:
		a.picker = nil
		return a, nil

	case generatedMsg:
		return a.handleGenerated(msg)

	case savedMsg:
		if err := a.studio.SettleSave(msg.img, msg.err); err != nil {
			return a, a.showError("save image", err)
		}
		// The new image shows up the next time the creations list loads
		if a.mine.Loaded() {
			return a, tea.Batch(a.showInfo("Saved to your gallery"), a.loadDashboard())
		}
		return a, a.showInfo("Saved to your gallery")

	case toastExpiredMsg:
		if msg.id == a.toastID {
			a.toast = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	default:
		// Forward unknown messages to the active child (needed for huh form internals)
		if a.screen == ScreenGenerate && a.form != nil && a.picker == nil {
			model, cmd := a.form.Update(msg)
			a.form = model.(*promptform.Form)
			return a, cmd
		}
		if a.screen == ScreenDetail && a.detail != nil && a.detail.composing {
			var cmd tea.Cmd
			a.detail.input, cmd = a.detail.input.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

// busy reports whether a long request should keep the spinner turning
func (a *App) busy() bool {
	return a.studio.Busy(gallery.ControlGenerate) || a.studio.Busy(gallery.ControlSave)
}

func (a *App) handleSessionResolved(msg sessionResolvedMsg) (tea.Model, tea.Cmd) {
	if err := a.session.Apply(msg.user, msg.err); err != nil {
		return a, a.showError("resolve session", err)
	}
	if !a.session.Authenticated() {
		return a, nil
	}
	debuglog.Log("signed in", "email", a.session.User().Email)
	return a, a.fetchLiked()
}

// requireAuth shows the sign-in notice when the viewer is anonymous
func (a *App) requireAuth() (bool, tea.Cmd) {
	if a.session.Authenticated() {
		return true, nil
	}
	return false, a.showError("", gallery.ErrAuthRequired)
}

// showError logs err and shows its notice as a toast
func (a *App) showError(op string, err error) tea.Cmd {
	if op != "" {
		debuglog.Error(op, err)
	}
	return a.setToast(gallery.Notice(err), true)
}

// showInfo shows text as a toast
func (a *App) showInfo(text string) tea.Cmd {
	return a.setToast(text, false)
}

func (a *App) setToast(text string, isErr bool) tea.Cmd {
	a.toastID++
	a.toast = text
	a.toastErr = isErr
	id := a.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenExplore:
		content = a.viewExplore()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenDetail:
		content = a.viewDetail()
	case ScreenGenerate:
		content = a.viewGenerate()
	default:
		content = a.viewExplore()
	}

	return a.wrapWithFrame(content)
}

// frameWidth is the header and footer width. One column is left free to
// keep some terminals from wrapping.
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// mainWidth is the width available to screen content
func (a *App) mainWidth() int {
	return a.frameWidth() - panelPadding
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - Toast line: 1 line
	// - Newline before footer: 1 line
	// - Footer: 1 line
	return max(a.height-5, 5)
}

// renderHeader creates the header bar with app branding and the viewer
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftRendered := fmt.Sprintf(" %s %s ", icons.App.String(), styles.Gradient("Visionary Gallery"))

	var who string
	switch a.session.State() {
	case gallery.Authenticated:
		u := a.session.User()
		name := u.Name
		if strings.TrimSpace(name) == "" {
			name = u.Email
		}
		who = icons.User.String() + " " + name
	case gallery.Loading, gallery.Uninitialized:
		who = "Signing in..."
	default:
		who = "Not signed in"
	}
	rightRendered := " " + contextStyle.Render(who) + " "

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := max(width-4-leftWidth-rightWidth, 0) // -4 for ╭─ and ─╮

	fill := borderStyle.Render(strings.Repeat("─", fillWidth))
	return borderStyle.Render("╭─") + leftRendered + fill + rightRendered + borderStyle.Render("─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "
	leftPlainText := " " + strings.Join(shortcuts, "  ") + " "

	// Right side status (last update time)
	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && (a.screen == ScreenExplore || a.screen == ScreenDashboard) {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		// Drop the status before letting shortcuts overflow the frame
		rightText = ""
		fillWidth = max(width-4-leftWidth, 0)
	}

	fill := borderStyle.Render(strings.Repeat("─", fillWidth))
	return borderStyle.Render("╰─") + leftText + fill + rightText + borderStyle.Render("─╯")
}

// shortcuts lists the keys shown in the footer for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenExplore:
		return []string{"↑↓ Navigate", "Tab Sort", "Enter Open", "l Like", "g Generate", "m Mine", "q Quit"}
	case ScreenDashboard:
		if a.pendingDelete != nil {
			return []string{"y Delete", "n Keep"}
		}
		return []string{"↑↓ Navigate", "Enter Open", "l Like", "d Delete", "r Reload", "b Back"}
	case ScreenDetail:
		switch {
		case a.pendingDelete != nil:
			return []string{"y Delete", "n Keep"}
		case a.detail != nil && a.detail.composing:
			return []string{"Enter Post", "Esc Cancel"}
		case a.detail != nil && a.detail.share != nil:
			return []string{"↑↓ Navigate", "Enter Select", "Esc Close"}
		case a.detail != nil:
			return a.detailShortcuts()
		}
		return []string{"b Back"}
	case ScreenGenerate:
		switch {
		case a.picker != nil:
			return []string{"↑↓ Navigate", "Enter Use", "Esc Close"}
		case a.studio.Result() != nil && a.form == nil:
			return []string{"s Save", "e Edit", "n New", "b Back"}
		}
		return []string{"Tab Next", "Enter Confirm", "Ctrl+P Prompts", "Esc Back"}
	}
	return nil
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// renderToast renders the current notice, or an empty line
func (a *App) renderToast() string {
	if a.toast == "" {
		return ""
	}
	if a.toastErr {
		return styles.ToastError.Render(icons.Warning.String() + " " + a.toast)
	}
	return styles.ToastInfo.Render(icons.Info.String() + " " + a.toast)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().MaxHeight(a.contentHeight()).Render(content))
	sb.WriteString("\n")
	sb.WriteString(a.renderToast())
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(deps Deps) error {
	app := New(deps)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
