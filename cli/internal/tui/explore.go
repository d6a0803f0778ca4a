// ABOUTME: Explore and creations screens of the TUI
// ABOUTME: Handles list navigation, infinite scroll, tab switching, and quick likes

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/tui/debuglog"
	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
	"github.com/markalston/visionary-gallery/cli/internal/tui/widgets"
)

// feedTabs are the explore sort modes in tab order
var feedTabs = []gallery.SortMode{gallery.SortRecent, gallery.SortPopular}

func (a *App) updateExplore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < a.feed.Len()-1 {
			a.cursor++
		}
		return a, a.maybeLoadMore()
	case "tab", "right":
		return a, a.switchTab(a.nextTab(1))
	case "shift+tab", "left":
		return a, a.switchTab(a.nextTab(-1))
	case "1":
		return a, a.switchTab(gallery.SortRecent)
	case "2":
		return a, a.switchTab(gallery.SortPopular)
	case "r":
		return a, a.switchTab(a.feed.Mode())
	case "enter":
		return a, a.openDetail(a.selectedFeedImage(), ScreenExplore)
	case "l":
		return a, a.toggleLike(a.selectedFeedImage())
	case "g":
		return a, a.openGenerate()
	case "m":
		return a, a.openDashboard()
	}
	return a, nil
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.pendingDelete != nil {
		return a.updateConfirmDelete(msg)
	}
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.dashboard.MoveUp()
	case "down", "j":
		a.dashboard.MoveDown()
	case "r":
		return a, a.loadDashboard()
	case "enter":
		return a, a.openDetail(a.dashboard.Selected(), ScreenDashboard)
	case "l":
		return a, a.toggleLike(a.dashboard.Selected())
	case "d":
		return a, a.askDelete(a.dashboard.Selected())
	case "g":
		return a, a.openGenerate()
	case "b", "esc":
		a.screen = ScreenExplore
	}
	return a, nil
}

// selectedFeedImage returns the explore item under the cursor
func (a *App) selectedFeedImage() *gallery.Image {
	items := a.feed.Items()
	if len(items) == 0 {
		return nil
	}
	a.cursor = min(a.cursor, len(items)-1)
	return items[a.cursor]
}

func (a *App) nextTab(step int) gallery.SortMode {
	for i, m := range feedTabs {
		if m == a.feed.Mode() {
			return feedTabs[(i+step+len(feedTabs))%len(feedTabs)]
		}
	}
	return gallery.SortRecent
}

// switchTab restarts the feed in mode from the first page
func (a *App) switchTab(mode gallery.SortMode) tea.Cmd {
	a.cursor = 0
	return a.fetchPage(a.feed.SwitchTab(mode))
}

// maybeLoadMore requests the next page once the cursor reaches the end
func (a *App) maybeLoadMore() tea.Cmd {
	if !a.feed.NearEnd(a.cursor) {
		return nil
	}
	req, err := a.feed.LoadMore()
	if err != nil {
		// In flight or exhausted; nothing to do
		return nil
	}
	return a.fetchPage(req)
}

func (a *App) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	current, err := a.feed.Apply(msg.req, msg.page, msg.err)
	if !current {
		debuglog.Log("dropped stale page", "offset", msg.req.Offset, "sort", msg.req.Sort)
		return a, nil
	}
	if err != nil {
		return a, a.showError("load explore page", err)
	}
	a.lastUpdate = time.Now()
	return a, nil
}

// openDashboard shows the viewer's creations, loading them on first visit
func (a *App) openDashboard() tea.Cmd {
	if ok, cmd := a.requireAuth(); !ok {
		return cmd
	}
	a.screen = ScreenDashboard
	if a.mine.Loaded() {
		return nil
	}
	return a.loadDashboard()
}

func (a *App) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.showError("delete image", msg.err)
	}
	a.store.Forget(msg.id)
	if a.detail != nil && a.detail.img.ID == msg.id {
		a.screen = a.detail.from
		a.detail = nil
	}
	a.cursor = max(min(a.cursor, a.feed.Len()-1), 0)
	return a, a.showInfo("Image deleted")
}

// viewExplore renders the tab bar and the feed
func (a *App) viewExplore() string {
	var sb strings.Builder

	labels := make([]string, len(feedTabs))
	active := 0
	for i, m := range feedTabs {
		icon := icons.Latest
		if m == gallery.SortPopular {
			icon = icons.Trending
		}
		labels[i] = icon.String() + " " + m.Label()
		if m == a.feed.Mode() {
			active = i
		}
	}
	sb.WriteString(widgets.Tabs(labels, active))
	sb.WriteString("\n\n")

	items := a.feed.Items()
	if len(items) == 0 {
		switch {
		case a.feed.Loading():
			sb.WriteString("Loading images...")
		case a.feed.HasMore():
			sb.WriteString(styles.Subtitle.Render("Press r to load images"))
		default:
			sb.WriteString(styles.Subtitle.Render("No images yet. Press g to create the first one."))
		}
		return sb.String()
	}

	rows := max(a.contentHeight()-4, 1)
	start := max(a.cursor-rows+1, 0)
	end := min(start+rows, len(items))
	for i := start; i < end; i++ {
		img := items[i]
		sb.WriteString(widgets.ImageRow(img, widgets.RowState{
			Selected: i == a.cursor,
			Liked:    a.store.IsLiked(img.ID),
			Pending:  a.store.Pending(img.ID),
			Owned:    a.session.Owns(img),
		}, a.mainWidth()))
		sb.WriteString("\n")
	}

	status := fmt.Sprintf("%d images", len(items))
	switch {
	case a.feed.Loading():
		status += " · loading more..."
	case !a.feed.HasMore():
		status += " · " + gallery.Notice(gallery.ErrFeedExhausted)
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(status))
	return sb.String()
}

// viewDashboard renders the creations panel
func (a *App) viewDashboard() string {
	content := a.dashboard.View()
	if a.pendingDelete != nil {
		content += "\n" + a.viewConfirmDelete()
	}
	return content
}
