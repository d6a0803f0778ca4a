// ABOUTME: Image detail screen with likes, comments, sharing, and delete
// ABOUTME: Offers only the actions the viewer may take on the image

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/tui/comparison"
	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/menu"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
	"github.com/markalston/visionary-gallery/cli/internal/tui/widgets"
)

// maxCommentLength caps the comment input.
const maxCommentLength = 500

// detailState is one open image
type detailState struct {
	img       *gallery.Image
	thread    *gallery.Thread
	input     textinput.Model
	composing bool
	share     *menu.Menu
	shareURL  string
	from      Screen
}

func newDetailState(a *App, img *gallery.Image, from Screen) *detailState {
	in := textinput.New()
	in.Placeholder = "Add a comment..."
	in.CharLimit = maxCommentLength
	in.Width = max(a.mainWidth()-8, 20)
	return &detailState{
		img:    img,
		thread: gallery.NewThread(a.store.API(), a.session, img.ID),
		input:  in,
		from:   from,
	}
}

// openDetail shows img and starts loading its comments
func (a *App) openDetail(img *gallery.Image, from Screen) tea.Cmd {
	if img == nil {
		return nil
	}
	a.detail = newDetailState(a, img, from)
	a.screen = ScreenDetail
	return a.fetchComments(a.detail.thread)
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := a.detail
	if d == nil {
		a.screen = ScreenExplore
		return a, nil
	}
	if a.pendingDelete != nil {
		return a.updateConfirmDelete(msg)
	}
	if d.share != nil {
		model, cmd := d.share.Update(msg)
		d.share = model.(*menu.Menu)
		return a, cmd
	}
	if d.composing {
		return a.updateComposer(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.screen = d.from
		a.detail = nil
	case "l":
		return a, a.toggleLike(d.img)
	case "c":
		if ok, cmd := a.requireAuth(); !ok {
			return a, cmd
		}
		d.composing = true
		d.shareURL = ""
		return a, d.input.Focus()
	case "s":
		d.share = menu.New(gallery.ClipboardAvailable())
		d.shareURL = ""
	case "d":
		return a, a.askDelete(d.img)
	case "r":
		if d.thread.LoadErr() != nil {
			return a, a.fetchComments(d.thread)
		}
	}
	return a, nil
}

// updateComposer edits and submits the comment draft
func (a *App) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := a.detail
	switch msg.String() {
	case "esc":
		d.composing = false
		d.input.Blur()
		return a, nil
	case "enter":
		d.thread.Draft = d.input.Value()
		req, err := d.thread.BeginSubmit(d.thread.Draft)
		if err != nil {
			return a, a.showError("", err)
		}
		// Draft is cleared while the post is in flight
		d.input.SetValue(d.thread.Draft)
		return a, a.postComment(d.thread, req)
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return a, cmd
}

func (a *App) handleCommentPosted(msg commentPostedMsg) (tea.Model, tea.Cmd) {
	err := msg.thread.Settle(msg.req, msg.comment, msg.err)
	if d := a.detail; d != nil && d.thread == msg.thread {
		if err != nil {
			d.input.SetValue(msg.thread.Draft)
		} else {
			d.composing = false
			d.input.Blur()
		}
	}
	if err != nil {
		return a, a.showError("post comment", err)
	}
	return a, a.showInfo("Comment posted")
}

// handleShare acts on a share menu choice
func (a *App) handleShare(target menu.Target) (tea.Model, tea.Cmd) {
	d := a.detail
	if d == nil {
		return a, nil
	}
	d.share = nil
	link := gallery.ImageLink(a.webURL, d.img.ID)

	switch target {
	case menu.TargetCopyLink:
		if err := gallery.CopyLink(link); err != nil {
			return a, a.showError("copy link", err)
		}
		return a, a.showInfo("Link copied to clipboard")
	case menu.TargetDownload:
		return a, tea.Batch(a.showInfo("Downloading..."), a.downloadImage(d.img))
	}

	for _, l := range gallery.ShareLinks(link, d.img.Prompt) {
		if l.Name != target.String() {
			continue
		}
		d.shareURL = l.URL
		if gallery.ClipboardAvailable() && gallery.CopyLink(l.URL) == nil {
			return a, a.showInfo(l.Name + " share link copied")
		}
	}
	return a, nil
}

// askDelete asks to confirm deleting img when the viewer owns it
func (a *App) askDelete(img *gallery.Image) tea.Cmd {
	if img == nil {
		return nil
	}
	if !gallery.Can(img, a.session, gallery.ActionDelete) {
		return a.setToast("You can only delete your own images", true)
	}
	a.pendingDelete = img
	return nil
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := a.pendingDelete.ID
		a.pendingDelete = nil
		return a, tea.Batch(a.showInfo("Deleting..."), a.deleteImage(id))
	case "n", "N", "esc", "b":
		a.pendingDelete = nil
	}
	return a, nil
}

func (a *App) viewConfirmDelete() string {
	return styles.StatusCritical.Render(icons.Delete.String()+" Delete this image?") +
		" This cannot be undone. " + widgets.Keys("y Delete", "n Keep")
}

// detailShortcuts derives the footer keys from the viewer's actions
func (a *App) detailShortcuts() []string {
	keys := map[gallery.Action]string{
		gallery.ActionLike:    "l Like",
		gallery.ActionComment: "c Comment",
		gallery.ActionShare:   "s Share",
		gallery.ActionDelete:  "d Delete",
	}
	var out []string
	for _, act := range gallery.Actions(a.detail.img, a.session) {
		if k, ok := keys[act]; ok {
			out = append(out, k)
		}
	}
	return append(out, "b Back")
}

// viewDetail renders the open image
func (a *App) viewDetail() string {
	d := a.detail
	if d == nil {
		return ""
	}
	img := d.img
	width := a.mainWidth()
	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	var sb strings.Builder
	title := icons.Image.String() + " " + img.ID
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	meta := []string{
		icons.User.String() + " " + img.DisplayName(),
		widgets.Age(img),
		widgets.Likes(img.Likes, a.store.IsLiked(img.ID), a.store.Pending(img.ID)),
	}
	if a.session.Owns(img) {
		meta = append(meta, widgets.OwnerBadge())
	}
	if img.HasRefinedPrompt() {
		meta = append(meta, widgets.RefinedBadge())
	}
	sb.WriteString(strings.Join(meta, "  "))
	sb.WriteString("\n\n")

	sb.WriteString(comparison.New(img.Prompt, img.RefinedPrompt, width).View())
	sb.WriteString("\n\n")
	sb.WriteString(muted.Render("URL  ") + img.URL)
	sb.WriteString("\n")
	sb.WriteString(muted.Render("Link ") + gallery.ImageLink(a.webURL, img.ID))
	sb.WriteString("\n")

	if d.shareURL != "" {
		sb.WriteString(muted.Render("Share ") + d.shareURL)
		sb.WriteString("\n")
	}
	if d.share != nil {
		sb.WriteString("\n")
		sb.WriteString(styles.Panel.Render(d.share.View()))
		sb.WriteString("\n")
	}
	if a.pendingDelete != nil {
		sb.WriteString("\n")
		sb.WriteString(a.viewConfirmDelete())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(a.viewComments())
	return sb.String()
}

// viewComments renders the thread and the composer
func (a *App) viewComments() string {
	d := a.detail
	t := d.thread
	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s Comments (%d)", icons.Comment.String(), len(t.Comments()))))
	sb.WriteString("\n")

	switch {
	case t.Loading():
		sb.WriteString("Loading comments...\n")
	case t.LoadErr() != nil:
		sb.WriteString(styles.StatusWarning.Render(gallery.Notice(t.LoadErr())))
		sb.WriteString(muted.Render("  r to retry"))
		sb.WriteString("\n")
	case len(t.Comments()) == 0:
		sb.WriteString(muted.Render("No comments yet. Be the first to comment!"))
		sb.WriteString("\n")
	}

	for _, c := range t.Comments() {
		age := "-"
		if !c.CreatedAt.IsZero() {
			age = humanize.Time(c.CreatedAt)
		}
		sb.WriteString(styles.ValueStyle.Render(c.Author) + " " + muted.Render(age))
		sb.WriteString("\n  ")
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}

	if d.composing || t.Submitting() {
		sb.WriteString("\n")
		sb.WriteString(d.input.View())
		if t.Submitting() {
			sb.WriteString(muted.Render("  posting..."))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
