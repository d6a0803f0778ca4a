// ABOUTME: Messages and commands that carry gateway calls off the update loop
// ABOUTME: Each command runs only the network half; state changes happen in Update

package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/visionary-gallery/cli/internal/client"
	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

// sessionResolvedMsg is sent when the identity lookup finishes
type sessionResolvedMsg struct {
	user *gallery.User
	err  error
}

// likedLoadedMsg carries the viewer's liked image IDs
type likedLoadedMsg struct {
	ids []string
	err error
}

// pageLoadedMsg is sent when an explore page arrives
type pageLoadedMsg struct {
	req  gallery.PageRequest
	page []client.Image
	err  error
}

// dashboardLoadedMsg is sent when the viewer's images arrive
type dashboardLoadedMsg struct {
	data gallery.DashboardData
	err  error
}

// likeSettledMsg is sent when a like or unlike write finishes
type likeSettledMsg struct {
	req *gallery.ToggleRequest
	err error
}

// deletedMsg is sent when a delete finishes
type deletedMsg struct {
	id  string
	err error
}

// commentsLoadedMsg is sent when a thread's comments arrive
type commentsLoadedMsg struct {
	thread   *gallery.Thread
	comments []gallery.Comment
	err      error
}

// commentPostedMsg is sent when a comment write finishes
type commentPostedMsg struct {
	thread  *gallery.Thread
	req     *gallery.CommentRequest
	comment *gallery.Comment
	err     error
}

// downloadedMsg is sent when an image file has been written
type downloadedMsg struct {
	path string
	err  error
}

// generatedMsg is sent when the generator returns
type generatedMsg struct {
	prompt string
	img    *client.GeneratedImage
	err    error
}

// savedMsg is sent when an upload and save finish
type savedMsg struct {
	img *client.GeneratedImage
	err error
}

// toastExpiredMsg clears the toast it was scheduled for
type toastExpiredMsg struct {
	id int
}

// resolveSession looks up the viewer. Without a token it settles anonymous
// immediately.
func (a *App) resolveSession() tea.Cmd {
	if !a.signedIn {
		return func() tea.Msg { return sessionResolvedMsg{} }
	}
	a.session.BeginResolve()
	return func() tea.Msg {
		user, err := a.session.Fetch(a.ctx)
		return sessionResolvedMsg{user: user, err: err}
	}
}

func (a *App) fetchLiked() tea.Cmd {
	return func() tea.Msg {
		ids, err := a.store.FetchLiked(a.ctx)
		return likedLoadedMsg{ids: ids, err: err}
	}
}

func (a *App) fetchPage(req gallery.PageRequest) tea.Cmd {
	return func() tea.Msg {
		page, err := a.feed.Fetch(a.ctx, req)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
}

// loadDashboard starts a load of the viewer's images
func (a *App) loadDashboard() tea.Cmd {
	if err := a.mine.BeginLoad(); err != nil {
		return nil
	}
	return func() tea.Msg {
		data, err := a.mine.Fetch(a.ctx)
		return dashboardLoadedMsg{data: data, err: err}
	}
}

// toggleLike flips the like on img locally and sends the write
func (a *App) toggleLike(img *gallery.Image) tea.Cmd {
	if img == nil {
		return nil
	}
	if ok, cmd := a.requireAuth(); !ok {
		return cmd
	}
	req, err := a.store.BeginToggle(img.ID)
	if err != nil {
		return a.showError("", err)
	}
	return func() tea.Msg {
		return likeSettledMsg{req: req, err: a.store.Commit(a.ctx, req)}
	}
}

func (a *App) deleteImage(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: a.store.CommitDelete(a.ctx, id)}
	}
}

func (a *App) fetchComments(thread *gallery.Thread) tea.Cmd {
	if !thread.BeginLoad() {
		return nil
	}
	return func() tea.Msg {
		comments, err := thread.Fetch(a.ctx)
		return commentsLoadedMsg{thread: thread, comments: comments, err: err}
	}
}

func (a *App) postComment(thread *gallery.Thread, req *gallery.CommentRequest) tea.Cmd {
	return func() tea.Msg {
		comment, err := thread.Commit(a.ctx, req)
		return commentPostedMsg{thread: thread, req: req, comment: comment, err: err}
	}
}

// downloadImage writes img to the working directory. A partial file is
// removed when the transfer fails.
func (a *App) downloadImage(img *gallery.Image) tea.Cmd {
	path := gallery.DownloadFilename(img.ID)
	url := img.URL
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return downloadedMsg{path: path, err: err}
		}
		_, err = a.client.Download(a.ctx, url, f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(path)
		}
		return downloadedMsg{path: path, err: err}
	}
}

func (a *App) generate(req *client.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		img, err := a.studio.CommitGenerate(a.ctx, req)
		return generatedMsg{prompt: req.Prompt, img: img, err: err}
	}
}

func (a *App) save(img *client.GeneratedImage) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{img: img, err: a.studio.CommitSave(a.ctx, img)}
	}
}
