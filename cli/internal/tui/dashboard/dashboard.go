// ABOUTME: "Your creations" panel listing the viewer's own images
// ABOUTME: Shows totals for images, likes received, and likes given above the list

package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
	"github.com/markalston/visionary-gallery/cli/internal/tui/widgets"
)

// Dashboard renders the viewer's gallery with a movable cursor
type Dashboard struct {
	data   *gallery.Dashboard
	store  *gallery.Store
	cursor int
	width  int
	height int
}

// New creates the panel over the shared dashboard state
func New(data *gallery.Dashboard, store *gallery.Store, width, height int) *Dashboard {
	return &Dashboard{
		data:   data,
		store:  store,
		width:  width,
		height: height,
	}
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Cursor returns the selected row
func (d *Dashboard) Cursor() int {
	d.clamp()
	return d.cursor
}

// MoveUp moves the cursor up one row
func (d *Dashboard) MoveUp() {
	if d.cursor > 0 {
		d.cursor--
	}
}

// MoveDown moves the cursor down one row
func (d *Dashboard) MoveDown() {
	if d.cursor < len(d.data.Items())-1 {
		d.cursor++
	}
}

// Selected returns the image under the cursor, or nil when the list is empty
func (d *Dashboard) Selected() *gallery.Image {
	items := d.data.Items()
	if len(items) == 0 {
		return nil
	}
	d.clamp()
	return items[d.cursor]
}

// clamp keeps the cursor on a row after deletions shrink the list
func (d *Dashboard) clamp() {
	n := len(d.data.Items())
	if d.cursor >= n {
		d.cursor = max(n-1, 0)
	}
}

// Stats are the totals shown above the list
type Stats struct {
	Images        int
	LikesReceived int
	LikesGiven    int
}

// Stats totals the viewer's images and likes
func (d *Dashboard) Stats() Stats {
	s := Stats{Images: len(d.data.Items()), LikesGiven: d.store.LikedCount()}
	for _, img := range d.data.Items() {
		s.LikesReceived += img.Likes
	}
	return s
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Your creations"))
	sb.WriteString("\n")

	if !d.data.Loaded() {
		if d.data.Loading() {
			sb.WriteString("Loading your images...")
		} else {
			sb.WriteString(styles.Subtitle.Render("Press r to load your gallery"))
		}
		return d.frame(sb.String())
	}

	st := d.Stats()
	sb.WriteString(strings.Join([]string{
		widgets.Counter("Images", st.Images),
		widgets.Counter("Likes received", st.LikesReceived),
		widgets.Counter("Liked by you", st.LikesGiven),
	}, "   "))
	sb.WriteString("\n\n")

	items := d.data.Items()
	if len(items) == 0 {
		sb.WriteString(styles.Subtitle.Render("You have not saved any images yet. Press g to create one."))
		return d.frame(sb.String())
	}

	d.clamp()
	start, end := window(len(items), d.cursor, d.height-5)
	for i := start; i < end; i++ {
		img := items[i]
		sb.WriteString(widgets.ImageRow(img, widgets.RowState{
			Selected: i == d.cursor,
			Liked:    d.store.IsLiked(img.ID),
			Pending:  d.store.Pending(img.ID),
		}, d.width))
		sb.WriteString("\n")
	}
	if end < len(items) {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("  ↓ more"))
	}
	return d.frame(sb.String())
}

func (d *Dashboard) frame(s string) string {
	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(s)
}

// window returns the visible row range that keeps cursor on screen
func window(n, cursor, rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if n <= rows {
		return 0, n
	}
	start := max(cursor-rows+1, 0)
	return start, start + rows
}
