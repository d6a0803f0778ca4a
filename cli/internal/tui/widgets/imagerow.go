// ABOUTME: Single-line image rows for the explore and creations lists
// ABOUTME: Shows prompt, creator, age, and like state sized to the panel width

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// RowState carries the per-viewer flags for one row
type RowState struct {
	Selected bool
	Liked    bool
	Pending  bool
	Owned    bool
}

// ImageRow renders img on one line no wider than width
func ImageRow(img *gallery.Image, st RowState, width int) string {
	cursor := "  "
	promptStyle := styles.Normal
	if st.Selected {
		cursor = styles.Selected.Render(">") + " "
		promptStyle = styles.Selected
	}

	meta := lipgloss.NewStyle().Foreground(styles.Muted).Render(img.DisplayName() + " · " + Age(img))
	right := Likes(img.Likes, st.Liked, st.Pending)
	if st.Owned {
		right += " " + OwnerBadge()
	}

	fixed := lipgloss.Width(cursor) + lipgloss.Width(meta) + lipgloss.Width(right) + 4
	prompt := Truncate(img.Prompt, max(width-fixed, 12))
	return cursor + promptStyle.Render(prompt) + "  " + meta + "  " + right
}

// Age is the humanized creation time, or "-" when unknown
func Age(img *gallery.Image) string {
	if img.CreatedAt.IsZero() {
		return "-"
	}
	return humanize.Time(img.CreatedAt)
}

// Truncate shortens s to n cells with an ellipsis and flattens newlines
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
