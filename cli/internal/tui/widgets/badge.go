// ABOUTME: Inline badges and tab bars for gallery cards
// ABOUTME: Renders like state, ownership, refined prompts, and feed tabs

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/visionary-gallery/cli/internal/tui/icons"
	"github.com/markalston/visionary-gallery/cli/internal/tui/styles"
)

// Level picks a badge's colors
type Level int

const (
	LevelNeutral Level = iota
	LevelBrand
	LevelLiked
	LevelOK
	LevelDanger
)

var badgeColors = map[Level][2]lipgloss.Color{
	LevelNeutral: {styles.Surface, styles.Text},
	LevelBrand:   {styles.Primary, styles.Text},
	LevelLiked:   {styles.Heart, styles.Text},
	LevelOK:      {styles.Secondary, styles.Text},
	LevelDanger:  {styles.Danger, styles.Text},
}

// Badge renders text on a colored background
func Badge(text string, level Level) string {
	c, ok := badgeColors[level]
	if !ok {
		c = badgeColors[LevelNeutral]
	}
	return lipgloss.NewStyle().
		Background(c[0]).
		Foreground(c[1]).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// Likes renders the heart and count. A pending toggle dims the heart.
func Likes(count int, liked, pending bool) string {
	heart := icons.HeartOff.String()
	style := lipgloss.NewStyle().Foreground(styles.Muted)
	if liked {
		heart = icons.Heart.String()
		style = styles.Liked
	}
	if pending {
		style = style.Faint(true)
	}
	return style.Render(heart) + " " + humanize.Comma(int64(count))
}

// OwnerBadge marks the viewer's own images
func OwnerBadge() string {
	return Badge("yours", LevelBrand)
}

// RefinedBadge marks images whose prompt was rewritten before generation
func RefinedBadge() string {
	return Badge(icons.Sparkle.String()+" refined", LevelNeutral)
}

// Tabs renders a tab bar with the active label highlighted
func Tabs(labels []string, active int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = styles.TabActive.Render(l)
		} else {
			parts[i] = styles.TabInactive.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Counter renders "label: n" with the number emphasized
func Counter(label string, n int) string {
	return fmt.Sprintf("%s %s", lipgloss.NewStyle().Foreground(styles.Muted).Render(label+":"),
		styles.ValueStyle.Render(humanize.Comma(int64(n))))
}

// Keys renders shortcut hints such as "l Like" with the key highlighted
func Keys(hints ...string) string {
	styled := make([]string, 0, len(hints))
	for _, h := range hints {
		key, label, ok := strings.Cut(h, " ")
		if !ok {
			styled = append(styled, h)
			continue
		}
		styled = append(styled, styles.KeyStyle.Render(key)+" "+lipgloss.NewStyle().Foreground(styles.Muted).Render(label))
	}
	return strings.Join(styled, "  ")
}
