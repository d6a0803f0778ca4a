// ABOUTME: Shared output formatting for gallery images and comments
// ABOUTME: Renders human-readable lines and JSON views used by several commands

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

// imageView is the JSON shape of an image in command output.
type imageView struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	OwnerID       string    `json:"owner_id,omitempty"`
	URL           string    `json:"image_url"`
	Prompt        string    `json:"prompt"`
	RefinedPrompt string    `json:"refined_prompt,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Likes         int       `json:"likes"`
	Liked         bool      `json:"liked"`
}

func newImageView(img *gallery.Image, liked bool) imageView {
	return imageView{
		ID:            img.ID,
		Owner:         img.DisplayName(),
		OwnerID:       img.OwnerID,
		URL:           img.URL,
		Prompt:        img.Prompt,
		RefinedPrompt: img.RefinedPrompt,
		CreatedAt:     img.CreatedAt,
		Likes:         img.Likes,
		Liked:         liked,
	}
}

type commentView struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentView(c gallery.Comment) commentView {
	return commentView{ID: c.ID, Author: c.Author, Text: c.Text, CreatedAt: c.CreatedAt}
}

// age renders t relative to now, or "-" when unknown.
func age(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func heart(liked bool) string {
	if liked {
		return "♥"
	}
	return "♡"
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatImageLine is the one-line summary used in lists.
func formatImageLine(img *gallery.Image, liked bool) string {
	return fmt.Sprintf("%-24s %s %5s  %-16s %-14s %s",
		img.ID, heart(liked), humanize.Comma(int64(img.Likes)),
		truncate(img.DisplayName(), 16), age(img.CreatedAt), truncate(img.Prompt, 60))
}

// formatImageDetail is the full view of a single image.
func formatImageDetail(img *gallery.Image, liked bool, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Image:    %s\n", img.ID)
	fmt.Fprintf(&b, "Creator:  %s\n", img.DisplayName())
	fmt.Fprintf(&b, "Created:  %s\n", age(img.CreatedAt))
	fmt.Fprintf(&b, "Likes:    %s %s\n", humanize.Comma(int64(img.Likes)), heart(liked))
	fmt.Fprintf(&b, "Prompt:   %s\n", img.Prompt)
	if img.HasRefinedPrompt() {
		fmt.Fprintf(&b, "Refined:  %s\n", img.RefinedPrompt)
	}
	fmt.Fprintf(&b, "URL:      %s\n", img.URL)
	fmt.Fprintf(&b, "Link:     %s", link)
	return b.String()
}

func formatComment(c gallery.Comment) string {
	return fmt.Sprintf("%s (%s)\n  %s", c.Author, age(c.CreatedAt), c.Text)
}
