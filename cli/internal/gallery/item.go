// ABOUTME: Gallery item model and per-viewer presentation rules
// ABOUTME: Decides which actions a viewer gets and how an item is labelled

package gallery

import (
	"strings"
	"time"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

const anonymousName = "Anonymous"

// Image is the canonical client-side record of a gallery item. The Store
// keeps one per ID so every view sees the same like count.
type Image struct {
	ID            string
	OwnerID       string
	OwnerName     string
	URL           string
	Prompt        string
	RefinedPrompt string
	CreatedAt     time.Time
	Likes         int
}

// FromClient converts a gateway image.
func FromClient(in client.Image) Image {
	img := Image{
		ID:        in.ID,
		OwnerID:   in.UserID,
		OwnerName: in.UserName,
		URL:       in.ImageURL,
		Prompt:    in.Prompt,
		CreatedAt: ParseTime(in.CreatedAt),
		Likes:     max(in.Likes, 0),
	}
	if in.RefinedPrompt != nil {
		img.RefinedPrompt = *in.RefinedPrompt
	}
	return img
}

// DisplayName is the creator's name, or "Anonymous" when unknown.
func (i *Image) DisplayName() string {
	if name := strings.TrimSpace(i.OwnerName); name != "" {
		return name
	}
	return anonymousName
}

// HasRefinedPrompt reports whether the backend rewrote the prompt.
func (i *Image) HasRefinedPrompt() bool {
	return i.RefinedPrompt != "" && i.RefinedPrompt != i.Prompt
}

// Action is something a viewer can do with an item.
type Action string

const (
	ActionLike     Action = "like"
	ActionComment  Action = "comment"
	ActionShare    Action = "share"
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
)

// Actions lists what the session's viewer may do with img. Like and comment
// are always offered; they prompt for sign-in when anonymous. Delete is
// offered only to the owner.
func Actions(img *Image, s *Session) []Action {
	actions := []Action{ActionLike, ActionComment, ActionShare, ActionDownload}
	if s.Owns(img) {
		actions = append(actions, ActionDelete)
	}
	return actions
}

// Can reports whether action is among the viewer's actions for img.
func Can(img *Image, s *Session, action Action) bool {
	for _, a := range Actions(img, s) {
		if a == action {
			return true
		}
	}
	return false
}

// Comment is a single comment on an image.
type Comment struct {
	ID        string
	ImageID   string
	Author    string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

func commentFromClient(in client.Comment) Comment {
	author := strings.TrimSpace(in.UserName)
	if author == "" {
		author = anonymousName
	}
	return Comment{
		ID:        in.ID,
		ImageID:   in.ImageID,
		Author:    author,
		AuthorID:  in.UserID,
		Text:      in.Text,
		CreatedAt: ParseTime(in.CreatedAt),
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime reads the backend's timestamps, which may lack a zone. Zoneless
// values are taken as UTC. Unparseable input yields the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
