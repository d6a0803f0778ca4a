// ABOUTME: Share links, social share URLs, and download names for images
// ABOUTME: Copies links to the system clipboard

package gallery

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

const shareText = "Check out this amazing AI-generated image!"

// ErrClipboardUnavailable means no clipboard utility was found.
var ErrClipboardUnavailable = errors.New("clipboard not available on this system")

// Swapped in tests.
var (
	clipboardSupported = func() bool { return !clipboard.Unsupported }
	writeClipboard     = clipboard.WriteAll
)

// ShareLink is a named URL in the share menu.
type ShareLink struct {
	Name string
	URL  string
}

// ImageLink is the public page of an image on the web app at origin.
func ImageLink(origin, id string) string {
	return strings.TrimRight(origin, "/") + "/image/" + url.PathEscape(id)
}

// ShareLinks returns the social share URLs for link in menu order.
func ShareLinks(link, prompt string) []ShareLink {
	twitter := url.Values{}
	twitter.Set("text", shareText)
	twitter.Set("url", link)

	facebook := url.Values{}
	facebook.Set("u", link)

	linkedin := url.Values{}
	linkedin.Set("mini", "true")
	linkedin.Set("url", link)
	linkedin.Set("title", "AI-Generated Image")
	linkedin.Set("summary", prompt)

	return []ShareLink{
		{Name: "Twitter", URL: "https://twitter.com/intent/tweet?" + twitter.Encode()},
		{Name: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?" + facebook.Encode()},
		{Name: "LinkedIn", URL: "https://www.linkedin.com/shareArticle?" + linkedin.Encode()},
	}
}

// DownloadFilename is the local file name for a downloaded image.
func DownloadFilename(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return "visionary-ai-" + safe + ".jpg"
}

// ClipboardAvailable reports whether CopyLink can work on this system.
func ClipboardAvailable() bool {
	return clipboardSupported()
}

// CopyLink puts link on the system clipboard.
func CopyLink(link string) error {
	if !clipboardSupported() {
		return ErrClipboardUnavailable
	}
	if err := writeClipboard(link); err != nil {
		return fmt.Errorf("copying link: %w", err)
	}
	return nil
}
