// ABOUTME: Gallery iconography with Nerd Font detection and Unicode fallback
// ABOUTME: Icons for likes, comments, sharing, and screen navigation

package icons

import (
	"os"
	"slices"
	"strings"
	"sync"
)

// Terminals that usually ship with a Nerd Font configured.
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

// detect reports whether Nerd Font glyphs should be used. VISIONARY_NERD_FONTS
// forces the answer either way.
func detect(getenv func(string) string) bool {
	if env := getenv("VISIONARY_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}
	term := strings.ToLower(getenv("TERM"))
	program := strings.ToLower(getenv("TERM_PROGRAM"))
	return slices.ContainsFunc(nerdFontTerminals, func(t string) bool {
		return strings.Contains(program, t) || strings.Contains(term, t)
	})
}

var hasNerdFonts = sync.OnceValue(func() bool { return detect(os.Getenv) })

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	return hasNerdFonts()
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Gallery
	App      = Icon{"󰸉", "◈"} // nf-md-image_filter_hdr
	Image    = Icon{"󰋩", "▣"} // nf-md-image
	Heart    = Icon{"󰣐", "♥"} // nf-md-heart
	HeartOff = Icon{"󰋕", "♡"} // nf-md-heart_outline
	Comment  = Icon{"󰆉", "✎"} // nf-md-comment_text
	Share    = Icon{"󰒗", "⇪"} // nf-md-share_variant
	Download = Icon{"󰇚", "↓"} // nf-md-download
	Delete   = Icon{"󰆴", "✗"} // nf-md-delete
	Sparkle  = Icon{"󱐋", "✦"} // nf-md-creation
	User     = Icon{"󰀄", "☺"} // nf-md-account
	Trending = Icon{"󰄬", "↗"} // nf-md-trending_up
	Latest   = Icon{"󰥔", "◷"} // nf-md-clock_outline

	// Status
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Navigation
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
)
