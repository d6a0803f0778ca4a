package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/visionary-gallery/cli/internal/client"
	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

const viewerEmail = "ada@example.com"

// testGateway is a fake gateway the app under test talks to
type testGateway struct {
	*httptest.Server
	mux *http.ServeMux
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testGateway{Server: srv, mux: mux}
}

func (g *testGateway) handle(pattern string, fn http.HandlerFunc) {
	g.mux.HandleFunc(pattern, fn)
}

// newTestApp builds an app against gw with its config in a temp dir
func newTestApp(t *testing.T, gw *testGateway) *App {
	t.Helper()
	t.Setenv("VISIONARY_SUGGESTIONS", "")
	c := client.New(gw.URL, client.WithToken("test-token"))
	session := gallery.NewSession(c)
	a := New(Deps{
		Client:    c,
		Session:   session,
		Store:     gallery.NewStore(c, session),
		WebURL:    "https://visionary.example",
		ConfigDir: t.TempDir(),
		SignedIn:  true,
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return a
}

// signIn marks the viewer authenticated without a gateway round-trip
func signIn(t *testing.T, a *App) {
	t.Helper()
	if err := a.session.Apply(&gallery.User{Email: viewerEmail, Name: "Ada"}, nil); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func anonymous(t *testing.T, a *App) {
	t.Helper()
	a.session.Apply(nil, nil)
}

// images returns n gateway images owned by owner
func images(prefix string, n int, owner string) []client.Image {
	out := make([]client.Image, n)
	for i := range out {
		out[i] = client.Image{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			UserID:    owner,
			UserName:  "Creator",
			ImageURL:  fmt.Sprintf("https://img.example/%s-%d.png", prefix, i),
			Prompt:    fmt.Sprintf("prompt %s %d", prefix, i),
			CreatedAt: "2025-01-15T10:00:00Z",
			Likes:     i,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// loadFeed applies one page of n images to the explore feed
func loadFeed(t *testing.T, a *App, n int, owner string) {
	t.Helper()
	req := a.feed.SwitchTab(gallery.SortRecent)
	a.Update(pageLoadedMsg{req: req, page: images("img", n, owner)})
	if a.feed.Len() != n {
		t.Fatalf("expected %d feed items, got %d", n, a.feed.Len())
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the command it produced
func press(a *App, s string) tea.Cmd {
	_, cmd := a.Update(key(s))
	return cmd
}
