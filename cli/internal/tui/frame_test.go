package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestFrameWidthTracksTerminal(t *testing.T) {
	tests := []struct {
		name          string
		terminalWidth int
		expectedWidth int
	}{
		{"minimum width", 80, 80},
		{"medium width", 100, 99},
		{"wide terminal", 120, 119},
		{"narrow terminal clamps", 60, 80},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, newTestGateway(t))
			app.Update(tea.WindowSizeMsg{Width: tc.terminalWidth, Height: 30})

			header := app.renderHeader()
			if w := lipgloss.Width(header); w != tc.expectedWidth {
				t.Errorf("header width: expected %d, got %d", tc.expectedWidth, w)
			}
			footer := app.renderFooter()
			if w := lipgloss.Width(footer); w != tc.expectedWidth {
				t.Errorf("footer width: expected %d, got %d", tc.expectedWidth, w)
			}
		})
	}
}

func TestFrameBorders(t *testing.T) {
	app := newTestApp(t, newTestGateway(t))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	lines := strings.Split(app.View(), "\n")
	if !strings.Contains(lines[0], "╭") || !strings.Contains(lines[0], "╮") {
		t.Errorf("expected header border, got %q", lines[0])
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "╰") || !strings.Contains(last, "╯") {
		t.Errorf("expected footer border, got %q", last)
	}
}

func TestFooterShowsLastUpdate(t *testing.T) {
	app := newTestApp(t, newTestGateway(t))
	loadFeed(t, app, 2, "")

	if !strings.Contains(app.renderFooter(), "Updated just now") {
		t.Error("expected update time in explore footer")
	}

	app.screen = ScreenGenerate
	if strings.Contains(app.renderFooter(), "Updated") {
		t.Error("expected no update time off the list screens")
	}
}

func TestFormatTimeSince(t *testing.T) {
	app := newTestApp(t, newTestGateway(t))
	if got := app.formatTimeSince(time.Now()); got != "just now" {
		t.Errorf("expected just now, got %q", got)
	}
	if got := app.formatTimeSince(time.Now().Add(-90 * time.Second)); got != "1m ago" {
		t.Errorf("expected 1m ago, got %q", got)
	}
	if got := app.formatTimeSince(time.Now().Add(-3 * time.Hour)); got != "3h ago" {
		t.Errorf("expected 3h ago, got %q", got)
	}
}
