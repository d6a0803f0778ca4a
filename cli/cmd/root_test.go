// ABOUTME: Tests for the root command and shared command helpers
// ABOUTME: Provides a fake gateway and isolated config for command tests

package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

// testGateway is an httptest server whose routes each test registers.
type testGateway struct {
	*httptest.Server
	mux *http.ServeMux
}

func (g *testGateway) handle(pattern string, fn http.HandlerFunc) {
	g.mux.HandleFunc(pattern, fn)
}

// isolateConfig points the CLI at an empty config directory.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("VISIONARY_TOKEN", "")
	t.Setenv("VISIONARY_WEB_URL", "")
	t.Setenv("VISIONARY_API_URL", "")
	return dir
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()
	isolateConfig(t)
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	t.Setenv("VISIONARY_API_URL", server.URL)
	return &testGateway{Server: server, mux: mux}
}

// signIn makes the gateway accept token and report the given user.
func (g *testGateway) signIn(t *testing.T, email string) {
	t.Helper()
	t.Setenv("VISIONARY_TOKEN", "test-token")
	g.handle("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.Write([]byte(`{"authenticated":false}`))
			return
		}
		w.Write([]byte(`{"authenticated":true,"email":"` + email + `","name":"Ada"}`))
	})
}

func TestLoadConfig_Default(t *testing.T) {
	isolateConfig(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "http://localhost:8080" {
		t.Errorf("expected default URL http://localhost:8080, got %s", cfg.APIURL())
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	isolateConfig(t)
	t.Setenv("VISIONARY_API_URL", "http://gateway.example.com/")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "http://gateway.example.com" {
		t.Errorf("expected http://gateway.example.com, got %s", cfg.APIURL())
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	isolateConfig(t)
	t.Setenv("VISIONARY_API_URL", "http://gateway.example.com")

	flags := rootCmd.PersistentFlags()
	if err := flags.Set("api-url", "http://flag-override.example.com"); err != nil {
		t.Fatal(err)
	}
	defer func() {
		flags.Set("api-url", "")
		flags.Lookup("api-url").Changed = false
	}()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", cfg.APIURL())
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestFail_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"auth", gallery.ErrAuthRequired, exitUsage, "visionary login"},
		{"validation", gallery.ErrValidation, exitUsage, "invalid input"},
		{"already saved", gallery.ErrAlreadySaved, exitUsage, "Error:"},
		{"backend", errors.New("backend error: boom"), exitBackend, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := fail(&buf, tt.err); code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestEnvResolve_NoTokenSkipsGateway(t *testing.T) {
	gw := newTestGateway(t)
	gw.handle("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway should not be asked without a token")
	})

	e, err := newEnv()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.resolve(t.Context()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.session.State() != gallery.Anonymous {
		t.Errorf("expected anonymous session, got %s", e.session.State())
	}
}
