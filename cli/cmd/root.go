// ABOUTME: Root command for the visionary CLI
// ABOUTME: Handles global flags, configuration, and shared command helpers

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/client"
	"github.com/markalston/visionary-gallery/cli/internal/config"
	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

var (
	jsonOutput bool
	debugMode  bool
)

// Exit codes shared by every command.
const (
	exitOK      = 0
	exitUsage   = 1
	exitBackend = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "visionary",
	Short: "Browse, like, and generate AI images from the terminal",
	Long: `visionary is a command-line client for the Visionary AI image gallery.

Run "visionary ui" for the interactive browser, or use the subcommands for
scripting.

Environment Variables:
  VISIONARY_API_URL  Gateway URL (default: http://localhost:8080)
  VISIONARY_TOKEN    API token (overrides the one saved by "visionary login")
  VISIONARY_WEB_URL  Web app origin used in share links (default: the gateway)
  VISIONARY_DEBUG    Write a debug log to the config directory`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Gateway URL (overrides VISIONARY_API_URL)")
	rootCmd.PersistentFlags().String("web-url", "", "Web app origin for share links (overrides VISIONARY_WEB_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write a debug log to the config directory")
}

// loadConfig resolves settings: flags, then environment, then config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Dir())
	if err != nil {
		return nil, err
	}
	v := cfg.Viper()
	flags := rootCmd.PersistentFlags()
	if err := v.BindPFlag(config.KeyAPIURL, flags.Lookup("api-url")); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if err := v.BindPFlag(config.KeyWebURL, flags.Lookup("web-url")); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if debugMode {
		v.Set(config.KeyDebug, true)
	}
	return cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// env bundles what a command needs to talk to the gateway.
type env struct {
	cfg     *config.Config
	client  *client.Client
	session *gallery.Session
	store   *gallery.Store
}

// newEnv loads configuration and builds the gateway client and gallery state.
func newEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.APIURL(), client.WithToken(cfg.Token()))
	session := gallery.NewSession(c)
	return &env{
		cfg:     cfg,
		client:  c,
		session: session,
		store:   gallery.NewStore(c, session),
	}, nil
}

// resolve establishes who the user is. Without a token it skips the
// round-trip and stays anonymous.
func (e *env) resolve(ctx context.Context) error {
	if !e.client.HasToken() {
		return e.session.Apply(nil, nil)
	}
	return e.session.Resolve(ctx)
}

// runWithSignals runs fn with a context cancelled on SIGINT/SIGTERM and exits
// with its code.
func runWithSignals(fn func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := fn(ctx)
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
}

// fail prints err and returns the matching exit code.
func fail(w io.Writer, err error) int {
	switch {
	case errors.Is(err, gallery.ErrAuthRequired):
		fmt.Fprintln(w, "Error: not signed in. Run `visionary login` first.")
		return exitUsage
	case errors.Is(err, gallery.ErrValidation),
		errors.Is(err, gallery.ErrAlreadySaved),
		errors.Is(err, gallery.ErrClipboardUnavailable):
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitBackend
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
