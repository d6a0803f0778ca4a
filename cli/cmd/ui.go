// ABOUTME: UI command launching the interactive gallery browser
// ABOUTME: Shares configuration and session handling with the scripting commands

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/tui"
	"github.com/markalston/visionary-gallery/cli/internal/tui/debuglog"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse the gallery interactively",
	Long: `Open the interactive gallery browser.

Explore the latest and trending images, like and comment, share links,
manage your own creations, and generate new images.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runUI(); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI() int {
	e, err := newEnv()
	if err != nil {
		return fail(os.Stderr, err)
	}

	if e.cfg.Debug() {
		if err := debuglog.Init(e.cfg.Dir()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
		}
		defer debuglog.Close()
		debuglog.Log("starting ui", "api_url", e.cfg.APIURL())
	}

	err = tui.Run(tui.Deps{
		Client:    e.client,
		Session:   e.session,
		Store:     e.store,
		WebURL:    e.cfg.WebURL(),
		ConfigDir: e.cfg.Dir(),
		SignedIn:  e.client.HasToken(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitBackend
	}
	return exitOK
}
