// ABOUTME: Entry point for the visionary CLI
// ABOUTME: Command-line and terminal UI client for the Visionary AI image gallery

package main

import (
	"fmt"
	"os"

	"github.com/markalston/visionary-gallery/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
