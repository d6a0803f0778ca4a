// ABOUTME: Health command for the visionary CLI
// ABOUTME: Checks gateway connectivity and image backend reachability

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check gateway connectivity",
	Long:  `Check connectivity to the Visionary gateway and whether it can reach the image backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runHealth(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	url := e.cfg.APIURL()

	resp, err := e.client.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitBackend
	}

	if IsJSONOutput() {
		writeJSON(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	if resp.Upstream == "unreachable" {
		return exitBackend
	}
	return exitOK
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.HealthResponse) string {
	return fmt.Sprintf(`Gateway:        %s
Status:         %s
Image backend:  %s
Backend status: %s`, url, resp.Status, orDash(resp.Backend), resp.Upstream)
}

// formatHealthJSON shapes the health response for JSON output
func formatHealthJSON(url string, resp *client.HealthResponse) map[string]string {
	return map[string]string{
		"gateway":     url,
		"status":      resp.Status,
		"backend_url": resp.Backend,
		"upstream":    resp.Upstream,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
