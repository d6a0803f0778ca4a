// ABOUTME: Sign-in commands: login, logout, and whoami
// ABOUTME: Verifies API tokens against the gateway and persists them to the config file

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/client"
	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

var loginToken string

// promptToken asks for a token interactively. Tests replace it.
var promptToken = func(signInURL string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("no terminal to prompt on; pass --token")
	}
	var token string
	err := huh.NewInput().
		Title("Paste your API token").
		Description("Create one at " + signInURL).
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Run()
	return token, err
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with an API token",
	Long: `Sign in with an API token issued by the gateway.

Open <api-url>/auth/signin in a browser, sign in with Google, and create a
token. Then run "visionary login --token <token>", or run "visionary login"
and paste it when prompted.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runLogin(ctx, os.Stdout, loginToken)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved token",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runLogout(ctx, os.Stdout)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who you are signed in as",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runWhoami(ctx, os.Stdout)
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "API token from <api-url>/auth/signin")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

// runLogin verifies token with the gateway before saving it.
func runLogin(ctx context.Context, w io.Writer, token string) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		signInURL := e.cfg.APIURL() + "/auth/signin"
		fmt.Fprintf(w, "Sign in at %s and create an API token.\n", signInURL)
		token, err = promptToken(signInURL)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitUsage
		}
		token = strings.TrimSpace(token)
		if token == "" {
			fmt.Fprintln(w, "Error: no token given")
			return exitUsage
		}
	}

	session := gallery.NewSession(client.New(e.cfg.APIURL(), client.WithToken(token)))
	if err := session.Resolve(ctx); err != nil {
		return fail(w, err)
	}
	if !session.Authenticated() {
		fmt.Fprintln(w, "Error: the gateway did not accept that token")
		return exitUsage
	}
	if err := e.cfg.SaveToken(token); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}

	user := session.User()
	if IsJSONOutput() {
		writeJSON(w, user)
	} else {
		fmt.Fprintf(w, "Signed in as %s (%s)\n", user.DisplayName(), user.Email)
	}
	return exitOK
}

// runLogout revokes the token at the gateway and removes it locally. The
// local token is removed even when the gateway cannot be reached.
func runLogout(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}

	var signOutErr error
	if e.client.HasToken() {
		signOutErr = e.session.SignOut(ctx)
	}
	if err := e.cfg.SaveToken(""); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}
	if signOutErr != nil {
		fmt.Fprintf(w, "Warning: %v\n", signOutErr)
	}
	fmt.Fprintln(w, "Signed out")
	return exitOK
}

func runWhoami(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	if err := e.resolve(ctx); err != nil {
		return fail(w, err)
	}
	if !e.session.Authenticated() {
		return fail(w, gallery.ErrAuthRequired)
	}

	user := e.session.User()
	if IsJSONOutput() {
		writeJSON(w, user)
		return exitOK
	}
	fmt.Fprintf(w, "%s <%s>\n", user.DisplayName(), user.Email)
	return exitOK
}
