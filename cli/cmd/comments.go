// ABOUTME: Comment commands: list the thread on an image and post a new comment
// ABOUTME: Posting requires a signed-in session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

var commentsCmd = &cobra.Command{
	Use:   "comments <id>",
	Short: "List comments on an image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runComments(ctx, os.Stdout, args[0])
		})
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <id> <text>",
	Short: "Comment on an image",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runComment(ctx, os.Stdout, args[0], strings.Join(args[1:], " "))
		})
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd, commentCmd)
}

func runComments(ctx context.Context, w io.Writer, id string) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}

	thread := gallery.NewThread(e.client, e.session, id)
	if err := thread.Open(ctx); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		views := make([]commentView, 0, len(thread.Comments()))
		for _, c := range thread.Comments() {
			views = append(views, newCommentView(c))
		}
		writeJSON(w, views)
		return exitOK
	}

	if len(thread.Comments()) == 0 {
		fmt.Fprintln(w, "No comments yet")
		return exitOK
	}
	for i, c := range thread.Comments() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, formatComment(c))
	}
	return exitOK
}

func runComment(ctx context.Context, w io.Writer, id, text string) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	if err := e.resolve(ctx); err != nil {
		return fail(w, err)
	}

	thread := gallery.NewThread(e.client, e.session, id)
	if err := thread.Submit(ctx, text); err != nil {
		return fail(w, err)
	}

	posted := thread.Comments()[len(thread.Comments())-1]
	if IsJSONOutput() {
		writeJSON(w, newCommentView(posted))
		return exitOK
	}
	fmt.Fprintf(w, "Comment posted as %s\n", posted.Author)
	return exitOK
}
