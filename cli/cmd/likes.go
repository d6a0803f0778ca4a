// ABOUTME: Like, unlike, and delete commands
// ABOUTME: Delete asks for confirmation unless --yes is given

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

var deleteYes bool

// errNotConfirmed is returned when delete cannot ask or the user declines.
var errNotConfirmed = errors.New("delete not confirmed")

// confirmDelete asks before deleting id. Tests replace it.
var confirmDelete = func(id string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("%w: pass --yes to delete without a terminal", errNotConfirmed)
	}
	var ok bool
	err := huh.NewConfirm().
		Title("Delete image " + id + "?").
		Description("This cannot be undone.").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

var likeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like an image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runSetLike(ctx, os.Stdout, args[0], true)
		})
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <id>",
	Short: "Remove your like from an image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runSetLike(ctx, os.Stdout, args[0], false)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your images",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDelete(ctx, os.Stdout, args[0], deleteYes)
		})
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
	rootCmd.AddCommand(likeCmd, unlikeCmd, deleteCmd)
}

// runSetLike makes the viewer's like on id match want.
func runSetLike(ctx context.Context, w io.Writer, id string, want bool) int {
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
	if err := e.store.LoadLiked(ctx); err != nil {
		return fail(w, err)
	}
	img, err := e.store.Fetch(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	liked, err := e.store.Set(ctx, id, want)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"id": id, "liked": liked, "likes": img.Likes})
		return exitOK
	}
	verb := "Unliked"
	if liked {
		verb = "Liked"
	}
	fmt.Fprintf(w, "%s %s %s (%s likes)\n", heart(liked), verb, id, humanize.Comma(int64(img.Likes)))
	return exitOK
}

func runDelete(ctx context.Context, w io.Writer, id string, yes bool) int {
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

	img, err := e.store.Fetch(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if !gallery.Can(img, e.session, gallery.ActionDelete) {
		fmt.Fprintln(w, "Error: you can only delete your own images")
		return exitUsage
	}

	if !yes {
		ok, err := confirmDelete(id)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitUsage
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled")
			return exitUsage
		}
	}

	if err := e.store.Delete(ctx, id); err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		writeJSON(w, map[string]any{"id": id, "deleted": true})
		return exitOK
	}
	fmt.Fprintf(w, "Deleted %s\n", id)
	return exitOK
}
