// ABOUTME: Explore command for the visionary CLI
// ABOUTME: Prints one page of the public gallery in Latest or Trending order

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

var (
	exploreSort   string
	exploreOffset int
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "List public images",
	Long: `List one page of the public gallery.

Sort orders:
  recent   newest first (default)
  popular  most liked first`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runExplore(ctx, os.Stdout, exploreSort, exploreOffset)
		})
	},
}

func init() {
	exploreCmd.Flags().StringVar(&exploreSort, "sort", "recent", "Sort order: recent or popular")
	exploreCmd.Flags().IntVar(&exploreOffset, "offset", 0, "Number of images to skip")
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(ctx context.Context, w io.Writer, sort string, offset int) int {
	mode, ok := gallery.ParseSortMode(sort)
	if !ok {
		fmt.Fprintf(w, "Error: unknown sort %q (use recent or popular)\n", sort)
		return exitUsage
	}
	if offset < 0 {
		fmt.Fprintln(w, "Error: offset must not be negative")
		return exitUsage
	}

	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	if err := e.resolve(ctx); err != nil {
		return fail(w, err)
	}
	// Liked markers are decoration; a failure here still lists the page.
	_ = e.store.LoadLiked(ctx)

	feed := gallery.NewFeed(e.store)
	req := feed.Seek(mode, offset)
	page, err := feed.Fetch(ctx, req)
	if _, err := feed.Apply(req, page, err); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		views := make([]imageView, 0, feed.Len())
		for _, img := range feed.Items() {
			views = append(views, newImageView(img, e.store.IsLiked(img.ID)))
		}
		writeJSON(w, views)
		return exitOK
	}

	if feed.Len() == 0 {
		fmt.Fprintln(w, "No images found")
		return exitOK
	}
	fmt.Fprintf(w, "%s images %d-%d\n\n", mode.Label(), offset+1, offset+feed.Len())
	for _, img := range feed.Items() {
		fmt.Fprintln(w, formatImageLine(img, e.store.IsLiked(img.ID)))
	}
	if feed.Len() == gallery.PageSize {
		fmt.Fprintf(w, "\nMore: visionary explore --sort %s --offset %d\n", mode, feed.Offset())
	}
	return exitOK
}
