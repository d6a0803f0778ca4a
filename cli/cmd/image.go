// ABOUTME: Single-image commands: image, download, and share
// ABOUTME: Shows image details, saves the file locally, and prints share links

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
)

var (
	downloadOutput string
	shareCopy      bool
)

var imageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Show one image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runImage(ctx, os.Stdout, args[0])
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download an image",
	Long:  `Download an image to a local file. Use -o - to write to stdout.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDownload(ctx, os.Stdout, args[0], downloadOutput)
		})
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Print share links for an image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runShare(ctx, os.Stdout, args[0], shareCopy)
		})
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Output file (default visionary-ai-<id>.jpg)")
	shareCmd.Flags().BoolVar(&shareCopy, "copy", false, "Copy the image link to the clipboard")
	rootCmd.AddCommand(imageCmd, downloadCmd, shareCmd)
}

func runImage(ctx context.Context, w io.Writer, id string) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	if err := e.resolve(ctx); err != nil {
		return fail(w, err)
	}
	_ = e.store.LoadLiked(ctx)

	img, err := e.store.Fetch(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	liked := e.store.IsLiked(img.ID)

	if IsJSONOutput() {
		writeJSON(w, newImageView(img, liked))
		return exitOK
	}
	fmt.Fprintln(w, formatImageDetail(img, liked, gallery.ImageLink(e.cfg.WebURL(), img.ID)))
	if e.session.Owns(img) {
		fmt.Fprintln(w, "\nYou created this image.")
	}
	return exitOK
}

// runDownload writes the image bytes to output. A partial file is removed
// when the transfer fails.
func runDownload(ctx context.Context, w io.Writer, id, output string) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	img, err := e.store.Fetch(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if output == "-" {
		if _, err := e.client.Download(ctx, img.URL, w); err != nil {
			return fail(w, err)
		}
		return exitOK
	}
	if output == "" {
		output = gallery.DownloadFilename(img.ID)
	}

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}
	n, err := e.client.Download(ctx, img.URL, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(output)
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"id": img.ID, "file": output, "bytes": n})
		return exitOK
	}
	fmt.Fprintf(w, "Saved %s to %s\n", humanize.Bytes(uint64(n)), output)
	return exitOK
}

func runShare(ctx context.Context, w io.Writer, id string, copyLink bool) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	img, err := e.store.Fetch(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	link := gallery.ImageLink(e.cfg.WebURL(), img.ID)
	links := gallery.ShareLinks(link, img.Prompt)

	var copyErr error
	if copyLink {
		copyErr = gallery.CopyLink(link)
	}

	if IsJSONOutput() {
		out := map[string]string{"link": link}
		for _, l := range links {
			out[l.Name] = l.URL
		}
		writeJSON(w, out)
	} else {
		fmt.Fprintf(w, "Link:      %s\n", link)
		for _, l := range links {
			fmt.Fprintf(w, "%-10s %s\n", l.Name+":", l.URL)
		}
	}

	if copyLink {
		if copyErr != nil {
			return fail(w, copyErr)
		}
		if !IsJSONOutput() {
			fmt.Fprintln(w, "Link copied to clipboard")
		}
	}
	return exitOK
}
