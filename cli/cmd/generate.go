// ABOUTME: Generate command for the visionary CLI
// ABOUTME: Creates an image from a prompt and optionally saves it to the gallery

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/visionary-gallery/cli/internal/gallery"
	"github.com/markalston/visionary-gallery/cli/internal/history"
)

var (
	generateRefine bool
	generateSave   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate an image from a prompt",
	Long: `Generate an image from a text prompt.

The image is temporary until saved. Pass --save to upload it and add it to
your gallery in one step.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runGenerate(ctx, os.Stdout, strings.Join(args, " "), generateRefine, generateSave)
		})
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateRefine, "refine", false, "Let the backend rewrite the prompt first")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Save the image to your gallery")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, w io.Writer, prompt string, refine, save bool) int {
	e, err := newEnv()
	if err != nil {
		return fail(w, err)
	}
	if err := e.resolve(ctx); err != nil {
		return fail(w, err)
	}

	studio := gallery.NewStudio(e.client, e.session)
	img, err := studio.Generate(ctx, prompt, refine)
	if err != nil {
		return fail(w, err)
	}
	history.New(e.cfg.Dir()).Add(prompt)

	if save {
		if err := studio.Save(ctx); err != nil {
			// The generated image is still worth showing.
			fmt.Fprintf(w, "Generated: %s\n", img.ImageURL)
			return fail(w, err)
		}
	}

	if IsJSONOutput() {
		out := map[string]any{
			"image_url": img.ImageURL,
			"prompt":    img.Prompt,
			"saved":     studio.Saved(),
		}
		if img.RefinedPrompt != nil {
			out["refined_prompt"] = *img.RefinedPrompt
		}
		writeJSON(w, out)
		return exitOK
	}

	fmt.Fprintf(w, "Image:    %s\n", img.ImageURL)
	fmt.Fprintf(w, "Prompt:   %s\n", img.Prompt)
	if img.RefinedPrompt != nil && *img.RefinedPrompt != img.Prompt {
		fmt.Fprintf(w, "Refined:  %s\n", *img.RefinedPrompt)
	}
	if studio.Saved() {
		fmt.Fprintln(w, "Saved to your gallery")
	} else {
		fmt.Fprintln(w, "Not saved. Run with --save to keep it.")
	}
	return exitOK
}
