// ABOUTME: Generate studio: prompt to image, then save to the gallery
// ABOUTME: Each control has its own in-flight guard; saving happens once per image

package gallery

import (
	"context"
	"strings"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

// Control names a studio button.
type Control string

const (
	ControlGenerate Control = "Generate"
	ControlSave     Control = "Save"
)

// Studio turns prompts into images and saves the ones the viewer keeps.
type Studio struct {
	api     API
	session *Session

	busy   Guard[Control]
	result *client.GeneratedImage
	saved  bool
}

// NewStudio creates an empty studio.
func NewStudio(api API, session *Session) *Studio {
	return &Studio{api: api, session: session}
}

// Result returns the last generated image, or nil.
func (s *Studio) Result() *client.GeneratedImage { return s.result }

// Saved reports whether the last generated image was saved.
func (s *Studio) Saved() bool { return s.saved }

// Busy reports whether c awaits the gateway.
func (s *Studio) Busy(c Control) bool { return s.busy.Active(c) }

// BeginGenerate validates the prompt and claims the Generate control.
func (s *Studio) BeginGenerate(prompt string, refine bool) (*client.GenerateRequest, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, invalid("please enter a prompt")
	}
	if !s.session.Authenticated() {
		return nil, ErrAuthRequired
	}
	if !s.busy.Acquire(ControlGenerate) {
		return nil, ErrInFlight
	}
	// Hosting upload is deferred until the viewer saves.
	return &client.GenerateRequest{Prompt: prompt, RefinePrompt: refine, SkipCloudinary: true}, nil
}

// CommitGenerate calls the generator. It does not change studio state.
func (s *Studio) CommitGenerate(ctx context.Context, req *client.GenerateRequest) (*client.GeneratedImage, error) {
	img, err := s.api.Generate(ctx, req)
	if err != nil {
		return nil, upstream("generate image", false, err)
	}
	if img.Prompt == "" {
		img.Prompt = req.Prompt
	}
	return img, nil
}

// SettleGenerate records a new result, which may be saved once.
func (s *Studio) SettleGenerate(img *client.GeneratedImage, err error) error {
	s.busy.Release(ControlGenerate)
	if err != nil {
		return err
	}
	s.result = img
	s.saved = false
	return nil
}

// Generate produces an image from prompt.
func (s *Studio) Generate(ctx context.Context, prompt string, refine bool) (*client.GeneratedImage, error) {
	req, err := s.BeginGenerate(prompt, refine)
	if err != nil {
		return nil, err
	}
	img, err := s.CommitGenerate(ctx, req)
	if err := s.SettleGenerate(img, err); err != nil {
		return nil, err
	}
	return img, nil
}

// BeginSave claims the Save control for the current result.
func (s *Studio) BeginSave() (*client.GeneratedImage, error) {
	if !s.session.Authenticated() {
		return nil, ErrAuthRequired
	}
	if s.result == nil {
		return nil, invalid("generate an image first")
	}
	if s.saved {
		return nil, ErrAlreadySaved
	}
	if !s.busy.Acquire(ControlSave) {
		return nil, ErrInFlight
	}
	return s.result, nil
}

// CommitSave uploads img to hosting and then records it in the gallery.
func (s *Studio) CommitSave(ctx context.Context, img *client.GeneratedImage) error {
	hosted, err := s.api.Upload(ctx, img.ImageURL)
	if err != nil {
		return upstream("upload image", false, err)
	}
	err = s.api.Save(ctx, &client.SaveRequest{
		ImageURL:      hosted,
		Prompt:        img.Prompt,
		RefinedPrompt: img.RefinedPrompt,
	})
	return upstream("save image", false, err)
}

// SettleSave marks the result saved on success.
func (s *Studio) SettleSave(img *client.GeneratedImage, err error) error {
	s.busy.Release(ControlSave)
	if err != nil {
		return err
	}
	if img == s.result {
		s.saved = true
	}
	return nil
}

// Save stores the current result in the viewer's gallery.
func (s *Studio) Save(ctx context.Context) error {
	img, err := s.BeginSave()
	if err != nil {
		return err
	}
	return s.SettleSave(img, s.CommitSave(ctx, img))
}
