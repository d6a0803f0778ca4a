package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

func TestStudio_GenerateSkipsHosting(t *testing.T) {
	var sent *client.GenerateRequest
	refined := "a red fox at dawn, oil painting"
	api := &fakeAPI{generate: func(req *client.GenerateRequest) (*client.GeneratedImage, error) {
		sent = req
		return &client.GeneratedImage{ImageURL: "https://gen/1.png", Prompt: req.Prompt, RefinedPrompt: &refined}, nil
	}}
	studio := NewStudio(api, signedIn(t, api))

	img, err := studio.Generate(context.Background(), "  a fox  ", true)
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, "a fox", sent.Prompt)
	assert.True(t, sent.RefinePrompt)
	assert.True(t, sent.SkipCloudinary)
	assert.Equal(t, img, studio.Result())
	assert.False(t, studio.Saved())
	assert.False(t, studio.Busy(ControlGenerate))
}

func TestStudio_GenerateValidation(t *testing.T) {
	api := &fakeAPI{}
	studio := NewStudio(api, signedIn(t, api))

	_, err := studio.Generate(context.Background(), " ", false)
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, api.Calls())
}

func TestStudio_GenerateRequiresAuth(t *testing.T) {
	api := &fakeAPI{}
	studio := NewStudio(api, NewSession(api))

	_, err := studio.Generate(context.Background(), "a fox", false)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, api.Calls())
}

func TestStudio_GenerateInFlightGuard(t *testing.T) {
	api := &fakeAPI{}
	studio := NewStudio(api, signedIn(t, api))

	_, err := studio.BeginGenerate("a fox", false)
	require.NoError(t, err)
	assert.True(t, studio.Busy(ControlGenerate))
	assert.False(t, studio.Busy(ControlSave))

	_, err = studio.BeginGenerate("a fox", false)
	require.ErrorIs(t, err, ErrInFlight)
}

func TestStudio_SaveUploadsThenSavesOnce(t *testing.T) {
	var saved *client.SaveRequest
	refined := "refined"
	api := &fakeAPI{
		generate: func(req *client.GenerateRequest) (*client.GeneratedImage, error) {
			return &client.GeneratedImage{ImageURL: "https://gen/tmp.png", Prompt: req.Prompt, RefinedPrompt: &refined}, nil
		},
		save: func(req *client.SaveRequest) error {
			saved = req
			return nil
		},
	}
	studio := NewStudio(api, signedIn(t, api))
	ctx := context.Background()

	_, err := studio.Generate(ctx, "a fox", true)
	require.NoError(t, err)
	require.NoError(t, studio.Save(ctx))

	assert.Equal(t, []string{"generate", "upload https://gen/tmp.png", "save https://cdn/final.png"}, api.Calls())
	require.NotNil(t, saved)
	assert.Equal(t, "a fox", saved.Prompt)
	require.NotNil(t, saved.RefinedPrompt)
	assert.Equal(t, "refined", *saved.RefinedPrompt)
	assert.True(t, studio.Saved())

	err = studio.Save(ctx)
	require.ErrorIs(t, err, ErrAlreadySaved)
	assert.Len(t, api.Calls(), 3)
}

func TestStudio_UploadFailureSkipsSave(t *testing.T) {
	api := &fakeAPI{upload: func(string) (string, error) { return "", errBackendDown }}
	studio := NewStudio(api, signedIn(t, api))
	ctx := context.Background()
	_, err := studio.Generate(ctx, "a fox", false)
	require.NoError(t, err)

	err = studio.Save(ctx)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "upload image", ue.Op)
	assert.False(t, studio.Saved())
	assert.False(t, studio.Busy(ControlSave))
	assert.NotContains(t, api.Calls(), "save https://cdn/final.png")
}

func TestStudio_SaveWithoutResult(t *testing.T) {
	api := &fakeAPI{}
	studio := NewStudio(api, signedIn(t, api))

	require.ErrorIs(t, studio.Save(context.Background()), ErrValidation)
}

func TestStudio_NewResultCanBeSavedAgain(t *testing.T) {
	api := &fakeAPI{}
	studio := NewStudio(api, signedIn(t, api))
	ctx := context.Background()

	_, err := studio.Generate(ctx, "one", false)
	require.NoError(t, err)
	require.NoError(t, studio.Save(ctx))
	_, err = studio.Generate(ctx, "two", false)
	require.NoError(t, err)

	assert.False(t, studio.Saved())
	require.NoError(t, studio.Save(ctx))
}
