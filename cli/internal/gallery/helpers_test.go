package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

var errBackendDown = errors.New("connection refused")

// fakeAPI records calls and answers from per-method hooks. Unset hooks
// succeed with zero values.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	me            func() (*client.UserInfo, error)
	logout        func() error
	explore       func(offset, limit int, sort string) ([]client.Image, error)
	userImages    func() ([]client.Image, error)
	liked         func() ([]string, error)
	image         func(id string) (*client.Image, error)
	comments      func(id string) ([]client.Comment, error)
	createComment func(id, text string) (*client.Comment, error)
	like          func(id string) error
	unlike        func(id string) error
	del           func(id string) error
	generate      func(req *client.GenerateRequest) (*client.GeneratedImage, error)
	upload        func(url string) (string, error)
	save          func(req *client.SaveRequest) error
}

func (f *fakeAPI) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Me(ctx context.Context) (*client.UserInfo, error) {
	f.record("me")
	if f.me != nil {
		return f.me()
	}
	return &client.UserInfo{}, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.record("logout")
	if f.logout != nil {
		return f.logout()
	}
	return nil
}

func (f *fakeAPI) Explore(ctx context.Context, offset, limit int, sort string) ([]client.Image, error) {
	f.record("explore offset=%d limit=%d sort=%s", offset, limit, sort)
	if f.explore != nil {
		return f.explore(offset, limit, sort)
	}
	return nil, nil
}

func (f *fakeAPI) UserImages(ctx context.Context) ([]client.Image, error) {
	f.record("user_images")
	if f.userImages != nil {
		return f.userImages()
	}
	return nil, nil
}

func (f *fakeAPI) LikedIDs(ctx context.Context) ([]string, error) {
	f.record("liked")
	if f.liked != nil {
		return f.liked()
	}
	return nil, nil
}

func (f *fakeAPI) Image(ctx context.Context, id string) (*client.Image, error) {
	f.record("image %s", id)
	if f.image != nil {
		return f.image(id)
	}
	return &client.Image{ID: id}, nil
}

func (f *fakeAPI) Comments(ctx context.Context, id string) ([]client.Comment, error) {
	f.record("comments %s", id)
	if f.comments != nil {
		return f.comments(id)
	}
	return nil, nil
}

func (f *fakeAPI) CreateComment(ctx context.Context, id, text string) (*client.Comment, error) {
	f.record("create_comment %s", id)
	if f.createComment != nil {
		return f.createComment(id, text)
	}
	return &client.Comment{ID: "c-new", ImageID: id, Text: text, UserName: "Ada"}, nil
}

func (f *fakeAPI) Like(ctx context.Context, id string) error {
	f.record("like %s", id)
	if f.like != nil {
		return f.like(id)
	}
	return nil
}

func (f *fakeAPI) Unlike(ctx context.Context, id string) error {
	f.record("unlike %s", id)
	if f.unlike != nil {
		return f.unlike(id)
	}
	return nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.record("delete %s", id)
	if f.del != nil {
		return f.del(id)
	}
	return nil
}

func (f *fakeAPI) Generate(ctx context.Context, req *client.GenerateRequest) (*client.GeneratedImage, error) {
	f.record("generate")
	if f.generate != nil {
		return f.generate(req)
	}
	return &client.GeneratedImage{ImageURL: "https://gen/tmp.png", Prompt: req.Prompt}, nil
}

func (f *fakeAPI) Upload(ctx context.Context, url string) (string, error) {
	f.record("upload %s", url)
	if f.upload != nil {
		return f.upload(url)
	}
	return "https://cdn/final.png", nil
}

func (f *fakeAPI) Save(ctx context.Context, req *client.SaveRequest) error {
	f.record("save %s", req.ImageURL)
	if f.save != nil {
		return f.save(req)
	}
	return nil
}

const viewerEmail = "ada@example.com"

// signedIn returns a session resolved as viewerEmail.
func signedIn(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	api.me = func() (*client.UserInfo, error) {
		return &client.UserInfo{Authenticated: true, Email: viewerEmail, Name: "Ada"}, nil
	}
	s := NewSession(api)
	require.NoError(t, s.Resolve(context.Background()))
	require.True(t, s.Authenticated())
	api.mu.Lock()
	api.calls = nil
	api.mu.Unlock()
	return s
}

func page(prefix string, n int) []client.Image {
	out := make([]client.Image, n)
	for i := range out {
		out[i] = client.Image{ID: fmt.Sprintf("%s-%d", prefix, i), Likes: i}
	}
	return out
}
