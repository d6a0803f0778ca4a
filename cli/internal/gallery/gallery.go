// ABOUTME: Client-side gallery state machines driven by the CLI and TUI
// ABOUTME: Declares the gateway surface they depend on

// Package gallery holds the session, feed, like, comment, dashboard, and
// studio state of the Visionary client. Types here are not safe for
// concurrent mutation except Store and Session; the TUI mutates them only
// from its update loop and runs gateway calls as commands.
package gallery

import (
	"context"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

// API is the gateway surface used by the gallery. *client.Client satisfies it.
type API interface {
	Me(ctx context.Context) (*client.UserInfo, error)
	Logout(ctx context.Context) error

	Explore(ctx context.Context, offset, limit int, sort string) ([]client.Image, error)
	UserImages(ctx context.Context) ([]client.Image, error)
	LikedIDs(ctx context.Context) ([]string, error)
	Image(ctx context.Context, id string) (*client.Image, error)

	Comments(ctx context.Context, id string) ([]client.Comment, error)
	CreateComment(ctx context.Context, id, text string) (*client.Comment, error)

	Like(ctx context.Context, id string) error
	Unlike(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	Generate(ctx context.Context, req *client.GenerateRequest) (*client.GeneratedImage, error)
	Upload(ctx context.Context, imageURL string) (string, error)
	Save(ctx context.Context, req *client.SaveRequest) error
}

var _ API = (*client.Client)(nil)
