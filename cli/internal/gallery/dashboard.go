// ABOUTME: The signed-in user's dashboard of creations and liked images
// ABOUTME: Loads creations and the liked set concurrently with errgroup

package gallery

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

// DashboardData is one dashboard fetch.
type DashboardData struct {
	Images []client.Image
	Liked  []string
}

// Dashboard lists the viewer's own images. It shares likes and deletes with
// the feed through the Store.
type Dashboard struct {
	store *Store

	items   []*Image
	loaded  bool
	loading bool
}

// NewDashboard creates an empty dashboard and registers it for deletions.
func NewDashboard(store *Store) *Dashboard {
	d := &Dashboard{store: store}
	store.Register(d)
	return d
}

// Items returns the viewer's images as the gateway ordered them.
func (d *Dashboard) Items() []*Image { return d.items }

// Loaded reports whether a load succeeded.
func (d *Dashboard) Loaded() bool { return d.loaded }

// Loading reports whether a load is in flight.
func (d *Dashboard) Loading() bool { return d.loading }

// BeginLoad marks a load in flight.
func (d *Dashboard) BeginLoad() error {
	if !d.store.session.Authenticated() {
		return ErrAuthRequired
	}
	if d.loading {
		return ErrInFlight
	}
	d.loading = true
	return nil
}

// Fetch reads the viewer's images and liked set concurrently. The two reads
// are independent, so their order does not matter.
func (d *Dashboard) Fetch(ctx context.Context) (DashboardData, error) {
	var data DashboardData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		images, err := d.store.api.UserImages(ctx)
		if err != nil {
			return upstream("your images", true, err)
		}
		data.Images = images
		return nil
	})
	g.Go(func() error {
		liked, err := d.store.FetchLiked(ctx)
		data.Liked = liked
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardData{}, err
	}
	return data, nil
}

// Apply settles a load. A failure keeps whatever was shown before.
func (d *Dashboard) Apply(data DashboardData, err error) error {
	d.loading = false
	if err != nil {
		return err
	}
	items := make([]*Image, 0, len(data.Images))
	for _, in := range data.Images {
		items = append(items, d.store.Intern(FromClient(in)))
	}
	d.items = items
	d.store.SetLiked(data.Liked)
	d.loaded = true
	return nil
}

// Load fetches and applies the dashboard.
func (d *Dashboard) Load(ctx context.Context) error {
	if err := d.BeginLoad(); err != nil {
		return err
	}
	return d.Apply(d.Fetch(ctx))
}

// Remove drops every copy of a deleted item.
func (d *Dashboard) Remove(id string) bool {
	kept := d.items[:0]
	for _, img := range d.items {
		if img.ID != id {
			kept = append(kept, img)
		}
	}
	removed := len(kept) < len(d.items)
	clear(d.items[len(kept):])
	d.items = kept
	return removed
}
