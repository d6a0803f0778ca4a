// ABOUTME: Paginated explore feed with tab switching and infinite scroll
// ABOUTME: Discards pages from superseded tabs by generation number

package gallery

import (
	"context"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

// PageSize is how many items each feed request asks for.
const PageSize = 20

// SortMode orders the explore feed.
type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortPopular SortMode = "popular"
)

// ParseSortMode accepts the tab names and the gateway's sort names.
func ParseSortMode(s string) (SortMode, bool) {
	switch s {
	case "", "recent", "latest":
		return SortRecent, true
	case "popular", "likes", "trending":
		return SortPopular, true
	default:
		return "", false
	}
}

// Param is the gateway's sort query value.
func (m SortMode) Param() string {
	if m == SortPopular {
		return "likes"
	}
	return "recent"
}

// Label is the tab title.
func (m SortMode) Label() string {
	if m == SortPopular {
		return "Trending"
	}
	return "Latest"
}

// RequestState tags the feed's fetch lifecycle.
type RequestState int

const (
	Idle RequestState = iota
	InFlight
	Done
)

// PageRequest is one page fetch, stamped with the generation that issued it.
type PageRequest struct {
	Generation int
	Offset     int
	Limit      int
	Sort       SortMode
}

// Feed is the explore list. Items are appended in arrival order and never
// re-sorted locally.
type Feed struct {
	store *Store

	items      []*Image
	offset     int
	hasMore    bool
	mode       SortMode
	state      RequestState
	generation int
}

// NewFeed creates a feed in recency order and registers it for deletions.
func NewFeed(store *Store) *Feed {
	f := &Feed{store: store, hasMore: true, mode: SortRecent}
	store.Register(f)
	return f
}

// Items returns the loaded items in arrival order.
func (f *Feed) Items() []*Image { return f.items }

// Len returns the number of loaded items.
func (f *Feed) Len() int { return len(f.items) }

// Offset is where the next page starts.
func (f *Feed) Offset() int { return f.offset }

// HasMore is false once an empty page arrived.
func (f *Feed) HasMore() bool { return f.hasMore }

// Mode returns the current sort tab.
func (f *Feed) Mode() SortMode { return f.mode }

// State returns the fetch lifecycle tag.
func (f *Feed) State() RequestState { return f.state }

// Loading reports whether a page is in flight.
func (f *Feed) Loading() bool { return f.state == InFlight }

// SwitchTab drops every loaded item and starts over in mode. The returned
// request is the new first page; results for earlier tabs are discarded.
func (f *Feed) SwitchTab(mode SortMode) PageRequest {
	return f.Seek(mode, 0)
}

// Seek is SwitchTab starting at offset instead of the first page.
func (f *Feed) Seek(mode SortMode, offset int) PageRequest {
	f.generation++
	f.items = nil
	f.offset = max(offset, 0)
	f.hasMore = true
	f.mode = mode
	f.state = InFlight
	return f.request()
}

// LoadMore issues the next page request. It refuses while a page is in
// flight or once an empty page ended the feed.
func (f *Feed) LoadMore() (PageRequest, error) {
	if f.state == InFlight {
		return PageRequest{}, ErrInFlight
	}
	if !f.hasMore {
		return PageRequest{}, ErrFeedExhausted
	}
	f.state = InFlight
	return f.request(), nil
}

func (f *Feed) request() PageRequest {
	return PageRequest{
		Generation: f.generation,
		Offset:     f.offset,
		Limit:      PageSize,
		Sort:       f.mode,
	}
}

// Fetch performs req against the gateway. It does not change feed state.
func (f *Feed) Fetch(ctx context.Context, req PageRequest) ([]client.Image, error) {
	page, err := f.store.api.Explore(ctx, req.Offset, req.Limit, req.Sort.Param())
	if err != nil {
		return nil, upstream("images", true, err)
	}
	return page, nil
}

// Apply settles req with its result. Stale results are ignored and report
// false. A failed page keeps items, offset, and hasMore and returns the error.
func (f *Feed) Apply(req PageRequest, page []client.Image, err error) (bool, error) {
	if req.Generation != f.generation {
		return false, nil
	}
	if err != nil {
		f.state = Idle
		return true, err
	}
	if len(page) == 0 {
		f.hasMore = false
		f.state = Done
		return true, nil
	}
	for _, in := range page {
		f.items = append(f.items, f.store.Intern(FromClient(in)))
	}
	f.offset += len(page)
	f.state = Idle
	return true, nil
}

// Load fetches and applies the next page.
func (f *Feed) Load(ctx context.Context) error {
	req, err := f.LoadMore()
	if err != nil {
		return err
	}
	page, err := f.Fetch(ctx, req)
	_, err = f.Apply(req, page, err)
	return err
}

// NearEnd reports whether cursor sits on the last rendered item, which is
// when the next page should be requested.
func (f *Feed) NearEnd(cursor int) bool {
	return len(f.items) > 0 && cursor >= len(f.items)-1
}

// Remove drops every copy of a deleted item. A shifted page window can
// repeat an item, so more than one copy may be loaded. The server deletes a
// single row, so the offset moves down by one.
func (f *Feed) Remove(id string) bool {
	kept := f.items[:0]
	for _, img := range f.items {
		if img.ID != id {
			kept = append(kept, img)
		}
	}
	removed := len(kept) < len(f.items)
	clear(f.items[len(kept):])
	f.items = kept
	if removed && f.offset > 0 {
		f.offset--
	}
	return removed
}
