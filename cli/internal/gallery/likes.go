// ABOUTME: Shared like state and image registry for every gallery view
// ABOUTME: Toggles likes optimistically and reverts them when the gateway refuses

package gallery

import (
	"context"
	"sync"
)

// Remover is a view holding images that must drop deleted ones.
type Remover interface {
	Remove(id string) bool
}

// Store is the one place like membership and counts live. Views intern the
// images they show so a toggle in one is visible in all.
type Store struct {
	api     API
	session *Session

	mu       sync.Mutex
	liked    map[string]bool
	images   map[string]*Image
	inflight Guard[string]
	lists    []Remover
}

// NewStore creates a store tied to session. Signing out clears the liked set.
func NewStore(api API, session *Session) *Store {
	s := &Store{
		api:     api,
		session: session,
		liked:   make(map[string]bool),
		images:  make(map[string]*Image),
	}
	session.OnSignOut(s.ClearLiked)
	return s
}

// Session returns the session the store acts for.
func (s *Store) Session() *Session {
	return s.session
}

// API returns the gateway the store writes through.
func (s *Store) API() API {
	return s.api
}

// Intern returns the canonical image for img.ID, refreshing its fields from
// img. Counts of an item with a toggle in flight keep their optimistic value.
func (s *Store) Intern(img Image) *Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.images[img.ID]
	if !ok {
		canonical := img
		s.images[img.ID] = &canonical
		return &canonical
	}
	likes := existing.Likes
	*existing = img
	if s.inflight.Active(img.ID) {
		existing.Likes = likes
	}
	return existing
}

// Fetch loads a single image from the gateway and interns it.
func (s *Store) Fetch(ctx context.Context, id string) (*Image, error) {
	if id == "" {
		return nil, invalid("image ID is required")
	}
	in, err := s.api.Image(ctx, id)
	if err != nil {
		return nil, upstream("image", true, err)
	}
	return s.Intern(FromClient(*in)), nil
}

// Register adds a view to receive deletions.
func (s *Store) Register(r Remover) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, r)
}

// IsLiked reports whether the viewer likes id.
func (s *Store) IsLiked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked[id]
}

// Pending reports whether a toggle for id awaits the gateway.
func (s *Store) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight.Active(id)
}

// LikedCount returns the size of the liked set.
func (s *Store) LikedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.liked)
}

// ClearLiked forgets the liked set and any pending toggles.
func (s *Store) ClearLiked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liked = make(map[string]bool)
	s.inflight.Reset()
}

// FetchLiked reads the viewer's liked IDs without changing state.
func (s *Store) FetchLiked(ctx context.Context) ([]string, error) {
	if !s.session.Authenticated() {
		return nil, nil
	}
	ids, err := s.api.LikedIDs(ctx)
	if err != nil {
		return nil, upstream("likes", true, err)
	}
	return ids, nil
}

// SetLiked replaces the liked set with ids. Items with a toggle in flight
// keep their optimistic membership.
func (s *Store) SetLiked(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !s.inflight.Active(id) {
			next[id] = true
		}
	}
	for id := range s.liked {
		if s.inflight.Active(id) {
			next[id] = true
		}
	}
	s.liked = next
}

// LoadLiked fetches the baseline liked set. Anonymous viewers get an empty set.
func (s *Store) LoadLiked(ctx context.Context) error {
	if !s.session.Authenticated() {
		s.ClearLiked()
		return nil
	}
	ids, err := s.FetchLiked(ctx)
	if err != nil {
		return err
	}
	s.SetLiked(ids)
	return nil
}

type likeSnapshot struct {
	liked bool
	likes int
	img   *Image
}

// ToggleRequest is a like or unlike applied locally and awaiting the gateway.
type ToggleRequest struct {
	ID   string
	Like bool

	pending *Pending[likeSnapshot]
}

// BeginToggle flips membership and the count for id before the write.
func (s *Store) BeginToggle(id string) (*ToggleRequest, error) {
	if id == "" {
		return nil, invalid("image ID is required")
	}
	if !s.session.Authenticated() {
		return nil, ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inflight.Acquire(id) {
		return nil, ErrInFlight
	}

	req := &ToggleRequest{ID: id, Like: !s.liked[id]}
	req.pending = Begin(func() likeSnapshot {
		snap := likeSnapshot{liked: s.liked[id], img: s.images[id]}
		if req.Like {
			s.liked[id] = true
		} else {
			delete(s.liked, id)
		}
		if snap.img != nil {
			snap.likes = snap.img.Likes
			if req.Like {
				snap.img.Likes++
			} else {
				snap.img.Likes = max(snap.img.Likes-1, 0)
			}
		}
		return snap
	}, func(snap likeSnapshot) {
		if snap.liked {
			s.liked[id] = true
		} else {
			delete(s.liked, id)
		}
		if snap.img != nil {
			snap.img.Likes = snap.likes
		}
	})
	return req, nil
}

// Commit sends the like or unlike. It does not touch local state.
func (s *Store) Commit(ctx context.Context, req *ToggleRequest) error {
	if req.Like {
		return upstream("like", false, s.api.Like(ctx, req.ID))
	}
	return upstream("unlike", false, s.api.Unlike(ctx, req.ID))
}

// Settle keeps or reverts the toggle and reports the resulting membership.
func (s *Store) Settle(req *ToggleRequest, err error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight.Active(req.ID) {
		req.pending.Settle(err)
		s.inflight.Release(req.ID)
	}
	return s.liked[req.ID], err
}

// Toggle likes or unlikes id and reports the resulting membership.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	req, err := s.BeginToggle(id)
	if err != nil {
		return s.IsLiked(id), err
	}
	return s.Settle(req, s.Commit(ctx, req))
}

// Set likes or unlikes id so that membership ends up as want. It is a no-op
// when membership already matches.
func (s *Store) Set(ctx context.Context, id string, want bool) (bool, error) {
	if s.IsLiked(id) == want && s.session.Authenticated() {
		return want, nil
	}
	return s.Toggle(ctx, id)
}

// CommitDelete deletes id at the gateway. It does not touch local state.
func (s *Store) CommitDelete(ctx context.Context, id string) error {
	if id == "" {
		return invalid("image ID is required")
	}
	if !s.session.Authenticated() {
		return ErrAuthRequired
	}
	return upstream("delete", false, s.api.Delete(ctx, id))
}

// Forget drops id from the registry, the liked set, and every registered view.
func (s *Store) Forget(id string) {
	s.mu.Lock()
	delete(s.images, id)
	delete(s.liked, id)
	lists := append([]Remover(nil), s.lists...)
	s.mu.Unlock()

	for _, l := range lists {
		l.Remove(id)
	}
}

// Delete removes id at the gateway and then from every view.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.CommitDelete(ctx, id); err != nil {
		return err
	}
	s.Forget(id)
	return nil
}
