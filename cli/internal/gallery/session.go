// ABOUTME: Session lifecycle for the signed-in viewer
// ABOUTME: Resolves identity from the gateway and fires hooks on sign-out

package gallery

import (
	"context"
	"strings"
	"sync"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

// SessionState is where the session is in its lifecycle.
type SessionState int

const (
	Uninitialized SessionState = iota
	Loading
	Authenticated
	Anonymous
)

func (s SessionState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// User is the signed-in viewer.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// DisplayName returns the name shown for the viewer.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return anonymousName
}

// Session is the viewer's identity, passed to every component that needs it.
type Session struct {
	api API

	mu    sync.RWMutex
	state SessionState
	user  *User
	hooks []func()
}

// NewSession creates an uninitialized session.
func NewSession(api API) *Session {
	return &Session{api: api}
}

// State returns the lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the viewer, or nil unless authenticated.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a viewer is signed in.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// Owns reports whether the viewer created img.
func (s *Session) Owns(img *Image) bool {
	if img == nil || img.OwnerID == "" {
		return false
	}
	u := s.User()
	if u == nil {
		return false
	}
	return strings.EqualFold(u.Email, img.OwnerID)
}

// OnSignOut registers fn to run whenever the session leaves Authenticated.
func (s *Session) OnSignOut(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// BeginResolve moves the session to Loading.
func (s *Session) BeginResolve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Loading
}

// Fetch asks the gateway who the viewer is. It does not change state.
func (s *Session) Fetch(ctx context.Context) (*User, error) {
	info, err := s.api.Me(ctx)
	if err != nil {
		return nil, upstream("session", true, err)
	}
	if !info.Authenticated || info.Email == "" {
		return nil, nil
	}
	return &User{Email: info.Email, Name: info.Name, Image: info.Image}, nil
}

// Apply settles a resolve. A nil user or any error leaves the viewer
// anonymous; a rejected token is reported as ErrAuthRequired.
func (s *Session) Apply(user *User, err error) error {
	if err != nil || user == nil {
		s.setAnonymous()
		return err
	}
	s.mu.Lock()
	s.state = Authenticated
	s.user = user
	s.mu.Unlock()
	return nil
}

// Resolve asks the gateway for the current identity and settles the state.
func (s *Session) Resolve(ctx context.Context) error {
	s.BeginResolve()
	return s.Apply(s.Fetch(ctx))
}

// SignOut revokes the session at the gateway and becomes anonymous. The
// local transition happens even when the gateway call fails. A token the
// gateway already rejects counts as signed out.
func (s *Session) SignOut(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.setAnonymous()
	if client.IsUnauthorized(err) {
		return nil
	}
	return upstream("sign out", false, err)
}

func (s *Session) setAnonymous() {
	s.mu.Lock()
	wasAuthenticated := s.state == Authenticated
	s.state = Anonymous
	s.user = nil
	hooks := append([]func(){}, s.hooks...)
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	for _, fn := range hooks {
		fn()
	}
}
