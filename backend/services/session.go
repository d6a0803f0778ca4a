// ABOUTME: Session management for the gateway's sign-in cookie
// ABOUTME: Stores the resolved identity in an encrypted gorilla/sessions cookie

package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/markalston/visionary-gallery/backend/models"
)

const (
	// SessionCookieName is the encrypted cookie holding the identity.
	SessionCookieName = "visionary_session"

	keyEmail     = "email"
	keyName      = "name"
	keyAvatar    = "avatar"
	keyCSRF      = "csrf"
	keyCreatedAt = "created_at"
)

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("session not found")

// SessionService manages the signed and encrypted session cookie
type SessionService struct {
	store *sessions.CookieStore
}

// NewSessionService creates a session service keyed from secret. An empty
// secret gets a random key, so sessions do not survive a restart.
func NewSessionService(secret string, secure bool, maxAge int) (*SessionService, error) {
	if secret == "" {
		seed := make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generating session key: %w", err)
		}
		secret = string(seed)
		slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	store := sessions.NewCookieStore(createSessionKey(secret), createSessionKey(secret+"encryption"))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		// Lax so the OAuth callback redirect carries the cookie.
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)

	return &SessionService{store: store}, nil
}

// Store exposes the cookie store so the OAuth handshake state can share it.
func (s *SessionService) Store() sessions.Store {
	return s.store
}

// Create writes a new session for identity and returns it with a fresh
// CSRF token.
func (s *SessionService) Create(w http.ResponseWriter, r *http.Request, identity models.Identity) (*models.Session, error) {
	if identity.Email == "" {
		return nil, errors.New("identity email is required")
	}

	csrfToken, err := generateToken()
	if err != nil {
		return nil, err
	}

	sess, err := s.store.New(r, SessionCookieName)
	if err != nil {
		// A stale or undecodable cookie yields a fresh session plus an error.
		slog.Debug("Replacing unreadable session cookie", "error", err)
	}

	created := time.Now()
	sess.Values[keyEmail] = identity.Email
	sess.Values[keyName] = identity.Name
	sess.Values[keyAvatar] = identity.Avatar
	sess.Values[keyCSRF] = csrfToken
	sess.Values[keyCreatedAt] = created.Unix()

	if err := sess.Save(r, w); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &models.Session{
		Identity:  identity,
		CSRFToken: csrfToken,
		CreatedAt: created,
	}, nil
}

// Get decodes the session cookie on r.
func (s *SessionService) Get(r *http.Request) (*models.Session, error) {
	if _, err := r.Cookie(SessionCookieName); err != nil {
		return nil, ErrNoSession
	}

	sess, err := s.store.Get(r, SessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	email, _ := sess.Values[keyEmail].(string)
	if email == "" {
		return nil, ErrNoSession
	}

	name, _ := sess.Values[keyName].(string)
	avatar, _ := sess.Values[keyAvatar].(string)
	csrf, _ := sess.Values[keyCSRF].(string)
	created, _ := sess.Values[keyCreatedAt].(int64)

	return &models.Session{
		Identity:  models.Identity{Email: email, Name: name, Avatar: avatar},
		CSRFToken: csrf,
		CreatedAt: time.Unix(created, 0),
	}, nil
}

// Delete expires the session cookie.
func (s *SessionService) Delete(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.New(r, SessionCookieName)
	sess.Options.MaxAge = -1
	sess.Values = map[any]any{}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// createSessionKey creates a key of the proper length for AES encryption from a seed string
func createSessionKey(seed string) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(seed))
	return hasher.Sum(nil)
}

// generateToken returns 32 random bytes, base64url encoded (44 characters).
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
