// ABOUTME: OAuth sign-in with the identity provider via goth/gothic
// ABOUTME: Resolves a provider account into the gateway's email-keyed identity

package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/markalston/visionary-gallery/backend/models"
)

// ProviderGoogle is the only identity provider the gateway signs in with.
const ProviderGoogle = "google"

var (
	// ErrProviderNotConfigured is returned when no OAuth credentials are set.
	ErrProviderNotConfigured = errors.New("identity provider not configured")
	// ErrMissingEmail is returned when the provider account has no email.
	ErrMissingEmail = errors.New("identity provider returned no email")
)

// Authenticator runs the OAuth handshake with the identity provider.
type Authenticator interface {
	// BeginAuth redirects the browser to the provider's consent page.
	BeginAuth(w http.ResponseWriter, r *http.Request)
	// CompleteAuth finishes the handshake on the callback request.
	CompleteAuth(w http.ResponseWriter, r *http.Request) (models.Identity, error)
	// Logout discards any handshake state held for the browser.
	Logout(w http.ResponseWriter, r *http.Request) error
}

// GothAuthenticator implements Authenticator with gothic.
type GothAuthenticator struct{}

// NewGothAuthenticator registers the Google provider and points gothic's
// handshake state at store.
func NewGothAuthenticator(clientID, clientSecret, callbackURL string, store sessions.Store) *GothAuthenticator {
	gothic.Store = store
	goth.UseProviders(google.New(clientID, clientSecret, callbackURL, "email", "profile"))
	slog.Info("Identity provider configured", "provider", ProviderGoogle, "callback", callbackURL)
	return &GothAuthenticator{}
}

func (a *GothAuthenticator) BeginAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProvider(r))
}

func (a *GothAuthenticator) CompleteAuth(w http.ResponseWriter, r *http.Request) (models.Identity, error) {
	user, err := gothic.CompleteUserAuth(w, withProvider(r))
	if err != nil {
		return models.Identity{}, fmt.Errorf("completing %s sign-in: %w", ProviderGoogle, err)
	}
	return identityFromUser(user)
}

func (a *GothAuthenticator) Logout(w http.ResponseWriter, r *http.Request) error {
	return gothic.Logout(w, withProvider(r))
}

// DisabledAuthenticator is used when no OAuth credentials are configured.
type DisabledAuthenticator struct{}

func (DisabledAuthenticator) BeginAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/auth/error?error=Configuration", http.StatusFound)
}

func (DisabledAuthenticator) CompleteAuth(http.ResponseWriter, *http.Request) (models.Identity, error) {
	return models.Identity{}, ErrProviderNotConfigured
}

func (DisabledAuthenticator) Logout(http.ResponseWriter, *http.Request) error {
	return nil
}

// identityFromUser maps a provider account onto the gateway identity.
func identityFromUser(user goth.User) (models.Identity, error) {
	if user.Email == "" {
		return models.Identity{}, ErrMissingEmail
	}
	name := user.Name
	if name == "" {
		name = user.NickName
	}
	return models.Identity{
		Email:  user.Email,
		Name:   name,
		Avatar: user.AvatarURL,
	}, nil
}

// withProvider pins the provider query parameter gothic looks up.
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	if q.Get("provider") == ProviderGoogle {
		return r
	}
	q.Set("provider", ProviderGoogle)
	clone := r.Clone(r.Context())
	clone.URL.RawQuery = q.Encode()
	return clone
}
