// ABOUTME: Identity and session models for the gateway's sign-in flow
// ABOUTME: Defines the resolved identity and the auth API contracts

package models

import "time"

// Identity is the signed-in user as resolved from the session cookie or an
// API token. Email is the stable key the image backend knows users by.
type Identity struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"image,omitempty"`
}

// DisplayName returns the name shown next to comments and images.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return "Anonymous"
}

// Session is the state held in the encrypted session cookie.
type Session struct {
	Identity
	CSRFToken string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInfoResponse represents the current user's authentication state
type UserInfoResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Image         string `json:"image,omitempty"`
}

// TokenResponse is returned by POST /auth/token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
}

// LogoutResponse confirms a sign-out.
type LogoutResponse struct {
	Success bool `json:"success"`
}
