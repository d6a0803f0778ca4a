// ABOUTME: Signed API tokens that let the CLI act for a signed-in user
// ABOUTME: HS256 JWTs keyed by email, revocable by token ID until expiry

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/markalston/visionary-gallery/backend/cache"
	"github.com/markalston/visionary-gallery/backend/models"
)

const tokenIssuer = "visionary-gateway"

// ErrTokenRevoked is returned for tokens that were signed out.
var ErrTokenRevoked = errors.New("token revoked")

// TokenManager issues and validates API tokens.
type TokenManager struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked *cache.Cache
}

// tokenClaims carries the identity alongside the registered claims.
type tokenClaims struct {
	jwt.RegisteredClaims
	Name   string `json:"name,omitempty"`
	Avatar string `json:"picture,omitempty"`
}

// NewTokenManager creates a token manager. revoked records signed-out
// token IDs until they would have expired anyway.
func NewTokenManager(secret string, ttl time.Duration, revoked *cache.Cache) *TokenManager {
	return &TokenManager{
		secret:  []byte(secret),
		issuer:  tokenIssuer,
		ttl:     ttl,
		revoked: revoked,
	}
}

// Issue creates a signed token for identity.
func (m *TokenManager) Issue(identity models.Identity) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("token secret not configured")
	}
	if identity.Email == "" {
		return "", time.Time{}, errors.New("identity email is required")
	}

	now := time.Now()
	expires := now.Add(m.ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Email,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name:   identity.Name,
		Avatar: identity.Avatar,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses tokenString and returns the identity it was issued for.
func (m *TokenManager) Validate(tokenString string) (models.Identity, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return models.Identity{}, err
	}
	if m.revoked != nil && m.revoked.Has(revokedKey(claims.ID)) {
		return models.Identity{}, ErrTokenRevoked
	}
	return models.Identity{
		Email:  claims.Subject,
		Name:   claims.Name,
		Avatar: claims.Avatar,
	}, nil
}

// Revoke invalidates tokenString for the rest of its lifetime.
func (m *TokenManager) Revoke(tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return err
	}
	if m.revoked == nil {
		return errors.New("token revocation not configured")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	m.revoked.SetWithTTL(revokedKey(claims.ID), claims.Subject, ttl)
	return nil
}

func (m *TokenManager) parse(tokenString string) (*tokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("token missing subject or id")
	}
	return claims, nil
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}
