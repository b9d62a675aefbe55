// Package session holds the bearer token shared by gateway calls.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session errors.
var (
	ErrNoToken      = errors.New("no session token")
	ErrTokenExpired = errors.New("session token expired")
)

// Claims are the token fields the client cares about. The token is
// parsed unverified: signature validation is the server's job, the
// client only reads expiry and subject for display and proactive
// refresh decisions.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Store is a mutex-guarded holder for the current bearer token.
// The gateway clears it on HTTP 401.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore creates a store, optionally seeded with a token.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// Set replaces the current token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current token, or ErrNoToken when unauthenticated.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Clear drops the current token.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Claims parses the stored token without verification and returns its
// subject and expiry. Opaque (non-JWT) tokens yield empty claims rather
// than an error so the engine keeps working against backends that issue
// plain tokens.
func (s *Store) Claims() (Claims, error) {
	token, err := s.Token()
	if err != nil {
		return Claims{}, err
	}
	return parseClaims(token), nil
}

// Expired reports whether the stored token carries an expiry in the
// past. Tokens without a readable expiry are never considered expired
// client-side.
func (s *Store) Expired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil {
		return false
	}
	return !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(now)
}

func parseClaims(token string) Claims {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}
	}

	var claims Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims
}
