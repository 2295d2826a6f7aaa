// Package session holds the bearer credential used for backend requests.
//
// A session is acquired at login, persisted by the caller's Persister, and
// invalidated at logout or when its expiry passes. Requests read the token at
// call time through the Provider interface.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNotLoggedIn is returned when no token is stored.
	ErrNotLoggedIn = errors.New("not logged in (run 'garage login')")
	// ErrExpired is returned when the stored token has passed its expiry.
	ErrExpired = errors.New("session expired (run 'garage login' again)")
)

// Session is a stored bearer credential.
type Session struct {
	Token     string    `yaml:"token,omitempty" json:"-"`
	ExpiresAt time.Time `yaml:"token_expires_at,omitempty" json:"expires_at,omitempty"`
}

// Expired reports whether the session has a known expiry that is not after now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Provider supplies the bearer token for a request.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Persister loads and saves the session.
type Persister interface {
	LoadSession() (Session, error)
	SaveSession(Session) error
}

// Store manages the session lifecycle on top of a Persister.
type Store struct {
	mu        sync.Mutex
	persister Persister
	now       func() time.Time
}

// NewStore creates a session store.
func NewStore(p Persister) *Store {
	return &Store{persister: p, now: time.Now}
}

// Login stores token as the current session. The expiry is taken from the
// token's exp claim when the token is a JWT.
func (s *Store) Login(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, fmt.Errorf("no token provided")
	}

	sess := Session{Token: token, ExpiresAt: ExpiryOf(token)}
	if sess.Expired(s.now()) {
		return Session{}, ErrExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persister.SaveSession(sess); err != nil {
		return Session{}, fmt.Errorf("saving session: %w", err)
	}
	return sess, nil
}

// Logout clears the stored session.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persister.SaveSession(Session{}); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Current returns the stored session, which may be empty or expired.
func (s *Store) Current() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.persister.LoadSession()
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// Token implements Provider.
func (s *Store) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sess, err := s.Current()
	if err != nil {
		return "", err
	}
	if sess.Token == "" {
		return "", ErrNotLoggedIn
	}
	if sess.Expired(s.now()) {
		return "", ErrExpired
	}
	return sess.Token, nil
}

// Static is a Provider for a fixed token, e.g. one taken from the environment.
type Static string

// Token implements Provider.
func (t Static) Token(ctx context.Context) (string, error) {
	if t == "" {
		return "", ErrNotLoggedIn
	}
	return string(t), nil
}

// ExpiryOf returns the exp claim of a JWT without verifying its signature.
// Opaque tokens and JWTs without exp yield the zero time.
func ExpiryOf(token string) time.Time {
	if strings.Count(token, ".") != 2 {
		return time.Time{}
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
