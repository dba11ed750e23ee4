// Package session owns the process-wide authentication state: the current
// user profile, the initial-resolution loading flag, and the persisted
// bearer credential. It is the single source of truth consulted by routing.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blastline/console/internal/api"
)

// Backend is the slice of the API client the store needs. The token setter
// is part of the contract: installing and persisting the credential must
// happen as one unit, and the store's mutex provides that.
type Backend interface {
	CurrentUser(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error
	SetToken(token string)
	ClearToken()
}

// InitOutcome reports how Initialize resolved. The app treats every
// non-authenticated outcome as "logged out", but the distinction between
// a missing credential and a rejected one is preserved for callers.
type InitOutcome int

const (
	// InitNoCredential means no token was stored; nothing was attempted.
	InitNoCredential InitOutcome = iota
	// InitAuthenticated means the stored token resolved to a profile.
	InitAuthenticated
	// InitCredentialRejected means the backend refused the stored token,
	// which has been cleared.
	InitCredentialRejected
	// InitUnreachable means the resolution request failed in transport;
	// the token has been cleared all the same.
	InitUnreachable
)

// Store holds the session singleton. All mutations are serialised through
// one mutex; concurrent Login/Logout/UpdateUser calls never interleave.
type Store struct {
	backend Backend
	tokens  TokenStore
	log     zerolog.Logger

	mu          sync.Mutex
	user        *api.User
	loading     bool
	initialized bool
}

// NewStore creates a store in its pre-initialization state: loading is true
// until Initialize completes, and stays false forever after.
func NewStore(backend Backend, tokens TokenStore, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		tokens:  tokens,
		log:     log.With().Str("component", "session").Logger(),
		loading: true,
	}
}

// Initialize resolves the persisted credential into a user profile. It runs
// at most once per process; later calls return InitNoCredential without side
// effects. Every failure degrades to "logged out": the token is cleared,
// the header is removed, and the error is logged rather than surfaced.
func (s *Store) Initialize(ctx context.Context) InitOutcome {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return InitNoCredential
	}
	s.initialized = true
	s.mu.Unlock()

	token, err := s.tokens.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("token load failed")
		token = ""
	}
	if token == "" {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return InitNoCredential
	}

	s.backend.SetToken(token)
	user, err := s.backend.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.log.Warn().Err(err).Msg("stored credential did not resolve")
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("token clear failed")
		}
		s.backend.ClearToken()
		s.user = nil
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return InitCredentialRejected
		}
		return InitUnreachable
	}

	s.user = user
	return InitAuthenticated
}

// Login persists the token, installs it on the backend client, and sets the
// profile, all under one lock. The caller supplies an already-authenticated
// profile; no network call is made. Idempotent.
func (s *Store) Login(token string, user *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Save(token); err != nil {
		return err
	}
	s.backend.SetToken(token)
	s.user = cloneUser(user)
	return nil
}

// Logout notifies the backend on a best-effort basis, then unconditionally
// clears the persisted token, the installed credential, and the profile.
// Local sign-out is guaranteed regardless of backend reachability.
func (s *Store) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout notification failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		s.log.Error().Err(err).Msg("token clear failed")
	}
	s.backend.ClearToken()
	s.user = nil
}

// UpdateUser replaces the in-memory profile. The persisted token is not
// touched.
func (s *Store) UpdateUser(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cloneUser(user)
}

// Snapshot returns the loading flag and a copy of the current profile.
// Consumers must treat loading==true as "decision pending" and defer any
// redirect until it turns false.
func (s *Store) Snapshot() (loading bool, user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, cloneUser(s.user)
}

// cloneUser copies the profile including the nested business pointer, so no
// caller shares mutable state with the store.
func cloneUser(user *api.User) *api.User {
	if user == nil {
		return nil
	}
	u := *user
	if user.Business != nil {
		b := *user.Business
		u.Business = &b
	}
	return &u
}
