// Package session holds the bearer credentials of the current user and the
// single mutation that tears them down.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrLoginRequired is returned when an operation needs a session but none is
// active.
var ErrLoginRequired = errors.New("login required")

// Tokens is the credential pair issued by the backend.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Empty reports whether no access token is present.
func (t Tokens) Empty() bool {
	return t.Access == ""
}

// Reason explains why a session ended.
type Reason string

const (
	ReasonUnauthorized Reason = "unauthorized"
	ReasonLogout       Reason = "logout"
)

// Listener is notified after a session is invalidated. Listeners are the
// redirect-to-login signal.
type Listener func(Reason)

// Session is the process-wide credential holder. Readers call Token; the only
// writers are Start (after login) and Invalidate.
type Session struct {
	mu        sync.RWMutex
	tokens    Tokens
	store     Store
	listeners []Listener
}

// New creates a session backed by store. A nil store keeps tokens in memory.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Open creates a session and loads any persisted tokens from store.
func Open(store Store) (*Session, error) {
	s := New(store)
	tokens, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.tokens = tokens
	return s, nil
}

// Token returns the current access token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access
}

// Tokens returns a copy of the current credentials.
func (s *Session) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// Active reports whether an access token is held.
func (s *Session) Active() bool {
	return s.Token() != ""
}

// Start replaces the credentials and persists them.
func (s *Session) Start(tokens Tokens) error {
	if tokens.Empty() {
		return errors.New("cannot start a session without an access token")
	}

	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	if err := s.store.Save(tokens); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// OnInvalidate registers fn to run after every invalidation.
func (s *Session) OnInvalidate(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Invalidate clears both tokens, removes them from the store and notifies
// listeners. It is safe to call repeatedly; listeners run every time.
func (s *Session) Invalidate(reason Reason) error {
	s.mu.Lock()
	s.tokens = Tokens{}
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	err := s.store.Clear()

	for _, fn := range listeners {
		fn(reason)
	}

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Require returns ErrLoginRequired when no session is active.
func (s *Session) Require() error {
	if !s.Active() {
		return ErrLoginRequired
	}
	return nil
}
