package session

import (
	"context"
	"errors"
	"sync"

	"github.com/grpansare/task-management/internal/api"
)

// ErrNoSession is returned when no user is logged in.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated identity. Its lifetime bounds the
// validity of every task API call.
type Session struct {
	UserID   int64
	Username string
	Email    string
	Token    string
}

// Store owns the current session: explicit init via Login and teardown
// via Logout, no ambient globals. Safe for concurrent use.
type Store struct {
	api *api.Client

	mu  sync.RWMutex
	cur *Session
}

// NewStore returns a Store with no active session.
func NewStore(client *api.Client) *Store {
	return &Store{api: client}
}

// Login authenticates against the API and installs the session.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		UserID:   resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
		Token:    resp.Token,
	}
	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
	return sess, nil
}

// Register creates a new account. It does not log in: the backend
// expects a follow-up Login, same as the web client did.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	return s.api.Register(ctx, username, email, password)
}

// Restore installs a previously saved session, e.g. one read from the
// CLI's state file.
func (s *Store) Restore(sess Session) {
	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
}

// Logout discards the session. Task state held elsewhere must be
// discarded by the caller; nothing survives into the next login.
func (s *Store) Logout() {
	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()
}

// Current returns the active session or ErrNoSession.
func (s *Store) Current() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Session{}, ErrNoSession
	}
	return *s.cur, nil
}
