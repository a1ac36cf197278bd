package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/sparkred/internal/storage"
)

// SessionKey is the storage key the current session is persisted under.
const SessionKey = "spark-red-session"

// Authenticator is the identity provider surface the Manager depends on.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Manager owns the signed-in session for one client. It is created explicitly,
// started once, and closed when the client exits.
type Manager struct {
	provider Authenticator
	store    storage.Storage
	log      *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	session *Session
}

// NewManager creates a session manager persisting to store.
func NewManager(provider Authenticator, store storage.Storage, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		provider: provider,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Start restores a persisted session, if any. A corrupt record is discarded.
func (m *Manager) Start(ctx context.Context) error {
	data, err := m.store.Get(ctx, SessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.AccessToken == "" {
		m.log.Warn("discarding unreadable session", "error", err)
		return m.store.Remove(ctx, SessionKey)
	}

	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

// SignIn authenticates and persists the new session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.set(ctx, s); err != nil {
		return nil, err
	}
	m.log.Info("signed in", "user", s.User.Email)
	return s, nil
}

// SignUp registers an account. When the provider issues a session right away
// it is persisted; otherwise nil is returned and the user must confirm first.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*Session, error) {
	s, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if err := m.set(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SignOut revokes and forgets the current session. The local session is
// removed even if the provider cannot be reached.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	s := m.session
	m.session = nil
	m.mu.Unlock()

	if s != nil {
		if err := m.provider.SignOut(ctx, s.AccessToken); err != nil {
			m.log.Warn("provider sign-out failed", "error", err)
		}
	}
	if err := m.store.Remove(ctx, SessionKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Current returns the session if one exists and has not expired.
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil || m.session.Expired(m.now()) {
		return nil, false
	}
	return m.session, true
}

// Require returns a usable session, refreshing an expired one when a refresh
// token is available. Returns ErrSignInRequired otherwise.
func (m *Manager) Require(ctx context.Context) (*Session, error) {
	if s, ok := m.Current(); ok {
		return s, nil
	}

	m.mu.RLock()
	stale := m.session
	m.mu.RUnlock()
	if stale == nil || stale.RefreshToken == "" {
		return nil, ErrSignInRequired
	}

	s, err := m.provider.Refresh(ctx, stale.RefreshToken)
	if err != nil {
		m.log.Debug("session refresh failed", "error", err)
		return nil, ErrSignInRequired
	}
	if err := m.set(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Close drops the in-memory session. The persisted session is kept.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

func (m *Manager) set(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.session = s
	return nil
}
