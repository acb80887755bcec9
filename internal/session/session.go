// Package session holds the operator's login state between requests and
// restarts: the bearer token, the user it belongs to and the remembered email.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/logging"
)

// Store keys.
const (
	keyToken           = "token"
	keyUser            = "user"
	keyRememberedEmail = "remembered_email"
)

// Session is a snapshot of the operator's login state.
type Session struct {
	Token           string     `json:"-"`
	User            *core.User `json:"user,omitempty"`
	RememberedEmail string     `json:"rememberedEmail,omitempty"`
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Manager owns the current session and keeps the store in step with it.
// It is safe for concurrent use.
type Manager struct {
	store Store

	mu      sync.RWMutex
	current Session
}

// NewManager creates a manager backed by store. Call Init before use.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Init loads any persisted session. A stored user that no longer decodes is
// dropped together with its token.
func (m *Manager) Init(ctx context.Context) (Session, error) {
	token, _, err := m.store.Get(ctx, keyToken)
	if err != nil {
		return Session{}, fmt.Errorf("load token: %w", err)
	}
	rawUser, hasUser, err := m.store.Get(ctx, keyUser)
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	email, _, err := m.store.Get(ctx, keyRememberedEmail)
	if err != nil {
		return Session{}, fmt.Errorf("load remembered email: %w", err)
	}

	s := Session{Token: token, RememberedEmail: email}
	if hasUser && rawUser != "" {
		var u core.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			logging.FromContext(ctx).Warn("discarding unreadable stored user", "error", err)
			if err := m.store.Delete(ctx, keyToken, keyUser); err != nil {
				return Session{}, fmt.Errorf("clear unreadable session: %w", err)
			}
			s.Token = ""
		} else {
			s.User = &u
		}
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return s, nil
}

// Update records a fresh login, or a refreshed user when token is empty.
func (m *Manager) Update(ctx context.Context, token string, user *core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		if err := m.store.Set(ctx, keyToken, token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		m.current.Token = token
	}
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		if err := m.store.Set(ctx, keyUser, string(data)); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		u := *user
		m.current.User = &u
	}
	return nil
}

// Remember stores the email prefilled on the login form. An empty email forgets it.
func (m *Manager) Remember(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if email == "" {
		err = m.store.Delete(ctx, keyRememberedEmail)
	} else {
		err = m.store.Set(ctx, keyRememberedEmail, email)
	}
	if err != nil {
		return fmt.Errorf("save remembered email: %w", err)
	}
	m.current.RememberedEmail = email
	return nil
}

// Teardown ends the session. The remembered email survives.
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current.Token = ""
	m.current.User = nil
	if err := m.store.Delete(ctx, keyToken, keyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// OnUnauthorized tears the session down after the backend rejects the token.
// Its signature matches crmapi.UnauthorizedHook.
func (m *Manager) OnUnauthorized(ctx context.Context, blocked bool) {
	log := logging.FromContext(ctx)
	log.Info("backend rejected session", "blocked", blocked)
	if err := m.Teardown(ctx); err != nil {
		log.Error("session teardown failed", "error", err)
	}
}

// Token returns the current bearer token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// User returns the signed-in user, or nil.
func (m *Manager) User() *core.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.User == nil {
		return nil
	}
	u := *m.current.User
	return &u
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.current
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
