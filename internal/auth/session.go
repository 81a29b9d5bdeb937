package auth

import (
	"time"
)

// SessionStore is the subset of the client storage sessions persist to.
type SessionStore interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

const sessionKey = "user_session"

// DefaultSessionTimeout matches the demo's 30 minute expiry.
const DefaultSessionTimeout = 30 * time.Minute

// Session is the stored login state. Expiry is trusted client-side; this
// is demo plumbing, not a security boundary.
type Session struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionManager stores and expires the demo session.
type SessionManager struct {
	store   SessionStore
	timeout time.Duration
	now     func() time.Time
}

func NewSessionManager(store SessionStore, timeout time.Duration) *SessionManager {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &SessionManager{store: store, timeout: timeout, now: time.Now}
}

// WithClock substitutes the time source, for tests.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Start persists a fresh session for the user.
func (m *SessionManager) Start(user User) (Session, error) {
	session := Session{User: user, ExpiresAt: m.now().Add(m.timeout)}
	return session, m.store.Set(sessionKey, session)
}

// Current returns the active session, clearing it when expired.
func (m *SessionManager) Current() (Session, bool, error) {
	var session Session
	found, err := m.store.Get(sessionKey, &session)
	if err != nil || !found {
		return Session{}, false, err
	}
	if m.now().After(session.ExpiresAt) {
		_ = m.store.Delete(sessionKey)
		return Session{}, false, nil
	}
	return session, true, nil
}

// End removes the session.
func (m *SessionManager) End() error {
	return m.store.Delete(sessionKey)
}
