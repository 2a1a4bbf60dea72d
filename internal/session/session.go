package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User identifies the signed-in account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// state is the on-disk session representation (the CLI's equivalent of the
// browser's token storage).
type state struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChangeListener is notified whenever the session is established or cleared.
type ChangeListener func()

// Manager owns the bearer token and current user identity. It persists the
// session to a file so it survives between invocations, and notifies
// registered listeners on sign-in and sign-out.
type Manager struct {
	mu        sync.RWMutex
	path      string
	st        state
	listeners []ChangeListener
	now       func() time.Time
}

// NewManager creates a session manager backed by the given file path.
// An existing session file is loaded; a missing or unreadable file simply
// means no session.
func NewManager(path string) *Manager {
	m := &Manager{
		path: path,
		now:  time.Now,
	}
	m.load()
	return m
}

// OnChange registers a listener invoked after every sign-in or sign-out.
func (m *Manager) OnChange(fn ChangeListener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// SignIn stores the bearer token and user identity and persists them.
func (m *Manager) SignIn(token string, user User) error {
	m.mu.Lock()
	m.st = state{Token: token, User: user}
	err := m.save()
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	for _, fn := range listeners {
		fn()
	}
	return nil
}

// SignOut clears the session locally. No network call is made.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.st = state{}
	_ = os.Remove(m.path)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Authenticated reports whether a usable session exists. A token whose JWT
// expiry claim is in the past counts as no session; an opaque token is
// assumed valid (the server is the authority either way).
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.st.Token == "" {
		return false
	}
	return !m.expired(m.st.Token)
}

// Token returns the stored bearer token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.Token
}

// User returns the signed-in user identity.
func (m *Manager) User() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.User, m.st.Token != ""
}

// UserID returns the signed-in user's ID, or "" when signed out.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.st.Token == "" {
		return ""
	}
	return m.st.User.ID
}

// expired parses the token without verifying its signature and checks the
// exp claim. Signature verification is the server's job.
func (m *Manager) expired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(m.now())
}

func (m *Manager) snapshotListeners() []ChangeListener {
	out := make([]ChangeListener, len(m.listeners))
	copy(out, m.listeners)
	return out
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return
	}
	m.st = st
}

func (m *Manager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(m.st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// DefaultPath returns the conventional location of the session file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "storefront", "session.json")
}
