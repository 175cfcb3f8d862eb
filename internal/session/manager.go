package session

import (
	"context"
	"sync"

	"sigpesq/internal/api"
	"sigpesq/internal/logging"
)

// State is the session lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Manager drives the session state machine over a Store and the API client.
type Manager struct {
	client *api.Client
	store  *Store

	mu    sync.RWMutex
	state State
}

// NewManager creates a Manager in the uninitialized state.
func NewManager(client *api.Client, store *Store) *Manager {
	return &Manager{client: client, store: store, state: StateUninitialized}
}

// Initialize reads the persisted session. With both a token and a cached
// user present the session is treated as authenticated; the token's actual
// validity is only discovered on the first API call, where a 401 forces
// logout through the client's unauthorized policy.
func (m *Manager) Initialize() {
	m.setState(StateLoading)

	if err := m.store.Load(); err != nil {
		logging.SessionError("failed to load session: %v", err)
		m.setState(StateAnonymous)
		return
	}

	if m.store.Token() != "" && m.store.User() != nil {
		m.client.Arm()
		m.setState(StateAuthenticated)
		logging.Session("restored session for %s", m.store.User().CPF)
		return
	}
	m.setState(StateAnonymous)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Loading reports whether the initial storage read is still pending, so
// dependent views can suspend rendering.
func (m *Manager) Loading() bool {
	s := m.State()
	return s == StateUninitialized || s == StateLoading
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	return m.State() == StateAuthenticated
}

// CurrentUser returns the logged-in identity, nil when anonymous.
func (m *Manager) CurrentUser() *User {
	return m.store.User()
}

// Login exchanges credentials for a token. On success the session is
// persisted and the 401 policy re-armed. Failure is returned as a message,
// never as a panic.
func (m *Manager) Login(ctx context.Context, email, senha string) (bool, string) {
	resp, err := m.client.Login(ctx, email, senha)
	if err != nil {
		logging.SessionError("login failed: %v", err)
		return false, api.Message(err)
	}

	user := User{Name: resp.UserName, Type: resp.UserType, CPF: resp.UserCPF}
	if err := m.store.Save(resp.AccessToken, user); err != nil {
		logging.SessionError("failed to persist session: %v", err)
		// The session still works for this process; only the restore is lost.
	}

	m.client.Arm()
	m.setState(StateAuthenticated)
	logging.Session("logged in as %s (%s)", user.Name, user.Type)
	return true, ""
}

// Register creates a participant account and then logs in with it.
func (m *Manager) Register(ctx context.Context, p api.ParticipanteCreate) (bool, string) {
	if err := m.client.CreateParticipante(ctx, p); err != nil {
		return false, api.Message(err)
	}
	return m.Login(ctx, p.Email, p.Senha)
}

// Logout clears the persisted session synchronously. No network call.
func (m *Manager) Logout() {
	m.store.Clear()
	m.setState(StateAnonymous)
	logging.Session("logged out")
}

// ForceLogout is the target of the HTTP client's unauthorized policy: the
// session expired server-side, so drop it locally.
func (m *Manager) ForceLogout() {
	logging.Session("session expired (401), forcing logout")
	m.Logout()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
