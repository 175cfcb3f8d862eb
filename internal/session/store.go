// Package session holds the authenticated-user state for the client: a
// persisted token plus a cached identity, and an explicit state machine
// {uninitialized, loading, authenticated, anonymous} around them. Nothing
// here is global; the Manager is passed to whatever needs it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// User is the cached identity of the logged-in participant.
type User struct {
	Name string `json:"name"`
	Type string `json:"type"`
	CPF  string `json:"cpf"`
}

type persisted struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Store persists the token and user under ~/.sigpesq/session.json and keeps
// an in-memory copy. It implements api.TokenSource, so the HTTP client reads
// the current token on every request.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
	user  *User
}

// NewStore creates a store rooted at the given SIGPesq home directory.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "session.json")}
}

// Load reads the persisted session from disk. A missing file is not an
// error; it just means there is no session.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt session file is treated as no session.
		return nil
	}

	s.mu.Lock()
	s.token = p.Token
	s.user = p.User
	s.mu.Unlock()
	return nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached identity, nil when logged out.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Save persists the token and user, replacing any previous session.
func (s *Store) Save(token string, user User) error {
	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()

	data, err := json.Marshal(persisted{Token: token, User: &user})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	// 0600: the file holds a bearer token.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear wipes the session from memory and disk. Synchronous, no network.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	_ = os.Remove(s.path)
}
