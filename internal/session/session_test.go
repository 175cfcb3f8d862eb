package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigpesq/internal/api"
)

func loginHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			w.Write([]byte(`{
				"access_token": "tok-abc",
				"token_type": "bearer",
				"user_name": "Ana",
				"user_type": "DOCENTE",
				"user_cpf": "12345678901"
			}`))
		case "/participantes/":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
}

func newManager(t *testing.T, handler http.Handler, dir string) (*Manager, *Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewStore(dir)
	client := api.New(srv.URL, 5*time.Second, store)
	return NewManager(client, store), store
}

func TestInitializeWithoutSessionIsAnonymous(t *testing.T) {
	m, _ := newManager(t, loginHandler(t), t.TempDir())

	assert.Equal(t, StateUninitialized, m.State())
	assert.True(t, m.Loading())

	m.Initialize()

	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, m.Loading())
	assert.Nil(t, m.CurrentUser())
}

func TestLoginPersistsAndAuthenticates(t *testing.T) {
	dir := t.TempDir()
	m, store := newManager(t, loginHandler(t), dir)
	m.Initialize()

	ok, msg := m.Login(context.Background(), "ana@x.com", "123456")
	require.True(t, ok, msg)

	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "tok-abc", store.Token())
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "Ana", m.CurrentUser().Name)
	assert.Equal(t, "12345678901", m.CurrentUser().CPF)

	// Session file exists and is owner-only.
	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSessionRestoredAcrossProcesses(t *testing.T) {
	dir := t.TempDir()
	m1, _ := newManager(t, loginHandler(t), dir)
	m1.Initialize()
	ok, _ := m1.Login(context.Background(), "ana@x.com", "123456")
	require.True(t, ok)

	// A second manager over the same directory restores the session.
	m2, store2 := newManager(t, loginHandler(t), dir)
	m2.Initialize()

	assert.Equal(t, StateAuthenticated, m2.State())
	assert.Equal(t, "tok-abc", store2.Token())
	require.NotNil(t, m2.CurrentUser())
	assert.Equal(t, "Ana", m2.CurrentUser().Name)
}

func TestLoginFailureReturnsMessageWithoutPanic(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Email ou senha incorretos"}`))
	})

	m, store := newManager(t, handler, t.TempDir())
	m.Initialize()

	ok, msg := m.Login(context.Background(), "ana@x.com", "wrong")

	assert.False(t, ok)
	assert.Equal(t, "Email ou senha incorretos", msg)
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, store.Token())
}

func TestLogoutClearsEverythingSynchronously(t *testing.T) {
	dir := t.TempDir()
	m, store := newManager(t, loginHandler(t), dir)
	m.Initialize()
	ok, _ := m.Login(context.Background(), "ana@x.com", "123456")
	require.True(t, ok)

	m.Logout()

	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, store.Token())
	assert.Nil(t, m.CurrentUser())
	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCorruptSessionFileTreatedAsAnonymous(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600))

	m, _ := newManager(t, loginHandler(t), dir)
	m.Initialize()

	assert.Equal(t, StateAnonymous, m.State())
}

func TestRegisterCreatesAccountThenLogsIn(t *testing.T) {
	m, _ := newManager(t, loginHandler(t), t.TempDir())
	m.Initialize()

	ok, msg := m.Register(context.Background(), api.ParticipanteCreate{
		CPF:   "12345678901",
		Nome:  "Ana",
		Email: "ana@x.com",
		Tipo:  api.TipoDocente,
		Senha: "123456",
	})

	require.True(t, ok, msg)
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
}
