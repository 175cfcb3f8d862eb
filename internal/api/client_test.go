package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, token string, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, TokenFunc(func() string { return token }), opts...)
}

func TestBearerTokenAttachedPerRequest(t *testing.T) {
	var got []string
	var mu sync.Mutex

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte(`[]`))
	})

	// The token source is read on each request, so a rotation between two
	// calls shows up on the second one.
	token := "tok-1"
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, 5*time.Second, TokenFunc(func() string { return token }))

	_, err := c.ListParticipantes(context.Background(), "", "")
	require.NoError(t, err)

	token = "tok-2"
	_, err = c.ListParticipantes(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Bearer tok-1", got[0])
	assert.Equal(t, "Bearer tok-2", got[1])
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, handler, "")
	_, err := c.ListParticipantes(context.Background(), "", "")
	require.NoError(t, err)
}

func TestUnauthorizedPolicyFiresExactlyOnce(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var fired int32
	c := newTestClient(t, handler, "expired", WithUnauthorizedPolicy(func() {
		atomic.AddInt32(&fired, 1)
	}))

	// Ten concurrent requests all hit 401; the policy must run once.
	errs := make(chan error, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListProjetos(context.Background(), "", "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindAuth, apiErr.Kind)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestUnauthorizedPolicyRearmsAfterLogin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var fired int32
	c := newTestClient(t, handler, "expired", WithUnauthorizedPolicy(func() {
		atomic.AddInt32(&fired, 1)
	}))

	_, _ = c.ListProjetos(context.Background(), "", "")
	_, _ = c.ListProjetos(context.Background(), "", "")
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	c.Arm()
	_, _ = c.ListProjetos(context.Background(), "", "")
	assert.Equal(t, int32(2), atomic.LoadInt32(&fired))
}

func TestLoginNeverTriggersUnauthorizedPolicy(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Email ou senha incorretos"}`))
	})

	fired := false
	c := newTestClient(t, handler, "", WithUnauthorizedPolicy(func() { fired = true }))

	_, err := c.Login(context.Background(), "ana@x.com", "wrong")
	require.Error(t, err)
	assert.False(t, fired, "bad credentials must not force a logout")
}

func TestConnectivityError(t *testing.T) {
	// Server closed before the call: transport-level failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second, TokenFunc(func() string { return "" }))
	_, err := c.ListParticipantes(context.Background(), "", "")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindConnectivity, apiErr.Kind)
	assert.Equal(t, "Erro de conexão. Verifique sua internet", Message(err))
}

func TestValidationDetailString(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Erro ao criar projeto: código duplicado"}`))
	})

	c := newTestClient(t, handler, "tok")
	err := c.CreateProjeto(context.Background(), ProjetoCreate{
		Codigo:         "P1",
		Titulo:         "T",
		DataInicio:     "2024-01-01",
		Situacao:       SituacaoEmAndamento,
		CoordenadorCPF: "12345678901",
	})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "Erro ao criar projeto: código duplicado", Message(err))
}

func TestValidationDetailFieldList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [
			{"loc": ["body", "cpf"], "msg": "ensure this value has at least 11 characters"},
			{"loc": ["body", "email"], "msg": "value is not a valid email address"}
		]}`))
	})

	c := newTestClient(t, handler, "tok")
	_, err := c.GetParticipante(context.Background(), "123")

	assert.Equal(t,
		"body.cpf: ensure this value has at least 11 characters, body.email: value is not a valid email address",
		Message(err))
}

func TestGenericMessagesByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{404, "Recurso não encontrado"},
		{403, "Acesso negado"},
		{500, "Erro interno do servidor"},
		{502, "Ocorreu um erro inesperado"},
	}

	for _, tt := range tests {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		c := newTestClient(t, handler, "tok")
		_, err := c.GetProjeto(context.Background(), "PX")
		assert.Equal(t, tt.want, Message(err), "status %d", tt.status)
	}
}

func TestMessageOnNonAPIError(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Ocorreu um erro inesperado", Message(assert.AnError))
}
