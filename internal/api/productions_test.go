package api

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducaoCreateValidate(t *testing.T) {
	valid := ProducaoCreate{
		IDRegistro:    "10.1000/xyz",
		Titulo:        "Um Artigo",
		Tipo:          "ARTIGO",
		AnoPublicacao: 2024,
		Autores: []AutorProducao{
			{ParticipanteCPF: "11111111111", Ordem: 1},
			{ParticipanteCPF: "22222222222", Ordem: 2},
		},
	}
	assert.NoError(t, valid.Validate())

	future := valid
	future.AnoPublicacao = time.Now().Year() + 1
	assert.Error(t, future.Validate(), "publication year must not exceed the current year")

	current := valid
	current.AnoPublicacao = time.Now().Year()
	assert.NoError(t, current.Validate())

	dup := valid
	dup.Autores = []AutorProducao{
		{ParticipanteCPF: "11111111111", Ordem: 1},
		{ParticipanteCPF: "11111111111", Ordem: 2},
	}
	assert.Error(t, dup.Validate(), "an author cannot be added twice")
}

func TestListProducoesParamCleaning(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		tipo      string
		ano       int
		wantQuery string
	}{
		{"all set", "redes", "ARTIGO", 2024, "ano=2024&query=redes&tipo=ARTIGO"},
		{"only year", "", "", 2023, "ano=2023"},
		{"all empty omitted", "", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				w.Write([]byte(`[]`))
			})
			c := newTestClient(t, handler, "tok")
			_, err := c.ListProducoes(context.Background(), tt.query, tt.tipo, tt.ano)
			require.NoError(t, err)
		})
	}
}

func TestProducoesPorAnoPath(t *testing.T) {
	ano := 2023
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/consultas/producoes-por-ano/"+strconv.Itoa(ano), r.URL.Path)
		w.Write([]byte(`[{"id_registro":"r1","titulo":"T","tipo":"ARTIGO","ano_publicacao":2023}]`))
	})

	c := newTestClient(t, handler, "tok")
	out, err := c.ProducoesPorAno(context.Background(), ano)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2023, out[0].AnoPublicacao)
}
