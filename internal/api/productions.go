package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Producao is a scientific output keyed by its registry id (DOI, ISBN...).
type Producao struct {
	IDRegistro     string `json:"id_registro"`
	ProjetoCodigo  string `json:"projeto_codigo,omitempty"`
	ProjetoTitulo  string `json:"projeto_titulo,omitempty"`
	Titulo         string `json:"titulo"`
	Tipo           string `json:"tipo"`
	AnoPublicacao  int    `json:"ano_publicacao"`
	MeioDivulgacao string `json:"meio_divulgacao,omitempty"`
}

// AutorProducao is one author reference with its position in the byline.
type AutorProducao struct {
	ParticipanteCPF string `json:"participante_cpf"`
	Ordem           int    `json:"ordem"`
}

// ProducaoCreate is the create/update payload. Autores is ordered; the order
// can be rearranged in the form before submit.
type ProducaoCreate struct {
	IDRegistro     string          `json:"id_registro"`
	ProjetoCodigo  string          `json:"projeto_codigo,omitempty"`
	Titulo         string          `json:"titulo"`
	Tipo           string          `json:"tipo"`
	AnoPublicacao  int             `json:"ano_publicacao"`
	MeioDivulgacao string          `json:"meio_divulgacao,omitempty"`
	Autores        []AutorProducao `json:"autores,omitempty"`
}

// Validate applies the client-side checks before submit: year not in the
// future and no participant listed twice as author.
func (p ProducaoCreate) Validate() error {
	if strings.TrimSpace(p.IDRegistro) == "" {
		return errors.New("ID de registro é obrigatório")
	}
	if strings.TrimSpace(p.Titulo) == "" {
		return errors.New("Título é obrigatório")
	}
	if strings.TrimSpace(p.Tipo) == "" {
		return errors.New("Tipo é obrigatório")
	}
	if p.AnoPublicacao <= 0 {
		return errors.New("Ano de publicação inválido")
	}
	if p.AnoPublicacao > time.Now().Year() {
		return errors.New("Ano de publicação não pode ser futuro")
	}

	seen := make(map[string]bool, len(p.Autores))
	for _, a := range p.Autores {
		if seen[a.ParticipanteCPF] {
			return fmt.Errorf("Autor duplicado: %s", a.ParticipanteCPF)
		}
		seen[a.ParticipanteCPF] = true
	}
	return nil
}

// ListProducoes fetches productions, optionally narrowed by free text, type
// and publication year. Empty arguments are omitted from the request.
func (c *Client) ListProducoes(ctx context.Context, query, tipo string, ano int) ([]Producao, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if tipo != "" {
		params.Set("tipo", tipo)
	}
	if ano > 0 {
		params.Set("ano", strconv.Itoa(ano))
	}

	var out []Producao
	if err := c.get(ctx, "/producoes/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProducao fetches one production by registry id.
func (c *Client) GetProducao(ctx context.Context, idRegistro string) (*Producao, error) {
	var out Producao
	if err := c.get(ctx, "/producoes/"+idRegistro, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProducao registers a new production.
func (c *Client) CreateProducao(ctx context.Context, p ProducaoCreate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/producoes/", p, nil)
}

// UpdateProducao replaces the production identified by its registry id.
func (c *Client) UpdateProducao(ctx context.Context, idRegistro string, p ProducaoCreate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.put(ctx, "/producoes/"+idRegistro, p, nil)
}

// DeleteProducao removes the production identified by its registry id.
func (c *Client) DeleteProducao(ctx context.Context, idRegistro string) error {
	return c.delete(ctx, "/producoes/"+idRegistro)
}
