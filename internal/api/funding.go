package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Agencia is a funding agency.
type Agencia struct {
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// Financiamento is a funding award keyed by its process code.
type Financiamento struct {
	CodigoProcesso string  `json:"codigo_processo"`
	AgenciaSigla   string  `json:"agencia_sigla"`
	TipoFomento    string  `json:"tipo_fomento"`
	ValorTotal     float64 `json:"valor_total"`
	DataInicio     string  `json:"data_inicio"`
	DataFim        string  `json:"data_fim"`
}

// FinanciamentoCreate is the create/update payload.
type FinanciamentoCreate Financiamento

// Validate applies the client-side checks before submit.
func (f FinanciamentoCreate) Validate() error {
	if strings.TrimSpace(f.CodigoProcesso) == "" {
		return errors.New("Código do processo é obrigatório")
	}
	if strings.TrimSpace(f.AgenciaSigla) == "" {
		return errors.New("Agência é obrigatória")
	}
	if strings.TrimSpace(f.TipoFomento) == "" {
		return errors.New("Tipo de fomento é obrigatório")
	}
	if f.ValorTotal <= 0 {
		return errors.New("Valor total deve ser positivo")
	}
	if f.DataInicio == "" || f.DataFim == "" {
		return errors.New("Vigência é obrigatória")
	}
	return validateDateOrder(f.DataInicio, f.DataFim)
}

// FinanciamentosTotal is the aggregate returned by /financiamentos/total.
type FinanciamentosTotal struct {
	Total float64 `json:"total"`
}

// ListFinanciamentos fetches funding awards, optionally narrowed by free
// text and fomento type.
func (c *Client) ListFinanciamentos(ctx context.Context, query, tipo string) ([]Financiamento, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if tipo != "" {
		params.Set("tipo", tipo)
	}

	var out []Financiamento
	if err := c.get(ctx, "/financiamentos/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFinanciamento fetches one funding award by process code.
func (c *Client) GetFinanciamento(ctx context.Context, codigoProcesso string) (*Financiamento, error) {
	var out Financiamento
	if err := c.get(ctx, "/financiamentos/"+codigoProcesso, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFinanciamentosTotal fetches the total funded value across all awards.
func (c *Client) GetFinanciamentosTotal(ctx context.Context) (*FinanciamentosTotal, error) {
	var out FinanciamentosTotal
	if err := c.get(ctx, "/financiamentos/total", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAgencias fetches the funding agencies for form dropdowns.
func (c *Client) ListAgencias(ctx context.Context) ([]Agencia, error) {
	var out []Agencia
	if err := c.get(ctx, "/financiamentos/agencias", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAgencia registers a funding agency.
func (c *Client) CreateAgencia(ctx context.Context, a Agencia) error {
	if strings.TrimSpace(a.Sigla) == "" || strings.TrimSpace(a.Nome) == "" {
		return errors.New("Sigla e nome da agência são obrigatórios")
	}
	return c.post(ctx, "/financiamentos/agencias", a, nil)
}

// CreateFinanciamento registers a new funding award.
func (c *Client) CreateFinanciamento(ctx context.Context, f FinanciamentoCreate) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/financiamentos/", f, nil)
}

// UpdateFinanciamento replaces the award identified by its process code.
func (c *Client) UpdateFinanciamento(ctx context.Context, codigoProcesso string, f FinanciamentoCreate) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return c.put(ctx, "/financiamentos/"+codigoProcesso, f, nil)
}

// DeleteFinanciamento removes the award identified by its process code.
func (c *Client) DeleteFinanciamento(ctx context.Context, codigoProcesso string) error {
	return c.delete(ctx, "/financiamentos/"+codigoProcesso)
}
