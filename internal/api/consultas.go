package api

import (
	"context"
	"strconv"
)

// Coordenador is a participant who coordinates at least one project.
type Coordenador struct {
	CPF           string `json:"cpf"`
	Nome          string `json:"nome"`
	TotalProjetos int    `json:"total_projetos,omitempty"`
}

// ListCoordenadores fetches the coordinator lookup.
func (c *Client) ListCoordenadores(ctx context.Context) ([]Coordenador, error) {
	var out []Coordenador
	if err := c.get(ctx, "/consultas/coordenadores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjetosPorCoordenador fetches the projects coordinated by one CPF.
func (c *Client) ProjetosPorCoordenador(ctx context.Context, cpf string) ([]Projeto, error) {
	var out []Projeto
	if err := c.get(ctx, "/consultas/projetos-por-coordenador/"+cpf, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConsultaAgencias fetches the agency lookup for the query screens.
func (c *Client) ConsultaAgencias(ctx context.Context) ([]Agencia, error) {
	var out []Agencia
	if err := c.get(ctx, "/consultas/agencias", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FinanciamentosPorAgencia fetches the awards granted by one agency.
func (c *Client) FinanciamentosPorAgencia(ctx context.Context, sigla string) ([]Financiamento, error) {
	var out []Financiamento
	if err := c.get(ctx, "/consultas/financiamentos-por-agencia/"+sigla, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConsultaAnos fetches the publication years that have productions.
func (c *Client) ConsultaAnos(ctx context.Context) ([]int, error) {
	var out []int
	if err := c.get(ctx, "/consultas/anos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProducoesPorAno fetches the productions published in one year.
func (c *Client) ProducoesPorAno(ctx context.Context, ano int) ([]Producao, error) {
	var out []Producao
	if err := c.get(ctx, "/consultas/producoes-por-ano/"+strconv.Itoa(ano), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
