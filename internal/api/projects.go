package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// SituacaoProjeto is the lifecycle status of a research project.
type SituacaoProjeto string

const (
	SituacaoEmAndamento SituacaoProjeto = "EM_ANDAMENTO"
	SituacaoConcluido   SituacaoProjeto = "CONCLUIDO"
	SituacaoCancelado   SituacaoProjeto = "CANCELADO"
)

// SituacoesProjeto lists the valid statuses in form order.
var SituacoesProjeto = []SituacaoProjeto{SituacaoEmAndamento, SituacaoConcluido, SituacaoCancelado}

// Projeto is a research project keyed by its code.
type Projeto struct {
	Codigo          string          `json:"codigo"`
	Titulo          string          `json:"titulo"`
	Descricao       string          `json:"descricao,omitempty"`
	DataInicio      string          `json:"data_inicio"`
	DataTermino     string          `json:"data_termino,omitempty"`
	Situacao        SituacaoProjeto `json:"situacao"`
	CoordenadorCPF  string          `json:"coordenador_cpf"`
	CoordenadorNome string          `json:"coordenador_nome,omitempty"`
}

// ProjetoCreate is the create/update payload.
type ProjetoCreate struct {
	Codigo         string          `json:"codigo"`
	Titulo         string          `json:"titulo"`
	Descricao      string          `json:"descricao,omitempty"`
	DataInicio     string          `json:"data_inicio"`
	DataTermino    string          `json:"data_termino,omitempty"`
	Situacao       SituacaoProjeto `json:"situacao"`
	CoordenadorCPF string          `json:"coordenador_cpf"`
}

// Validate applies the client-side checks before submit.
func (p ProjetoCreate) Validate() error {
	if strings.TrimSpace(p.Codigo) == "" {
		return errors.New("Código é obrigatório")
	}
	if len(p.Codigo) > 20 {
		return errors.New("Código deve ter no máximo 20 caracteres")
	}
	if strings.TrimSpace(p.Titulo) == "" {
		return errors.New("Título é obrigatório")
	}
	if p.DataInicio == "" {
		return errors.New("Data de início é obrigatória")
	}
	if len(p.CoordenadorCPF) != 11 {
		return errors.New("Coordenador inválido")
	}
	if err := validateDateOrder(p.DataInicio, p.DataTermino); err != nil {
		return err
	}
	return nil
}

// validateDateOrder requires start <= end when both ISO dates are present.
// ISO dates compare correctly as strings.
func validateDateOrder(inicio, fim string) error {
	if inicio != "" && fim != "" && inicio > fim {
		return errors.New("Data de início deve ser anterior à data de término")
	}
	return nil
}

// ParticipanteResumo is a project member as returned by the detail endpoint.
type ParticipanteResumo struct {
	Nome   string `json:"nome"`
	CPF    string `json:"cpf"`
	Funcao string `json:"funcao"`
}

// FinanciamentoAlocado is a funding link as returned by the detail endpoint.
type FinanciamentoAlocado struct {
	CodigoProcesso string  `json:"codigo_processo"`
	AgenciaSigla   string  `json:"agencia_sigla,omitempty"`
	ValorAlocado   float64 `json:"valor_alocado"`
	DataInicio     string  `json:"data_inicio,omitempty"`
	DataFim        string  `json:"data_fim,omitempty"`
}

// ProjetoDetail is a project plus its members and funding links.
type ProjetoDetail struct {
	Projeto
	Participantes  []ParticipanteResumo   `json:"participantes"`
	Financiamentos []FinanciamentoAlocado `json:"financiamentos"`
}

// ProjetoParticipanteLink associates a participant with a project.
type ProjetoParticipanteLink struct {
	ParticipanteCPF string `json:"participante_cpf"`
	Funcao          string `json:"funcao"`
}

// Validate checks the link attributes before submit.
func (l ProjetoParticipanteLink) Validate() error {
	if len(l.ParticipanteCPF) != 11 {
		return errors.New("Participante inválido")
	}
	if strings.TrimSpace(l.Funcao) == "" {
		return errors.New("Função é obrigatória")
	}
	return nil
}

// ProjetoFinanciamentoLink allocates part of a funding award to a project.
type ProjetoFinanciamentoLink struct {
	CodigoProcesso string  `json:"codigo_processo"`
	ValorAlocado   float64 `json:"valor_alocado"`
	DataInicio     string  `json:"data_inicio,omitempty"`
	DataFim        string  `json:"data_fim,omitempty"`
}

// Validate rejects non-positive allocations before any network call.
func (l ProjetoFinanciamentoLink) Validate() error {
	if strings.TrimSpace(l.CodigoProcesso) == "" {
		return errors.New("Processo é obrigatório")
	}
	if l.ValorAlocado <= 0 {
		return errors.New("Valor alocado deve ser positivo")
	}
	return validateDateOrder(l.DataInicio, l.DataFim)
}

// ListProjetos fetches projects, optionally narrowed by free text and status.
func (c *Client) ListProjetos(ctx context.Context, search string, situacao SituacaoProjeto) ([]Projeto, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if situacao != "" {
		params.Set("situacao", string(situacao))
	}

	var out []Projeto
	if err := c.get(ctx, "/projetos/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProjeto fetches one project by code.
func (c *Client) GetProjeto(ctx context.Context, codigo string) (*Projeto, error) {
	var out Projeto
	if err := c.get(ctx, "/projetos/"+codigo, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProjetoDetalhes fetches a project with members and funding links.
func (c *Client) GetProjetoDetalhes(ctx context.Context, codigo string) (*ProjetoDetail, error) {
	var out ProjetoDetail
	if err := c.get(ctx, "/projetos/"+codigo+"/detalhes", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProjeto registers a new project.
func (c *Client) CreateProjeto(ctx context.Context, p ProjetoCreate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/projetos/", p, nil)
}

// UpdateProjeto replaces the project identified by codigo.
func (c *Client) UpdateProjeto(ctx context.Context, codigo string, p ProjetoCreate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.put(ctx, "/projetos/"+codigo, p, nil)
}

// DeleteProjeto removes the project identified by codigo.
func (c *Client) DeleteProjeto(ctx context.Context, codigo string) error {
	return c.delete(ctx, "/projetos/"+codigo)
}

// AddProjetoParticipante posts a participant membership to a project.
func (c *Client) AddProjetoParticipante(ctx context.Context, codigo string, link ProjetoParticipanteLink) error {
	if err := link.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/projetos/"+codigo+"/participantes", link, nil)
}

// AddProjetoFinanciamento posts a funding allocation to a project.
func (c *Client) AddProjetoFinanciamento(ctx context.Context, codigo string, link ProjetoFinanciamentoLink) error {
	if err := link.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/projetos/"+codigo+"/financiamentos", link, nil)
}
