package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// TipoParticipante is the role of a person in the institution.
type TipoParticipante string

const (
	TipoDocente  TipoParticipante = "DOCENTE"
	TipoDiscente TipoParticipante = "DISCENTE"
	TipoTecnico  TipoParticipante = "TECNICO"
)

// TiposParticipante lists the valid roles in form order.
var TiposParticipante = []TipoParticipante{TipoDiscente, TipoDocente, TipoTecnico}

// Participante is a person record keyed by CPF.
type Participante struct {
	CPF      string           `json:"cpf"`
	Nome     string           `json:"nome"`
	Email    string           `json:"email"`
	Tipo     TipoParticipante `json:"tipo"`
	CriadoEm string           `json:"criado_em,omitempty"`
}

// ParticipanteCreate is the create/update payload. Senha is write-only.
type ParticipanteCreate struct {
	CPF   string           `json:"cpf"`
	Nome  string           `json:"nome"`
	Email string           `json:"email"`
	Tipo  TipoParticipante `json:"tipo"`
	Senha string           `json:"senha"`
}

// Validate applies the client-side checks before any network call. The
// server remains authoritative for real integrity.
func (p ParticipanteCreate) Validate() error {
	if len(p.CPF) != 11 {
		return errors.New("CPF deve ter 11 dígitos")
	}
	if strings.TrimSpace(p.Nome) == "" {
		return errors.New("Nome é obrigatório")
	}
	if !strings.Contains(p.Email, "@") {
		return errors.New("Email inválido")
	}
	if p.Tipo != TipoDocente && p.Tipo != TipoDiscente && p.Tipo != TipoTecnico {
		return errors.New("Tipo de participante inválido")
	}
	return nil
}

// ListParticipantes fetches participants, optionally narrowed by a free-text
// query and an exact role filter. Empty arguments mean no constraint.
func (c *Client) ListParticipantes(ctx context.Context, query string, tipo TipoParticipante) ([]Participante, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if tipo != "" {
		params.Set("tipo", string(tipo))
	}

	var out []Participante
	if err := c.get(ctx, "/participantes/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetParticipante fetches one participant by CPF.
func (c *Client) GetParticipante(ctx context.Context, cpf string) (*Participante, error) {
	var out Participante
	if err := c.get(ctx, "/participantes/"+cpf, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateParticipante registers a new participant.
func (c *Client) CreateParticipante(ctx context.Context, p ParticipanteCreate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/participantes/", p, nil)
}

// UpdateParticipante replaces the participant identified by cpf.
func (c *Client) UpdateParticipante(ctx context.Context, cpf string, p ParticipanteCreate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.put(ctx, "/participantes/"+cpf, p, nil)
}

// DeleteParticipante removes the participant identified by cpf.
func (c *Client) DeleteParticipante(ctx context.Context, cpf string) error {
	return c.delete(ctx, "/participantes/"+cpf)
}
