package api

import "context"

// DashboardStats is the pre-aggregated summary computed by the server.
// Aggregation is deliberately not done client-side; the client only formats.
type DashboardStats struct {
	ProjetosAtivos      int     `json:"projetos_ativos"`
	ProjetosConcluidos  int     `json:"projetos_concluidos"`
	TotalParticipantes  int     `json:"total_participantes"`
	TotalFinanciamentos float64 `json:"total_financiamentos"`
	TotalProducoes      int     `json:"total_producoes"`
}

// GetDashboardStats fetches the system-wide summary.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecentProjects fetches the most recently started projects.
func (c *Client) GetRecentProjects(ctx context.Context) ([]Projeto, error) {
	var out []Projeto
	if err := c.get(ctx, "/dashboard/recent-projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRecentProducoes fetches the most recent productions.
func (c *Client) GetRecentProducoes(ctx context.Context) ([]Producao, error) {
	var out []Producao
	if err := c.get(ctx, "/dashboard/recent-producoes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
