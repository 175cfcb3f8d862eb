package ui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"sigpesq/internal/api"
	"sigpesq/internal/format"
)

// dashboardMsg carries the three dashboard loads fanned out in parallel.
type dashboardMsg struct {
	stats           *api.DashboardStats
	recentProjects  []api.Projeto
	recentProducoes []api.Producao
}

// DashboardPage shows the server-aggregated KPIs and the recent activity
// tables. It only formats; no aggregation happens client-side.
type DashboardPage struct {
	client *api.Client
	styles Styles
	spin   spinner.Model

	stats           *api.DashboardStats
	recentProjects  []api.Projeto
	recentProducoes []api.Producao

	loading bool
	loadErr string
}

// NewDashboardPage builds the page; Reload must run before first render.
func NewDashboardPage(client *api.Client, styles Styles) DashboardPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return DashboardPage{client: client, styles: styles, spin: sp}
}

// Reload fans out the three dashboard fetches; one failure fails the load.
func (p DashboardPage) Reload() (DashboardPage, tea.Cmd) {
	p.loading = true
	p.loadErr = ""
	client := p.client
	load := func() tea.Msg {
		var msg dashboardMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			s, err := client.GetDashboardStats(ctx)
			msg.stats = s
			return err
		})
		g.Go(func() error {
			projs, err := client.GetRecentProjects(ctx)
			msg.recentProjects = projs
			return err
		})
		g.Go(func() error {
			prods, err := client.GetRecentProducoes(ctx)
			msg.recentProducoes = prods
			return err
		})
		if err := g.Wait(); err != nil {
			return LoadFailedMsg{Err: err}
		}
		return msg
	}
	return p, tea.Batch(load, p.spin.Tick)
}

// Update implements the page's event loop.
func (p DashboardPage) Update(msg tea.Msg) (DashboardPage, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		p.loading = false
		p.stats = msg.stats
		p.recentProjects = msg.recentProjects
		p.recentProducoes = msg.recentProducoes
		return p, nil

	case LoadFailedMsg:
		p.loading = false
		p.loadErr = msg.Message()
		return p, nil

	case spinner.TickMsg:
		if !p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if msg.String() == "r" {
			return p.Reload()
		}
	}
	return p, nil
}

// View renders the page.
func (p DashboardPage) View() string {
	s := p.styles
	out := s.Title.Render("Painel") + "\n"

	switch {
	case p.loading:
		return out + p.spin.View() + " " + s.Muted.Render("Carregando painel...")
	case p.loadErr != "":
		return out + s.Error.Render(p.loadErr) + "\n" + s.Muted.Render("r recarrega")
	case p.stats == nil:
		return out + s.Muted.Render("Sem dados.")
	}

	kpi := func(label, value string) string {
		return s.Card.Render(s.Muted.Render(label+"\n") + s.KPIValue.Render(value))
	}
	out += joinCards(
		kpi("Projetos ativos", strconv.Itoa(p.stats.ProjetosAtivos)),
		kpi("Projetos concluídos", strconv.Itoa(p.stats.ProjetosConcluidos)),
		kpi("Participantes", strconv.Itoa(p.stats.TotalParticipantes)),
		kpi("Financiamentos", format.FormatCurrency(p.stats.TotalFinanciamentos)),
		kpi("Produções", strconv.Itoa(p.stats.TotalProducoes)),
	) + "\n\n"

	projects := NewSimpleTable("Projetos recentes", []string{"Código", "Título", "Situação", "Início"})
	projects.Empty = "Nenhum projeto recente."
	for _, x := range p.recentProjects {
		projects.AddRow(x.Codigo, x.Titulo, situacaoLabel(x.Situacao), format.FormatDate(x.DataInicio))
	}
	out += projects.View(s)

	producoes := NewSimpleTable("Produções recentes", []string{"Registro", "Título", "Tipo", "Ano"})
	producoes.Empty = "Nenhuma produção recente."
	for _, x := range p.recentProducoes {
		producoes.AddRow(x.IDRegistro, x.Titulo, x.Tipo, strconv.Itoa(x.AnoPublicacao))
	}
	out += producoes.View(s)

	out += s.Footer.Render("r recarregar")
	return out
}
