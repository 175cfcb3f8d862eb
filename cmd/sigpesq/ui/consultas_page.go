package ui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"sigpesq/internal/api"
	"sigpesq/internal/format"
	"sigpesq/internal/listview"
)

// consultaDim is one of the three grouped-query dimensions.
type consultaDim int

const (
	dimCoordenadores consultaDim = iota
	dimAgencias
	dimAnos
)

func (d consultaDim) label() string {
	switch d {
	case dimAgencias:
		return "Agências"
	case dimAnos:
		return "Anos"
	default:
		return "Coordenadores"
	}
}

// consultaKeysMsg carries the three lookup lists, loaded together.
type consultaKeysMsg struct {
	coordenadores []api.Coordenador
	agencias      []api.Agencia
	anos          []int
}

// consultaResultMsg carries the drill-down rows for one selected key.
type consultaResultMsg struct {
	dim            consultaDim
	projetos       []api.Projeto
	financiamentos []api.Financiamento
	producoes      []api.Producao
}

// ConsultasPage is the grouped-query screen: pick a dimension, pick a key,
// see the records under it.
type ConsultasPage struct {
	client *api.Client
	styles Styles
	spin   spinner.Model

	dim  consultaDim
	keys table.Model

	coordenadores []api.Coordenador
	agencias      []api.Agencia
	anos          []int

	result      *consultaResultMsg
	resultLabel string

	loading bool
	loadErr string
}

// NewConsultasPage builds the page; Reload must run before first render.
func NewConsultasPage(client *api.Client, styles Styles) ConsultasPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	keys := table.New(
		table.WithColumns(consultaColumns(dimCoordenadores)),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	return ConsultasPage{client: client, styles: styles, spin: sp, keys: keys}
}

// Reload fetches the three lookups in parallel.
func (p ConsultasPage) Reload() (ConsultasPage, tea.Cmd) {
	p.loading = true
	p.loadErr = ""
	p.result = nil
	client := p.client
	load := func() tea.Msg {
		var msg consultaKeysMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			cs, err := client.ListCoordenadores(ctx)
			msg.coordenadores = cs
			return err
		})
		g.Go(func() error {
			as, err := client.ConsultaAgencias(ctx)
			msg.agencias = as
			return err
		})
		g.Go(func() error {
			anos, err := client.ConsultaAnos(ctx)
			msg.anos = anos
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
func (p ConsultasPage) Update(msg tea.Msg) (ConsultasPage, tea.Cmd) {
	switch msg := msg.(type) {
	case consultaKeysMsg:
		p.loading = false
		p.coordenadores = msg.coordenadores
		p.agencias = msg.agencias
		p.anos = msg.anos
		return p.rebuildKeys(), nil

	case consultaResultMsg:
		p.loading = false
		if msg.dim == p.dim {
			m := msg
			p.result = &m
		}
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
		switch msg.String() {
		case "tab":
			p.dim = (p.dim + 1) % 3
			p.result = nil
			return p.rebuildKeys(), nil
		case "r":
			return p.Reload()
		case "enter":
			return p.drillDown()
		}
		var cmd tea.Cmd
		p.keys, cmd = p.keys.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p ConsultasPage) drillDown() (ConsultasPage, tea.Cmd) {
	i := p.keys.Cursor()
	client, dim := p.client, p.dim

	switch dim {
	case dimCoordenadores:
		if i < 0 || i >= len(p.coordenadores) {
			return p, nil
		}
		c := p.coordenadores[i]
		p.resultLabel = "Projetos de " + c.Nome
		p.loading = true
		return p, tea.Batch(func() tea.Msg {
			projs, err := client.ProjetosPorCoordenador(context.Background(), c.CPF)
			if err != nil {
				return LoadFailedMsg{Err: err}
			}
			return consultaResultMsg{dim: dim, projetos: projs}
		}, p.spin.Tick)

	case dimAgencias:
		if i < 0 || i >= len(p.agencias) {
			return p, nil
		}
		a := p.agencias[i]
		p.resultLabel = "Financiamentos de " + a.Sigla
		p.loading = true
		return p, tea.Batch(func() tea.Msg {
			fins, err := client.FinanciamentosPorAgencia(context.Background(), a.Sigla)
			if err != nil {
				return LoadFailedMsg{Err: err}
			}
			return consultaResultMsg{dim: dim, financiamentos: fins}
		}, p.spin.Tick)

	default:
		if i < 0 || i >= len(p.anos) {
			return p, nil
		}
		ano := p.anos[i]
		p.resultLabel = "Produções de " + strconv.Itoa(ano)
		p.loading = true
		return p, tea.Batch(func() tea.Msg {
			prods, err := client.ProducoesPorAno(context.Background(), ano)
			if err != nil {
				return LoadFailedMsg{Err: err}
			}
			return consultaResultMsg{dim: dim, producoes: prods}
		}, p.spin.Tick)
	}
}

func (p ConsultasPage) rebuildKeys() ConsultasPage {
	p.keys.SetColumns(consultaColumns(p.dim))

	var rows []table.Row
	switch p.dim {
	case dimCoordenadores:
		for _, c := range p.coordenadores {
			rows = append(rows, table.Row{c.Nome, c.CPF, strconv.Itoa(c.TotalProjetos)})
		}
	case dimAgencias:
		for _, a := range p.agencias {
			rows = append(rows, table.Row{a.Sigla, a.Nome})
		}
	default:
		for _, ano := range p.anos {
			rows = append(rows, table.Row{strconv.Itoa(ano)})
		}
	}
	p.keys.SetRows(rows)
	p.keys.SetCursor(0)
	return p
}

func consultaColumns(dim consultaDim) []table.Column {
	switch dim {
	case dimAgencias:
		return []table.Column{
			{Title: "Sigla", Width: 10},
			{Title: "Nome", Width: 40},
		}
	case dimAnos:
		return []table.Column{
			{Title: "Ano", Width: 10},
		}
	default:
		return []table.Column{
			{Title: "Nome", Width: 32},
			{Title: "CPF", Width: 13},
			{Title: "Projetos", Width: 10},
		}
	}
}

// View renders the page.
func (p ConsultasPage) View() string {
	s := p.styles
	out := s.Title.Render("Consultas") + "\n"

	tabs := ""
	for d := consultaDim(0); d < 3; d++ {
		label := " " + d.label() + " "
		if d == p.dim {
			tabs += s.Badge.Render(label)
		} else {
			tabs += s.Muted.Render(label)
		}
		tabs += " "
	}
	out += tabs + "\n\n"

	switch {
	case p.loading:
		return out + p.spin.View() + " " + s.Muted.Render("Consultando...")
	case p.loadErr != "":
		return out + s.Error.Render(p.loadErr) + "\n" + s.Muted.Render("r recarrega")
	}

	out += p.keys.View() + "\n\n"

	if p.result != nil {
		out += p.viewResult()
	} else {
		out += s.Muted.Render("enter consulta os registros da seleção") + "\n"
	}

	out += "\n" + s.Footer.Render("tab dimensão · enter consultar · r recarregar")
	return out
}

func (p ConsultasPage) viewResult() string {
	s := p.styles
	r := p.result

	switch r.dim {
	case dimCoordenadores:
		t := NewSimpleTable(p.resultLabel, []string{"Código", "Título", "Situação", "Início"})
		t.Empty = "Nenhum projeto para esta seleção."
		for _, x := range r.projetos {
			t.AddRow(x.Codigo, x.Titulo, situacaoLabel(x.Situacao), format.FormatDate(x.DataInicio))
		}
		return t.View(s)

	case dimAgencias:
		t := NewSimpleTable(p.resultLabel, []string{"Processo", "Fomento", "Valor total", "Vigência"})
		t.Empty = "Nenhum financiamento para esta seleção."
		total := listview.SumBy(r.financiamentos, func(f api.Financiamento) float64 { return f.ValorTotal })
		for _, x := range r.financiamentos {
			vigencia := format.FormatDate(x.DataInicio) + " – " + format.FormatDate(x.DataFim)
			t.AddRow(x.CodigoProcesso, x.TipoFomento, format.FormatCurrency(x.ValorTotal), vigencia)
		}
		out := t.View(s)
		if len(r.financiamentos) > 0 {
			out += s.Bold.Render("Total: ") + s.KPIValue.Render(format.FormatCurrency(total)) + "\n"
		}
		return out

	default:
		t := NewSimpleTable(p.resultLabel, []string{"Registro", "Título", "Tipo"})
		t.Empty = "Nenhuma produção para esta seleção."
		for _, x := range r.producoes {
			t.AddRow(x.IDRegistro, x.Titulo, x.Tipo)
		}
		return t.View(s)
	}
}
