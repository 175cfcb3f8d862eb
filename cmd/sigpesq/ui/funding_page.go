package ui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"sigpesq/internal/api"
	"sigpesq/internal/format"
	"sigpesq/internal/listview"
	"sigpesq/internal/logging"
)

// financiamentosMsg carries the page's parallel load: awards, agencies and
// the server-side grand total in one message.
type financiamentosMsg struct {
	items    []api.Financiamento
	agencias []api.Agencia
	total    float64
}

type fundingFormKind int

const (
	formAward fundingFormKind = iota
	formAgency
)

// FundingPage lists funding awards with the agency and fomento-type filters
// plus the total cards, and hosts the award and agency forms.
type FundingPage struct {
	client *api.Client
	styles Styles

	search  SearchBar
	agencia Selector
	tipo    Selector
	table   table.Model
	spin    spinner.Model

	items    []api.Financiamento
	agencias []api.Agencia
	filtered []api.Financiamento
	total    float64

	mode     pageMode
	formKind fundingFormKind
	form     Form
	confirm  ConfirmDialog
	editing  string
	target   string

	loading bool
	loadErr string
	status  string
}

// NewFundingPage builds the page; Reload must run before first render.
func NewFundingPage(client *api.Client, styles Styles, debounce time.Duration) FundingPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Processo", Width: 16},
			{Title: "Agência", Width: 10},
			{Title: "Fomento", Width: 14},
			{Title: "Valor total", Width: 16},
			{Title: "Vigência", Width: 24},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return FundingPage{
		client:  client,
		styles:  styles,
		search:  NewSearchBar("buscar por processo ou agência", debounce),
		agencia: NewSelector("Agência", "Todas", nil),
		tipo:    NewSelector("Fomento", "Todos", nil),
		table:   t,
		spin:    sp,
	}
}

// Reload fetches awards, agencies and the grand total in parallel. One
// failure fails the whole load; partial pages are worse than a retry.
func (p FundingPage) Reload() (FundingPage, tea.Cmd) {
	p.loading = true
	p.loadErr = ""
	client := p.client
	load := func() tea.Msg {
		var msg financiamentosMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			items, err := client.ListFinanciamentos(ctx, "", "")
			msg.items = items
			return err
		})
		g.Go(func() error {
			ags, err := client.ListAgencias(ctx)
			msg.agencias = ags
			return err
		})
		g.Go(func() error {
			t, err := client.GetFinanciamentosTotal(ctx)
			if t != nil {
				msg.total = t.Total
			}
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
func (p FundingPage) Update(msg tea.Msg) (FundingPage, tea.Cmd) {
	switch msg := msg.(type) {
	case financiamentosMsg:
		p.loading = false
		p.items = msg.items
		p.agencias = msg.agencias
		p.total = msg.total
		p.agencia = p.agencia.SetOptions(agencySiglas(msg.agencias))
		p.tipo = p.tipo.SetOptions(distinctFomentos(msg.items))
		return p.refilter(), nil

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

	case QueryChangedMsg:
		if p.search.Owns(msg) {
			return p.refilter(), nil
		}
		return p, nil

	case DebounceFiredMsg:
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return p, cmd

	case MutationDoneMsg:
		p.mode = modeList
		p.status = msg.Verb
		return p.Reload()

	case MutationFailedMsg:
		p.form = p.form.SetError(msg.Message())
		return p, nil

	case FormSubmitMsg:
		if p.mode == modeForm && p.form.Owns(msg) {
			return p.submitForm()
		}
		return p, nil

	case FormCancelMsg:
		if p.mode == modeForm && p.form.Owns(msg) {
			p.mode = modeList
		}
		return p, nil

	case ConfirmMsg:
		if p.mode != modeConfirm || !p.confirm.Owns(msg) {
			return p, nil
		}
		p.mode = modeList
		if !msg.OK {
			return p, nil
		}
		return p, p.deleteCmd(p.target)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.mode == modeForm {
		var cmd tea.Cmd
		p.form, cmd = p.form.Update(msg)
		return p, cmd
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return p, cmd
}

func (p FundingPage) handleKey(msg tea.KeyMsg) (FundingPage, tea.Cmd) {
	switch p.mode {
	case modeForm:
		var cmd tea.Cmd
		p.form, cmd = p.form.Update(msg)
		return p, cmd
	case modeConfirm:
		var cmd tea.Cmd
		p.confirm, cmd = p.confirm.Update(msg)
		return p, cmd
	}

	if p.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			p.search = p.search.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "/":
		var cmd tea.Cmd
		p.search, cmd = p.search.Focus()
		return p, cmd
	case "a":
		p.agencia = p.agencia.Next()
		return p.refilter(), nil
	case "t":
		p.tipo = p.tipo.Next()
		return p.refilter(), nil
	case "r":
		return p.Reload()
	case "n":
		p.mode = modeForm
		p.formKind = formAward
		p.editing = ""
		p.form = newAwardForm("Novo financiamento", nil, p.agencias)
		return p, nil
	case "e":
		if sel := p.selected(); sel != nil {
			p.mode = modeForm
			p.formKind = formAward
			p.editing = sel.CodigoProcesso
			p.form = newAwardForm("Editar financiamento", sel, p.agencias)
		}
		return p, nil
	case "g":
		p.mode = modeForm
		p.formKind = formAgency
		p.form = NewForm("Nova agência de fomento",
			NewTextField("Sigla", "ex: CNPQ"),
			NewTextField("Nome", ""),
		)
		return p, nil
	case "d":
		if sel := p.selected(); sel != nil {
			p.mode = modeConfirm
			p.target = sel.CodigoProcesso
			p.confirm = NewConfirmDialog(fmt.Sprintf("Excluir financiamento %s?", sel.CodigoProcesso))
		}
		return p, nil
	case "esc":
		if p.search.Query() != "" {
			p.search = p.search.Reset()
			return p.refilter(), nil
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p FundingPage) submitForm() (FundingPage, tea.Cmd) {
	if p.formKind == formAgency {
		return p.submitAgency()
	}
	return p.submitAward()
}

func (p FundingPage) submitAward() (FundingPage, tea.Cmd) {
	valor, err := format.ParseDecimal(p.form.Value(3))
	if err != nil {
		p.form = p.form.SetError("Valor total inválido")
		return p, nil
	}
	payload := api.FinanciamentoCreate{
		CodigoProcesso: p.form.Value(0),
		AgenciaSigla:   p.form.Value(1),
		TipoFomento:    p.form.Value(2),
		ValorTotal:     valor,
		DataInicio:     format.DateToISO(p.form.Value(4)),
		DataFim:        format.DateToISO(p.form.Value(5)),
	}
	if err := payload.Validate(); err != nil {
		p.form = p.form.SetError(err.Error())
		return p, nil
	}

	p.form = p.form.SetBusy()
	client, editing := p.client, p.editing
	return p, func() tea.Msg {
		if editing != "" {
			if err := client.UpdateFinanciamento(context.Background(), editing, payload); err != nil {
				return MutationFailedMsg{Err: err}
			}
			return MutationDoneMsg{Verb: "Financiamento atualizado"}
		}
		if err := client.CreateFinanciamento(context.Background(), payload); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Financiamento criado"}
	}
}

func (p FundingPage) submitAgency() (FundingPage, tea.Cmd) {
	a := api.Agencia{Sigla: p.form.Value(0), Nome: p.form.Value(1)}
	p.form = p.form.SetBusy()
	client := p.client
	return p, func() tea.Msg {
		if err := client.CreateAgencia(context.Background(), a); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Agência criada"}
	}
}

func (p FundingPage) deleteCmd(codigoProcesso string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		if err := client.DeleteFinanciamento(context.Background(), codigoProcesso); err != nil {
			logging.UIError("delete financiamento %s: %v", codigoProcesso, err)
			return LoadFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Financiamento excluído"}
	}
}

func (p FundingPage) refilter() FundingPage {
	p.filtered = listview.Filter(p.items, p.search.Query(),
		func(x api.Financiamento) []string { return []string{x.CodigoProcesso, x.AgenciaSigla} },
		listview.Equals(p.agencia.Selection(), func(x api.Financiamento) string { return x.AgenciaSigla }),
		listview.Equals(p.tipo.Selection(), func(x api.Financiamento) string { return x.TipoFomento }),
	)

	rows := make([]table.Row, len(p.filtered))
	for i, x := range p.filtered {
		vigencia := format.FormatDate(x.DataInicio) + " – " + format.FormatDate(x.DataFim)
		rows[i] = table.Row{x.CodigoProcesso, x.AgenciaSigla, x.TipoFomento, format.FormatCurrency(x.ValorTotal), vigencia}
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(0)
	}
	return p
}

func (p FundingPage) selected() *api.Financiamento {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.filtered) {
		return nil
	}
	return &p.filtered[i]
}

// View renders the page.
func (p FundingPage) View() string {
	s := p.styles
	out := s.Title.Render("Financiamentos") + "\n"
	out += p.search.View(s) + "   " + p.agencia.View(s) + "   " + p.tipo.View(s) + "\n\n"

	switch {
	case p.loading:
		out += p.spin.View() + " " + s.Muted.Render("Carregando financiamentos...")
	case p.loadErr != "":
		out += s.Error.Render(p.loadErr) + "\n" + s.Muted.Render("r recarrega")
	default:
		grand := s.Card.Render(s.Muted.Render("Total geral\n") + s.KPIValue.Render(format.FormatCurrency(p.total)))
		subtotal := listview.SumBy(p.filtered, func(f api.Financiamento) float64 { return f.ValorTotal })
		sub := s.Card.Render(s.Muted.Render("Total filtrado\n") + s.KPIValue.Render(format.FormatCurrency(subtotal)))
		out += joinCards(grand, sub) + "\n\n"

		switch listview.Emptiness(len(p.items), len(p.filtered)) {
		case listview.NothingLoaded:
			out += s.Muted.Render("Nenhum financiamento cadastrado.")
		case listview.FilteredOut:
			out += s.Muted.Render("Nenhum financiamento corresponde aos filtros.")
		default:
			out += p.table.View()
		}
	}

	if p.status != "" {
		out += "\n\n" + s.Success.Render(p.status)
	}
	out += "\n\n" + s.Footer.Render("/ busca · a agência · t fomento · n novo · g nova agência · e editar · d excluir · r recarregar")

	switch p.mode {
	case modeForm:
		out += "\n" + p.form.View(s)
	case modeConfirm:
		out += "\n" + p.confirm.View(s)
	}
	return out
}

func newAwardForm(title string, existing *api.Financiamento, agencias []api.Agencia) Form {
	siglas := agencySiglas(agencias)
	var agencyField Field
	if len(siglas) > 0 {
		agencyField = NewSelectField("Agência", siglas)
	} else {
		agencyField = NewTextField("Agência (sigla)", "cadastre uma agência com g")
	}

	f := NewForm(title,
		NewTextField("Código do processo", ""),
		agencyField,
		NewTextField("Tipo de fomento", "ex: AUXILIO, BOLSA"),
		NewTextField("Valor total", "ex: 50.000,00"),
		NewTextField("Início da vigência", "DD/MM/AAAA"),
		NewTextField("Fim da vigência", "DD/MM/AAAA"),
	)
	if existing != nil {
		f = f.SetValue(0, existing.CodigoProcesso)
		f = f.SetValue(1, existing.AgenciaSigla)
		f = f.SetValue(2, existing.TipoFomento)
		f = f.SetValue(3, format.FormatCurrency(existing.ValorTotal))
		f = f.SetValue(4, format.ISOToDate(existing.DataInicio))
		f = f.SetValue(5, format.ISOToDate(existing.DataFim))
	}
	return f
}

func agencySiglas(agencias []api.Agencia) []string {
	out := make([]string, len(agencias))
	for i, a := range agencias {
		out[i] = a.Sigla
	}
	return out
}

func distinctFomentos(items []api.Financiamento) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range items {
		if f.TipoFomento != "" && !seen[f.TipoFomento] {
			seen[f.TipoFomento] = true
			out = append(out, f.TipoFomento)
		}
	}
	sort.Strings(out)
	return out
}
