package ui

import (
	"context"
	"fmt"
	"strings"
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

// projetosMsg carries the page's parallel load: the project list plus the
// DOCENTE participants the form offers as coordinator candidates.
type projetosMsg struct {
	items         []api.Projeto
	coordenadores []api.Participante
}

type projetoDetailMsg struct {
	detail *api.ProjetoDetail
}

// memberCandidatesMsg opens the member-link form once the candidate
// participants are fetched.
type memberCandidatesMsg struct {
	participantes []api.Participante
}

// fundingCandidatesMsg opens the funding-link form once the candidate
// awards are fetched.
type fundingCandidatesMsg struct {
	financiamentos []api.Financiamento
}

// projectFormKind tells submitForm which payload the open form builds.
type projectFormKind int

const (
	formProject projectFormKind = iota
	formMember
	formFunding
)

// ProjectsPage lists projects, opens a per-project detail view with members
// and funding allocations, and hosts the forms that link them.
type ProjectsPage struct {
	client *api.Client
	styles Styles

	search   SearchBar
	situacao Selector
	table    table.Model
	spin     spinner.Model

	items         []api.Projeto
	filtered      []api.Projeto
	coordenadores []api.Participante

	detail *api.ProjetoDetail

	mode     pageMode
	formKind projectFormKind
	form     Form
	confirm  ConfirmDialog
	editing  string
	target   string

	loading bool
	loadErr string
	status  string
}

// NewProjectsPage builds the page; Reload must run before first render.
func NewProjectsPage(client *api.Client, styles Styles, debounce time.Duration) ProjectsPage {
	situacoes := make([]string, len(api.SituacoesProjeto))
	for i, s := range api.SituacoesProjeto {
		situacoes[i] = string(s)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Código", Width: 12},
			{Title: "Título", Width: 38},
			{Title: "Situação", Width: 14},
			{Title: "Início", Width: 12},
			{Title: "Coordenador", Width: 22},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return ProjectsPage{
		client:   client,
		styles:   styles,
		search:   NewSearchBar("buscar por título, código ou coordenador", debounce),
		situacao: NewSelector("Situação", "Todas", situacoes),
		table:    t,
		spin:     sp,
	}
}

// Reload fetches the project list and the coordinator candidates in
// parallel. One failure fails the whole load; filtering afterwards is
// client-side.
func (p ProjectsPage) Reload() (ProjectsPage, tea.Cmd) {
	p.loading = true
	p.loadErr = ""
	client := p.client
	load := func() tea.Msg {
		var msg projetosMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			items, err := client.ListProjetos(ctx, "", "")
			msg.items = items
			return err
		})
		g.Go(func() error {
			docentes, err := client.ListParticipantes(ctx, "", api.TipoDocente)
			msg.coordenadores = docentes
			return err
		})
		if err := g.Wait(); err != nil {
			return LoadFailedMsg{Err: err}
		}
		return msg
	}
	return p, tea.Batch(load, p.spin.Tick)
}

func (p ProjectsPage) loadDetail(codigo string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		d, err := client.GetProjetoDetalhes(context.Background(), codigo)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		return projetoDetailMsg{detail: d}
	}
}

// Update implements the page's event loop.
func (p ProjectsPage) Update(msg tea.Msg) (ProjectsPage, tea.Cmd) {
	switch msg := msg.(type) {
	case projetosMsg:
		p.loading = false
		p.items = msg.items
		p.coordenadores = msg.coordenadores
		return p.refilter(), nil

	case projetoDetailMsg:
		p.loading = false
		p.detail = msg.detail
		return p, nil

	case memberCandidatesMsg:
		p.loading = false
		if p.detail == nil {
			return p, nil
		}
		if len(msg.participantes) == 0 {
			p.loadErr = "Nenhum participante cadastrado para vincular."
			return p, nil
		}
		p.mode = modeForm
		p.formKind = formMember
		p.form = NewForm("Adicionar participante ao projeto",
			NewSelectField("Participante", participantOptions(msg.participantes)),
			NewTextField("Função", "ex: pesquisador"),
		)
		return p, nil

	case fundingCandidatesMsg:
		p.loading = false
		if p.detail == nil {
			return p, nil
		}
		if len(msg.financiamentos) == 0 {
			p.loadErr = "Nenhum financiamento cadastrado para alocar."
			return p, nil
		}
		p.mode = modeForm
		p.formKind = formFunding
		options := make([]string, len(msg.financiamentos))
		for i, x := range msg.financiamentos {
			options[i] = x.CodigoProcesso
		}
		p.form = NewForm("Alocar financiamento ao projeto",
			NewSelectField("Processo", options),
			NewTextField("Valor alocado", "ex: 10.000,00"),
			NewTextField("Início da alocação", "DD/MM/AAAA (opcional)"),
			NewTextField("Fim da alocação", "DD/MM/AAAA (opcional)"),
		)
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
		if p.detail != nil {
			// A link was added from the detail view; refresh it in place.
			p.loading = true
			return p, tea.Batch(p.loadDetail(p.detail.Codigo), p.spin.Tick)
		}
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

func (p ProjectsPage) handleKey(msg tea.KeyMsg) (ProjectsPage, tea.Cmd) {
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

	if p.detail != nil {
		return p.handleDetailKey(msg)
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
	case "s":
		p.situacao = p.situacao.Next()
		return p.refilter(), nil
	case "r":
		return p.Reload()
	case "enter":
		if sel := p.selected(); sel != nil {
			p.loading = true
			p.loadErr = ""
			return p, tea.Batch(p.loadDetail(sel.Codigo), p.spin.Tick)
		}
		return p, nil
	case "n":
		p.mode = modeForm
		p.formKind = formProject
		p.editing = ""
		p.form = newProjectForm("Novo projeto", nil, p.coordenadores)
		return p, nil
	case "e":
		if sel := p.selected(); sel != nil {
			p.mode = modeForm
			p.formKind = formProject
			p.editing = sel.Codigo
			p.form = newProjectForm("Editar projeto", sel, p.coordenadores)
		}
		return p, nil
	case "d":
		if sel := p.selected(); sel != nil {
			p.mode = modeConfirm
			p.target = sel.Codigo
			p.confirm = NewConfirmDialog(fmt.Sprintf("Excluir projeto %s?", sel.Codigo))
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

func (p ProjectsPage) handleDetailKey(msg tea.KeyMsg) (ProjectsPage, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		p.detail = nil
		return p.Reload()
	case "p":
		// The candidate set comes from the server before the form opens.
		p.loading = true
		client := p.client
		return p, tea.Batch(func() tea.Msg {
			items, err := client.ListParticipantes(context.Background(), "", "")
			if err != nil {
				return LoadFailedMsg{Err: err}
			}
			return memberCandidatesMsg{participantes: items}
		}, p.spin.Tick)
	case "f":
		p.loading = true
		client := p.client
		return p, tea.Batch(func() tea.Msg {
			items, err := client.ListFinanciamentos(context.Background(), "", "")
			if err != nil {
				return LoadFailedMsg{Err: err}
			}
			return fundingCandidatesMsg{financiamentos: items}
		}, p.spin.Tick)
	case "r":
		p.loading = true
		return p, tea.Batch(p.loadDetail(p.detail.Codigo), p.spin.Tick)
	}
	return p, nil
}

func (p ProjectsPage) submitForm() (ProjectsPage, tea.Cmd) {
	switch p.formKind {
	case formMember:
		return p.submitMemberLink()
	case formFunding:
		return p.submitFundingLink()
	}
	return p.submitProject()
}

func (p ProjectsPage) submitProject() (ProjectsPage, tea.Cmd) {
	// The coordinator option is "CPF · Nome"; the CPF is the first token.
	cpf, _, _ := strings.Cut(p.form.Value(6), " ")
	payload := api.ProjetoCreate{
		Codigo:         p.form.Value(0),
		Titulo:         p.form.Value(1),
		Descricao:      p.form.Value(2),
		DataInicio:     format.DateToISO(p.form.Value(3)),
		DataTermino:    format.DateToISO(p.form.Value(4)),
		Situacao:       api.SituacaoProjeto(p.form.Value(5)),
		CoordenadorCPF: cpf,
	}
	if err := payload.Validate(); err != nil {
		p.form = p.form.SetError(err.Error())
		return p, nil
	}

	p.form = p.form.SetBusy()
	client, editing := p.client, p.editing
	return p, func() tea.Msg {
		if editing != "" {
			if err := client.UpdateProjeto(context.Background(), editing, payload); err != nil {
				return MutationFailedMsg{Err: err}
			}
			return MutationDoneMsg{Verb: "Projeto atualizado"}
		}
		if err := client.CreateProjeto(context.Background(), payload); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Projeto criado"}
	}
}

func (p ProjectsPage) submitMemberLink() (ProjectsPage, tea.Cmd) {
	// The selector option is "CPF · Nome"; the CPF is the first token.
	cpf, _, _ := strings.Cut(p.form.Value(0), " ")
	link := api.ProjetoParticipanteLink{
		ParticipanteCPF: cpf,
		Funcao:          p.form.Value(1),
	}
	if err := link.Validate(); err != nil {
		p.form = p.form.SetError(err.Error())
		return p, nil
	}

	p.form = p.form.SetBusy()
	client, codigo := p.client, p.detail.Codigo
	return p, func() tea.Msg {
		if err := client.AddProjetoParticipante(context.Background(), codigo, link); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Participante vinculado"}
	}
}

func (p ProjectsPage) submitFundingLink() (ProjectsPage, tea.Cmd) {
	valor, err := format.ParseDecimal(p.form.Value(1))
	if err != nil {
		p.form = p.form.SetError("Valor alocado inválido")
		return p, nil
	}
	link := api.ProjetoFinanciamentoLink{
		CodigoProcesso: p.form.Value(0),
		ValorAlocado:   valor,
		DataInicio:     format.DateToISO(p.form.Value(2)),
		DataFim:        format.DateToISO(p.form.Value(3)),
	}
	if err := link.Validate(); err != nil {
		p.form = p.form.SetError(err.Error())
		return p, nil
	}

	p.form = p.form.SetBusy()
	client, codigo := p.client, p.detail.Codigo
	return p, func() tea.Msg {
		if err := client.AddProjetoFinanciamento(context.Background(), codigo, link); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Financiamento alocado"}
	}
}

func (p ProjectsPage) deleteCmd(codigo string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		if err := client.DeleteProjeto(context.Background(), codigo); err != nil {
			logging.UIError("delete projeto %s: %v", codigo, err)
			return LoadFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Projeto excluído"}
	}
}

func (p ProjectsPage) refilter() ProjectsPage {
	p.filtered = listview.Filter(p.items, p.search.Query(),
		func(x api.Projeto) []string { return []string{x.Titulo, x.Codigo, x.CoordenadorNome} },
		listview.Equals(p.situacao.Selection(), func(x api.Projeto) string { return string(x.Situacao) }),
	)

	rows := make([]table.Row, len(p.filtered))
	for i, x := range p.filtered {
		coord := x.CoordenadorNome
		if coord == "" {
			coord = x.CoordenadorCPF
		}
		rows[i] = table.Row{x.Codigo, x.Titulo, situacaoLabel(x.Situacao), format.FormatDate(x.DataInicio), coord}
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(0)
	}
	return p
}

func (p ProjectsPage) selected() *api.Projeto {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.filtered) {
		return nil
	}
	return &p.filtered[i]
}

// View renders either the list or the detail view.
func (p ProjectsPage) View() string {
	if p.detail != nil {
		return p.viewDetail()
	}

	s := p.styles
	out := s.Title.Render("Projetos") + "\n"
	out += p.search.View(s) + "   " + p.situacao.View(s) + "\n\n"

	switch {
	case p.loading:
		out += p.spin.View() + " " + s.Muted.Render("Carregando projetos...")
	case p.loadErr != "":
		out += s.Error.Render(p.loadErr) + "\n" + s.Muted.Render("r recarrega")
	default:
		switch listview.Emptiness(len(p.items), len(p.filtered)) {
		case listview.NothingLoaded:
			out += s.Muted.Render("Nenhum projeto cadastrado.")
		case listview.FilteredOut:
			out += s.Muted.Render("Nenhum projeto corresponde aos filtros.")
		default:
			out += p.table.View()
		}
	}

	if p.status != "" {
		out += "\n\n" + s.Success.Render(p.status)
	}
	out += "\n\n" + s.Footer.Render("/ busca · s situação · enter detalhes · n novo · e editar · d excluir · r recarregar")

	switch p.mode {
	case modeForm:
		out += "\n" + p.form.View(s)
	case modeConfirm:
		out += "\n" + p.confirm.View(s)
	}
	return out
}

func (p ProjectsPage) viewDetail() string {
	s := p.styles
	d := p.detail

	out := s.Title.Render(d.Codigo+" · "+d.Titulo) + "\n"
	out += s.Badge.Render(situacaoLabel(d.Situacao)) + "  " +
		s.Muted.Render(format.FormatDate(d.DataInicio)+" – "+orDash(format.FormatDate(d.DataTermino))) + "\n"
	if d.Descricao != "" {
		out += s.Body.Render(d.Descricao) + "\n"
	}
	out += "\n"

	members := NewSimpleTable("Participantes", []string{"Nome", "CPF", "Função"})
	members.Empty = "Nenhum participante vinculado."
	for _, m := range d.Participantes {
		members.AddRow(m.Nome, m.CPF, m.Funcao)
	}
	out += members.View(s)

	funding := NewSimpleTable("Financiamentos", []string{"Processo", "Agência", "Valor alocado", "Vigência"})
	funding.Empty = "Nenhum financiamento alocado."
	total := listview.SumBy(d.Financiamentos, func(f api.FinanciamentoAlocado) float64 { return f.ValorAlocado })
	for _, f := range d.Financiamentos {
		vigencia := orDash(format.FormatDate(f.DataInicio)) + " – " + orDash(format.FormatDate(f.DataFim))
		funding.AddRow(f.CodigoProcesso, f.AgenciaSigla, format.FormatCurrency(f.ValorAlocado), vigencia)
	}
	out += funding.View(s)
	if len(d.Financiamentos) > 0 {
		out += s.Bold.Render("Total alocado: ") + s.KPIValue.Render(format.FormatCurrency(total)) + "\n"
	}

	if p.loading {
		out += "\n" + p.spin.View() + " " + s.Muted.Render("Atualizando...")
	}
	if p.loadErr != "" {
		out += "\n" + s.Error.Render(p.loadErr)
	}
	if p.status != "" {
		out += "\n" + s.Success.Render(p.status)
	}
	out += "\n" + s.Footer.Render("p vincular participante · f alocar financiamento · r atualizar · esc voltar")

	switch p.mode {
	case modeForm:
		out += "\n" + p.form.View(s)
	case modeConfirm:
		out += "\n" + p.confirm.View(s)
	}
	return out
}

func newProjectForm(title string, existing *api.Projeto, coordenadores []api.Participante) Form {
	situacoes := make([]string, len(api.SituacoesProjeto))
	for i, s := range api.SituacoesProjeto {
		situacoes[i] = string(s)
	}

	var coordField Field
	if len(coordenadores) > 0 {
		coordField = NewSelectField("Coordenador", participantOptions(coordenadores))
	} else {
		coordField = NewTextField("CPF do coordenador", "somente dígitos")
	}

	f := NewForm(title,
		NewTextField("Código", "até 20 caracteres"),
		NewTextField("Título", ""),
		NewTextField("Descrição", "(opcional)"),
		NewTextField("Data de início", "DD/MM/AAAA"),
		NewTextField("Data de término", "DD/MM/AAAA (opcional)"),
		NewSelectField("Situação", situacoes),
		coordField,
	)
	if existing != nil {
		f = f.SetValue(0, existing.Codigo)
		f = f.SetValue(1, existing.Titulo)
		f = f.SetValue(2, existing.Descricao)
		f = f.SetValue(3, format.ISOToDate(existing.DataInicio))
		f = f.SetValue(4, format.ISOToDate(existing.DataTermino))
		f = f.SetValue(5, string(existing.Situacao))
		f = f.SetValue(6, coordenadorOption(existing.CoordenadorCPF, coordenadores))
	}
	return f
}

// participantOptions renders participants as "CPF · Nome" selector options.
func participantOptions(ps []api.Participante) []string {
	out := make([]string, len(ps))
	for i, x := range ps {
		out[i] = x.CPF + " · " + x.Nome
	}
	return out
}

// coordenadorOption finds the selector option matching a CPF; the bare CPF
// covers the free-text fallback and coordinators no longer listed.
func coordenadorOption(cpf string, coordenadores []api.Participante) string {
	for _, c := range coordenadores {
		if c.CPF == cpf {
			return c.CPF + " · " + c.Nome
		}
	}
	return cpf
}

// situacaoLabel renders the status enum the way the UI spells it.
func situacaoLabel(s api.SituacaoProjeto) string {
	switch s {
	case api.SituacaoEmAndamento:
		return "Em andamento"
	case api.SituacaoConcluido:
		return "Concluído"
	case api.SituacaoCancelado:
		return "Cancelado"
	}
	return string(s)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
