package ui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"sigpesq/internal/api"
	"sigpesq/internal/listview"
	"sigpesq/internal/logging"
)

// producoesMsg carries the page's parallel load: the production list plus
// the projects the form offers as linkage candidates.
type producoesMsg struct {
	items    []api.Producao
	projetos []api.Projeto
}

// semVinculo is the selector option for a production without a project.
const semVinculo = "(nenhum)"

// ProductionsPage lists scientific productions filtered by text, type and
// publication year, and hosts the production form with its ordered byline.
type ProductionsPage struct {
	client *api.Client
	styles Styles

	search SearchBar
	tipo   Selector
	ano    Selector
	table  table.Model
	spin   spinner.Model

	items    []api.Producao
	filtered []api.Producao
	projetos []api.Projeto

	mode    pageMode
	form    Form
	confirm ConfirmDialog
	editing string
	target  string

	loading bool
	loadErr string
	status  string
}

// NewProductionsPage builds the page; Reload must run before first render.
func NewProductionsPage(client *api.Client, styles Styles, debounce time.Duration) ProductionsPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Registro", Width: 18},
			{Title: "Título", Width: 36},
			{Title: "Tipo", Width: 12},
			{Title: "Ano", Width: 6},
			{Title: "Projeto", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return ProductionsPage{
		client: client,
		styles: styles,
		search: NewSearchBar("buscar por título ou registro", debounce),
		tipo:   NewSelector("Tipo", "Todos", nil),
		ano:    NewSelector("Ano", "Todos", nil),
		table:  t,
		spin:   sp,
	}
}

// Reload fetches the production list and the project candidates in
// parallel. One failure fails the whole load; filtering afterwards is
// client-side.
func (p ProductionsPage) Reload() (ProductionsPage, tea.Cmd) {
	p.loading = true
	p.loadErr = ""
	client := p.client
	load := func() tea.Msg {
		var msg producoesMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			items, err := client.ListProducoes(ctx, "", "", 0)
			msg.items = items
			return err
		})
		g.Go(func() error {
			projetos, err := client.ListProjetos(ctx, "", "")
			msg.projetos = projetos
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
func (p ProductionsPage) Update(msg tea.Msg) (ProductionsPage, tea.Cmd) {
	switch msg := msg.(type) {
	case producoesMsg:
		p.loading = false
		p.items = msg.items
		p.projetos = msg.projetos
		p.tipo = p.tipo.SetOptions(distinctTipos(msg.items))
		p.ano = p.ano.SetOptions(distinctAnos(msg.items))
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

func (p ProductionsPage) handleKey(msg tea.KeyMsg) (ProductionsPage, tea.Cmd) {
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
	case "t":
		p.tipo = p.tipo.Next()
		return p.refilter(), nil
	case "a":
		p.ano = p.ano.Next()
		return p.refilter(), nil
	case "r":
		return p.Reload()
	case "n":
		p.mode = modeForm
		p.editing = ""
		p.form = newProductionForm("Nova produção", nil, p.projetos)
		return p, nil
	case "e":
		if sel := p.selected(); sel != nil {
			p.mode = modeForm
			p.editing = sel.IDRegistro
			p.form = newProductionForm("Editar produção", sel, p.projetos)
		}
		return p, nil
	case "d":
		if sel := p.selected(); sel != nil {
			p.mode = modeConfirm
			p.target = sel.IDRegistro
			p.confirm = NewConfirmDialog(fmt.Sprintf("Excluir produção %q?", sel.Titulo))
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

func (p ProductionsPage) submitForm() (ProductionsPage, tea.Cmd) {
	ano, err := strconv.Atoi(strings.TrimSpace(p.form.Value(4)))
	if err != nil {
		p.form = p.form.SetError("Ano de publicação inválido")
		return p, nil
	}

	projetoCodigo := p.form.Value(3)
	if projetoCodigo == semVinculo {
		projetoCodigo = ""
	}

	payload := api.ProducaoCreate{
		IDRegistro:     p.form.Value(0),
		Titulo:         p.form.Value(1),
		Tipo:           p.form.Value(2),
		ProjetoCodigo:  projetoCodigo,
		AnoPublicacao:  ano,
		MeioDivulgacao: p.form.Value(5),
		Autores:        parseAutores(p.form.Value(6)),
	}
	if err := payload.Validate(); err != nil {
		p.form = p.form.SetError(err.Error())
		return p, nil
	}

	p.form = p.form.SetBusy()
	client, editing := p.client, p.editing
	return p, func() tea.Msg {
		if editing != "" {
			if err := client.UpdateProducao(context.Background(), editing, payload); err != nil {
				return MutationFailedMsg{Err: err}
			}
			return MutationDoneMsg{Verb: "Produção atualizada"}
		}
		if err := client.CreateProducao(context.Background(), payload); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Produção criada"}
	}
}

func (p ProductionsPage) deleteCmd(idRegistro string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		if err := client.DeleteProducao(context.Background(), idRegistro); err != nil {
			logging.UIError("delete producao %s: %v", idRegistro, err)
			return LoadFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Produção excluída"}
	}
}

func (p ProductionsPage) refilter() ProductionsPage {
	p.filtered = listview.Filter(p.items, p.search.Query(),
		func(x api.Producao) []string { return []string{x.Titulo, x.IDRegistro, x.ProjetoTitulo} },
		listview.Equals(p.tipo.Selection(), func(x api.Producao) string { return x.Tipo }),
		listview.Equals(p.ano.Selection(), func(x api.Producao) string { return strconv.Itoa(x.AnoPublicacao) }),
	)

	rows := make([]table.Row, len(p.filtered))
	for i, x := range p.filtered {
		rows[i] = table.Row{x.IDRegistro, x.Titulo, x.Tipo, strconv.Itoa(x.AnoPublicacao), x.ProjetoCodigo}
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(0)
	}
	return p
}

func (p ProductionsPage) selected() *api.Producao {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.filtered) {
		return nil
	}
	return &p.filtered[i]
}

// View renders the page.
func (p ProductionsPage) View() string {
	s := p.styles
	out := s.Title.Render("Produções científicas") + "\n"
	out += p.search.View(s) + "   " + p.tipo.View(s) + "   " + p.ano.View(s) + "\n\n"

	switch {
	case p.loading:
		out += p.spin.View() + " " + s.Muted.Render("Carregando produções...")
	case p.loadErr != "":
		out += s.Error.Render(p.loadErr) + "\n" + s.Muted.Render("r recarrega")
	default:
		switch listview.Emptiness(len(p.items), len(p.filtered)) {
		case listview.NothingLoaded:
			out += s.Muted.Render("Nenhuma produção cadastrada.")
		case listview.FilteredOut:
			out += s.Muted.Render("Nenhuma produção corresponde aos filtros.")
		default:
			out += p.table.View()
		}
	}

	if p.status != "" {
		out += "\n\n" + s.Success.Render(p.status)
	}
	out += "\n\n" + s.Footer.Render("/ busca · t tipo · a ano · n nova · e editar · d excluir · r recarregar")

	switch p.mode {
	case modeForm:
		out += "\n" + p.form.View(s)
	case modeConfirm:
		out += "\n" + p.confirm.View(s)
	}
	return out
}

func newProductionForm(title string, existing *api.Producao, projetos []api.Projeto) Form {
	// Linking to a project is optional, so the selector leads with the
	// no-project option.
	var projetoField Field
	if len(projetos) > 0 {
		projetoField = NewSelectField("Projeto", projetoCodigoOptions(projetos))
	} else {
		projetoField = NewTextField("Projeto (código)", "(opcional)")
	}

	f := NewForm(title,
		NewTextField("ID de registro", "DOI, ISBN..."),
		NewTextField("Título", ""),
		NewTextField("Tipo", "ex: ARTIGO, LIVRO"),
		projetoField,
		NewTextField("Ano de publicação", "ex: 2024"),
		NewTextField("Meio de divulgação", "(opcional)"),
		NewTextField("Autores", "CPFs em ordem, separados por vírgula"),
	)
	if existing != nil {
		f = f.SetValue(0, existing.IDRegistro)
		f = f.SetValue(1, existing.Titulo)
		f = f.SetValue(2, existing.Tipo)
		f = f.SetValue(3, existing.ProjetoCodigo)
		f = f.SetValue(4, strconv.Itoa(existing.AnoPublicacao))
		f = f.SetValue(5, existing.MeioDivulgacao)
	}
	return f
}

func projetoCodigoOptions(projetos []api.Projeto) []string {
	out := make([]string, 0, len(projetos)+1)
	out = append(out, semVinculo)
	for _, pr := range projetos {
		out = append(out, pr.Codigo)
	}
	return out
}

// parseAutores turns "cpf1, cpf2, cpf3" into the ordered byline. The byline
// is rearranged by editing the order in the field.
func parseAutores(s string) []api.AutorProducao {
	var out []api.AutorProducao
	for _, part := range strings.Split(s, ",") {
		cpf := strings.TrimSpace(part)
		if cpf == "" {
			continue
		}
		out = append(out, api.AutorProducao{ParticipanteCPF: cpf, Ordem: len(out) + 1})
	}
	return out
}

func distinctTipos(items []api.Producao) []string {
	seen := make(map[string]bool)
	var out []string
	for _, x := range items {
		if x.Tipo != "" && !seen[x.Tipo] {
			seen[x.Tipo] = true
			out = append(out, x.Tipo)
		}
	}
	sort.Strings(out)
	return out
}

func distinctAnos(items []api.Producao) []string {
	seen := make(map[int]bool)
	var anos []int
	for _, x := range items {
		if x.AnoPublicacao > 0 && !seen[x.AnoPublicacao] {
			seen[x.AnoPublicacao] = true
			anos = append(anos, x.AnoPublicacao)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(anos)))
	out := make([]string, len(anos))
	for i, a := range anos {
		out[i] = strconv.Itoa(a)
	}
	return out
}
