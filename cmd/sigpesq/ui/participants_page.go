package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"sigpesq/internal/api"
	"sigpesq/internal/listview"
	"sigpesq/internal/logging"
)

type pageMode int

const (
	modeList pageMode = iota
	modeForm
	modeConfirm
)

type participantesMsg struct {
	items []api.Participante
}

// ParticipantsPage lists, filters and edits participant records.
type ParticipantsPage struct {
	client *api.Client
	styles Styles

	search SearchBar
	tipo   Selector
	table  table.Model
	spin   spinner.Model

	items    []api.Participante
	filtered []api.Participante

	mode    pageMode
	form    Form
	confirm ConfirmDialog
	editing string // CPF of the record being edited, empty when creating
	target  string // CPF pending deletion

	loading bool
	loadErr string
	status  string
}

// NewParticipantsPage builds the page; Reload must run before first render.
func NewParticipantsPage(client *api.Client, styles Styles, debounce time.Duration) ParticipantsPage {
	tipos := make([]string, len(api.TiposParticipante))
	for i, t := range api.TiposParticipante {
		tipos[i] = string(t)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "CPF", Width: 13},
			{Title: "Nome", Width: 32},
			{Title: "Email", Width: 28},
			{Title: "Tipo", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return ParticipantsPage{
		client: client,
		styles: styles,
		search: NewSearchBar("buscar por nome, email ou CPF", debounce),
		tipo:   NewSelector("Tipo", "Todos", tipos),
		table:  t,
		spin:   sp,
	}
}

// Reload fetches the full list; filtering afterwards is client-side.
func (p ParticipantsPage) Reload() (ParticipantsPage, tea.Cmd) {
	p.loading = true
	p.loadErr = ""
	client := p.client
	load := func() tea.Msg {
		items, err := client.ListParticipantes(context.Background(), "", "")
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		return participantesMsg{items: items}
	}
	return p, tea.Batch(load, p.spin.Tick)
}

// Update implements the page's event loop.
func (p ParticipantsPage) Update(msg tea.Msg) (ParticipantsPage, tea.Cmd) {
	switch msg := msg.(type) {
	case participantesMsg:
		p.loading = false
		p.items = msg.items
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

func (p ParticipantsPage) handleKey(msg tea.KeyMsg) (ParticipantsPage, tea.Cmd) {
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
	case "r":
		return p.Reload()
	case "n":
		p.mode = modeForm
		p.editing = ""
		p.form = newParticipantForm("Novo participante", nil)
		return p, nil
	case "e":
		if sel := p.selected(); sel != nil {
			p.mode = modeForm
			p.editing = sel.CPF
			p.form = newParticipantForm("Editar participante", sel)
		}
		return p, nil
	case "d":
		if sel := p.selected(); sel != nil {
			p.mode = modeConfirm
			p.target = sel.CPF
			p.confirm = NewConfirmDialog(fmt.Sprintf("Excluir participante %s?", sel.Nome))
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

func (p ParticipantsPage) submitForm() (ParticipantsPage, tea.Cmd) {
	payload := api.ParticipanteCreate{
		CPF:   p.form.Value(0),
		Nome:  p.form.Value(1),
		Email: p.form.Value(2),
		Tipo:  api.TipoParticipante(p.form.Value(3)),
		Senha: p.form.Value(4),
	}
	if err := payload.Validate(); err != nil {
		p.form = p.form.SetError(err.Error())
		return p, nil
	}

	p.form = p.form.SetBusy()
	client, editing := p.client, p.editing
	return p, func() tea.Msg {
		if editing != "" {
			if err := client.UpdateParticipante(context.Background(), editing, payload); err != nil {
				return MutationFailedMsg{Err: err}
			}
			return MutationDoneMsg{Verb: "Participante atualizado"}
		}
		if err := client.CreateParticipante(context.Background(), payload); err != nil {
			return MutationFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Participante criado"}
	}
}

func (p ParticipantsPage) deleteCmd(cpf string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		if err := client.DeleteParticipante(context.Background(), cpf); err != nil {
			logging.UIError("delete participante %s: %v", cpf, err)
			return LoadFailedMsg{Err: err}
		}
		return MutationDoneMsg{Verb: "Participante excluído"}
	}
}

func (p ParticipantsPage) refilter() ParticipantsPage {
	p.filtered = listview.Filter(p.items, p.search.Query(),
		func(x api.Participante) []string { return []string{x.Nome, x.Email, x.CPF} },
		listview.Equals(p.tipo.Selection(), func(x api.Participante) string { return string(x.Tipo) }),
	)

	rows := make([]table.Row, len(p.filtered))
	for i, x := range p.filtered {
		rows[i] = table.Row{x.CPF, x.Nome, x.Email, string(x.Tipo)}
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(0)
	}
	return p
}

func (p ParticipantsPage) selected() *api.Participante {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.filtered) {
		return nil
	}
	return &p.filtered[i]
}

// View renders the page.
func (p ParticipantsPage) View() string {
	s := p.styles
	out := s.Title.Render("Participantes") + "\n"
	out += p.search.View(s) + "   " + p.tipo.View(s) + "\n\n"

	switch {
	case p.loading:
		out += p.spin.View() + " " + s.Muted.Render("Carregando participantes...")
	case p.loadErr != "":
		out += s.Error.Render(p.loadErr) + "\n" + s.Muted.Render("r recarrega")
	default:
		switch listview.Emptiness(len(p.items), len(p.filtered)) {
		case listview.NothingLoaded:
			out += s.Muted.Render("Nenhum participante cadastrado.")
		case listview.FilteredOut:
			out += s.Muted.Render("Nenhum participante corresponde aos filtros.")
		default:
			out += p.table.View()
		}
	}

	if p.status != "" {
		out += "\n\n" + s.Success.Render(p.status)
	}
	out += "\n\n" + s.Footer.Render("/ busca · t tipo · n novo · e editar · d excluir · r recarregar")

	switch p.mode {
	case modeForm:
		out += "\n" + p.form.View(s)
	case modeConfirm:
		out += "\n" + p.confirm.View(s)
	}
	return out
}

func newParticipantForm(title string, existing *api.Participante) Form {
	tipos := make([]string, len(api.TiposParticipante))
	for i, t := range api.TiposParticipante {
		tipos[i] = string(t)
	}
	f := NewForm(title,
		NewTextField("CPF", "somente dígitos"),
		NewTextField("Nome", ""),
		NewTextField("Email", ""),
		NewSelectField("Tipo", tipos),
		NewPasswordField("Senha"),
	)
	if existing != nil {
		f = f.SetValue(0, existing.CPF)
		f = f.SetValue(1, existing.Nome)
		f = f.SetValue(2, existing.Email)
		f = f.SetValue(3, string(existing.Tipo))
	}
	return f
}
