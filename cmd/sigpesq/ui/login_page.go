package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"sigpesq/internal/api"
	"sigpesq/internal/session"
)

// AuthenticatedMsg tells the app a login or registration succeeded; it
// switches to the dashboard and kicks off its load.
type AuthenticatedMsg struct{}

type loginResultMsg struct {
	ok  bool
	msg string
}

// LoginPage is the entry screen shown to anonymous sessions: a login form,
// switchable to the registration form.
type LoginPage struct {
	manager *session.Manager
	styles  Styles

	form        Form
	registering bool
	notice      string
}

// NewLoginPage builds the page showing the login form.
func NewLoginPage(manager *session.Manager, styles Styles) LoginPage {
	p := LoginPage{manager: manager, styles: styles}
	p.form = newLoginForm()
	return p
}

// Notice shows a message above the form, e.g. after a forced logout.
func (p LoginPage) Notice(text string) LoginPage {
	p.notice = text
	return p
}

func newLoginForm() Form {
	return NewForm("Entrar no SIGPesq",
		NewTextField("Email", ""),
		NewPasswordField("Senha"),
	)
}

func newRegisterForm() Form {
	tipos := make([]string, len(api.TiposParticipante))
	for i, t := range api.TiposParticipante {
		tipos[i] = string(t)
	}
	return NewForm("Criar conta",
		NewTextField("CPF", "somente dígitos"),
		NewTextField("Nome", ""),
		NewTextField("Email", ""),
		NewSelectField("Tipo", tipos),
		NewPasswordField("Senha"),
	)
}

// Update implements the page's event loop.
func (p LoginPage) Update(msg tea.Msg) (LoginPage, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.ok {
			return p, func() tea.Msg { return AuthenticatedMsg{} }
		}
		p.form = p.form.SetError(msg.msg)
		return p, nil

	case FormSubmitMsg:
		if !p.form.Owns(msg) {
			return p, nil
		}
		return p.submit()

	case FormCancelMsg:
		if p.form.Owns(msg) && p.registering {
			// esc backs out of registration into the login form.
			p.registering = false
			p.form = newLoginForm()
		}
		return p, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+r" && !p.form.Busy() {
			p.registering = !p.registering
			if p.registering {
				p.form = newRegisterForm()
			} else {
				p.form = newLoginForm()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.form, cmd = p.form.Update(msg)
	return p, cmd
}

func (p LoginPage) submit() (LoginPage, tea.Cmd) {
	manager := p.manager

	if p.registering {
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
		return p, func() tea.Msg {
			ok, msg := manager.Register(context.Background(), payload)
			return loginResultMsg{ok: ok, msg: msg}
		}
	}

	email, senha := p.form.Value(0), p.form.Value(1)
	if email == "" || senha == "" {
		p.form = p.form.SetError("Informe email e senha")
		return p, nil
	}
	p.form = p.form.SetBusy()
	return p, func() tea.Msg {
		ok, msg := manager.Login(context.Background(), email, senha)
		return loginResultMsg{ok: ok, msg: msg}
	}
}

// View renders the page.
func (p LoginPage) View() string {
	s := p.styles
	out := s.Title.Render("SIGPesq · Sistema de Gestão de Pesquisa") + "\n"
	if p.notice != "" {
		out += s.Warning.Render(p.notice) + "\n"
	}
	out += "\n" + p.form.View(s) + "\n"
	if p.registering {
		out += s.Muted.Render("ctrl+r volta ao login")
	} else {
		out += s.Muted.Render("ctrl+r cria uma conta")
	}
	return out
}
