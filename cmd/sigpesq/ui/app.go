package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sigpesq/internal/api"
	"sigpesq/internal/logging"
	"sigpesq/internal/session"
)

// page identifies the main screens reachable from the tab bar.
type page int

const (
	pageDashboard page = iota
	pageParticipants
	pageProjects
	pageFunding
	pageProductions
	pageConsultas
	pageCount
)

func (p page) label() string {
	switch p {
	case pageParticipants:
		return "Participantes"
	case pageProjects:
		return "Projetos"
	case pageFunding:
		return "Financiamentos"
	case pageProductions:
		return "Produções"
	case pageConsultas:
		return "Consultas"
	default:
		return "Painel"
	}
}

// sessionReadyMsg signals that the persisted session was read from disk.
type sessionReadyMsg struct{}

// App is the root model: it initializes the session, gates the main pages
// behind authentication, routes messages to the active page, and drops to
// the login screen when the session expires.
type App struct {
	manager *session.Manager
	styles  Styles
	expired <-chan struct{}

	active page
	authed bool
	ready  bool

	login        LoginPage
	dashboard    DashboardPage
	participants ParticipantsPage
	projects     ProjectsPage
	funding      FundingPage
	productions  ProductionsPage
	consultas    ConsultasPage

	width  int
	height int
}

// NewApp wires the pages over one API client and session manager. The
// expired channel is signalled by the HTTP client's unauthorized policy.
func NewApp(client *api.Client, manager *session.Manager, styles Styles, debounce time.Duration, expired <-chan struct{}) App {
	return App{
		manager:      manager,
		styles:       styles,
		expired:      expired,
		login:        NewLoginPage(manager, styles),
		dashboard:    NewDashboardPage(client, styles),
		participants: NewParticipantsPage(client, styles, debounce),
		projects:     NewProjectsPage(client, styles, debounce),
		funding:      NewFundingPage(client, styles, debounce),
		productions:  NewProductionsPage(client, styles, debounce),
		consultas:    NewConsultasPage(client, styles),
	}
}

// Init restores the session and starts listening for forced logouts.
func (a App) Init() tea.Cmd {
	manager := a.manager
	restore := func() tea.Msg {
		manager.Initialize()
		return sessionReadyMsg{}
	}
	return tea.Batch(restore, waitExpired(a.expired))
}

// waitExpired blocks on the policy channel and surfaces the expiry as a
// message. Re-armed after every delivery.
func waitExpired(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return SessionExpiredMsg{}
	}
}

// Update implements the root event loop.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case sessionReadyMsg:
		a.ready = true
		if a.manager.Authenticated() {
			a.authed = true
			a.active = pageDashboard
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.Reload()
			return a, cmd
		}
		return a, nil

	case SessionExpiredMsg:
		logging.UI("session expired, dropping to login")
		a.authed = false
		a.login = NewLoginPage(a.manager, a.styles).Notice("Sua sessão expirou. Faça login novamente.")
		return a, waitExpired(a.expired)

	case AuthenticatedMsg:
		a.authed = true
		a.active = pageDashboard
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Reload()
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.ready {
			return a, nil
		}
		if !a.authed {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		if !a.capturing() {
			switch msg.String() {
			case "1", "2", "3", "4", "5", "6":
				return a.switchTo(page(int(msg.String()[0] - '1')))
			case "q":
				return a, tea.Quit
			case "ctrl+l":
				a.manager.Logout()
				a.authed = false
				a.login = NewLoginPage(a.manager, a.styles)
				return a, nil
			}
		}
		return a.routeToActive(msg)
	}

	if !a.authed {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}
	return a.routeToActive(msg)
}

// switchTo changes the active page and refreshes it, so navigation always
// shows server-fresh data.
func (a App) switchTo(p page) (tea.Model, tea.Cmd) {
	if p < 0 || p >= pageCount {
		return a, nil
	}
	a.active = p
	var cmd tea.Cmd
	switch p {
	case pageDashboard:
		a.dashboard, cmd = a.dashboard.Reload()
	case pageParticipants:
		a.participants, cmd = a.participants.Reload()
	case pageProjects:
		a.projects, cmd = a.projects.Reload()
	case pageFunding:
		a.funding, cmd = a.funding.Reload()
	case pageProductions:
		a.productions, cmd = a.productions.Reload()
	case pageConsultas:
		a.consultas, cmd = a.consultas.Reload()
	}
	return a, cmd
}

func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case pageDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case pageParticipants:
		a.participants, cmd = a.participants.Update(msg)
	case pageProjects:
		a.projects, cmd = a.projects.Update(msg)
	case pageFunding:
		a.funding, cmd = a.funding.Update(msg)
	case pageProductions:
		a.productions, cmd = a.productions.Update(msg)
	case pageConsultas:
		a.consultas, cmd = a.consultas.Update(msg)
	}
	return a, cmd
}

// capturing reports whether the active page owns raw keystrokes (an open
// form, confirm dialog or focused search), in which case global navigation
// keys are suspended.
func (a App) capturing() bool {
	switch a.active {
	case pageParticipants:
		return a.participants.mode != modeList || a.participants.search.Focused()
	case pageProjects:
		return a.projects.mode != modeList || a.projects.search.Focused()
	case pageFunding:
		return a.funding.mode != modeList || a.funding.search.Focused()
	case pageProductions:
		return a.productions.mode != modeList || a.productions.search.Focused()
	}
	return false
}

// View renders the chrome and the active page.
func (a App) View() string {
	s := a.styles

	if !a.ready {
		return s.Content.Render(s.Muted.Render("Restaurando sessão..."))
	}
	if !a.authed {
		return s.Content.Render(a.login.View())
	}

	header := ""
	for p := page(0); p < pageCount; p++ {
		label := " " + p.label() + " "
		if p == a.active {
			header += s.Badge.Render(label)
		} else {
			header += s.Muted.Render(label)
		}
		header += " "
	}
	if u := a.manager.CurrentUser(); u != nil {
		header += "  " + s.Subtitle.Render(u.Name)
	}

	var body string
	switch a.active {
	case pageDashboard:
		body = a.dashboard.View()
	case pageParticipants:
		body = a.participants.View()
	case pageProjects:
		body = a.projects.View()
	case pageFunding:
		body = a.funding.View()
	case pageProductions:
		body = a.productions.View()
	case pageConsultas:
		body = a.consultas.View()
	}

	footer := s.Footer.Render("1-6 páginas · ctrl+l sair da conta · q sai")
	return s.Content.Render(header + "\n\n" + body + "\n" + footer)
}
