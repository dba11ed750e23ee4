// Package app wires the session store, the route gate and the page views
// into the root Bubble Tea model. Every navigation and every session change
// runs through the gate; views never decide admission themselves.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/blastline/console/internal/api"
	onbseq "github.com/blastline/console/internal/onboarding"
	"github.com/blastline/console/internal/routes"
	"github.com/blastline/console/internal/session"
	"github.com/blastline/console/internal/theme"
	"github.com/blastline/console/internal/views/campaigns"
	"github.com/blastline/console/internal/views/contacts"
	"github.com/blastline/console/internal/views/dashboard"
	"github.com/blastline/console/internal/views/login"
	onbview "github.com/blastline/console/internal/views/onboarding"
	"github.com/blastline/console/internal/views/register"
	"github.com/blastline/console/internal/views/settings"
	"github.com/blastline/console/internal/views/statusbar"
	"github.com/blastline/console/internal/views/templates"
)

type initDoneMsg struct{ outcome session.InitOutcome }

type loggedOutMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	client *api.Client
	ws     *api.WSClient
	store  *session.Store
	log    zerolog.Logger

	keys   KeyMap
	width  int
	height int

	// Navigation.
	page     routes.Page
	returnTo routes.Page

	// Full-screen views, recreated on each mount.
	login      login.Model
	register   register.Model
	onboarding onbview.Model

	// Main pages, persistent so event-stream updates land while hidden.
	statusBar statusbar.Model
	dashboard dashboard.Model
	campaigns campaigns.Model
	contacts  contacts.Model
	templates templates.Model
	settings  settings.Model

	// Event stream state.
	wsStarted bool
	wsCtx     context.Context
	wsCancel  context.CancelFunc
}

// New creates the root model. The session store must not be initialized yet;
// Init triggers the single credential resolution.
func New(client *api.Client, ws *api.WSClient, store *session.Store, log zerolog.Logger) Model {
	return Model{
		client:    client,
		ws:        ws,
		store:     store,
		log:       log.With().Str("component", "app").Logger(),
		keys:      DefaultKeyMap(),
		page:      routes.PageDashboard,
		statusBar: statusbar.New(),
		dashboard: dashboard.New(client),
		campaigns: campaigns.New(client),
		contacts:  contacts.New(client),
		templates: templates.New(client),
		settings:  settings.New(client),
	}
}

// Init starts the one-time credential resolution.
func (m Model) Init() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return initDoneMsg{outcome: store.Initialize(context.Background())}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.login.Width, m.login.Height = msg.Width, msg.Height
		m.register.Width, m.register.Height = msg.Width, msg.Height
		m.onboarding.Width, m.onboarding.Height = msg.Width, msg.Height
		m.dashboard.Width = msg.Width
		m.campaigns.Width = msg.Width
		m.contacts.Width = msg.Width
		m.templates.Width = msg.Width
		m.settings.Width = msg.Width
		return m, nil

	case initDoneMsg:
		m.log.Info().Int("outcome", int(msg.outcome)).Msg("session initialized")
		var cmds []tea.Cmd
		if msg.outcome == session.InitAuthenticated {
			cmds = append(cmds, m.startStream())
		}
		var nav tea.Cmd
		m, nav = m.navigate(m.page)
		cmds = append(cmds, nav)
		return m, tea.Batch(cmds...)

	case login.AuthenticatedMsg:
		return m.installSession(msg.Token, msg.User)

	case register.AuthenticatedMsg:
		return m.installSession(msg.Token, msg.User)

	case login.SwitchToRegisterMsg:
		return m.navigate(routes.PageRegister)

	case register.SwitchToLoginMsg:
		return m.navigate(routes.PageLogin)

	case onbview.FinishedMsg:
		// Patch the profile; the gate now sends the onboarding page to the
		// dashboard on its own.
		_, user := m.store.Snapshot()
		if user != nil {
			user.OnboardingCompleted = true
			m.store.UpdateUser(user)
		}
		return m.navigate(routes.PageOnboarding)

	case loggedOutMsg:
		if m.wsCancel != nil {
			m.wsCancel()
		}
		m.wsStarted = false
		m.ws.SetToken("")
		m.statusBar.StreamConnected = false
		m.statusBar.UserEmail = ""
		return m.navigate(m.page)

	case api.WSConnectedMsg:
		m.statusBar.StreamConnected = true
		return m, m.readStream()

	case api.WSDisconnectedMsg:
		m.statusBar.StreamConnected = false
		if m.wsStarted {
			return m, m.listenStream()
		}
		return m, nil

	case api.WSCampaignProgressMsg:
		m.campaigns.ApplyProgress(msg.Payload)
		return m, m.readStream()

	case api.WSTemplateStatusMsg:
		m.templates.ApplyStatus(msg.Payload)
		return m, m.readStream()

	case api.WSChannelStatusMsg:
		m.statusBar.ChannelConnected = msg.Payload.Connected
		return m, m.readStream()

	case api.WSErrorMsg:
		m.log.Warn().RawJSON("payload", msg.Raw).Msg("event stream error")
		return m, m.readStream()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.broadcast(msg)
}

// installSession runs after a successful login or registration.
func (m Model) installSession(token string, user api.User) (tea.Model, tea.Cmd) {
	if err := m.store.Login(token, &user); err != nil {
		m.log.Error().Err(err).Msg("session install failed")
	}

	target := routes.PageDashboard
	if m.returnTo != "" {
		target = m.returnTo
		m.returnTo = ""
	}

	stream := m.startStream()
	var nav tea.Cmd
	m, nav = m.navigate(target)
	return m, tea.Batch(stream, nav)
}

// startStream connects the event stream once per signed-in session.
func (m *Model) startStream() tea.Cmd {
	if m.wsStarted {
		return nil
	}
	m.wsStarted = true
	m.ws.SetToken(m.client.Token())
	ctx, cancel := context.WithCancel(context.Background())
	m.wsCancel = cancel
	m.wsCtx = ctx
	return m.ws.Listen(ctx)
}

func (m Model) listenStream() tea.Cmd {
	return m.ws.Listen(m.wsCtx)
}

func (m Model) readStream() tea.Cmd {
	return m.ws.ReadLoop(m.wsCtx)
}

// navigate runs the requested page through the gate and mounts the result.
func (m Model) navigate(requested routes.Page) (Model, tea.Cmd) {
	loading, user := m.store.Snapshot()
	decision := routes.Decide(loading, user, requested)

	switch decision.Verdict {
	case routes.VerdictWait:
		// Keep the request; initDoneMsg re-navigates when loading ends.
		m.page = requested
		return m, nil

	case routes.VerdictRedirect:
		if decision.Target == routes.PageLogin {
			m.returnTo = decision.ReturnTo
		}
		return m.mount(decision.Target, user)

	default:
		return m.mount(requested, user)
	}
}

// mount activates a page. Full-screen views are recreated so their state
// (wizard progress included) never survives a remount.
func (m Model) mount(page routes.Page, user *api.User) (Model, tea.Cmd) {
	m.page = page
	m.statusBar.ActivePage = page
	if user != nil {
		m.statusBar.UserEmail = user.Email
	}

	switch page {
	case routes.PageLogin:
		m.login = login.New(m.client)
		m.login.Width, m.login.Height = m.width, m.height
		return m, m.login.Init()

	case routes.PageRegister:
		m.register = register.New(m.client)
		m.register.Width, m.register.Height = m.width, m.height
		return m, m.register.Init()

	case routes.PageOnboarding:
		seq := onbseq.New(m.log)
		m.onboarding = onbview.New(m.client, seq)
		m.onboarding.Width, m.onboarding.Height = m.width, m.height
		return m, m.onboarding.Init()

	case routes.PageDashboard:
		return m, m.dashboard.Init()

	case routes.PageCampaigns:
		return m, m.campaigns.Init()

	case routes.PageContacts:
		return m, m.contacts.Init()

	case routes.PageTemplates:
		return m, m.templates.Init()

	case routes.PageSettings:
		return m, m.settings.Init()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		if m.wsCancel != nil {
			m.wsCancel()
		}
		return m, tea.Quit
	}

	// Full-screen pages own the keyboard.
	switch m.page {
	case routes.PageLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	case routes.PageRegister:
		var cmd tea.Cmd
		m.register, cmd = m.register.Update(msg)
		return m, cmd
	case routes.PageOnboarding:
		var cmd tea.Cmd
		m.onboarding, cmd = m.onboarding.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Logout) {
		store := m.store
		return m, func() tea.Msg {
			store.Logout(context.Background())
			return loggedOutMsg{}
		}
	}

	if !m.capturing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.wsCancel != nil {
				m.wsCancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dashboard):
			return m.navigate(routes.PageDashboard)
		case key.Matches(msg, m.keys.Campaigns):
			return m.navigate(routes.PageCampaigns)
		case key.Matches(msg, m.keys.Contacts):
			return m.navigate(routes.PageContacts)
		case key.Matches(msg, m.keys.Templates):
			return m.navigate(routes.PageTemplates)
		case key.Matches(msg, m.keys.Settings):
			return m.navigate(routes.PageSettings)
		}
	}

	return m.updateActive(msg)
}

// capturing reports whether the active page is consuming text input, in
// which case plain navigation keys must pass through to it.
func (m Model) capturing() bool {
	switch m.page {
	case routes.PageCampaigns:
		return m.campaigns.Capturing()
	case routes.PageContacts:
		return m.contacts.Capturing()
	case routes.PageSettings:
		return m.settings.Capturing()
	default:
		return false
	}
}

// updateActive delegates a message to the active main page only.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case routes.PageDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case routes.PageCampaigns:
		m.campaigns, cmd = m.campaigns.Update(msg)
	case routes.PageContacts:
		m.contacts, cmd = m.contacts.Update(msg)
	case routes.PageTemplates:
		m.templates, cmd = m.templates.Update(msg)
	case routes.PageSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

// broadcast fans a non-key message out to every view that might own it.
// Result and spinner messages are typed per package, so the wrong views
// ignore them.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch m.page {
	case routes.PageLogin:
		m.login, cmd = m.login.Update(msg)
		cmds = append(cmds, cmd)
	case routes.PageRegister:
		m.register, cmd = m.register.Update(msg)
		cmds = append(cmds, cmd)
	case routes.PageOnboarding:
		m.onboarding, cmd = m.onboarding.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.dashboard, cmd = m.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	m.campaigns, cmd = m.campaigns.Update(msg)
	cmds = append(cmds, cmd)
	m.contacts, cmd = m.contacts.Update(msg)
	cmds = append(cmds, cmd)
	m.templates, cmd = m.templates.Update(msg)
	cmds = append(cmds, cmd)
	m.settings, cmd = m.settings.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the active page.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	loading, _ := m.store.Snapshot()
	if loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.StyleDimmed.Render("Checking session..."))
	}

	switch m.page {
	case routes.PageLogin:
		return m.login.View()
	case routes.PageRegister:
		return m.register.View()
	case routes.PageOnboarding:
		return m.onboarding.View()
	}

	var content string
	switch m.page {
	case routes.PageDashboard:
		content = m.dashboard.View()
	case routes.PageCampaigns:
		content = m.campaigns.View()
	case routes.PageContacts:
		content = m.contacts.View()
	case routes.PageTemplates:
		content = m.templates.View()
	case routes.PageSettings:
		content = m.settings.View()
	}

	help := theme.StyleDimmed.Render("  1-5:pages  ctrl+o:sign out  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(),
		content,
		help,
	)
}
