// Package login renders the sign-in form.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/theme"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// AuthenticatedMsg reports a successful login. The app installs the session
// from it.
type AuthenticatedMsg struct {
	Token string
	User  api.User
}

// SwitchToRegisterMsg asks the app to show the register form.
type SwitchToRegisterMsg struct{}

type resultMsg struct {
	resp *api.AuthResponse
	err  error
}

// Model is the login form state.
type Model struct {
	Width  int
	Height int

	client *api.Client

	inputs     [fieldCount]textinput.Model
	focus      int
	submitting bool
	errText    string
	spin       spinner.Model
}

// New creates the form with the email field focused.
func New(client *api.Client) Model {
	m := Model{client: client}

	email := textinput.New()
	email.Placeholder = "you@company.com"
	email.Prompt = "  Email    > "
	email.Focus()
	m.inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "  Password > "
	password.EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword] = password

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input and submission.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
			return m, nil
		case "enter":
			return m.submit()
		case "ctrl+r":
			return m, func() tea.Msg { return SwitchToRegisterMsg{} }
		}

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Invalid credentials. Please try again.")
			return m, nil
		}
		return m, func() tea.Msg {
			return AuthenticatedMsg{Token: msg.resp.Token, User: msg.resp.User}
		}

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errText = "Email and password are required."
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		resp, err := client.Login(context.Background(), api.LoginRequest{
			Email:    email,
			Password: password,
		})
		return resultMsg{resp: resp, err: err}
	})
}

// View renders the centered form panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.StyleBrand.Render("Blastline") + "\n")
	b.WriteString(theme.StyleHeader.Render("Welcome back") + "\n")
	b.WriteString(theme.StyleDimmed.Render("Enter your credentials to access your account") + "\n\n")

	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n\n")
	}

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("  " + m.spin.View() + " Signing in...\n")
	} else {
		b.WriteString(theme.StyleDimmed.Render("  enter:sign in  ctrl+r:create account") + "\n")
	}

	panel := theme.StylePanel.Width(56).Render(b.String())
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, panel)
}
