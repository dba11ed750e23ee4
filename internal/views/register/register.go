// Package register renders the account-creation form.
package register

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
	fieldName = iota
	fieldBusiness
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

// AuthenticatedMsg reports a successful registration. The app installs the
// session from it; new accounts always route to onboarding.
type AuthenticatedMsg struct {
	Token string
	User  api.User
}

// SwitchToLoginMsg asks the app to show the login form.
type SwitchToLoginMsg struct{}

type resultMsg struct {
	resp *api.AuthResponse
	err  error
}

// Model is the register form state.
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

// New creates the form with the name field focused.
func New(client *api.Client) Model {
	m := Model{client: client}

	mk := func(prompt, placeholder string, echo textinput.EchoMode) textinput.Model {
		ti := textinput.New()
		ti.Prompt = prompt
		ti.Placeholder = placeholder
		ti.EchoMode = echo
		return ti
	}

	m.inputs[fieldName] = mk("  Full name > ", "Ada Lovelace", textinput.EchoNormal)
	m.inputs[fieldBusiness] = mk("  Business  > ", "Acme Retail", textinput.EchoNormal)
	m.inputs[fieldEmail] = mk("  Email     > ", "you@company.com", textinput.EchoNormal)
	m.inputs[fieldPassword] = mk("  Password  > ", "password", textinput.EchoPassword)
	m.inputs[fieldConfirm] = mk("  Confirm   > ", "repeat password", textinput.EchoPassword)
	m.inputs[fieldName].Focus()

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
			return m, func() tea.Msg { return SwitchToLoginMsg{} }
		}

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Registration failed. Please try again.")
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
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	business := strings.TrimSpace(m.inputs[fieldBusiness].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	confirm := m.inputs[fieldConfirm].Value()

	switch {
	case name == "" || email == "" || password == "":
		m.errText = "Name, email and password are required."
		return m, nil
	case password != confirm:
		m.errText = "Passwords do not match."
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		resp, err := client.Register(context.Background(), api.RegisterRequest{
			Name:                 name,
			Email:                email,
			Password:             password,
			PasswordConfirmation: confirm,
			BusinessName:         business,
		})
		return resultMsg{resp: resp, err: err}
	})
}

// View renders the centered form panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.StyleBrand.Render("Blastline") + "\n")
	b.WriteString(theme.StyleHeader.Render("Create an account") + "\n")
	b.WriteString(theme.StyleDimmed.Render("Start your 14-day free trial. No credit card required.") + "\n\n")

	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n\n")
	}

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("  " + m.spin.View() + " Creating account...\n")
	} else {
		b.WriteString(theme.StyleDimmed.Render("  enter:create  ctrl+r:sign in instead") + "\n")
	}

	panel := theme.StylePanel.Width(56).Render(b.String())
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, panel)
}
