// Package settings renders the provider-credential form: WhatsApp Cloud API
// phone number id, business account id, and access token.
package settings

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
	fieldPhoneID = iota
	fieldWABAID
	fieldAccessToken
	fieldCount
)

type loadedMsg struct {
	settings *api.MetaSettings
	err      error
}

type savedMsg struct{ err error }

type testedMsg struct{ err error }

// Model holds the settings page state.
type Model struct {
	Width int

	client    *api.Client
	inputs    [fieldCount]textinput.Model
	focus     int
	capturing bool
	status    string
	loading   bool
	inFlight  bool
	errText   string
	okText    string
	spin      spinner.Model
}

// New creates the settings page.
func New(client *api.Client) Model {
	m := Model{
		client:    client,
		capturing: true,
		status:    "Checking...",
		loading:   true,
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	mk := func(prompt, placeholder string, echo textinput.EchoMode) textinput.Model {
		ti := textinput.New()
		ti.Prompt = prompt
		ti.Placeholder = placeholder
		ti.EchoMode = echo
		ti.CharLimit = 256
		return ti
	}
	m.inputs[fieldPhoneID] = mk("  Phone number ID > ", "1065...", textinput.EchoNormal)
	m.inputs[fieldWABAID] = mk("  WABA ID         > ", "1042...", textinput.EchoNormal)
	m.inputs[fieldAccessToken] = mk("  Access token    > ", "EAAG...", textinput.EchoPassword)
	m.inputs[fieldPhoneID].Focus()

	return m
}

// Init fetches the stored credentials and channel status.
func (m Model) Init() tea.Cmd {
	client := m.client
	return tea.Batch(m.spin.Tick, textinput.Blink, func() tea.Msg {
		settings, err := client.MetaSettings(context.Background())
		return loadedMsg{settings: settings, err: err}
	})
}

// Update handles the form, save, and test actions.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not load settings.")
			m.status = "unknown"
			return m, nil
		}
		m.inputs[fieldPhoneID].SetValue(msg.settings.PhoneID)
		m.inputs[fieldWABAID].SetValue(msg.settings.WABAID)
		m.inputs[fieldAccessToken].SetValue(msg.settings.AccessToken)
		if msg.settings.Status != "" {
			m.status = msg.settings.Status
		} else {
			m.status = "not configured"
		}
		return m, nil

	case savedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not save settings.")
			return m, nil
		}
		m.errText = ""
		m.okText = "Settings saved."
		return m, nil

	case testedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Connection test failed.")
			m.status = "unreachable"
			return m, nil
		}
		m.errText = ""
		m.okText = "Connection OK."
		m.status = "connected"
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.inFlight {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.inFlight {
			return m, nil
		}
		if !m.capturing {
			switch msg.String() {
			case "i", "enter", "tab":
				// Re-enter the form.
				m.capturing = true
				m.inputs[m.focus].Focus()
				return m, textinput.Blink
			case "ctrl+t":
				return m.test()
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.capturing = false
			m.inputs[m.focus].Blur()
			return m, nil
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
			return m, nil
		case "enter":
			return m.save()
		case "ctrl+t":
			return m.test()
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	return m, nil
}

// Capturing reports whether the form is consuming text input; esc blurs it
// so plain navigation keys reach the app.
func (m Model) Capturing() bool {
	return m.capturing
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m Model) test() (Model, tea.Cmd) {
	m.inFlight = true
	m.okText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return testedMsg{err: client.TestMetaSettings(context.Background())}
	})
}

func (m Model) save() (Model, tea.Cmd) {
	settings := api.MetaSettings{
		PhoneID:     strings.TrimSpace(m.inputs[fieldPhoneID].Value()),
		WABAID:      strings.TrimSpace(m.inputs[fieldWABAID].Value()),
		AccessToken: strings.TrimSpace(m.inputs[fieldAccessToken].Value()),
	}
	if settings.PhoneID == "" || settings.AccessToken == "" {
		m.errText = "Phone number ID and access token are required."
		return m, nil
	}

	m.inFlight = true
	m.errText = ""
	m.okText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return savedMsg{err: client.SaveMetaSettings(context.Background(), settings)}
	})
}

// View renders the credential form and channel status.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("Provider settings") + "\n")
	b.WriteString(theme.StyleDimmed.Render("WhatsApp Cloud API credentials. The token is stored server-side.") + "\n\n")

	if m.loading {
		b.WriteString("  " + m.spin.View() + " Loading...\n")
		return lipgloss.NewStyle().Padding(1, 2).Render(theme.StylePanel.Width(64).Render(b.String()))
	}

	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n\n")
	}
	if m.okText != "" {
		b.WriteString(theme.StyleSuccess.Render("  "+m.okText) + "\n\n")
	}

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	statusStyle := theme.StyleDimmed
	switch m.status {
	case "connected":
		statusStyle = theme.StyleSuccess
	case "unreachable":
		statusStyle = theme.StyleError
	}
	b.WriteString("\n  Channel status: " + statusStyle.Render(m.status) + "\n\n")

	if m.inFlight {
		b.WriteString("  " + m.spin.View() + " Working...\n")
	} else if m.capturing {
		b.WriteString(theme.StyleDimmed.Render("  enter:save  ctrl+t:test connection  esc:leave form") + "\n")
	} else {
		b.WriteString(theme.StyleDimmed.Render("  i:edit  ctrl+t:test connection") + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(theme.StylePanel.Width(64).Render(b.String()))
}
