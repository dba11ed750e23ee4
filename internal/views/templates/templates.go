// Package templates renders the message-template library: provider sync,
// review status, and a markdown preview of the selected body.
package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/theme"
)

const previewWidth = 48

type loadedMsg struct {
	templates []api.Template
	err       error
}

type syncedMsg struct {
	templates []api.Template
	err       error
}

// Model holds the templates page state.
type Model struct {
	Width int

	client    *api.Client
	templates []api.Template
	cursor    int
	preview   bool
	loading   bool
	syncing   bool
	errText   string
	spin      spinner.Model
}

// New creates the templates page.
func New(client *api.Client) Model {
	return Model{
		client:  client,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init fetches the template list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		templates, err := client.Templates(context.Background())
		return loadedMsg{templates: templates, err: err}
	}
}

// ApplyStatus patches a provider review decision pushed over the event
// stream.
func (m *Model) ApplyStatus(p api.TemplateStatusPayload) {
	for i := range m.templates {
		if m.templates[i].ID == p.TemplateID {
			m.templates[i].Status = p.Status
			break
		}
	}
}

// Update handles navigation, sync, and preview toggling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not load templates.")
			return m, nil
		}
		m.errText = ""
		m.templates = msg.templates
		m.clampCursor()
		return m, nil

	case syncedMsg:
		m.syncing = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Template sync failed.")
			return m, nil
		}
		m.errText = ""
		m.templates = msg.templates
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.syncing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.templates)-1 {
				m.cursor++
			}
		case "enter":
			m.preview = !m.preview
		case "esc":
			m.preview = false
		case "s":
			if m.syncing {
				return m, nil
			}
			m.syncing = true
			m.errText = ""
			client := m.client
			return m, tea.Batch(m.spin.Tick, func() tea.Msg {
				templates, err := client.SyncTemplates(context.Background())
				return syncedMsg{templates: templates, err: err}
			})
		case "r":
			m.loading = true
			return m, tea.Batch(m.load(), m.spin.Tick)
		}
	}

	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.templates) {
		m.cursor = len(m.templates) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the list, optionally joined with the preview pane.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("  Templates") + "\n")
	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n")
	}
	if m.loading {
		b.WriteString("  " + m.spin.View() + " Loading templates...\n")
		return b.String()
	}

	list := m.renderList()
	if m.preview && len(m.templates) > 0 {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, m.renderPreview(m.templates[m.cursor]))
	}
	b.WriteString(list + "\n")

	if m.syncing {
		b.WriteString("  " + m.spin.View() + " Syncing with provider...\n")
	}
	b.WriteString(theme.StyleDimmed.Render("  enter:preview  s:sync  r:refresh"))
	return b.String()
}

func (m Model) renderList() string {
	if len(m.templates) == 0 {
		return theme.StyleDimmed.Render("  No templates. Press s to sync from the provider.")
	}

	lines := make([]string, 0, len(m.templates))
	for i, t := range m.templates {
		prefix := "  "
		nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBright)
		if i == m.cursor {
			prefix = "> "
			nameStyle = nameStyle.Bold(true)
		}
		status := lipgloss.NewStyle().
			Foreground(theme.TemplateColor(string(t.Status))).
			Render(string(t.Status))
		meta := theme.StyleDimmed.Render(fmt.Sprintf("%s · %s", t.Category, t.Language))
		lines = append(lines, fmt.Sprintf("%s%s  %s  %s",
			prefix, nameStyle.Width(24).Render(t.Name), status, meta))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderPreview renders the template body as markdown. WhatsApp formatting
// is close enough to markdown for a faithful preview.
func (m Model) renderPreview(t api.Template) string {
	rendered, err := glamour.Render(t.Body, "dark")
	if err != nil {
		rendered = t.Body
	}
	return theme.StylePanel.Width(previewWidth).Render(
		theme.StyleHeader.Render(t.Name) + "\n" + strings.TrimRight(rendered, "\n"))
}
