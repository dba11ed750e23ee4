// Package contacts renders the audience list and the add-contact form.
package contacts

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/theme"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

const (
	fieldName = iota
	fieldPhone
	fieldTags
	fieldCount
)

type loadedMsg struct {
	contacts []api.Contact
	err      error
}

type addedMsg struct {
	contact *api.Contact
	err     error
}

type removedMsg struct {
	id  string
	err error
}

// Model holds the contacts page state.
type Model struct {
	Width int

	client   *api.Client
	mode     mode
	contacts []api.Contact
	tbl      table.Model
	inputs   [fieldCount]textinput.Model
	focus    int
	loading  bool
	inFlight bool
	errText  string
	spin     spinner.Model
}

// New creates the contacts page.
func New(client *api.Client) Model {
	m := Model{
		client:  client,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	m.tbl = table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 22},
			{Title: "Phone", Width: 16},
			{Title: "Tags", Width: 24},
			{Title: "Status", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	mk := func(prompt, placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = prompt
		ti.Placeholder = placeholder
		return ti
	}
	m.inputs[fieldName] = mk("  Name  > ", "Jane Smith")
	m.inputs[fieldPhone] = mk("  Phone > ", "+14155550123")
	m.inputs[fieldTags] = mk("  Tags  > ", "vip, retail (comma separated)")

	return m
}

// Init fetches the contact list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		contacts, err := client.Contacts(context.Background())
		return loadedMsg{contacts: contacts, err: err}
	}
}

// Capturing reports whether the add form is consuming text input.
func (m Model) Capturing() bool {
	return m.mode == modeAdd
}

// Update handles list navigation, adding and removing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not load contacts.")
			return m, nil
		}
		m.errText = ""
		m.contacts = msg.contacts
		m.refreshRows()
		return m, nil

	case addedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not add contact.")
			return m, nil
		}
		m.contacts = append([]api.Contact{*msg.contact}, m.contacts...)
		m.refreshRows()
		m.mode = modeList
		return m, nil

	case removedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not delete contact.")
			return m, nil
		}
		kept := m.contacts[:0]
		for _, c := range m.contacts {
			if c.ID != msg.id {
				kept = append(kept, c)
			}
		}
		m.contacts = kept
		m.refreshRows()
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.inFlight {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.handleAddKey(msg)
		}
		return m.handleListKey(msg)
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.mode = modeAdd
		m.focus = fieldName
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		m.inputs[fieldName].Focus()
		m.errText = ""
		return m, textinput.Blink

	case "x":
		if m.inFlight {
			return m, nil
		}
		cursor := m.tbl.Cursor()
		if cursor < 0 || cursor >= len(m.contacts) {
			return m, nil
		}
		id := m.contacts[cursor].ID
		m.inFlight = true
		client := m.client
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return removedMsg{id: id, err: client.DeleteContact(context.Background(), id)}
		})

	case "r":
		m.loading = true
		return m, tea.Batch(m.load(), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, nil
	case "enter":
		return m.submitAdd()
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

func (m Model) submitAdd() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	phone := strings.TrimSpace(m.inputs[fieldPhone].Value())
	if name == "" || phone == "" {
		m.errText = "Name and phone are required."
		return m, nil
	}

	contact := api.Contact{
		Name:  name,
		Phone: phone,
		Tags:  parseTags(m.inputs[fieldTags].Value()),
	}

	m.inFlight = true
	m.errText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		created, err := client.CreateContact(context.Background(), contact)
		return addedMsg{contact: created, err: err}
	})
}

// parseTags splits a comma-separated tag list, dropping empties.
func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.contacts))
	for _, c := range m.contacts {
		rows = append(rows, table.Row{c.Name, c.Phone, strings.Join(c.Tags, ", "), string(c.Status)})
	}
	m.tbl.SetRows(rows)
}

// View renders the list or the add form.
func (m Model) View() string {
	if m.mode == modeAdd {
		return m.viewAdd()
	}

	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("  Contacts") + "\n")
	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n")
	}
	if m.loading {
		b.WriteString("  " + m.spin.View() + " Loading contacts...\n")
		return b.String()
	}
	if len(m.contacts) == 0 {
		b.WriteString(theme.StyleDimmed.Render("  No contacts yet. Press n to add one.") + "\n")
	} else {
		b.WriteString(m.tbl.View() + "\n")
	}
	b.WriteString(theme.StyleDimmed.Render("  n:add  x:delete  r:refresh"))
	return b.String()
}

func (m Model) viewAdd() string {
	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("Add contact") + "\n\n")
	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n\n")
	}
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.inFlight {
		b.WriteString("  " + m.spin.View() + " Saving...\n")
	} else {
		b.WriteString(theme.StyleDimmed.Render("  enter:save  esc:cancel") + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(theme.StylePanel.Width(64).Render(b.String()))
}
