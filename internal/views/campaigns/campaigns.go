// Package campaigns renders the campaign list, the create/edit form, and
// live delivery progress pushed over the event stream.
package campaigns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/theme"
)

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
)

const (
	fieldName = iota
	fieldMessage
	fieldImage
	fieldCount
)

type loadedMsg struct {
	campaigns []api.Campaign
	err       error
}

type createdMsg struct {
	campaign *api.Campaign
	draftID  string
	err      error
}

type updatedMsg struct {
	campaign *api.Campaign
	err      error
}

type deletedMsg struct {
	id  string
	err error
}

// Model holds the campaigns page state.
type Model struct {
	Width int

	client    *api.Client
	mode      mode
	editingID string
	campaigns []api.Campaign
	tbl       table.Model
	inputs    [fieldCount]textinput.Model
	focus     int
	loading   bool
	inFlight  bool
	errText   string
	spin      spinner.Model
}

// New creates the campaigns page.
func New(client *api.Client) Model {
	m := Model{
		client:  client,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	m.tbl = table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Status", Width: 10},
			{Title: "Progress", Width: 18},
			{Title: "Date", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	name := textinput.New()
	name.Prompt = "  Name    > "
	name.Placeholder = "Spring Sale Blast"
	m.inputs[fieldName] = name

	message := textinput.New()
	message.Prompt = "  Message > "
	message.Placeholder = "Hi {{name}}, our spring sale is live!"
	message.CharLimit = 1024
	m.inputs[fieldMessage] = message

	image := textinput.New()
	image.Prompt = "  Image   > "
	image.Placeholder = "https://... (optional)"
	image.CharLimit = 512
	m.inputs[fieldImage] = image

	return m
}

// Init fetches the campaign list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		campaigns, err := client.Campaigns(context.Background())
		return loadedMsg{campaigns: campaigns, err: err}
	}
}

// ApplyProgress patches live delivery counters for one campaign. The app
// forwards event-stream updates here regardless of the active page so the
// list is current when the user returns to it.
func (m *Model) ApplyProgress(p api.CampaignProgressPayload) {
	for i := range m.campaigns {
		if m.campaigns[i].ID == p.CampaignID {
			m.campaigns[i].Sent = p.Sent
			m.campaigns[i].Total = p.Total
			m.campaigns[i].Status = p.Status
			break
		}
	}
	m.refreshRows()
}

// Capturing reports whether the create/edit form is consuming text input.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Update handles list navigation, creation, editing, and deletion.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not load campaigns.")
			return m, nil
		}
		m.errText = ""
		m.campaigns = msg.campaigns
		m.refreshRows()
		return m, nil

	case createdMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not create campaign.")
			return m, nil
		}
		// Replace the local draft with the stored record.
		for i := range m.campaigns {
			if m.campaigns[i].ID == msg.draftID {
				m.campaigns[i] = *msg.campaign
				break
			}
		}
		m.refreshRows()
		m.mode = modeList
		return m, nil

	case updatedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not update campaign.")
			return m, nil
		}
		for i := range m.campaigns {
			if m.campaigns[i].ID == msg.campaign.ID {
				m.campaigns[i] = *msg.campaign
				break
			}
		}
		m.refreshRows()
		m.mode = modeList
		m.editingID = ""
		return m, nil

	case deletedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not delete campaign.")
			return m, nil
		}
		kept := m.campaigns[:0]
		for _, c := range m.campaigns {
			if c.ID != msg.id {
				kept = append(kept, c)
			}
		}
		m.campaigns = kept
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
		if m.mode != modeList {
			return m.handleFormKey(msg)
		}
		return m.handleListKey(msg)
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.mode = modeCreate
		m.openForm(api.Campaign{})
		return m, textinput.Blink

	case "e":
		cursor := m.tbl.Cursor()
		if cursor < 0 || cursor >= len(m.campaigns) {
			return m, nil
		}
		c := m.campaigns[cursor]
		if c.Status == api.CampaignSent {
			m.errText = "Sent campaigns cannot be edited."
			return m, nil
		}
		m.mode = modeEdit
		m.editingID = c.ID
		m.openForm(c)
		return m, textinput.Blink

	case "x":
		if m.inFlight {
			return m, nil
		}
		id := m.selectedID()
		if id == "" {
			return m, nil
		}
		m.inFlight = true
		client := m.client
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return deletedMsg{id: id, err: client.DeleteCampaign(context.Background(), id)}
		})

	case "r":
		m.loading = true
		return m, tea.Batch(m.load(), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// openForm resets the shared form with the given campaign's fields.
func (m *Model) openForm(c api.Campaign) {
	m.focus = fieldName
	m.inputs[fieldName].SetValue(c.Name)
	m.inputs[fieldMessage].SetValue(c.Message)
	m.inputs[fieldImage].SetValue(c.Image)
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[fieldName].Focus()
	m.errText = ""
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.editingID = ""
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, nil
	case "enter":
		if m.mode == modeEdit {
			return m.submitEdit()
		}
		return m.submitCreate()
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

func (m Model) submitCreate() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	if name == "" {
		m.errText = "Campaign name is required."
		return m, nil
	}

	// Show the draft immediately under a local id; the created record
	// replaces it when the backend answers.
	draft := api.Campaign{
		ID:      uuid.NewString(),
		Name:    name,
		Status:  api.CampaignDraft,
		Message: strings.TrimSpace(m.inputs[fieldMessage].Value()),
		Image:   strings.TrimSpace(m.inputs[fieldImage].Value()),
		Date:    time.Now().Format("2006-01-02"),
	}
	m.campaigns = append([]api.Campaign{draft}, m.campaigns...)
	m.refreshRows()

	m.inFlight = true
	m.errText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		created, err := client.CreateCampaign(context.Background(), draft)
		return createdMsg{campaign: created, draftID: draft.ID, err: err}
	})
}

func (m Model) submitEdit() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	if name == "" {
		m.errText = "Campaign name is required."
		return m, nil
	}

	var edited api.Campaign
	for _, c := range m.campaigns {
		if c.ID == m.editingID {
			edited = c
			break
		}
	}
	if edited.ID == "" {
		m.mode = modeList
		return m, nil
	}
	edited.Name = name
	edited.Message = strings.TrimSpace(m.inputs[fieldMessage].Value())
	edited.Image = strings.TrimSpace(m.inputs[fieldImage].Value())

	m.inFlight = true
	m.errText = ""
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		updated, err := client.UpdateCampaign(context.Background(), edited)
		return updatedMsg{campaign: updated, err: err}
	})
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		rows = append(rows, table.Row{c.Name, string(c.Status), progressCell(c), c.Date})
	}
	m.tbl.SetRows(rows)
}

func (m Model) selectedID() string {
	cursor := m.tbl.Cursor()
	if cursor < 0 || cursor >= len(m.campaigns) {
		return ""
	}
	return m.campaigns[cursor].ID
}

func progressCell(c api.Campaign) string {
	if c.Total == 0 {
		return "—"
	}
	return fmt.Sprintf("%d/%d (%d%%)", c.Sent, c.Total, c.Sent*100/c.Total)
}

// View renders the list or the create/edit form.
func (m Model) View() string {
	if m.mode != modeList {
		return m.viewForm()
	}

	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("  Campaigns") + "\n")
	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n")
	}
	if m.loading {
		b.WriteString("  " + m.spin.View() + " Loading campaigns...\n")
		return b.String()
	}
	if len(m.campaigns) == 0 {
		b.WriteString(theme.StyleDimmed.Render("  No campaigns yet. Press n to create one.") + "\n")
	} else {
		b.WriteString(m.tbl.View() + "\n")
	}
	b.WriteString(theme.StyleDimmed.Render("  n:new  e:edit  x:delete  r:refresh"))
	return b.String()
}

func (m Model) viewForm() string {
	title, action, working := "New campaign", "create", "Creating..."
	if m.mode == modeEdit {
		title, action, working = "Edit campaign", "save", "Saving..."
	}

	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render(title) + "\n\n")
	if m.errText != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.errText) + "\n\n")
	}
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.inFlight {
		b.WriteString("  " + m.spin.View() + " " + working + "\n")
	} else {
		b.WriteString(theme.StyleDimmed.Render("  enter:"+action+"  esc:cancel") + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(theme.StylePanel.Width(64).Render(b.String()))
}
